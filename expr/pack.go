package expr

import (
	"strings"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/encoding"
)

// PackField is one named field of a Pack expression.
type PackField struct {
	Name  string
	Value Expr
}

// Pack builds a non-nullable struct out of named field expressions,
// evaluated against the same scope.
type Pack struct {
	Fields []PackField
}

// NewPack returns a Pack expression building a struct with the given
// fields, in order.
func NewPack(fields []PackField) Expr { return Pack{Fields: fields} }

func (p Pack) ReturnDType(scopeDType dtype.DType) (dtype.DType, error) {
	fields := make([]dtype.Field, len(p.Fields))
	for i, f := range p.Fields {
		dt, err := f.Value.ReturnDType(scopeDType)
		if err != nil {
			return dtype.DType{}, err
		}
		fields[i] = dtype.Field{Name: f.Name, DType: dt}
	}

	return dtype.Struct(fields, false), nil
}

func (p Pack) Evaluate(scope array.Array) (array.Array, error) {
	fields := make([]dtype.Field, len(p.Fields))
	children := make([]array.Array, len(p.Fields))
	for i, f := range p.Fields {
		child, err := f.Value.Evaluate(scope)
		if err != nil {
			return array.Array{}, err
		}
		fields[i] = dtype.Field{Name: f.Name, DType: child.DType}
		children[i] = child
	}

	return encoding.NewStruct(fields, children, false, array.NonNullable())
}

func (p Pack) Children() []Expr {
	out := make([]Expr, len(p.Fields))
	for i, f := range p.Fields {
		out[i] = f.Value
	}

	return out
}

func (p Pack) ReplacingChildren(children []Expr) Expr {
	out := make([]PackField, len(p.Fields))
	for i, f := range p.Fields {
		out[i] = PackField{Name: f.Name, Value: children[i]}
	}

	return Pack{Fields: out}
}

func (p Pack) String() string {
	names := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		names[i] = f.Name + ": " + f.Value.String()
	}

	return "{" + strings.Join(names, ", ") + "}"
}
