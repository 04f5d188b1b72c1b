package expr

import (
	"strings"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/errs"
)

// Merge combines zero or more struct-typed expressions into one struct.
// Fields are collected in order of first appearance; a field name repeated
// by a later value replaces the earlier one rather than being merged
// recursively. Grounded on original_source/vortex-expr's Merge node.
type Merge struct {
	Values []Expr
}

// NewMerge returns a Merge expression over values, which must all evaluate
// to non-nullable structs.
func NewMerge(values []Expr) Expr { return Merge{Values: values} }

func (m Merge) ReturnDType(scopeDType dtype.DType) (dtype.DType, error) {
	var names []string
	var fields []dtype.DType

	for _, v := range m.Values {
		dt, err := v.ReturnDType(scopeDType)
		if err != nil {
			return dtype.DType{}, err
		}
		if dt.Kind != dtype.KindStruct {
			return dtype.DType{}, errs.New(errs.KindMismatchedTypes, "expr: merge expects struct input, got %s", dt)
		}

		for _, f := range dt.Fields {
			if idx := indexOfName(names, f.Name); idx >= 0 {
				fields[idx] = f.DType
			} else {
				names = append(names, f.Name)
				fields = append(fields, f.DType)
			}
		}
	}

	outFields := make([]dtype.Field, len(names))
	for i, n := range names {
		outFields[i] = dtype.Field{Name: n, DType: fields[i]}
	}

	return dtype.Struct(outFields, false), nil
}

func (m Merge) Evaluate(scope array.Array) (array.Array, error) {
	var names []string
	var children []array.Array

	for _, v := range m.Values {
		arr, err := v.Evaluate(scope)
		if err != nil {
			return array.Array{}, err
		}
		if arr.DType.Kind != dtype.KindStruct {
			return array.Array{}, errs.New(errs.KindMismatchedTypes, "expr: merge expects struct input, got %s", arr.DType)
		}
		if arr.DType.Nullable {
			return array.Array{}, errs.New(errs.KindNotImplemented, "expr: merge of nullable structs")
		}

		for i, f := range arr.DType.Fields {
			if idx := indexOfName(names, f.Name); idx >= 0 {
				children[idx] = arr.Children[i]
			} else {
				names = append(names, f.Name)
				children = append(children, arr.Children[i])
			}
		}
	}

	fields := make([]dtype.Field, len(names))
	for i, n := range names {
		fields[i] = dtype.Field{Name: n, DType: children[i].DType}
	}

	return encoding.NewStruct(fields, children, false, array.NonNullable())
}

func (m Merge) Children() []Expr {
	out := make([]Expr, len(m.Values))
	copy(out, m.Values)

	return out
}

func (m Merge) ReplacingChildren(children []Expr) Expr {
	out := make([]Expr, len(children))
	copy(out, children)

	return Merge{Values: out}
}

func (m Merge) String() string {
	parts := make([]string, len(m.Values))
	for i, v := range m.Values {
		parts[i] = v.String()
	}

	return "merge(" + strings.Join(parts, ", ") + ")"
}

func indexOfName(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}

	return -1
}
