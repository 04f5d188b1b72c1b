package expr

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/scalar"
)

// Literal wraps a constant scalar value, broadcast to the scope's length
// when evaluated.
type Literal struct {
	Value scalar.Scalar
}

// NewLiteral returns a Literal expression over v.
func NewLiteral(v scalar.Scalar) Expr { return Literal{Value: v} }

func (l Literal) ReturnDType(scopeDType dtype.DType) (dtype.DType, error) {
	return l.Value.DType, nil
}

func (l Literal) Evaluate(scope array.Array) (array.Array, error) {
	return encoding.NewConstant(l.Value, scope.Length)
}

func (Literal) Children() []Expr { return nil }

func (l Literal) ReplacingChildren(children []Expr) Expr { return l }

func (l Literal) String() string { return l.Value.String() }
