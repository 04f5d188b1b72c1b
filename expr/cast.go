package expr

import (
	"fmt"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
)

// Cast evaluates Child and converts the result to Target.
type Cast struct {
	Child  Expr
	Target dtype.DType
}

// NewCast returns a Cast expression.
func NewCast(child Expr, target dtype.DType) Expr { return Cast{Child: child, Target: target} }

func (c Cast) ReturnDType(scopeDType dtype.DType) (dtype.DType, error) { return c.Target, nil }

func (c Cast) Evaluate(scope array.Array) (array.Array, error) {
	arr, err := c.Child.Evaluate(scope)
	if err != nil {
		return array.Array{}, err
	}

	return array.Cast(arr, c.Target)
}

func (c Cast) Children() []Expr { return []Expr{c.Child} }

func (c Cast) ReplacingChildren(children []Expr) Expr {
	c.Child = children[0]
	return c
}

func (c Cast) String() string { return fmt.Sprintf("cast(%s as %s)", c.Child, c.Target) }
