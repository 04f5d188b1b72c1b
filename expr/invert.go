package expr

import (
	"fmt"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
)

// Invert is the logical NOT of a Bool-typed Child.
type Invert struct {
	Child Expr
}

// NewInvert returns an Invert expression.
func NewInvert(child Expr) Expr { return Invert{Child: child} }

func (Invert) ReturnDType(scopeDType dtype.DType) (dtype.DType, error) { return dtype.Bool(true), nil }

func (i Invert) Evaluate(scope array.Array) (array.Array, error) {
	arr, err := i.Child.Evaluate(scope)
	if err != nil {
		return array.Array{}, err
	}

	return array.Invert(arr)
}

func (i Invert) Children() []Expr { return []Expr{i.Child} }

func (i Invert) ReplacingChildren(children []Expr) Expr {
	i.Child = children[0]
	return i
}

func (i Invert) String() string { return fmt.Sprintf("!%s", i.Child) }
