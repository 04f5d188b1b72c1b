package expr

import (
	"fmt"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/scalar"
)

// ListContains reports, for each row of Child (a List), whether Needle
// appears among that row's elements.
type ListContains struct {
	Child  Expr
	Needle scalar.Scalar
}

// NewListContains returns a ListContains expression.
func NewListContains(child Expr, needle scalar.Scalar) Expr {
	return ListContains{Child: child, Needle: needle}
}

func (ListContains) ReturnDType(scopeDType dtype.DType) (dtype.DType, error) {
	return dtype.Bool(true), nil
}

func (l ListContains) Evaluate(scope array.Array) (array.Array, error) {
	arr, err := l.Child.Evaluate(scope)
	if err != nil {
		return array.Array{}, err
	}

	return array.ListContains(arr, l.Needle)
}

func (l ListContains) Children() []Expr { return []Expr{l.Child} }

func (l ListContains) ReplacingChildren(children []Expr) Expr {
	l.Child = children[0]
	return l
}

func (l ListContains) String() string { return fmt.Sprintf("list_contains(%s, %s)", l.Child, l.Needle) }
