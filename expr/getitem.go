package expr

import (
	"fmt"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// GetItem selects one field of its Child, which must evaluate to a Struct.
// Selection is by field Name, or by positional Index when Name is empty
// and Index >= 0 (the original's "name or idx" get_item variants).
type GetItem struct {
	Name  string
	Index int
	Child Expr
}

// NewGetItemName selects the field named name out of child.
func NewGetItemName(name string, child Expr) Expr {
	return GetItem{Name: name, Index: -1, Child: child}
}

// NewGetItemIndex selects the idx'th field out of child.
func NewGetItemIndex(idx int, child Expr) Expr {
	return GetItem{Index: idx, Child: child}
}

func (g GetItem) fieldIndex(dt dtype.DType) (int, error) {
	if dt.Kind != dtype.KindStruct {
		return 0, errs.New(errs.KindMismatchedTypes, "expr: get_item requires a struct scope, got %s", dt)
	}

	if g.Index >= 0 {
		if g.Index >= len(dt.Fields) {
			return 0, errs.New(errs.KindOutOfBounds, "expr: get_item index %d out of range for %d fields", g.Index, len(dt.Fields))
		}

		return g.Index, nil
	}

	for i, f := range dt.Fields {
		if f.Name == g.Name {
			return i, nil
		}
	}

	return 0, errs.New(errs.KindInvalidArgument, "expr: no field named %q", g.Name)
}

func (g GetItem) ReturnDType(scopeDType dtype.DType) (dtype.DType, error) {
	childDType, err := g.Child.ReturnDType(scopeDType)
	if err != nil {
		return dtype.DType{}, err
	}

	idx, err := g.fieldIndex(childDType)
	if err != nil {
		return dtype.DType{}, err
	}

	return childDType.Fields[idx].DType, nil
}

func (g GetItem) Evaluate(scope array.Array) (array.Array, error) {
	childArr, err := g.Child.Evaluate(scope)
	if err != nil {
		return array.Array{}, err
	}

	idx, err := g.fieldIndex(childArr.DType)
	if err != nil {
		return array.Array{}, err
	}

	return childArr.Children[idx], nil
}

func (g GetItem) Children() []Expr { return []Expr{g.Child} }

func (g GetItem) ReplacingChildren(children []Expr) Expr {
	g.Child = children[0]
	return g
}

func (g GetItem) String() string {
	if g.Index >= 0 {
		return fmt.Sprintf("%s[%d]", g.Child, g.Index)
	}

	return fmt.Sprintf("%s.%s", g.Child, g.Name)
}
