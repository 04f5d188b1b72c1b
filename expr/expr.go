// Package expr implements the expression IR (C9) used to describe
// projections, filters, and row transformations over an array without
// naming a physical encoding: ident, literal, get_item, pack, merge,
// binary, invert, list_contains, and cast nodes, each able to report its
// return dtype against a scope dtype and evaluate itself against a scope
// array. Grounded on original_source/vortex-expr's node taxonomy, expressed
// with Go interfaces and plain switch dispatch rather than the original's
// trait-object visitor framework.
package expr

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
)

// Expr is one node of the expression tree. Every node is immutable; tree
// rewrites (Transform, ToCNF) produce new nodes rather than mutating in
// place.
type Expr interface {
	// ReturnDType reports the dtype e evaluates to when run against a scope
	// array of dtype scopeDType, without touching any actual data.
	ReturnDType(scopeDType dtype.DType) (dtype.DType, error)
	// Evaluate runs e against scope, returning an array of ReturnDType(scope.DType)
	// and length scope.Length.
	Evaluate(scope array.Array) (array.Array, error)
	// Children returns e's immediate subexpressions, in evaluation order.
	Children() []Expr
	// ReplacingChildren returns a copy of e with its children replaced,
	// matching len(Children()). Used by Transform and ToCNF to rebuild a
	// node after rewriting its subexpressions.
	ReplacingChildren(children []Expr) Expr
	String() string
}
