package expr

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
)

// Ident is the identity expression: it evaluates to the scope array
// unchanged. Every other node's scope access bottoms out at an Ident,
// mirroring original_source/vortex-expr's Identity node.
type Ident struct{}

// NewIdent returns the identity expression.
func NewIdent() Expr { return Ident{} }

func (Ident) ReturnDType(scopeDType dtype.DType) (dtype.DType, error) { return scopeDType, nil }

func (Ident) Evaluate(scope array.Array) (array.Array, error) { return scope, nil }

func (Ident) Children() []Expr { return nil }

func (i Ident) ReplacingChildren(children []Expr) Expr { return i }

func (Ident) String() string { return "$" }
