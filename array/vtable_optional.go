package array

import (
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/scalar"
)

// The interfaces below are the optional compute hooks spec.md §4.2 lists
// beside Vtable's required methods: an encoding may implement any of them
// to accelerate a kernel without Canonicalize decoding the whole array
// first. Each compute.go/cast.go entry point type-asserts for the relevant
// hook and tries it before falling back to canonicalizing — the same
// fast-path/fallback order ScalarAt and Slice already use for their two
// required-but-escapable methods. An encoding that does not implement a
// hook is simply not type-asserted to it; there is nothing to register.

// BinaryNumericVtable accelerates both BinaryNumeric and Compare (Compare
// is BinaryNumeric restricted to the comparison ops), matching this
// package's existing choice to implement Compare as a thin call into
// BinaryNumeric rather than a parallel kernel.
type BinaryNumericVtable interface {
	// BinaryNumeric applies op to a and rhs without canonicalizing either
	// side. ok is false when this vtable can't accelerate this particular
	// call (e.g. rhs uses a different encoding), telling the caller to fall
	// back rather than treating it as a hard failure.
	BinaryNumeric(op BinaryOp, a, rhs Array) (out Array, ok bool, err error)
}

// InvertVtable accelerates the Bool NOT kernel.
type InvertVtable interface {
	Invert(a Array) (out Array, ok bool, err error)
}

// CastVtable accelerates casting a to target.
type CastVtable interface {
	Cast(a Array, target dtype.DType) (out Array, ok bool, err error)
}

// ListContainsVtable accelerates the List membership kernel.
type ListContainsVtable interface {
	ListContains(a Array, needle scalar.Scalar) (out Array, ok bool, err error)
}

// SearchSortedVtable accelerates binary search over a sorted array.
type SearchSortedVtable interface {
	SearchSorted(a Array, needle scalar.Scalar) (idx int, ok bool, err error)
}

// IsConstantVtable lets an encoding answer spec.md §8's is_constant
// predicate in O(1) instead of scanning (encoding.Constant implements it).
type IsConstantVtable interface {
	IsConstant(a Array) (constant bool, ok bool, err error)
}

// MinMaxVtable lets an encoding report its min/max without a full scan.
type MinMaxVtable interface {
	MinMax(a Array) (lo, hi scalar.Scalar, ok bool, err error)
}
