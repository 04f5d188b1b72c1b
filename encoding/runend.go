package encoding

import (
	"sort"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// runEndVtable is run-length encoding keyed by run end position rather than
// run length: children = (ends, values), metadata = offset. Slicing
// produces a new RunEnd sharing the same ends/values with an adjusted
// offset, avoiding an ends rewrite — spec.md's RunEnd description.
type runEndVtable struct{}

var _ array.Vtable = runEndVtable{}

func init() {
	array.Register(runEndVtable{})
}

func (runEndVtable) ID() array.EncodingID { return IDRunEnd }
func (runEndVtable) Name() string         { return "runend" }
func (runEndVtable) NumBuffers() int      { return 0 }
func (runEndVtable) NumChildren() int     { return 2 } // [0] ends (primitive u64), [1] values

func (v runEndVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	if i == 0 {
		return dtype.Primitive(dtype.PTypeU64, false), nil
	}

	return a.DType.WithNullable(true), nil
}

func runEndOffset(metadata []byte) int {
	if len(metadata) < 8 {
		return 0
	}

	return int(decodeU64(metadata))
}

// findPhysicalIndex returns the run index covering logical index i, per
// spec.md's find_physical_index: search_sorted(ends, i+offset, Right).
func findPhysicalIndex(ends []uint64, i, offset int) int {
	target := uint64(i + offset)
	return sort.Search(len(ends), func(k int) bool { return ends[k] > target })
}

func (v runEndVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	endsC, err := array.Canonicalize(a.Children[0])
	if err != nil {
		return array.Canonical{}, err
	}

	valuesC, err := array.Canonicalize(a.Children[1])
	if err != nil {
		return array.Canonical{}, err
	}

	ends := endsC.Uints
	offset := runEndOffset(a.Metadata)
	n := a.Length

	out, err := fillCanonical(a.DType, decodeConstantScalar(a.DType, []byte{0}), n)
	if err != nil {
		return array.Canonical{}, err
	}
	out.Kind = valuesC.Kind

	switch out.Kind {
	case array.CanonicalBool:
		out.Bools = make([]bool, n)
	case array.CanonicalPrimitive:
		switch {
		case valuesC.Ints != nil:
			out.Ints = make([]int64, n)
		case valuesC.Uints != nil:
			out.Uints = make([]uint64, n)
		case valuesC.Floats != nil:
			out.Floats = make([]float64, n)
		}
	default:
		return array.Canonical{}, errs.New(errs.KindNotImplemented, "encoding: runend canonicalize not implemented for canonical kind %d", out.Kind)
	}

	for i := 0; i < n; i++ {
		run := findPhysicalIndex(ends, i, offset)
		if err := setCanonicalAt(&out, i, valuesC, run); err != nil {
			return array.Canonical{}, err
		}
	}

	return out, nil
}

func (v runEndVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	endsC, err := array.Canonicalize(a.Children[0])
	if err != nil {
		return array.Canonical{}, false, err
	}

	offset := runEndOffset(a.Metadata)
	run := findPhysicalIndex(endsC.Uints, i, offset)

	s, err := array.ScalarAt(a.Children[1], run)
	if err != nil {
		return array.Canonical{}, false, err
	}

	c, err := scalarToSingleCanonical(s)
	return c, err == nil, err
}

// Slice reuses the same ends/values children with an adjusted offset,
// rather than materializing a new ends buffer.
func (v runEndVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	offset := runEndOffset(a.Metadata)

	return array.Array{
		EncodingID: IDRunEnd,
		DType:      a.DType,
		Length:     end - start,
		Metadata:   encodeU64(uint64(offset + start)),
		Children:   a.Children,
	}, nil
}

// NewRunEnd builds a RunEnd-encoded array of logical length ends[len-1]
// (after subtracting offset) from monotonically strict-sorted run ends and
// parallel values.
func NewRunEnd(dt dtype.DType, ends []uint64, values array.Array, offset int) (array.Array, error) {
	if len(ends) == 0 {
		return array.Array{}, errs.New(errs.KindInvalidArgument, "encoding: runend requires at least one run")
	}

	n := int(ends[len(ends)-1]) - offset

	endsArr, err := NewPrimitive(dtype.PTypeU64, false, len(ends), nil, ends, nil, array.NonNullable())
	if err != nil {
		return array.Array{}, err
	}

	return array.New(IDRunEnd, dt, n, encodeU64(uint64(offset)), nil, []array.Array{endsArr, values})
}
