package encoding

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// runEndBoolVtable is RunEnd specialized to booleans whose values are
// implicit, alternating from a start bit: value_at(i, start) = start XOR
// (i & 1). Grounded directly on spec.md's RunEndBool description.
type runEndBoolVtable struct{}

var _ array.Vtable = runEndBoolVtable{}

func init() {
	array.Register(runEndBoolVtable{})
}

func (runEndBoolVtable) ID() array.EncodingID { return IDRunEndBool }
func (runEndBoolVtable) Name() string         { return "runendbool" }
func (runEndBoolVtable) NumBuffers() int      { return 0 }
func (runEndBoolVtable) NumChildren() int     { return 1 } // [0] ends (primitive u64)

func (runEndBoolVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	return dtype.Primitive(dtype.PTypeU64, false), nil
}

// runEndBoolMetadata: offset (u64) followed by one byte, 1 if start=true.
func encodeRunEndBoolMetadata(offset int, start bool) []byte {
	b := encodeU64(uint64(offset))
	if start {
		return append(b, 1)
	}
	return append(b, 0)
}

func decodeRunEndBoolMetadata(metadata []byte) (offset int, start bool) {
	if len(metadata) < 9 {
		return 0, false
	}
	return int(decodeU64(metadata)), metadata[8] != 0
}

func (v runEndBoolVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	endsC, err := array.Canonicalize(a.Children[0])
	if err != nil {
		return array.Canonical{}, err
	}

	ends := endsC.Uints
	offset, start := decodeRunEndBoolMetadata(a.Metadata)
	n := a.Length

	out := make([]bool, n)
	for i := 0; i < n; i++ {
		run := findPhysicalIndex(ends, i, offset)
		out[i] = start != (run&1 == 1)
	}

	return array.Canonical{Kind: array.CanonicalBool, DType: a.DType, Length: n, Validity: array.NonNullable(), Bools: out}, nil
}

func (v runEndBoolVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	endsC, err := array.Canonicalize(a.Children[0])
	if err != nil {
		return array.Canonical{}, false, err
	}

	offset, start := decodeRunEndBoolMetadata(a.Metadata)
	run := findPhysicalIndex(endsC.Uints, i, offset)
	val := start != (run&1 == 1)

	return array.Canonical{Kind: array.CanonicalBool, DType: a.DType, Length: 1, Validity: array.AllValid(), Bools: []bool{val}}, true, nil
}

func (v runEndBoolVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	offset, startBit := decodeRunEndBoolMetadata(a.Metadata)

	return array.Array{
		EncodingID: IDRunEndBool,
		DType:      a.DType,
		Length:     end - start,
		Metadata:   encodeRunEndBoolMetadata(offset+start, startBit),
		Children:   a.Children,
	}, nil
}

// NewRunEndBool builds a RunEndBool-encoded array from monotonically
// strict-sorted run ends and the alternation's starting bit.
func NewRunEndBool(ends []uint64, offset int, start bool) (array.Array, error) {
	if len(ends) == 0 {
		return array.Array{}, errs.New(errs.KindInvalidArgument, "encoding: runendbool requires at least one run")
	}

	n := int(ends[len(ends)-1]) - offset

	endsArr, err := NewPrimitive(dtype.PTypeU64, false, len(ends), nil, ends, nil, array.NonNullable())
	if err != nil {
		return array.Array{}, err
	}

	return array.New(IDRunEndBool, dtype.Bool(false), n, encodeRunEndBoolMetadata(offset, start), nil, []array.Array{endsArr})
}
