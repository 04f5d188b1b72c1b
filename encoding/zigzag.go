package encoding

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/bitio"
)

// zigzagVtable maps a signed integer array to an unsigned child via
// zigzag encoding (0,-1,1,-2,2,... -> 0,1,2,3,4,...), so a downstream
// bit-packing or ALP stage only ever has to deal with non-negative values.
// Grounded on internal/bitio.ZigZagEncode/Decode.
type zigzagVtable struct{}

var _ array.Vtable = zigzagVtable{}

func init() {
	array.Register(zigzagVtable{})
}

func (zigzagVtable) ID() array.EncodingID { return IDZigZag }
func (zigzagVtable) Name() string         { return "zigzag" }
func (zigzagVtable) NumBuffers() int      { return 0 }
func (zigzagVtable) NumChildren() int     { return 1 } // [0] unsigned-encoded values

func (v zigzagVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	return dtype.Primitive(unsignedCounterpart(a.DType.PType), a.DType.Nullable), nil
}

func unsignedCounterpart(pt dtype.PType) dtype.PType {
	switch pt {
	case dtype.PTypeI8:
		return dtype.PTypeU8
	case dtype.PTypeI16:
		return dtype.PTypeU16
	case dtype.PTypeI32:
		return dtype.PTypeU32
	default:
		return dtype.PTypeU64
	}
}

func (v zigzagVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	childC, err := array.Canonicalize(a.Children[0])
	if err != nil {
		return array.Canonical{}, err
	}

	n := a.Length
	out := make([]int64, n)
	for i, u := range childC.Uints {
		out[i] = bitio.ZigZagDecode(u)
	}

	return array.Canonical{Kind: array.CanonicalPrimitive, DType: a.DType, Length: n, Validity: childC.Validity, Ints: out}, nil
}

func (v zigzagVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	return array.Canonical{}, false, errs.ErrNotImplemented
}

func (v zigzagVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	child, err := array.Slice(a.Children[0], start, end)
	if err != nil {
		return array.Array{}, err
	}

	return array.Array{EncodingID: IDZigZag, DType: a.DType, Length: end - start, Children: []array.Array{child}}, nil
}

// NewZigZag builds a ZigZag-encoded array wrapping an already-constructed
// unsigned child (typically a bitpack or primitive encoding).
func NewZigZag(dt dtype.DType, child array.Array) (array.Array, error) {
	return array.New(IDZigZag, dt, child.Length, nil, nil, []array.Array{child})
}

// ZigZagValues builds a ZigZag-over-primitive array directly from signed
// int64 values, encoding them into the unsigned child itself.
func ZigZagValues(pt dtype.PType, nullable bool, values []int64, validity array.Validity) (array.Array, error) {
	n := len(values)
	uvals := make([]uint64, n)
	for i, v := range values {
		uvals[i] = bitio.ZigZagEncode(v)
	}

	child, err := NewPrimitive(unsignedCounterpart(pt), nullable, n, nil, uvals, nil, validity)
	if err != nil {
		return array.Array{}, err
	}

	return NewZigZag(dtype.Primitive(pt, nullable), child)
}
