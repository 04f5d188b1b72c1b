package encoding

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// byteBoolVtable stores one byte per boolean value (0/1), a cheap
// alternative to a packed bitmap when simplicity matters more than size —
// spec's "byte-bool" leaf encoding. Grounded on the same raw fixed-width
// buffer shape as primitive.go, specialized to a single-byte element.
type byteBoolVtable struct{}

var _ array.Vtable = byteBoolVtable{}

func init() {
	array.Register(byteBoolVtable{})
}

func (byteBoolVtable) ID() array.EncodingID { return IDByteBool }
func (byteBoolVtable) Name() string         { return "bytebool" }
func (byteBoolVtable) NumChildren() int     { return 0 }
func (byteBoolVtable) NumBuffers() int      { return 2 } // [0] values, [1] validity

func (byteBoolVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	return dtype.DType{}, errs.New(errs.KindInvalidArgument, "encoding: bytebool has no children")
}

func (byteBoolVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	n := a.Length
	raw := a.Buffers[0].Data
	vals := make([]bool, n)
	for i := 0; i < n; i++ {
		vals[i] = raw[i] != 0
	}

	return array.Canonical{
		Kind:     array.CanonicalBool,
		DType:    a.DType,
		Length:   n,
		Validity: decodeValidity(a.Buffers[1].Data, n, a.DType.Nullable),
		Bools:    vals,
	}, nil
}

func (byteBoolVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	return array.Canonical{}, false, errs.ErrNotImplemented
}

func (byteBoolVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	validity := a.Buffers[1].Data
	if len(validity) > 0 {
		validity = validity[start:end]
	}

	return array.Array{
		EncodingID: IDByteBool,
		DType:      a.DType,
		Length:     end - start,
		Buffers:    []array.Buf{{Data: a.Buffers[0].Data[start:end]}, {Data: validity}},
	}, nil
}

// NewByteBool builds a byte-bool encoded Array from canonical bool values.
func NewByteBool(nullable bool, values []bool, validity array.Validity) (array.Array, error) {
	n := len(values)
	raw := make([]byte, n)
	for i, v := range values {
		if v {
			raw[i] = 1
		}
	}

	return array.New(IDByteBool, dtype.Bool(nullable), n, nil, []array.Buf{{Data: raw}, {Data: encodeValidity(validity, n)}}, nil)
}
