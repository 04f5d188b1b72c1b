package encoding

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// listVtable is the plain List encoding: an offsets buffer of length n+1
// delimiting each row's span in the single element child array, plus
// top-level validity. Grounded on spec.md §3's List canonical form
// (ListOffsets + ListElements), mirrored here as the on-disk/in-process
// wrapper.
type listVtable struct{}

var _ array.Vtable = listVtable{}

func init() {
	array.Register(listVtable{})
}

func (listVtable) ID() array.EncodingID { return IDList }
func (listVtable) Name() string         { return "list" }
func (listVtable) NumBuffers() int      { return 2 } // [0] offsets (n+1 uint64), [1] validity
func (listVtable) NumChildren() int     { return 1 }

func (listVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	return a.DType.ChildDType(0)
}

func (listVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	offsets := decodeOffsets(a.Buffers[0].Data, a.Length)

	elements, err := array.Canonicalize(a.Children[0])
	if err != nil {
		return array.Canonical{}, errs.Wrap(err, errs.KindComputeError, "encoding: list elements")
	}

	return array.Canonical{
		Kind:         array.CanonicalList,
		DType:        a.DType,
		Length:       a.Length,
		Validity:     decodeValidity(a.Buffers[1].Data, a.Length, a.DType.Nullable),
		ListOffsets:  offsets,
		ListElements: &elements,
	}, nil
}

func (listVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	return array.Canonical{}, false, errs.ErrNotImplemented
}

func (listVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	return array.Array{}, errs.ErrNotImplemented
}

func decodeOffsets(buf []byte, n int) []int {
	offsets := make([]int, n+1)
	for i := range offsets {
		offsets[i] = int(decodeU64(buf[i*8:]))
	}

	return offsets
}

func encodeOffsets(offsets []int) []byte {
	buf := make([]byte, len(offsets)*8)
	for i, o := range offsets {
		copy(buf[i*8:], encodeU64(uint64(o)))
	}

	return buf
}

// NewList builds a List-encoded array from row offsets (length n+1), a
// flat element child array, and top-level validity.
func NewList(elem dtype.DType, nullable bool, offsets []int, elements array.Array, validity array.Validity) (array.Array, error) {
	if len(offsets) == 0 {
		return array.Array{}, errs.New(errs.KindInvalidArgument, "encoding: list offsets must have at least one entry")
	}

	n := len(offsets) - 1
	if offsets[n] != elements.Length {
		return array.Array{}, errs.New(errs.KindInvalidArgument, "encoding: list offsets end %d does not match elements length %d", offsets[n], elements.Length)
	}

	dt := dtype.List(elem, nullable)

	return array.New(IDList, dt, n, nil, []array.Buf{{Data: encodeOffsets(offsets)}, {Data: encodeValidity(validity, n)}}, []array.Array{elements})
}
