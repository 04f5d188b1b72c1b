package encoding

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/bitio"
)

// bitPackVtable packs unsigned integers into bitWidth bits apiece, the
// FastLanes-style encoding spec.md names for zigzag'd/delta'd integer
// children. Metadata is a single byte holding bitWidth (1-64); the packed
// bits live in buffer 0, MSB-first per internal/bitio, and validity in
// buffer 1.
type bitPackVtable struct{}

var _ array.Vtable = bitPackVtable{}

func init() {
	array.Register(bitPackVtable{})
}

func (bitPackVtable) ID() array.EncodingID { return IDBitPack }
func (bitPackVtable) Name() string         { return "bitpack" }
func (bitPackVtable) NumBuffers() int      { return 2 } // [0] packed bits, [1] validity
func (bitPackVtable) NumChildren() int     { return 0 }

func (bitPackVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	return dtype.DType{}, errs.New(errs.KindInvalidArgument, "encoding: bitpack has no children")
}

func bitPackWidth(metadata []byte) int {
	if len(metadata) == 0 {
		return 64
	}

	return int(metadata[0])
}

func (v bitPackVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	width := bitPackWidth(a.Metadata)
	r := bitio.NewReader(a.Buffers[0].Data)

	n := a.Length
	vals := make([]uint64, n)
	for i := 0; i < n; i++ {
		bits, ok := r.ReadBits(width)
		if !ok {
			return array.Canonical{}, errs.New(errs.KindInvalidSerde, "encoding: bitpack truncated stream at element %d", i)
		}
		vals[i] = bits
	}

	return array.Canonical{
		Kind:     array.CanonicalPrimitive,
		DType:    a.DType,
		Length:   n,
		Validity: decodeValidity(a.Buffers[1].Data, n, a.DType.Nullable),
		Uints:    vals,
	}, nil
}

func (bitPackVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	return array.Canonical{}, false, errs.ErrNotImplemented
}

func (bitPackVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	return array.Array{}, errs.ErrNotImplemented
}

// BitWidthFor returns the minimum bit width needed to represent every value
// in values (at least 1, to keep the reader's ReadBits(0) degenerate case
// out of the hot path).
func BitWidthFor(values []uint64) int {
	max := uint64(0)
	for _, v := range values {
		if v > max {
			max = v
		}
	}

	width := 0
	for max > 0 {
		width++
		max >>= 1
	}
	if width == 0 {
		width = 1
	}

	return width
}

// NewBitPack builds a BitPack-encoded array at the given bit width.
func NewBitPack(pt dtype.PType, nullable bool, values []uint64, width int, validity array.Validity) (array.Array, error) {
	w := bitio.NewWriterSize((len(values)*width + 7) / 8)
	for _, v := range values {
		w.WriteBits(v, width)
	}

	meta := []byte{byte(width)}

	return array.New(IDBitPack, dtype.Primitive(pt, nullable), len(values), meta, []array.Buf{{Data: w.Bytes()}, {Data: encodeValidity(validity, len(values))}}, nil)
}
