package encoding

import (
	"math"
	"math/bits"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/bitio"
)

// gorillaVtable is the Facebook Gorilla XOR-delta float codec: the first
// value is stored raw, every subsequent value is XORed against its
// predecessor and the result's leading/trailing zero window is bit-packed,
// reusing the previous window when it still covers the new value's
// meaningful bits. Supplemental encoding not named by spec.md's explicit
// list but implied by its "…" catch-all; kept close to the teacher's float
// codec, retargeted from its own framed decoder type onto array.Vtable.
type gorillaVtable struct{}

var _ array.Vtable = gorillaVtable{}

func init() {
	array.Register(gorillaVtable{})
}

func (gorillaVtable) ID() array.EncodingID { return IDGorilla }
func (gorillaVtable) Name() string         { return "gorilla" }
func (gorillaVtable) NumBuffers() int      { return 2 } // [0] bitstream, [1] validity
func (gorillaVtable) NumChildren() int     { return 0 }

func (gorillaVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	return dtype.DType{}, errs.New(errs.KindInvalidArgument, "encoding: gorilla has no children")
}

func (gorillaVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	n := a.Length
	vals := make([]float64, n)

	if n > 0 {
		r := bitio.NewReader(a.Buffers[0].Data)

		first, ok := r.ReadBits(64)
		if !ok {
			return array.Canonical{}, errs.New(errs.KindInvalidSerde, "encoding: gorilla truncated stream")
		}
		vals[0] = math.Float64frombits(first)

		prev := first
		prevLeading, prevTrailing := 64, 0

		for i := 1; i < n; i++ {
			bit, ok := r.ReadBit()
			if !ok {
				return array.Canonical{}, errs.New(errs.KindInvalidSerde, "encoding: gorilla truncated stream at element %d", i)
			}

			if bit == 0 {
				vals[i] = math.Float64frombits(prev)
				continue
			}

			ctrl, ok := r.ReadBit()
			if !ok {
				return array.Canonical{}, errs.New(errs.KindInvalidSerde, "encoding: gorilla truncated control bit at element %d", i)
			}

			if ctrl == 0 {
				meaningful := 64 - prevLeading - prevTrailing
				bitsv, ok := r.ReadBits(meaningful)
				if !ok {
					return array.Canonical{}, errs.New(errs.KindInvalidSerde, "encoding: gorilla truncated meaningful bits at element %d", i)
				}
				xor := bitsv << prevTrailing
				cur := prev ^ xor
				vals[i] = math.Float64frombits(cur)
				prev = cur
				continue
			}

			leadingBits, ok := r.ReadBits(5)
			if !ok {
				return array.Canonical{}, errs.New(errs.KindInvalidSerde, "encoding: gorilla truncated leading-zero count at element %d", i)
			}
			lenBits, ok := r.ReadBits(6)
			if !ok {
				return array.Canonical{}, errs.New(errs.KindInvalidSerde, "encoding: gorilla truncated meaningful-length at element %d", i)
			}
			meaningful := int(lenBits) + 1
			leading := int(leadingBits)
			trailing := 64 - leading - meaningful

			bitsv, ok := r.ReadBits(meaningful)
			if !ok {
				return array.Canonical{}, errs.New(errs.KindInvalidSerde, "encoding: gorilla truncated meaningful bits at element %d", i)
			}

			xor := bitsv << trailing
			cur := prev ^ xor
			vals[i] = math.Float64frombits(cur)

			prev = cur
			prevLeading, prevTrailing = leading, trailing
		}
	}

	return array.Canonical{
		Kind:     array.CanonicalPrimitive,
		DType:    a.DType,
		Length:   n,
		Validity: decodeValidity(a.Buffers[1].Data, n, a.DType.Nullable),
		Floats:   vals,
	}, nil
}

func (gorillaVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	return array.Canonical{}, false, errs.ErrNotImplemented
}

func (gorillaVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	return array.Array{}, errs.ErrNotImplemented
}

// NewGorilla builds a Gorilla-encoded array of float64 values.
func NewGorilla(nullable bool, values []float64, validity array.Validity) (array.Array, error) {
	n := len(values)
	w := bitio.NewWriterSize(n * 4)

	if n > 0 {
		prev := math.Float64bits(values[0])
		w.WriteBits(prev, 64)

		prevLeading, prevTrailing := -1, -1

		for i := 1; i < n; i++ {
			cur := math.Float64bits(values[i])
			xor := cur ^ prev

			if xor == 0 {
				w.WriteBit(0)
				prev = cur
				continue
			}

			w.WriteBit(1)

			leading := bits.LeadingZeros64(xor)
			trailing := bits.TrailingZeros64(xor)
			if leading > 31 {
				leading = 31
			}

			if prevLeading >= 0 && leading >= prevLeading && trailing >= prevTrailing {
				w.WriteBit(0)
				meaningful := 64 - prevLeading - prevTrailing
				w.WriteBits(xor>>prevTrailing, meaningful)
			} else {
				w.WriteBit(1)
				meaningful := 64 - leading - trailing
				w.WriteBits(uint64(leading), 5)
				w.WriteBits(uint64(meaningful-1), 6)
				w.WriteBits(xor>>trailing, meaningful)
				prevLeading, prevTrailing = leading, trailing
			}

			prev = cur
		}
	}

	return array.New(IDGorilla, dtype.Primitive(dtype.PTypeF64, nullable), n, nil, []array.Buf{{Data: w.Bytes()}, {Data: encodeValidity(validity, n)}}, nil)
}
