package encoding

import (
	"encoding/binary"
	"math"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// primitiveVtable stores values as a single raw fixed-width buffer plus an
// optional validity buffer, the simplest encoding in the cascade and the
// one every numeric compute fallback ultimately bottoms out at. Grounded
// on the teacher's raw numeric codec: one contiguous buffer, always
// written and read little-endian.
type primitiveVtable struct{}

var _ array.Vtable = primitiveVtable{}

func init() {
	array.Register(primitiveVtable{})
}

func (primitiveVtable) ID() array.EncodingID { return IDPrimitive }
func (primitiveVtable) Name() string         { return "primitive" }
func (primitiveVtable) NumChildren() int     { return 0 }

// NumBuffers is 2: [0] the raw value buffer, [1] an optional validity
// bitmap (bool-per-byte, length 0 when the dtype is non-nullable or
// statically all-valid).
func (primitiveVtable) NumBuffers() int { return 2 }

func (primitiveVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	return dtype.DType{}, errs.New(errs.KindInvalidArgument, "encoding: primitive has no children")
}

func (primitiveVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	pt := a.DType.PType
	n := a.Length
	raw := a.Buffers[0].Data

	out := array.Canonical{Kind: array.CanonicalPrimitive, DType: a.DType, Length: n}
	out.Validity = decodeValidity(a.Buffers[1].Data, n, a.DType.Nullable)

	switch {
	case pt.IsFloat():
		vals := make([]float64, n)
		if pt == dtype.PTypeF32 {
			for i := 0; i < n; i++ {
				vals[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:])))
			}
		} else {
			for i := 0; i < n; i++ {
				vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
			}
		}
		out.Floats = vals
	case pt.IsSigned():
		vals := make([]int64, n)
		w := pt.ByteWidth()
		for i := 0; i < n; i++ {
			vals[i] = readSignedAt(raw, i*w, w)
		}
		out.Ints = vals
	default:
		vals := make([]uint64, n)
		w := pt.ByteWidth()
		for i := 0; i < n; i++ {
			vals[i] = readUnsignedAt(raw, i*w, w)
		}
		out.Uints = vals
	}

	return out, nil
}

func (primitiveVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	return array.Canonical{}, false, errs.ErrNotImplemented
}

func (primitiveVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	w := a.DType.PType.ByteWidth()
	raw := a.Buffers[0].Data[start*w : end*w]

	validity := a.Buffers[1].Data
	if len(validity) > 0 {
		validity = validity[start:end]
	}

	return array.Array{
		EncodingID: IDPrimitive,
		DType:      a.DType,
		Length:     end - start,
		Buffers:    []array.Buf{{Data: raw}, {Data: validity}},
	}, nil
}

func readUnsignedAt(raw []byte, off, w int) uint64 {
	switch w {
	case 1:
		return uint64(raw[off])
	case 2:
		return uint64(binary.LittleEndian.Uint16(raw[off:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(raw[off:]))
	default:
		return binary.LittleEndian.Uint64(raw[off:])
	}
}

func readSignedAt(raw []byte, off, w int) int64 {
	switch w {
	case 1:
		return int64(int8(raw[off]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(raw[off:])))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(raw[off:])))
	default:
		return int64(binary.LittleEndian.Uint64(raw[off:]))
	}
}

func decodeValidity(buf []byte, n int, nullable bool) array.Validity {
	if !nullable || len(buf) == 0 {
		return array.NonNullable()
	}

	mask := make([]bool, n)
	for i := range mask {
		mask[i] = buf[i] != 0
	}

	return array.FromMask(mask)
}

func encodeValidity(v array.Validity, n int) []byte {
	if v.AllValidValues() {
		return nil
	}

	mask := v.Mask(n)
	buf := make([]byte, n)
	for i, ok := range mask {
		if ok {
			buf[i] = 1
		}
	}

	return buf
}

// NewPrimitive builds a primitive-encoded Array from canonical int/uint/
// float slices (exactly one of ints/uints/floats is used, matching pt).
func NewPrimitive(pt dtype.PType, nullable bool, n int, ints []int64, uints []uint64, floats []float64, validity array.Validity) (array.Array, error) {
	dt := dtype.Primitive(pt, nullable)
	w := pt.ByteWidth()
	raw := make([]byte, n*w)

	switch {
	case pt.IsFloat():
		if pt == dtype.PTypeF32 {
			for i := 0; i < n; i++ {
				binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(float32(floats[i])))
			}
		} else {
			for i := 0; i < n; i++ {
				binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(floats[i]))
			}
		}
	case pt.IsSigned():
		for i := 0; i < n; i++ {
			writeAt(raw, i*w, w, uint64(ints[i]))
		}
	default:
		for i := 0; i < n; i++ {
			writeAt(raw, i*w, w, uints[i])
		}
	}

	return array.New(IDPrimitive, dt, n, nil, []array.Buf{{Data: raw}, {Data: encodeValidity(validity, n)}}, nil)
}

func writeAt(buf []byte, off, w int, v uint64) {
	switch w {
	case 1:
		buf[off] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(buf[off:], uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf[off:], uint32(v))
	default:
		binary.LittleEndian.PutUint64(buf[off:], v)
	}
}
