package encoding

import (
	"sort"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/scalar"
)

// sparseVtable is a sparse overlay: most rows equal a constant fill value,
// a minority ("patches") are stored explicitly as (index, value) pairs
// sorted by index. Grounded directly on spec.md's Sparse description:
// children = (indices, values), metadata = (fill_value, indices_offset),
// get_patched does a left-biased binary search on indices.
type sparseVtable struct{}

var _ array.Vtable = sparseVtable{}

func init() {
	array.Register(sparseVtable{})
}

func (sparseVtable) ID() array.EncodingID { return IDSparse }
func (sparseVtable) Name() string         { return "sparse" }
func (sparseVtable) NumBuffers() int      { return 0 }
func (sparseVtable) NumChildren() int     { return 2 } // [0] indices (primitive u64), [1] values

func (v sparseVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	if i == 0 {
		return dtype.Primitive(dtype.PTypeU64, false), nil
	}

	return a.DType.WithNullable(true), nil
}

// sparseMetadata is (indices_offset as a fixed 8-byte u64, fill value tag
// bytes), matching constant.go's scalar tagging scheme for the fill value.
func encodeSparseMetadata(fill scalar.Scalar, offset int) []byte {
	return append(encodeU64(uint64(offset)), encodeConstantScalar(fill)...)
}

func decodeSparseMetadata(dt dtype.DType, b []byte) (fill scalar.Scalar, offset int) {
	offset = int(decodeU64(b))
	return decodeConstantScalar(dt, b[8:]), offset
}

func (v sparseVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	fill, offset := decodeSparseMetadata(a.DType, a.Metadata)

	indicesArr, err := array.Canonicalize(a.Children[0])
	if err != nil {
		return array.Canonical{}, err
	}

	valuesArr, err := array.Canonicalize(a.Children[1])
	if err != nil {
		return array.Canonical{}, err
	}

	indices := indicesArr.Uints

	n := a.Length
	base, err := fillCanonical(a.DType, fill, n)
	if err != nil {
		return array.Canonical{}, err
	}

	for j, rawIdx := range indices {
		pos := int(rawIdx) - offset
		if pos < 0 || pos >= n {
			return array.Canonical{}, errs.New(errs.KindAssertionFailed, "encoding: sparse patch index %d out of [0,%d)", pos, n)
		}
		if err := setCanonicalAt(&base, pos, valuesArr, j); err != nil {
			return array.Canonical{}, err
		}
	}

	return base, nil
}

func fillCanonical(dt dtype.DType, fill scalar.Scalar, n int) (array.Canonical, error) {
	if fill.IsNull() {
		mask := make([]bool, n)
		return array.Canonical{Kind: canonicalKindFor(dt), DType: dt, Length: n, Validity: array.FromMask(mask)}, nil
	}

	switch v := fill.Value.(type) {
	case bool:
		vals := make([]bool, n)
		for i := range vals {
			vals[i] = v
		}
		return array.Canonical{Kind: array.CanonicalBool, DType: dt, Length: n, Validity: array.AllValid(), Bools: vals}, nil
	case int64:
		vals := make([]int64, n)
		for i := range vals {
			vals[i] = v
		}
		return array.Canonical{Kind: array.CanonicalPrimitive, DType: dt, Length: n, Validity: array.AllValid(), Ints: vals}, nil
	case uint64:
		vals := make([]uint64, n)
		for i := range vals {
			vals[i] = v
		}
		return array.Canonical{Kind: array.CanonicalPrimitive, DType: dt, Length: n, Validity: array.AllValid(), Uints: vals}, nil
	case float64:
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = v
		}
		return array.Canonical{Kind: array.CanonicalPrimitive, DType: dt, Length: n, Validity: array.AllValid(), Floats: vals}, nil
	default:
		return array.Canonical{}, errs.New(errs.KindNotImplemented, "encoding: sparse fill type %T", v)
	}
}

func canonicalKindFor(dt dtype.DType) array.CanonicalKind {
	if dt.Kind == dtype.KindBool {
		return array.CanonicalBool
	}

	return array.CanonicalPrimitive
}

// setCanonicalAt writes the value at src[srcIdx] into dst[dstIdx], growing
// dst's validity to valid in the process. Both canonicals must share Kind.
func setCanonicalAt(dst *array.Canonical, dstIdx int, src array.Canonical, srcIdx int) error {
	mask := dst.Validity.Mask(dst.Length)
	mask[dstIdx] = src.Validity.IsValid(srcIdx)
	dst.Validity = array.FromMask(mask)

	if !mask[dstIdx] {
		return nil
	}

	switch dst.Kind {
	case array.CanonicalBool:
		dst.Bools[dstIdx] = src.Bools[srcIdx]
	case array.CanonicalPrimitive:
		switch {
		case dst.Ints != nil:
			dst.Ints[dstIdx] = src.Ints[srcIdx]
		case dst.Uints != nil:
			dst.Uints[dstIdx] = src.Uints[srcIdx]
		case dst.Floats != nil:
			dst.Floats[dstIdx] = src.Floats[srcIdx]
		}
	default:
		return errs.New(errs.KindNotImplemented, "encoding: sparse patch apply not implemented for canonical kind %d", dst.Kind)
	}

	return nil
}

func (v sparseVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	fill, offset := decodeSparseMetadata(a.DType, a.Metadata)

	indicesArr, err := array.Canonicalize(a.Children[0])
	if err != nil {
		return array.Canonical{}, false, err
	}

	indices := indicesArr.Uints
	target := uint64(i + offset)

	pos := sort.Search(len(indices), func(k int) bool { return indices[k] >= target })
	if pos < len(indices) && indices[pos] == target {
		s, err := array.ScalarAt(a.Children[1], pos)
		if err != nil {
			return array.Canonical{}, false, err
		}
		c, err := scalarToSingleCanonical(s)
		return c, err == nil, err
	}

	c, err := scalarToSingleCanonical(fill)
	if err != nil {
		return array.Canonical{}, false, err
	}

	return c, true, nil
}

func (sparseVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	return array.Array{}, errs.ErrNotImplemented
}

// NewSparse builds a Sparse-encoded array of length n with the given
// sorted, offset-relative indices, parallel values, and fill scalar for
// every other position.
func NewSparse(dt dtype.DType, n int, indices []uint64, values array.Array, offset int, fill scalar.Scalar) (array.Array, error) {
	idxArr, err := NewPrimitive(dtype.PTypeU64, false, len(indices), nil, indices, nil, array.NonNullable())
	if err != nil {
		return array.Array{}, err
	}

	return array.New(IDSparse, dt, n, encodeSparseMetadata(fill, offset), nil, []array.Array{idxArr, values})
}
