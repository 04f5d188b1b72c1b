package compressor

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/scalar"
)

// scalarAtCanonical extracts the logical value at index i out of a
// Bool/Primitive canonical as a scalar.Scalar, independent of which
// underlying slice (Bools/Ints/Uints/Floats) is populated. Candidates use
// this to build the []scalar.Scalar inputs encoding.NewDict and the
// run-end candidate's distinct-value array expect.
func scalarAtCanonical(c array.Canonical, i int) scalar.Scalar {
	if !c.Validity.IsValid(i) {
		return scalar.Null(c.DType)
	}

	switch c.Kind {
	case array.CanonicalBool:
		return scalar.Scalar{DType: c.DType, Value: c.Bools[i]}
	case array.CanonicalPrimitive:
		switch {
		case c.Ints != nil:
			return scalar.Scalar{DType: c.DType, Value: c.Ints[i]}
		case c.Uints != nil:
			return scalar.Scalar{DType: c.DType, Value: c.Uints[i]}
		case c.Floats != nil:
			return scalar.Scalar{DType: c.DType, Value: c.Floats[i]}
		}
	}

	return scalar.Null(c.DType)
}

// bytesAtView extracts the raw bytes backing VarBinView canonical entry i,
// handling both the inline (<=12 bytes) and data-buffer-referencing forms.
func bytesAtView(c array.Canonical, i int) []byte {
	v := c.Views[i]
	if v.Length <= 12 {
		return v.Inline
	}

	return c.DataBufs[v.BufIdx][v.Offset : v.Offset+v.Length]
}

// canonicalFromScalars builds a Bool/Primitive Canonical from a flat
// []scalar.Scalar, the construction-time counterpart to scalarAtCanonical.
// Duplicates encoding.valuesToCanonical's shape (unexported there) since
// the run-end candidate needs the same values-array-building step
// encoding/dict.go performs internally.
func canonicalFromScalars(dt dtype.DType, values []scalar.Scalar) array.Canonical {
	n := len(values)
	mask := make([]bool, n)

	switch {
	case dt.Kind == dtype.KindBool:
		vals := make([]bool, n)
		for i, v := range values {
			mask[i] = !v.IsNull()
			if mask[i] {
				vals[i] = v.Value.(bool)
			}
		}

		return array.Canonical{Kind: array.CanonicalBool, DType: dt, Length: n, Validity: array.FromMask(mask), Bools: vals}
	case dt.Kind == dtype.KindPrimitive && dt.PType.IsFloat():
		vals := make([]float64, n)
		for i, v := range values {
			mask[i] = !v.IsNull()
			if mask[i] {
				vals[i] = v.Value.(float64)
			}
		}

		return array.Canonical{Kind: array.CanonicalPrimitive, DType: dt, Length: n, Validity: array.FromMask(mask), Floats: vals}
	case dt.Kind == dtype.KindPrimitive && dt.PType.IsSigned():
		vals := make([]int64, n)
		for i, v := range values {
			mask[i] = !v.IsNull()
			if mask[i] {
				vals[i] = v.Value.(int64)
			}
		}

		return array.Canonical{Kind: array.CanonicalPrimitive, DType: dt, Length: n, Validity: array.FromMask(mask), Ints: vals}
	default:
		vals := make([]uint64, n)
		for i, v := range values {
			mask[i] = !v.IsNull()
			if mask[i] {
				vals[i] = v.Value.(uint64)
			}
		}

		return array.Canonical{Kind: array.CanonicalPrimitive, DType: dt, Length: n, Validity: array.FromMask(mask), Uints: vals}
	}
}
