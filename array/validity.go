package array

// Validity is the sum type spec.md §3 requires: every array's nullability
// is represented one of four ways, from cheapest to most general.
type Validity struct {
	kind validityKind
	mask []bool // only meaningful when kind == validityArray
}

type validityKind uint8

const (
	validityNonNullable validityKind = iota
	validityAllValid
	validityAllInvalid
	validityArray
)

// NonNullable marks an array whose DType itself is non-nullable; no value
// can ever be null and no mask is stored.
func NonNullable() Validity { return Validity{kind: validityNonNullable} }

// AllValid marks a nullable array none of whose values happen to be null.
func AllValid() Validity { return Validity{kind: validityAllValid} }

// AllInvalid marks a nullable array every one of whose values is null.
func AllInvalid() Validity { return Validity{kind: validityAllInvalid} }

// FromMask constructs a per-element validity array; mask[i] == true means
// value i is valid (non-null).
func FromMask(mask []bool) Validity {
	return Validity{kind: validityArray, mask: mask}
}

// IsValid reports whether the value at index i is non-null. The caller must
// pass an in-range index; Validity itself does not know the array length.
func (v Validity) IsValid(i int) bool {
	switch v.kind {
	case validityNonNullable, validityAllValid:
		return true
	case validityAllInvalid:
		return false
	default:
		return v.mask[i]
	}
}

// AllValidValues reports whether v statically guarantees every value is
// valid, without needing to scan a mask.
func (v Validity) AllValidValues() bool {
	return v.kind == validityNonNullable || v.kind == validityAllValid
}

// AllInvalidValues reports whether v statically guarantees every value is
// null.
func (v Validity) AllInvalidValues() bool {
	return v.kind == validityAllInvalid
}

// Mask materializes a []bool of length n regardless of representation,
// expanding the cheap cases. Used by compute kernels that need a concrete
// mask to pass to stats.ComputeUint64 and similar.
func (v Validity) Mask(n int) []bool {
	switch v.kind {
	case validityArray:
		return v.mask
	case validityAllInvalid:
		out := make([]bool, n)
		return out // zero value false
	default:
		out := make([]bool, n)
		for i := range out {
			out[i] = true
		}

		return out
	}
}

// Slice returns the validity restricted to [start, end).
func (v Validity) Slice(start, end int) Validity {
	if v.kind != validityArray {
		return v
	}

	return Validity{kind: validityArray, mask: v.mask[start:end]}
}

// Take returns the validity gathered at the given indices.
func (v Validity) Take(indices []int) Validity {
	if v.kind != validityArray {
		return v
	}

	out := make([]bool, len(indices))
	for i, idx := range indices {
		out[i] = v.mask[idx]
	}

	return FromMask(out)
}
