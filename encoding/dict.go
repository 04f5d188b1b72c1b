package encoding

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/hash"
	"github.com/vtxfmt/vtx/scalar"
)

// dictVtable is dictionary encoding: children = (codes, values). Code
// interpretation is direct, spec.md §4.3's Dictionary description.
type dictVtable struct{}

var _ array.Vtable = dictVtable{}

func init() {
	array.Register(dictVtable{})
}

func (dictVtable) ID() array.EncodingID { return IDDict }
func (dictVtable) Name() string         { return "dict" }
func (dictVtable) NumBuffers() int      { return 0 }
func (dictVtable) NumChildren() int     { return 2 } // [0] codes (primitive uint), [1] values

func (dictVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	if i == 0 {
		return dtype.Primitive(dtype.PTypeU32, false), nil
	}

	return a.DType.WithNullable(true), nil
}

func (dictVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	codesC, err := array.Canonicalize(a.Children[0])
	if err != nil {
		return array.Canonical{}, err
	}

	valuesC, err := array.Canonicalize(a.Children[1])
	if err != nil {
		return array.Canonical{}, err
	}

	n := a.Length
	out, err := fillCanonical(a.DType, scalar.Null(a.DType), n)
	if err != nil {
		return array.Canonical{}, err
	}
	out.Kind = valuesC.Kind

	mask := make([]bool, n)
	switch out.Kind {
	case array.CanonicalBool:
		out.Bools = make([]bool, n)
	case array.CanonicalPrimitive:
		switch {
		case valuesC.Ints != nil:
			out.Ints = make([]int64, n)
		case valuesC.Uints != nil:
			out.Uints = make([]uint64, n)
		case valuesC.Floats != nil:
			out.Floats = make([]float64, n)
		}
	default:
		return array.Canonical{}, errs.New(errs.KindNotImplemented, "encoding: dict canonicalize not implemented for canonical kind %d", out.Kind)
	}

	for i := 0; i < n; i++ {
		code := int(codesC.Uints[i])
		if err := setCanonicalAt(&out, i, valuesC, code); err != nil {
			return array.Canonical{}, err
		}
		mask[i] = out.Validity.IsValid(i)
	}

	return out, nil
}

func (dictVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	return array.Canonical{}, false, errs.ErrNotImplemented
}

func (dictVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	return array.Array{}, errs.ErrNotImplemented
}

// dictBuilder deduplicates scalar values into a code stream plus a distinct
// value list, the construction-time counterpart to dictVtable's decode
// path. Adapted from the metric-name interning bookkeeping pattern: a hash
// fingerprint of the value's key narrows candidates before falling back to
// an exact key compare, rather than comparing against every stored value.
type dictBuilder struct {
	fingerprints map[uint64][]int // fingerprint -> indices into values with that fingerprint
	values       []scalar.Scalar
	keyOf        func(scalar.Scalar) string
}

func newDictBuilder(keyOf func(scalar.Scalar) string) *dictBuilder {
	return &dictBuilder{fingerprints: make(map[uint64][]int), keyOf: keyOf}
}

// code returns the dictionary code for v, interning it if not already
// present.
func (b *dictBuilder) code(v scalar.Scalar) int {
	key := b.keyOf(v)
	fp := hash.ID(key)

	for _, idx := range b.fingerprints[fp] {
		if b.keyOf(b.values[idx]) == key {
			return idx
		}
	}

	idx := len(b.values)
	b.values = append(b.values, v)
	b.fingerprints[fp] = append(b.fingerprints[fp], idx)

	return idx
}

// scalarKey renders a scalar to a string suitable for dictBuilder's exact
// equality check after fingerprint collision.
func scalarKey(s scalar.Scalar) string {
	if s.IsNull() {
		return "\x00null"
	}

	return s.String()
}

// NewDict builds a Dictionary-encoded array by interning values, the
// in-memory entry point mirroring what a compressor's dict candidate would
// do when scoring this encoding against a column.
func NewDict(dt dtype.DType, values []scalar.Scalar) (array.Array, error) {
	b := newDictBuilder(scalarKey)
	codes := make([]uint64, len(values))
	for i, v := range values {
		codes[i] = uint64(b.code(v))
	}

	codesArr, err := NewPrimitive(dtype.PTypeU32, false, len(codes), nil, codes, nil, array.NonNullable())
	if err != nil {
		return array.Array{}, err
	}

	distinctC, err := valuesToCanonical(dt, b.values)
	if err != nil {
		return array.Array{}, err
	}

	distinctArr, err := array.FromCanonical(distinctC)
	if err != nil {
		return array.Array{}, err
	}

	return array.New(IDDict, dt, len(values), nil, nil, []array.Array{codesArr, distinctArr})
}

func valuesToCanonical(dt dtype.DType, values []scalar.Scalar) (array.Canonical, error) {
	n := len(values)
	mask := make([]bool, n)

	switch dt.Kind {
	case dtype.KindBool:
		vals := make([]bool, n)
		for i, v := range values {
			mask[i] = !v.IsNull()
			if mask[i] {
				vals[i] = v.Value.(bool)
			}
		}
		return array.Canonical{Kind: array.CanonicalBool, DType: dt, Length: n, Validity: array.FromMask(mask), Bools: vals}, nil
	case dtype.KindPrimitive:
		if dt.PType.IsFloat() {
			vals := make([]float64, n)
			for i, v := range values {
				mask[i] = !v.IsNull()
				if mask[i] {
					vals[i] = v.Value.(float64)
				}
			}
			return array.Canonical{Kind: array.CanonicalPrimitive, DType: dt, Length: n, Validity: array.FromMask(mask), Floats: vals}, nil
		}
		if dt.PType.IsSigned() {
			vals := make([]int64, n)
			for i, v := range values {
				mask[i] = !v.IsNull()
				if mask[i] {
					vals[i] = v.Value.(int64)
				}
			}
			return array.Canonical{Kind: array.CanonicalPrimitive, DType: dt, Length: n, Validity: array.FromMask(mask), Ints: vals}, nil
		}
		vals := make([]uint64, n)
		for i, v := range values {
			mask[i] = !v.IsNull()
			if mask[i] {
				vals[i] = v.Value.(uint64)
			}
		}
		return array.Canonical{Kind: array.CanonicalPrimitive, DType: dt, Length: n, Validity: array.FromMask(mask), Uints: vals}, nil
	default:
		return array.Canonical{}, errs.New(errs.KindNotImplemented, "encoding: dict values dtype %s", dt)
	}
}
