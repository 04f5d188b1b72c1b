package encoding

import (
	"math"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// alpVtable is ALP: floats are rescaled by a per-array decimal exponent e
// chosen by a small grid search, rounded to the nearest integer, and
// stored as an integer array; values that don't round-trip exactly at the
// chosen e are carried as exception patches instead. Grounded on spec.md's
// ALP description: "output = encoded integer array + exceptions as
// patches. Exponents come from the ALP paper's (e, f) search over small
// grids." The sub-exponent f search the paper additionally performs is
// simplified here to e alone.
type alpVtable struct{}

var _ array.Vtable = alpVtable{}

func init() {
	array.Register(alpVtable{})
}

func (alpVtable) ID() array.EncodingID { return IDALP }
func (alpVtable) Name() string         { return "alp" }
func (alpVtable) NumBuffers() int      { return 1 } // [0] validity
func (alpVtable) NumChildren() int     { return 3 } // encoded ints, patch indices, patch values

func (alpVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	switch i {
	case 0:
		return dtype.Primitive(dtype.PTypeI64, false), nil
	case 1:
		return dtype.Primitive(dtype.PTypeU32, false), nil
	default:
		return dtype.Primitive(dtype.PTypeF64, false), nil
	}
}

// alpMaxExponent bounds the grid search for e, the power of ten values
// are multiplied by before rounding; 0 to 18 comfortably spans the
// decimal exponents a float64 mantissa can still round-trip through.
const alpMaxExponent = 18

func pow10(e int) float64 {
	return math.Pow(10, float64(e))
}

func (alpVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	e := int(int8(a.Metadata[0]))

	encC, err := array.Canonicalize(a.Children[0])
	if err != nil {
		return array.Canonical{}, err
	}
	idxC, err := array.Canonicalize(a.Children[1])
	if err != nil {
		return array.Canonical{}, err
	}
	valC, err := array.Canonicalize(a.Children[2])
	if err != nil {
		return array.Canonical{}, err
	}

	n := a.Length
	scale := pow10(e)
	out := make([]float64, n)
	for i, enc := range encC.Ints {
		out[i] = float64(enc) / scale
	}
	for j, pos := range idxC.Uints {
		out[pos] = valC.Floats[j]
	}

	return array.Canonical{
		Kind:     array.CanonicalPrimitive,
		DType:    a.DType,
		Length:   n,
		Validity: decodeValidity(a.Buffers[0].Data, n, a.DType.Nullable),
		Floats:   out,
	}, nil
}

func (alpVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	return array.Canonical{}, false, errs.ErrNotImplemented
}

func (alpVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	return array.Array{}, errs.ErrNotImplemented
}

// NewALP builds an ALP-encoded array, searching decimal exponents e in
// [0, alpMaxExponent] for the one minimizing the count of values that
// don't round-trip exactly through round(v*10^e)/10^e.
func NewALP(nullable bool, values []float64, validity array.Validity) (array.Array, error) {
	n := len(values)

	bestE, bestExceptions := 0, n+1
	for e := 0; e <= alpMaxExponent; e++ {
		scale := pow10(e)
		exceptions := 0
		for _, v := range values {
			enc := math.Round(v * scale)
			if enc != float64(int64(enc)) || float64(int64(enc))/scale != v {
				exceptions++
			}
		}
		if exceptions < bestExceptions {
			bestExceptions = exceptions
			bestE = e
		}
		if exceptions == 0 {
			break
		}
	}

	e := bestE
	scale := pow10(e)
	encoded := make([]int64, n)
	var patchIdx []uint64
	var patchVal []float64

	for i, v := range values {
		enc := math.Round(v * scale)
		if enc == float64(int64(enc)) && float64(int64(enc))/scale == v {
			encoded[i] = int64(enc)
		} else {
			encoded[i] = 0
			patchIdx = append(patchIdx, uint64(i))
			patchVal = append(patchVal, v)
		}
	}

	encArr, err := NewPrimitive(dtype.PTypeI64, false, n, encoded, nil, nil, array.NonNullable())
	if err != nil {
		return array.Array{}, err
	}
	idxArr, err := NewPrimitive(dtype.PTypeU32, false, len(patchIdx), nil, patchIdx, nil, array.NonNullable())
	if err != nil {
		return array.Array{}, err
	}
	valArr, err := NewPrimitive(dtype.PTypeF64, false, len(patchVal), nil, nil, patchVal, array.NonNullable())
	if err != nil {
		return array.Array{}, err
	}

	return array.New(IDALP, dtype.Primitive(dtype.PTypeF64, nullable), n, []byte{byte(int8(e))},
		[]array.Buf{{Data: encodeValidity(validity, n)}},
		[]array.Array{encArr, idxArr, valArr})
}
