package compressor

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/scalar"
)

func init() {
	registerCandidate(bitpackCandidate{})
	registerCandidate(zigzagCandidate{})
	registerCandidate(dictCandidate{})
	registerCandidate(runEndCandidate{})
	registerCandidate(gorillaCandidate{})
	registerCandidate(alpCandidate{})
	registerCandidate(alpRDCandidate{})
}

// bitpackCandidate applies FastLanes bit-packing to unsigned integer
// arrays, storing each value in the minimum bit width the array it is given
// needs.
type bitpackCandidate struct{}

func (bitpackCandidate) Name() string { return "bitpack" }

func (bitpackCandidate) CanCompress(a array.Array) bool {
	return a.DType.Kind == dtype.KindPrimitive && !a.DType.PType.IsFloat() && !a.DType.PType.IsSigned()
}

func (bitpackCandidate) Compress(a array.Array) (array.Array, error) {
	c, err := array.Canonicalize(a)
	if err != nil {
		return array.Array{}, err
	}

	width := encoding.BitWidthFor(c.Uints)

	return encoding.NewBitPack(a.DType.PType, a.DType.Nullable, c.Uints, width, c.Validity)
}

// zigzagCandidate maps a signed integer array onto its unsigned zigzag
// counterpart, letting a subsequent cascade pass bit-pack the result.
type zigzagCandidate struct{}

func (zigzagCandidate) Name() string { return "zigzag" }

func (zigzagCandidate) CanCompress(a array.Array) bool {
	return a.DType.Kind == dtype.KindPrimitive && a.DType.PType.IsSigned()
}

func (zigzagCandidate) Compress(a array.Array) (array.Array, error) {
	c, err := array.Canonicalize(a)
	if err != nil {
		return array.Array{}, err
	}

	return encoding.ZigZagValues(a.DType.PType, a.DType.Nullable, c.Ints, c.Validity)
}

// dictCandidate interns repeated Bool/Primitive values into a small
// distinct-value table plus a code stream, winning on low-cardinality
// columns. Restricted to Bool/Primitive because encoding.NewDict's value
// builder only constructs those two canonical shapes.
type dictCandidate struct{}

func (dictCandidate) Name() string { return "dict" }

func (dictCandidate) CanCompress(a array.Array) bool {
	return a.DType.Kind == dtype.KindBool || a.DType.Kind == dtype.KindPrimitive
}

func (dictCandidate) Compress(a array.Array) (array.Array, error) {
	c, err := array.Canonicalize(a)
	if err != nil {
		return array.Array{}, err
	}

	values := make([]scalar.Scalar, c.Length)
	for i := range values {
		values[i] = scalarAtCanonical(c, i)
	}

	return encoding.NewDict(a.DType, values)
}

// runEndCandidate replaces runs of identical adjacent values with a
// (run-end, value) pair, winning on arrays with long repeated stretches.
type runEndCandidate struct{}

func (runEndCandidate) Name() string { return "runend" }

func (runEndCandidate) CanCompress(a array.Array) bool {
	return a.DType.Kind == dtype.KindBool || a.DType.Kind == dtype.KindPrimitive
}

func (runEndCandidate) Compress(a array.Array) (array.Array, error) {
	c, err := array.Canonicalize(a)
	if err != nil {
		return array.Array{}, err
	}

	if c.Length == 0 {
		return a, nil
	}

	var ends []uint64
	var runValues []scalar.Scalar

	cur := scalarAtCanonical(c, 0)
	for i := 1; i < c.Length; i++ {
		v := scalarAtCanonical(c, i)
		if !scalarEqual(cur, v) {
			ends = append(ends, uint64(i))
			runValues = append(runValues, cur)
			cur = v
		}
	}
	ends = append(ends, uint64(c.Length))
	runValues = append(runValues, cur)

	valuesC := canonicalFromScalars(a.DType, runValues)

	valuesArr, err := array.FromCanonical(valuesC)
	if err != nil {
		return array.Array{}, err
	}

	return encoding.NewRunEnd(a.DType, ends, valuesArr, 0)
}

func scalarEqual(a, b scalar.Scalar) bool {
	if a.IsNull() != b.IsNull() {
		return false
	}
	if a.IsNull() {
		return true
	}

	c, err := scalar.Compare(a, b)
	return err == nil && c == 0
}

// gorillaCandidate applies the Gorilla XOR-delta float codec, winning on
// slowly-varying float64 sequences.
type gorillaCandidate struct{}

func (gorillaCandidate) Name() string { return "gorilla" }

func (gorillaCandidate) CanCompress(a array.Array) bool {
	return a.DType.Kind == dtype.KindPrimitive && a.DType.PType == dtype.PTypeF64
}

func (gorillaCandidate) Compress(a array.Array) (array.Array, error) {
	c, err := array.Canonicalize(a)
	if err != nil {
		return array.Array{}, err
	}

	return encoding.NewGorilla(a.DType.Nullable, c.Floats, c.Validity)
}

// alpCandidate rescales float64 values by a decimal exponent and stores
// the rounded result as integers, winning on decimal-like float data.
type alpCandidate struct{}

func (alpCandidate) Name() string { return "alp" }

func (alpCandidate) CanCompress(a array.Array) bool {
	return a.DType.Kind == dtype.KindPrimitive && a.DType.PType == dtype.PTypeF64
}

func (alpCandidate) Compress(a array.Array) (array.Array, error) {
	c, err := array.Canonicalize(a)
	if err != nil {
		return array.Array{}, err
	}

	return encoding.NewALP(a.DType.Nullable, c.Floats, c.Validity)
}

// alpRDCandidate splits float64 bit patterns into a small top-bits
// dictionary plus raw bottom bits, winning on floats that don't have a
// clean decimal scaling but do share common high-order bit patterns.
type alpRDCandidate struct{}

func (alpRDCandidate) Name() string { return "alprd" }

func (alpRDCandidate) CanCompress(a array.Array) bool {
	return a.DType.Kind == dtype.KindPrimitive && a.DType.PType == dtype.PTypeF64
}

func (alpRDCandidate) Compress(a array.Array) (array.Array, error) {
	c, err := array.Canonicalize(a)
	if err != nil {
		return array.Array{}, err
	}

	return encoding.NewALPRD(a.DType.Nullable, c.Floats, c.Validity)
}
