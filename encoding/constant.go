package encoding

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/scalar"
)

// constantVtable represents an array whose every value (or null) is the
// same, storing neither buffers nor children — spec.md §4.3's Constant
// encoding. ScalarAt is O(1) for every index, and compute's constant-fold
// short-circuit (§4.5 step 1 of the sampling compressor's objective)
// checks is_constant before even considering other encodings.
type constantVtable struct{}

var (
	_ array.Vtable              = constantVtable{}
	_ array.BinaryNumericVtable = constantVtable{}
	_ array.InvertVtable        = constantVtable{}
	_ array.CastVtable          = constantVtable{}
	_ array.IsConstantVtable    = constantVtable{}
	_ array.MinMaxVtable        = constantVtable{}
)

func init() {
	array.Register(constantVtable{})
}

func (constantVtable) ID() array.EncodingID { return IDConstant }
func (constantVtable) Name() string         { return "constant" }
func (constantVtable) NumBuffers() int      { return 0 }
func (constantVtable) NumChildren() int     { return 0 }

func (constantVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	return dtype.DType{}, errs.New(errs.KindInvalidArgument, "encoding: constant has no children")
}

// constantMetadata is a tiny tagged encoding of the repeated scalar, since
// Array carries metadata as opaque bytes and Scalar.Value is an any. The
// scalar is carried inline in Metadata using a small discriminated
// encoding matching dtype.PType for primitives and raw bytes for
// Utf8/Binary; see encodeConstantScalar/decodeConstantScalar.
func encodeConstantScalar(s scalar.Scalar) []byte {
	if s.IsNull() {
		return []byte{0}
	}

	switch v := s.Value.(type) {
	case bool:
		if v {
			return []byte{1, 1}
		}
		return []byte{1, 0}
	case int64:
		return append([]byte{2}, encodeI64(v)...)
	case uint64:
		return append([]byte{3}, encodeU64(v)...)
	case float64:
		return append([]byte{4}, encodeF64(v)...)
	case string:
		return append([]byte{5}, []byte(v)...)
	case []byte:
		return append([]byte{6}, v...)
	default:
		return []byte{0}
	}
}

func decodeConstantScalar(dt dtype.DType, b []byte) scalar.Scalar {
	if len(b) == 0 || b[0] == 0 {
		return scalar.Null(dt)
	}

	switch b[0] {
	case 1:
		return scalar.Scalar{DType: dt, Value: b[1] != 0}
	case 2:
		return scalar.Scalar{DType: dt, Value: decodeI64(b[1:])}
	case 3:
		return scalar.Scalar{DType: dt, Value: decodeU64(b[1:])}
	case 4:
		return scalar.Scalar{DType: dt, Value: decodeF64(b[1:])}
	case 5:
		return scalar.Scalar{DType: dt, Value: string(b[1:])}
	case 6:
		return scalar.Scalar{DType: dt, Value: append([]byte{}, b[1:]...)}
	default:
		return scalar.Null(dt)
	}
}

func (v constantVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	s := decodeConstantScalar(a.DType, a.Metadata)
	n := a.Length

	if s.IsNull() {
		mask := make([]bool, n)
		return array.Canonical{Kind: array.CanonicalPrimitive, DType: a.DType, Length: n, Validity: array.FromMask(mask)}, nil
	}

	switch val := s.Value.(type) {
	case bool:
		vals := make([]bool, n)
		for i := range vals {
			vals[i] = val
		}

		return array.Canonical{Kind: array.CanonicalBool, DType: a.DType, Length: n, Validity: array.AllValid(), Bools: vals}, nil
	case int64:
		vals := make([]int64, n)
		for i := range vals {
			vals[i] = val
		}

		return array.Canonical{Kind: array.CanonicalPrimitive, DType: a.DType, Length: n, Validity: array.AllValid(), Ints: vals}, nil
	case uint64:
		vals := make([]uint64, n)
		for i := range vals {
			vals[i] = val
		}

		return array.Canonical{Kind: array.CanonicalPrimitive, DType: a.DType, Length: n, Validity: array.AllValid(), Uints: vals}, nil
	case float64:
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = val
		}

		return array.Canonical{Kind: array.CanonicalPrimitive, DType: a.DType, Length: n, Validity: array.AllValid(), Floats: vals}, nil
	default:
		return array.Canonical{}, errs.New(errs.KindNotImplemented, "encoding: constant canonicalize not implemented for %T", val)
	}
}

func (constantVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	s := decodeConstantScalar(a.DType, a.Metadata)
	c, err := scalarToSingleCanonical(s)
	if err != nil {
		return array.Canonical{}, false, err
	}

	return c, true, nil
}

func scalarToSingleCanonical(s scalar.Scalar) (array.Canonical, error) {
	if s.IsNull() {
		return array.Canonical{Kind: array.CanonicalPrimitive, DType: s.DType, Length: 1, Validity: array.FromMask([]bool{false})}, nil
	}

	switch v := s.Value.(type) {
	case bool:
		return array.Canonical{Kind: array.CanonicalBool, DType: s.DType, Length: 1, Validity: array.AllValid(), Bools: []bool{v}}, nil
	case int64:
		return array.Canonical{Kind: array.CanonicalPrimitive, DType: s.DType, Length: 1, Validity: array.AllValid(), Ints: []int64{v}}, nil
	case uint64:
		return array.Canonical{Kind: array.CanonicalPrimitive, DType: s.DType, Length: 1, Validity: array.AllValid(), Uints: []uint64{v}}, nil
	case float64:
		return array.Canonical{Kind: array.CanonicalPrimitive, DType: s.DType, Length: 1, Validity: array.AllValid(), Floats: []float64{v}}, nil
	default:
		return array.Canonical{}, errs.New(errs.KindNotImplemented, "encoding: constant scalar type %T", v)
	}
}

func (constantVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	return array.Array{EncodingID: IDConstant, DType: a.DType, Length: end - start, Metadata: a.Metadata}, nil
}

// NewConstant builds a Constant-encoded array of length n repeating value.
func NewConstant(value scalar.Scalar, n int) (array.Array, error) {
	return array.New(IDConstant, value.DType.WithNullable(value.DType.Nullable || value.IsNull()), n, encodeConstantScalar(value), nil, nil)
}

// BinaryNumeric constant-folds op(a, rhs) into a single scalar computation
// when both sides are Constant-encoded and the same length, the fast path
// spec.md §4.3 calls out ("constant-folds into other ops") instead of
// expanding either side to a full canonical buffer first. It reports
// ok=false for anything it doesn't know how to fold (mixed encodings,
// null operands, non-numeric values, unrecognized ops), letting
// array.BinaryNumeric fall back to its generic canonical path.
func (constantVtable) BinaryNumeric(op array.BinaryOp, a, rhs array.Array) (array.Array, bool, error) {
	if a.EncodingID != IDConstant || rhs.EncodingID != IDConstant || a.Length != rhs.Length {
		return array.Array{}, false, nil
	}

	ls := decodeConstantScalar(a.DType, a.Metadata)
	rs := decodeConstantScalar(rhs.DType, rhs.Metadata)
	if ls.IsNull() || rs.IsNull() {
		return array.Array{}, false, nil
	}

	isCompare := op >= array.OpEq && op <= array.OpGte
	if isCompare {
		eq, err := constantCompare(op, ls, rs)
		if err != nil {
			return array.Array{}, false, nil
		}

		out, err := NewConstant(scalar.Bool(eq), a.Length)
		return out, true, err
	}

	if op == array.OpAnd || op == array.OpOr {
		lb, lok := ls.Value.(bool)
		rb, rok := rs.Value.(bool)
		if !lok || !rok {
			return array.Array{}, false, nil
		}

		var v bool
		if op == array.OpAnd {
			v = lb && rb
		} else {
			v = lb || rb
		}

		out, err := NewConstant(scalar.Bool(v), a.Length)
		return out, true, err
	}

	result, ok := constantArith(op, ls, rs)
	if !ok {
		return array.Array{}, false, nil
	}

	out, err := NewConstant(result, a.Length)
	return out, true, err
}

func constantCompare(op array.BinaryOp, ls, rs scalar.Scalar) (bool, error) {
	c, err := scalar.Compare(ls, rs)
	if err != nil {
		return false, err
	}

	switch op {
	case array.OpEq:
		return c == 0, nil
	case array.OpNeq:
		return c != 0, nil
	case array.OpLt:
		return c < 0, nil
	case array.OpLte:
		return c <= 0, nil
	case array.OpGt:
		return c > 0, nil
	case array.OpGte:
		return c >= 0, nil
	default:
		return false, errs.New(errs.KindNotImplemented, "encoding: constant compare op %d", op)
	}
}

// constantArith applies an arithmetic op to two numeric scalars, promoting
// to float64 when either side is float and truncating back to int64
// otherwise — mirroring array/compute.go's binaryNumericCanonical so a
// cascade mixing Constant with other encodings produces the same result
// regardless of which side takes the fast path.
func constantArith(op array.BinaryOp, ls, rs scalar.Scalar) (scalar.Scalar, bool) {
	lf, lok := numericValue(ls)
	rf, rok := numericValue(rs)
	if !lok || !rok {
		return scalar.Scalar{}, false
	}

	var out float64
	switch op {
	case array.OpAdd:
		out = lf + rf
	case array.OpSub:
		out = lf - rf
	case array.OpMul:
		out = lf * rf
	case array.OpDiv:
		out = lf / rf
	default:
		return scalar.Scalar{}, false
	}

	useFloat := ls.DType.Kind == dtype.KindPrimitive && ls.DType.PType.IsFloat() ||
		rs.DType.Kind == dtype.KindPrimitive && rs.DType.PType.IsFloat()
	if useFloat {
		return scalar.Scalar{DType: ls.DType.WithNullable(true), Value: out}, true
	}

	return scalar.Scalar{DType: ls.DType.WithNullable(true), Value: int64(out)}, true
}

func numericValue(s scalar.Scalar) (float64, bool) {
	switch v := s.Value.(type) {
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// Invert folds NOT over a constant bool without materializing the array.
func (constantVtable) Invert(a array.Array) (array.Array, bool, error) {
	if a.EncodingID != IDConstant {
		return array.Array{}, false, nil
	}

	s := decodeConstantScalar(a.DType, a.Metadata)
	b, ok := s.Value.(bool)
	if !ok {
		return array.Array{}, false, nil
	}

	out, err := NewConstant(scalar.Bool(!b), a.Length)
	return out, true, err
}

// Cast folds a cast of the repeated value instead of expanding a into a
// full array first.
func (constantVtable) Cast(a array.Array, target dtype.DType) (array.Array, bool, error) {
	if a.EncodingID != IDConstant {
		return array.Array{}, false, nil
	}

	s := decodeConstantScalar(a.DType, a.Metadata)
	if s.IsNull() {
		out, err := NewConstant(scalar.Null(target), a.Length)
		return out, true, err
	}

	v, ok := numericValue(s)
	if !ok || target.Kind != dtype.KindPrimitive {
		return array.Array{}, false, nil
	}

	var cast scalar.Scalar
	switch {
	case target.PType.IsFloat():
		cast = scalar.Float64(v)
	case target.PType.IsSigned():
		cast = scalar.Int64(int64(v))
	default:
		if v < 0 {
			return array.Array{}, false, nil
		}
		cast = scalar.Uint64(uint64(v))
	}
	cast.DType = target

	out, err := NewConstant(cast, a.Length)
	return out, true, err
}

// IsConstant is always true for the Constant encoding by construction,
// answered in O(1) without decoding anything.
func (constantVtable) IsConstant(a array.Array) (bool, bool, error) {
	return true, true, nil
}

// MinMax returns the repeated value as both min and max, or ok=false for an
// all-null constant (no valid value to report).
func (constantVtable) MinMax(a array.Array) (scalar.Scalar, scalar.Scalar, bool, error) {
	s := decodeConstantScalar(a.DType, a.Metadata)
	if s.IsNull() {
		return scalar.Scalar{}, scalar.Scalar{}, false, nil
	}

	return s, s, true, nil
}
