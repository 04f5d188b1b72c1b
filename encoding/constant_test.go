package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/scalar"
)

// TestConstantBinaryNumericTakesVtableFastPath proves the optional-hook
// dispatch array.BinaryNumeric/array.Compare add actually fires: comparing
// or arithmetic-ing two Constant arrays must itself come back
// Constant-encoded, which only the vtable fast path produces — the
// canonicalize-then-rebuild fallback always returns primitive/bool.
func TestConstantBinaryNumericTakesVtableFastPath(t *testing.T) {
	lhs, err := encoding.NewConstant(scalar.Int64(7), 100)
	require.NoError(t, err)
	rhs, err := encoding.NewConstant(scalar.Int64(3), 100)
	require.NoError(t, err)

	sum, err := array.BinaryNumeric(array.OpAdd, lhs, rhs)
	require.NoError(t, err)
	require.Equal(t, encoding.IDConstant, sum.EncodingID, "BinaryNumeric must take the Constant vtable fast path, not canonicalize")
	require.Equal(t, 100, sum.Length)

	v, err := array.ScalarAt(sum, 42)
	require.NoError(t, err)
	require.Equal(t, int64(10), v.Value)

	gt, err := array.Compare(array.OpGt, lhs, rhs)
	require.NoError(t, err)
	require.Equal(t, encoding.IDConstant, gt.EncodingID)
	gv, err := array.ScalarAt(gt, 0)
	require.NoError(t, err)
	require.Equal(t, true, gv.Value)
}

func TestConstantBinaryNumericFallsBackOnMixedEncodings(t *testing.T) {
	lhs, err := encoding.NewConstant(scalar.Int64(7), 3)
	require.NoError(t, err)
	rhs, err := encoding.NewPrimitive(dtype.PTypeI64, false, 3, []int64{1, 2, 3}, nil, nil, array.AllValid())
	require.NoError(t, err)

	sum, err := array.BinaryNumeric(array.OpAdd, lhs, rhs)
	require.NoError(t, err)
	require.NotEqual(t, encoding.IDConstant, sum.EncodingID, "mixed encodings must fall back to the generic canonical path")

	v, err := array.ScalarAt(sum, 1)
	require.NoError(t, err)
	require.Equal(t, int64(9), v.Value)
}

func TestConstantIsConstantAndMinMaxUseVtableHooks(t *testing.T) {
	a, err := encoding.NewConstant(scalar.Int64(5), 1000)
	require.NoError(t, err)

	constant, err := array.IsConstant(a)
	require.NoError(t, err)
	require.True(t, constant)

	lo, hi, err := array.MinMax(a)
	require.NoError(t, err)
	require.Equal(t, int64(5), lo.Value)
	require.Equal(t, int64(5), hi.Value)
}

func TestConstantInvertAndCastFoldWithoutExpanding(t *testing.T) {
	b, err := encoding.NewConstant(scalar.Bool(true), 10)
	require.NoError(t, err)

	inv, err := array.Invert(b)
	require.NoError(t, err)
	require.Equal(t, encoding.IDConstant, inv.EncodingID)
	v, err := array.ScalarAt(inv, 0)
	require.NoError(t, err)
	require.Equal(t, false, v.Value)

	n, err := encoding.NewConstant(scalar.Int64(41), 10)
	require.NoError(t, err)

	casted, err := array.Cast(n, dtype.Primitive(dtype.PTypeF64, false))
	require.NoError(t, err)
	require.Equal(t, encoding.IDConstant, casted.EncodingID)
	cv, err := array.ScalarAt(casted, 5)
	require.NoError(t, err)
	require.Equal(t, float64(41), cv.Value)
}
