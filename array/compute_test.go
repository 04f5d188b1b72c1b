package array_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/scalar"
)

func mustI64(t *testing.T, vals ...int64) array.Array {
	t.Helper()
	a, err := encoding.NewPrimitive(dtype.PTypeI64, false, len(vals), vals, nil, nil, array.AllValid())
	require.NoError(t, err)

	return a
}

func TestScalarAtOutOfBounds(t *testing.T) {
	a := mustI64(t, 1, 2, 3)
	_, err := array.ScalarAt(a, 3)
	require.Error(t, err)
}

func TestTakeAndFilterOnPrimitive(t *testing.T) {
	a := mustI64(t, 10, 20, 30, 40)

	taken, err := array.Take(a, []int{3, 0})
	require.NoError(t, err)
	require.Equal(t, 2, taken.Length)
	v0, err := array.ScalarAt(taken, 0)
	require.NoError(t, err)
	require.Equal(t, int64(40), v0.Value)
	v1, err := array.ScalarAt(taken, 1)
	require.NoError(t, err)
	require.Equal(t, int64(10), v1.Value)

	filtered, err := array.Filter(a, []bool{true, false, true, false})
	require.NoError(t, err)
	require.Equal(t, 2, filtered.Length)
	f0, err := array.ScalarAt(filtered, 0)
	require.NoError(t, err)
	require.Equal(t, int64(10), f0.Value)
	f1, err := array.ScalarAt(filtered, 1)
	require.NoError(t, err)
	require.Equal(t, int64(30), f1.Value)
}

func TestTakeOutOfBoundsIndex(t *testing.T) {
	a := mustI64(t, 1, 2, 3)
	_, err := array.Take(a, []int{5})
	require.Error(t, err)
}

// TestFilterOnStructRecursesIntoFields guards the fix that taught
// takeCanonical (and so Filter, which delegates to it) to recurse into
// CanonicalStruct fields instead of erroring with KindNotImplemented: a
// row-masked struct array must keep every field in lockstep with the
// surviving rows.
func TestFilterOnStructRecursesIntoFields(t *testing.T) {
	xArr := mustI64(t, 1, 2, 3, 4)
	yArr := mustI64(t, 100, 200, 300, 400)

	fields := []dtype.Field{
		{Name: "x", DType: dtype.Primitive(dtype.PTypeI64, false)},
		{Name: "y", DType: dtype.Primitive(dtype.PTypeI64, false)},
	}
	st, err := encoding.NewStruct(fields, []array.Array{xArr, yArr}, false, array.NonNullable())
	require.NoError(t, err)

	filtered, err := array.Filter(st, []bool{false, true, false, true})
	require.NoError(t, err)
	require.Equal(t, 2, filtered.Length)
	require.Len(t, filtered.Children, 2)

	xGot, err := array.ScalarAt(filtered.Children[0], 0)
	require.NoError(t, err)
	require.Equal(t, int64(2), xGot.Value)
	yGot, err := array.ScalarAt(filtered.Children[1], 1)
	require.NoError(t, err)
	require.Equal(t, int64(400), yGot.Value)
}

func TestBinaryNumericComparisonAndArithmetic(t *testing.T) {
	lhs := mustI64(t, 1, 2, 3)
	rhs := mustI64(t, 3, 2, 1)

	gt, err := array.Compare(array.OpGt, lhs, rhs)
	require.NoError(t, err)
	canon, err := array.Canonicalize(gt)
	require.NoError(t, err)
	require.Equal(t, []bool{false, false, true}, canon.Bools)

	sum, err := array.BinaryNumeric(array.OpAdd, lhs, rhs)
	require.NoError(t, err)
	v, err := array.ScalarAt(sum, 1)
	require.NoError(t, err)
	require.Equal(t, int64(4), v.Value)
}

func TestBinaryNumericLengthMismatch(t *testing.T) {
	lhs := mustI64(t, 1, 2)
	rhs := mustI64(t, 1, 2, 3)
	_, err := array.BinaryNumeric(array.OpAdd, lhs, rhs)
	require.Error(t, err)
}

func TestInvertBool(t *testing.T) {
	bools, err := encoding.NewPrimitive(dtype.PTypeI64, false, 2, []int64{1, 0}, nil, nil, array.AllValid())
	require.NoError(t, err)
	cmp, err := array.Compare(array.OpGt, bools, mustI64(t, 0, 0))
	require.NoError(t, err)

	inv, err := array.Invert(cmp)
	require.NoError(t, err)
	canon, err := array.Canonicalize(inv)
	require.NoError(t, err)
	require.Equal(t, []bool{false, true}, canon.Bools)
}

func TestSearchSortedFindsInsertionPoint(t *testing.T) {
	a := mustI64(t, 1, 3, 5, 7, 9)

	idx, err := array.SearchSorted(a, scalar.Int64(6))
	require.NoError(t, err)
	require.Equal(t, 3, idx)

	idx0, err := array.SearchSorted(a, scalar.Int64(0))
	require.NoError(t, err)
	require.Equal(t, 0, idx0)
}

func TestListContainsMatchesElement(t *testing.T) {
	elem := mustI64(t, 1, 2, 3, 4, 5, 6)
	lst, err := encoding.NewList(dtype.Primitive(dtype.PTypeI64, false), false, []int{0, 3, 6}, elem, array.NonNullable())
	require.NoError(t, err)

	res, err := array.ListContains(lst, scalar.Int64(2))
	require.NoError(t, err)
	canon, err := array.Canonicalize(res)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false}, canon.Bools)
}
