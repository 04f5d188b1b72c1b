package encoding_test

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

func TestNewDictRoundTripsThroughCanonicalize(t *testing.T) {
	i64 := dtype.Primitive(dtype.PTypeI64, false)
	values := []scalar.Scalar{scalar.Int64(7), scalar.Int64(9), scalar.Int64(7), scalar.Int64(7)}

	a, err := encoding.NewDict(i64, values)
	require.NoError(t, err)
	require.Equal(t, 4, a.Length)

	// Two distinct values should have been interned, regardless of the
	// repeated occurrences.
	require.Equal(t, 2, a.Children[1].Length)

	canon, err := array.Canonicalize(a)
	require.NoError(t, err)
	require.Equal(t, []int64{7, 9, 7, 7}, canon.Ints)
}

func TestNewRunEndExpandsRunsOnCanonicalize(t *testing.T) {
	i64 := dtype.Primitive(dtype.PTypeI64, false)
	values := mustI64(t, 1, 2, 3)

	a, err := encoding.NewRunEnd(i64, []uint64{2, 5, 6}, values, 0)
	require.NoError(t, err)
	require.Equal(t, 6, a.Length)

	canon, err := array.Canonicalize(a)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 1, 2, 2, 2, 3}, canon.Ints)
}

func TestNewBitPackRoundTripsThroughCanonicalize(t *testing.T) {
	vals := []uint64{0, 1, 2, 3, 4, 5, 6, 7}
	a, err := encoding.NewBitPack(dtype.PTypeU64, false, vals, 3, array.NonNullable())
	require.NoError(t, err)
	require.Equal(t, len(vals), a.Length)

	canon, err := array.Canonicalize(a)
	require.NoError(t, err)
	require.Equal(t, vals, canon.Uints)
}

func TestNewConstantRepeatsValue(t *testing.T) {
	a, err := encoding.NewConstant(scalar.Int64(42), 5)
	require.NoError(t, err)
	require.Equal(t, 5, a.Length)

	canon, err := array.Canonicalize(a)
	require.NoError(t, err)
	for _, v := range canon.Ints {
		require.Equal(t, int64(42), v)
	}
}

func TestNewChunkedConcatenatesChildrenOnCanonicalize(t *testing.T) {
	i64 := dtype.Primitive(dtype.PTypeI64, false)
	a, err := encoding.NewChunked(i64, []array.Array{mustI64(t, 1, 2), mustI64(t, 3, 4, 5)})
	require.NoError(t, err)
	require.Equal(t, 5, a.Length)

	canon, err := array.Canonicalize(a)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3, 4, 5}, canon.Ints)
}

func TestNewStructCanonicalizesPerField(t *testing.T) {
	i64 := dtype.Primitive(dtype.PTypeI64, false)
	fields := []dtype.Field{{Name: "a", DType: i64}, {Name: "b", DType: i64}}

	a, err := encoding.NewStruct(fields, []array.Array{mustI64(t, 1, 2), mustI64(t, 10, 20)}, false, array.NonNullable())
	require.NoError(t, err)

	canon, err := array.Canonicalize(a)
	require.NoError(t, err)
	require.Equal(t, array.CanonicalStruct, canon.Kind)
	require.Equal(t, []string{"a", "b"}, canon.FieldNames)
	require.Equal(t, []int64{1, 2}, canon.StructFlds[0].Ints)
	require.Equal(t, []int64{10, 20}, canon.StructFlds[1].Ints)
}
