package vtx_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx"
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/expr"
	"github.com/vtxfmt/vtx/scalar"
	"github.com/vtxfmt/vtx/scan"
)

func mustStruct(t *testing.T, xs, ys []int64) (array.Array, dtype.DType) {
	t.Helper()

	i64 := dtype.Primitive(dtype.PTypeI64, false)
	xArr, err := encoding.NewPrimitive(dtype.PTypeI64, false, len(xs), xs, nil, nil, array.AllValid())
	require.NoError(t, err)
	yArr, err := encoding.NewPrimitive(dtype.PTypeI64, false, len(ys), ys, nil, nil, array.AllValid())
	require.NoError(t, err)

	fields := []dtype.Field{{Name: "x", DType: i64}, {Name: "y", DType: i64}}
	st, err := encoding.NewStruct(fields, []array.Array{xArr, yArr}, false, array.NonNullable())
	require.NoError(t, err)

	return st, dtype.Struct(fields, false)
}

func TestWriteFileThenReadRoundTrips(t *testing.T) {
	st, dt := mustStruct(t, []int64{10, 20, 30}, []int64{1, 2, 3})

	data, err := vtx.WriteFile(st, dt, vtx.DefaultWriteConfig())
	require.NoError(t, err)

	f, err := vtx.OpenFile(uuid.New(), data, nil)
	require.NoError(t, err)
	require.True(t, dt.Equal(f.DType()))
	require.Equal(t, uint64(3), f.RowCount())

	got, err := f.Read()
	require.NoError(t, err)
	require.Equal(t, 3, got.Length)

	xField := got.Children[0]
	for i, want := range []int64{10, 20, 30} {
		v, err := array.ScalarAt(xField, i)
		require.NoError(t, err)
		require.Equal(t, want, v.Value)
	}
}

func TestOpenFileThenScanAppliesFilter(t *testing.T) {
	st, dt := mustStruct(t, []int64{10, 20, 30, 40}, []int64{1, 2, 3, 4})

	data, err := vtx.WriteFile(st, dt, vtx.DefaultWriteConfig())
	require.NoError(t, err)

	f, err := vtx.OpenFile(uuid.New(), data, nil)
	require.NoError(t, err)

	filter := expr.NewBinary(expr.OpGt, expr.NewGetItemName("x", expr.NewIdent()), expr.NewLiteral(scalar.Int64(15)))

	var results []scan.Result
	for r := range f.Scan(context.Background(), filter, nil, scan.DefaultConfig(), nil, nil) {
		require.NoError(t, r.Err)
		results = append(results, r)
	}

	require.Len(t, results, 1)
	require.Equal(t, 3, results[0].Array.Length)

	xField := results[0].Array.Children[0]
	for i, want := range []int64{20, 30, 40} {
		v, err := array.ScalarAt(xField, i)
		require.NoError(t, err)
		require.Equal(t, want, v.Value)
	}
}

func TestOpenFileRejectsBadMagic(t *testing.T) {
	st, dt := mustStruct(t, []int64{1}, []int64{1})

	data, err := vtx.WriteFile(st, dt, vtx.DefaultWriteConfig())
	require.NoError(t, err)

	data[len(data)-1] = 'X'

	_, err = vtx.OpenFile(uuid.New(), data, nil)
	require.Error(t, err)
}
