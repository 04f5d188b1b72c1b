package layout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/expr"
	"github.com/vtxfmt/vtx/scalar"
	"github.com/vtxfmt/vtx/segment"
)

func mustInt64Array(t *testing.T, vals ...int64) array.Array {
	t.Helper()
	a, err := encoding.NewPrimitive(dtype.PTypeI64, false, len(vals), vals, nil, nil, array.AllValid())
	require.NoError(t, err)

	return a
}

func TestWriteReadFlat(t *testing.T) {
	a := mustInt64Array(t, 1, 2, 3, 4, 5)

	w := segment.NewWriter()
	defer w.Release()
	cfg := DefaultWriterConfig()

	lay, err := Write(w, a, cfg)
	require.NoError(t, err)
	require.Equal(t, IDFlat, lay.Encoding)
	require.Equal(t, uint64(5), lay.RowCount)

	rd := segment.NewReader(fixedFileID(t), w.Bytes(), nil)
	rcfg := ReaderConfig{Entries: w.Entries(), Engine: cfg.Engine}

	got, err := Read(rd, lay, a.DType, rcfg)
	require.NoError(t, err)
	require.Equal(t, a.Length, got.Length)

	for i := 0; i < a.Length; i++ {
		want, err := array.ScalarAt(a, i)
		require.NoError(t, err)
		have, err := array.ScalarAt(got, i)
		require.NoError(t, err)
		require.Equal(t, want.Value, have.Value)
	}
}

func TestWriteReadChunked(t *testing.T) {
	dt := dtype.Primitive(dtype.PTypeI64, false)
	c0 := mustInt64Array(t, 1, 2, 3)
	c1 := mustInt64Array(t, 4, 5)

	chunked, err := encoding.NewChunked(dt, []array.Array{c0, c1})
	require.NoError(t, err)

	w := segment.NewWriter()
	defer w.Release()
	cfg := DefaultWriterConfig()

	lay, err := Write(w, chunked, cfg)
	require.NoError(t, err)
	require.Equal(t, IDChunked, lay.Encoding)
	require.Len(t, lay.Children, 2)

	rd := segment.NewReader(fixedFileID(t), w.Bytes(), nil)
	rcfg := ReaderConfig{Entries: w.Entries(), Engine: cfg.Engine}

	got, err := Read(rd, lay, dt, rcfg)
	require.NoError(t, err)
	require.Equal(t, 5, got.Length)

	for i := 0; i < 5; i++ {
		want, err := array.ScalarAt(chunked, i)
		require.NoError(t, err)
		have, err := array.ScalarAt(got, i)
		require.NoError(t, err)
		require.Equal(t, want.Value, have.Value)
	}
}

func TestWriteReadStruct(t *testing.T) {
	a := mustInt64Array(t, 10, 20, 30)
	b := mustInt64Array(t, 100, 200, 300)

	fields := []dtype.Field{{Name: "a", DType: a.DType}, {Name: "b", DType: b.DType}}
	st, err := encoding.NewStruct(fields, []array.Array{a, b}, false, array.NonNullable())
	require.NoError(t, err)

	w := segment.NewWriter()
	defer w.Release()
	cfg := DefaultWriterConfig()

	lay, err := Write(w, st, cfg)
	require.NoError(t, err)
	require.Equal(t, IDStruct, lay.Encoding)
	require.Len(t, lay.Segments, 1)
	require.Len(t, lay.Children, 2)

	rd := segment.NewReader(fixedFileID(t), w.Bytes(), nil)
	rcfg := ReaderConfig{Entries: w.Entries(), Engine: cfg.Engine}

	got, err := Read(rd, lay, st.DType, rcfg)
	require.NoError(t, err)
	require.Equal(t, 3, got.Length)
	require.Len(t, got.Children, 2)
}

func TestWriteReadZoned(t *testing.T) {
	vals := make([]int64, 0, 4096)
	for i := 0; i < 4096; i++ {
		vals = append(vals, int64(i))
	}
	a := mustInt64Array(t, vals...)

	w := segment.NewWriter()
	defer w.Release()
	cfg := DefaultWriterConfig()

	dataLayout, err := Write(w, a, cfg)
	require.NoError(t, err)

	zoned, err := WrapZoned(w, dataLayout, a, 1024, cfg)
	require.NoError(t, err)
	require.Equal(t, IDZoned, zoned.Encoding)
	require.Len(t, zoned.Children, 2)

	rd := segment.NewReader(fixedFileID(t), w.Bytes(), nil)
	rcfg := ReaderConfig{Entries: w.Entries(), Engine: cfg.Engine}

	got, err := Read(rd, zoned, a.DType, rcfg)
	require.NoError(t, err)
	require.Equal(t, a.Length, got.Length)

	blockSize, err := ZoneBlockSize(zoned, cfg.Engine)
	require.NoError(t, err)
	require.Equal(t, 1024, blockSize)
}

func TestPruneDropsNonMatchingBlocks(t *testing.T) {
	vals := make([]int64, 0, 2048)
	for i := 0; i < 2048; i++ {
		vals = append(vals, int64(i))
	}
	a := mustInt64Array(t, vals...)

	w := segment.NewWriter()
	defer w.Release()
	cfg := DefaultWriterConfig()

	dataLayout, err := Write(w, a, cfg)
	require.NoError(t, err)

	zoned, err := WrapZoned(w, dataLayout, a, 1024, cfg)
	require.NoError(t, err)

	rd := segment.NewReader(fixedFileID(t), w.Bytes(), nil)
	rcfg := ReaderConfig{Entries: w.Entries(), Engine: cfg.Engine}

	// block 0 covers [0,1024), block 1 covers [1024,2048); x > 2000 can
	// only be true in block 1.
	filter := expr.NewBinary(expr.OpGt, expr.NewGetItemName("x", expr.NewIdent()), expr.NewLiteral(scalar.Int64(2000)))

	surviving, err := Prune(rd, zoned, a.DType, "x", rcfg, filter)
	require.NoError(t, err)
	require.Equal(t, []int{1}, surviving)
}

func TestRegisterAndRequiredSegments(t *testing.T) {
	dt := dtype.Primitive(dtype.PTypeI64, false)
	c0 := mustInt64Array(t, 1, 2, 3)
	c1 := mustInt64Array(t, 4, 5)
	chunked, err := encoding.NewChunked(dt, []array.Array{c0, c1})
	require.NoError(t, err)

	w := segment.NewWriter()
	defer w.Release()
	cfg := DefaultWriterConfig()

	lay, err := Write(w, chunked, cfg)
	require.NoError(t, err)

	splits := map[uint64]struct{}{}
	RegisterSplits(lay, 0, splits)
	sorted := SortedSplits(splits)
	require.Equal(t, []uint64{0, 3, 5}, sorted)

	var segs []uint32
	RequiredSegments(lay, 0, 3, &segs)
	require.Equal(t, []uint32{0}, segs, "window over the first chunk should only need its own segment")

	var allSegs []uint32
	RequiredSegments(lay, 0, 5, &allSegs)
	require.Equal(t, []uint32{0, 1}, allSegs)
}

func fixedFileID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.UUID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
}
