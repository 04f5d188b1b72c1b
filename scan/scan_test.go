package scan

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/expr"
	"github.com/vtxfmt/vtx/layout"
	"github.com/vtxfmt/vtx/scalar"
	"github.com/vtxfmt/vtx/segment"
)

func mustInt64Array(t *testing.T, vals ...int64) array.Array {
	t.Helper()
	a, err := encoding.NewPrimitive(dtype.PTypeI64, false, len(vals), vals, nil, nil, array.AllValid())
	require.NoError(t, err)

	return a
}

func fixedFileID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.UUID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
}

func structFields() []dtype.Field {
	i64 := dtype.Primitive(dtype.PTypeI64, false)
	return []dtype.Field{{Name: "x", DType: i64}, {Name: "y", DType: i64}}
}

// buildChunk writes one row group as a struct layout whose "x" field is
// zone-mapped (blockSize 50) and whose "y" field is a plain flat layout,
// built by hand rather than through layout.Write(structArray, ...) since
// Write's struct path has no way to know a caller wants one field zoned.
func buildChunk(t *testing.T, w *segment.Writer, cfg layout.WriterConfig, xs, ys []int64) layout.Layout {
	t.Helper()

	xArr := mustInt64Array(t, xs...)
	yArr := mustInt64Array(t, ys...)

	xData, err := layout.Write(w, xArr, cfg)
	require.NoError(t, err)
	xZoned, err := layout.WrapZoned(w, xData, xArr, 50, cfg)
	require.NoError(t, err)

	yLay, err := layout.Write(w, yArr, cfg)
	require.NoError(t, err)

	st, err := encoding.NewStruct(structFields(), []array.Array{xArr, yArr}, false, array.NonNullable())
	require.NoError(t, err)

	_, err = w.Append(st.Buffers[0].Data, cfg.Alignment, cfg.Compression, cfg.Codec)
	require.NoError(t, err)
	validityIdx := uint32(len(w.Entries()) - 1)

	return layout.Layout{
		Encoding: layout.IDStruct,
		RowCount: uint64(len(xs)),
		Segments: []uint32{validityIdx},
		Children: []layout.Layout{xZoned, yLay},
	}
}

func rangeInt64(start, n int64) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = start + int64(i)
	}

	return out
}

func TestScanPrunesWholeChunkByZoneMap(t *testing.T) {
	w := segment.NewWriter()
	defer w.Release()
	cfg := layout.DefaultWriterConfig()

	chunk0 := buildChunk(t, w, cfg, rangeInt64(0, 100), rangeInt64(0, 100))
	chunk1 := buildChunk(t, w, cfg, rangeInt64(1000, 100), rangeInt64(100, 100))

	top := layout.Layout{
		Encoding: layout.IDChunked,
		RowCount: 200,
		Children: []layout.Layout{chunk0, chunk1},
	}

	rd := segment.NewReader(fixedFileID(t), w.Bytes(), nil)
	rcfg := layout.ReaderConfig{Entries: w.Entries(), Engine: cfg.Engine}
	dt := dtype.Struct(structFields(), false)

	filter := expr.NewBinary(expr.OpGt, expr.NewGetItemName("x", expr.NewIdent()), expr.NewLiteral(scalar.Int64(500)))

	metrics := NewMetrics(prometheus.NewRegistry())
	scanner := NewScanner(rd, rcfg, top, dt, filter, nil, DefaultConfig(), metrics, nil)

	var results []Result
	for r := range scanner.Scan(context.Background()) {
		results = append(results, r)
	}

	require.Len(t, results, 1, "chunk 0 should be pruned entirely, only chunk 1 survives")
	require.NoError(t, results[0].Err)
	require.Equal(t, uint64(100), results[0].RowOffset)
	require.Equal(t, 100, results[0].Array.Length)

	yField := results[0].Array.Children[1]
	for i := 0; i < 100; i++ {
		got, err := array.ScalarAt(yField, i)
		require.NoError(t, err)
		require.Equal(t, int64(100+i), got.Value)
	}
}

func TestScanWithoutFilterEmitsEverySplit(t *testing.T) {
	w := segment.NewWriter()
	defer w.Release()
	cfg := layout.DefaultWriterConfig()

	chunk0 := buildChunk(t, w, cfg, rangeInt64(0, 100), rangeInt64(0, 100))
	chunk1 := buildChunk(t, w, cfg, rangeInt64(1000, 100), rangeInt64(100, 100))

	top := layout.Layout{
		Encoding: layout.IDChunked,
		RowCount: 200,
		Children: []layout.Layout{chunk0, chunk1},
	}

	rd := segment.NewReader(fixedFileID(t), w.Bytes(), nil)
	rcfg := layout.ReaderConfig{Entries: w.Entries(), Engine: cfg.Engine}
	dt := dtype.Struct(structFields(), false)

	scanner := NewScanner(rd, rcfg, top, dt, nil, nil, DefaultConfig(), nil, nil)

	var total int
	var order []uint64
	for r := range scanner.Scan(context.Background()) {
		require.NoError(t, r.Err)
		total += r.Array.Length
		order = append(order, r.RowOffset)
	}

	require.Equal(t, 200, total)
	require.Equal(t, []uint64{0, 100}, order, "splits must be emitted in file order")
}

func TestComputeSplitsNonChunkedIsSingleSplit(t *testing.T) {
	lay := layout.Layout{Encoding: layout.IDFlat, RowCount: 42}
	splits := ComputeSplits(lay)
	require.Len(t, splits, 1)
	require.Equal(t, uint64(0), splits[0].RowOffset)
	require.Equal(t, uint64(42), splits[0].RowCount)
}

func TestRowMaskAndAndDensity(t *testing.T) {
	m := NewRowMask(0, 4)
	require.Equal(t, 1.0, m.Density())

	m.And([]bool{true, false, true, false})
	require.Equal(t, 0.5, m.Density())
	require.False(t, m.AllFalse())
	require.Equal(t, []int{0, 2}, m.SurvivingIndices())

	m.And([]bool{false, false, false, false})
	require.True(t, m.AllFalse())
}

func TestConjunctHistogramOrdersBySelectivity(t *testing.T) {
	h := NewConjunctHistogram()
	h.Report("a", 0.9)
	h.Report("b", 0.1)

	order := h.Order([]string{"a", "b", "c"})
	require.Equal(t, []int{1, 0, 2}, order, "b (lowest selectivity) first, unseen c last")
}
