package stats_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/scalar"
	"github.com/vtxfmt/vtx/stats"
)

func TestComputeUint64AllValidSorted(t *testing.T) {
	s := stats.ComputeUint64([]uint64{1, 2, 2, 5}, stats.ShapeAllValid, nil)
	require.True(t, s.Has(stats.StatIsSorted))
	require.True(t, s.IsSorted)
	require.False(t, s.IsStrictSorted)
	require.Equal(t, uint64(0), s.NullCount)
	require.Equal(t, uint64(3), s.RunCount)

	min, err := s.Min.AsUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(1), min)
}

func TestComputeUint64AllInvalid(t *testing.T) {
	s := stats.ComputeUint64([]uint64{0, 0, 0}, stats.ShapeAllInvalid, nil)
	require.Equal(t, uint64(3), s.NullCount)
	require.True(t, s.IsConstant)
}

func TestComputeUint64Masked(t *testing.T) {
	s := stats.ComputeUint64([]uint64{9, 9, 9}, stats.ShapeMasked, []bool{true, false, true})
	require.Equal(t, uint64(1), s.NullCount)
	require.True(t, s.IsConstant)
}

func TestMergeSumsNullCounts(t *testing.T) {
	var a, b stats.StatsSet
	a.SetNullCount(2)
	a.SetMin(scalar.Uint64(1))
	a.SetMax(scalar.Uint64(5))
	b.SetNullCount(3)
	b.SetMin(scalar.Uint64(0))
	b.SetMax(scalar.Uint64(10))

	merged := stats.Merge([]stats.StatsSet{a, b})
	require.True(t, merged.Global)
	require.Equal(t, uint64(5), merged.NullCount)

	min, _ := merged.Min.AsUint64()
	max, _ := merged.Max.AsUint64()
	require.Equal(t, uint64(0), min)
	require.Equal(t, uint64(10), max)
}
