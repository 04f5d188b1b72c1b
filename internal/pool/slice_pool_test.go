package pool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/internal/pool"
)

func TestGetInt64SliceReturnsExactLength(t *testing.T) {
	s, done := pool.GetInt64Slice(5)
	require.Len(t, s, 5)
	for i := range s {
		s[i] = int64(i)
	}
	done()

	s2, done2 := pool.GetInt64Slice(3)
	require.Len(t, s2, 3)
	done2()
}

func TestSlicePoolsCoverEveryScalarKind(t *testing.T) {
	f, doneF := pool.GetFloat64Slice(2)
	require.Len(t, f, 2)
	doneF()

	u, doneU := pool.GetUint64Slice(4)
	require.Len(t, u, 4)
	doneU()

	strs, doneS := pool.GetStringSlice(1)
	require.Len(t, strs, 1)
	doneS()

	bools, doneB := pool.GetBoolSlice(6)
	require.Len(t, bools, 6)
	doneB()
}
