package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/buffer"
)

func TestBufferSliceNarrowsWithoutCopy(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	b := buffer.FromBytes(data)

	sub, err := b.Slice(1, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 3, 4}, sub.Bytes())

	data[1] = 99
	require.Equal(t, byte(99), sub.Bytes()[0], "slice must share backing storage")
}

func TestBufferSliceOutOfBounds(t *testing.T) {
	b := buffer.FromBytes([]byte{1, 2, 3})
	_, err := b.Slice(2, 10)
	require.Error(t, err)
}

func TestViewReinterpretsBytesAsTypedSlice(t *testing.T) {
	raw := []byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0}
	b := buffer.New(raw, 8)

	vals, err := buffer.View[int64](b)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, vals)
}

func TestViewRejectsMisalignedLength(t *testing.T) {
	b := buffer.FromBytes([]byte{1, 2, 3})
	_, err := buffer.View[int32](b)
	require.Error(t, err)
}

func TestConcat(t *testing.T) {
	a := buffer.FromBytes([]byte{1, 2})
	b := buffer.FromBytes([]byte{3, 4})
	got := buffer.Concat(a, b)
	require.Equal(t, []byte{1, 2, 3, 4}, got.Bytes())
}

func TestSliceRejectsMisalignedBoundary(t *testing.T) {
	b := buffer.New(make([]byte, 16), 8)

	_, err := b.Slice(8, 16)
	require.NoError(t, err)

	_, err = b.Slice(1, 8)
	require.Error(t, err, "Slice must fail on a start offset that is not a multiple of the buffer's alignment")
}

func TestSliceUnalignedAlwaysSucceeds(t *testing.T) {
	b := buffer.New(make([]byte, 16), 8)

	sub, err := b.SliceUnaligned(1, 5)
	require.NoError(t, err)
	require.Equal(t, 1, sub.Alignment())
	require.Len(t, sub.Bytes(), 4)
}

func TestAlignedToCopiesWhenUnsatisfied(t *testing.T) {
	raw := make([]byte, 64)
	b := buffer.New(raw, 1)

	out := b.AlignedTo(32)
	require.True(t, out.Aligned())
	require.Equal(t, 32, out.Alignment())
	require.Equal(t, raw[:len(out.Bytes())], out.Bytes())
}

func TestIntoMutZeroCopiesSoleOwner(t *testing.T) {
	b := buffer.CopyFrom([]byte{1, 2, 3})

	m := b.IntoMut()
	m.Bytes()[0] = 9

	frozen := m.Freeze()
	require.Equal(t, byte(9), frozen.Bytes()[0])
}

func TestIntoMutCopiesWhenShared(t *testing.T) {
	b := buffer.CopyFrom([]byte{1, 2, 3, 4})

	_, err := b.SliceUnaligned(0, 2) // shares b's refcount
	require.NoError(t, err)

	m := b.IntoMut()
	m.Bytes()[0] = 9

	require.Equal(t, byte(1), b.Bytes()[0], "IntoMut must copy rather than alias once the buffer is shared")
}
