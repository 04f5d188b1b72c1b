package pool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/internal/pool"
)

func TestByteBufferGrowAndWrite(t *testing.T) {
	bb := pool.NewByteBuffer(4)
	bb.MustWrite([]byte("hello"))
	require.Equal(t, 5, bb.Len())
	require.Equal(t, "hello", string(bb.Bytes()))

	bb.ExtendOrGrow(10)
	require.Equal(t, 15, bb.Len())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
}

func TestByteBufferSetLengthAndSlice(t *testing.T) {
	bb := pool.NewByteBuffer(8)
	bb.ExtendOrGrow(8)
	require.Equal(t, 8, bb.Len())

	bb.SetLength(3)
	require.Equal(t, 3, bb.Len())

	require.Panics(t, func() { bb.SetLength(-1) })
	require.Panics(t, func() { bb.Slice(0, bb.Cap()+1) })
}

func TestByteBufferPoolRoundTrip(t *testing.T) {
	p := pool.NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	bb.MustWrite([]byte("abc"))

	p.Put(bb)

	reused := p.Get()
	require.Equal(t, 0, reused.Len(), "Put must reset the buffer before pooling it")
}

func TestByteBufferPoolDropsOversizedBuffers(t *testing.T) {
	p := pool.NewByteBufferPool(4, 8)

	bb := pool.NewByteBuffer(4)
	bb.ExtendOrGrow(100)
	p.Put(bb)
	require.Equal(t, 4, p.Get().Cap(), "a buffer above maxThreshold must not be pooled")

	// Putting nil must not panic.
	p.Put(nil)
}

func TestSegmentAndFileBufferHelpersRoundTrip(t *testing.T) {
	sb := pool.GetSegmentBuffer()
	sb.MustWrite([]byte("segment"))
	pool.PutSegmentBuffer(sb)

	fb := pool.GetFileBuffer()
	fb.MustWrite([]byte("file"))
	pool.PutFileBuffer(fb)
}
