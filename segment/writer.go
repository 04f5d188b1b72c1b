package segment

import (
	"github.com/vtxfmt/vtx/internal/pool"
)

// Writer appends segments sequentially to a single growable buffer,
// padding each to its declared alignment so a reader can reinterpret an
// uncompressed segment's bytes in place without a copy. Grounded on
// internal/pool.ByteBuffer's ExtendOrGrow/Grow growth policy, reused
// directly rather than reimplemented.
type Writer struct {
	buf     *pool.ByteBuffer
	entries []Entry
}

// NewWriter returns an empty Writer backed by a pooled file-sized buffer.
func NewWriter() *Writer {
	return &Writer{buf: pool.GetFileBuffer()}
}

// Append compresses data with codec, pads the buffer to align bytes, and
// records a new Entry describing where the (possibly compressed) bytes
// landed. align must be a power of two; 1 disables padding.
func (w *Writer) Append(data []byte, align int, compression CompressionType, codec Codec) (Entry, error) {
	compressed, err := codec.Compress(data)
	if err != nil {
		return Entry{}, err
	}

	w.pad(align)

	offset := w.buf.Len()
	w.buf.MustWrite(compressed)

	entry := Entry{
		Offset:             uint64(offset),
		Length:             uint32(len(compressed)),
		UncompressedLength: uint32(len(data)),
		Alignment:          uint16(align),
		Compression:        compression,
	}
	w.entries = append(w.entries, entry)

	return entry, nil
}

// pad writes zero bytes until the buffer's length is a multiple of align.
func (w *Writer) pad(align int) {
	if align <= 1 {
		return
	}

	rem := w.buf.Len() % align
	if rem == 0 {
		return
	}

	padding := align - rem
	w.buf.ExtendOrGrow(padding)
	b := w.buf.Bytes()
	for i := len(b) - padding; i < len(b); i++ {
		b[i] = 0
	}
}

// Bytes returns the accumulated segment bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Entries returns the Entry recorded for every Append call, in order.
func (w *Writer) Entries() []Entry { return w.entries }

// Release returns the Writer's backing buffer to the pool. The Writer must
// not be used afterward.
func (w *Writer) Release() {
	pool.PutFileBuffer(w.buf)
}
