// Package buffer implements the alignment-aware byte buffers that back every
// array's physical storage (C1). A Buffer is an immutable view over a byte
// slice, optionally shared via a reference count when it wraps memory
// obtained from a memory-mapped segment.
package buffer

import (
	"sync/atomic"
	"unsafe"

	"github.com/vtxfmt/vtx/errs"
)

// Buffer is an immutable, alignment-tagged view over bytes. Slicing a Buffer
// never copies; it narrows the view and keeps the original backing array
// alive via Go's slice semantics.
type Buffer struct {
	data      []byte
	alignment int
	refs      *int32
}

func newRefCount() *int32 {
	n := int32(1)
	return &n
}

// shareRefs records that a second Buffer value now views b's backing
// storage and returns the shared counter for it to use.
func (b Buffer) shareRefs() *int32 {
	if b.refs == nil {
		return newRefCount()
	}
	atomic.AddInt32(b.refs, 1)
	return b.refs
}

// New wraps data with the given alignment. alignment must be a power of two
// and data's address must actually satisfy it for Aligned to report true;
// New itself does not validate the address, only record the claim.
func New(data []byte, alignment int) Buffer {
	if alignment <= 0 {
		alignment = 1
	}

	return Buffer{data: data, alignment: alignment, refs: newRefCount()}
}

// FromBytes wraps data with 1-byte (unaligned) alignment, the common case
// for buffers decoded from an arbitrary byte stream.
func FromBytes(data []byte) Buffer {
	return Buffer{data: data, alignment: 1, refs: newRefCount()}
}

// CopyFrom copies data into a freshly allocated, 1-byte-aligned Buffer.
func CopyFrom(data []byte) Buffer {
	out := append([]byte{}, data...)
	return Buffer{data: out, alignment: 1, refs: newRefCount()}
}

// CopyFromAligned copies data into a freshly allocated buffer whose start
// address actually satisfies align, unlike New, which only records the
// alignment claim without allocating to match it.
func CopyFromAligned(data []byte, align int) Buffer {
	if align <= 0 {
		align = 1
	}
	if len(data) == 0 {
		return Buffer{alignment: align, refs: newRefCount()}
	}

	return copyAligned(data, align)
}

// Len returns the buffer's length in bytes.
func (b Buffer) Len() int { return len(b.data) }

// Bytes returns the raw backing slice. Callers must not mutate it; Buffer's
// immutability invariant depends on this.
func (b Buffer) Bytes() []byte { return b.data }

// Alignment returns the alignment this buffer claims to satisfy.
func (b Buffer) Alignment() int { return b.alignment }

// Aligned reports whether the buffer's start address is actually a multiple
// of its claimed alignment.
func (b Buffer) Aligned() bool {
	if len(b.data) == 0 {
		return true
	}

	addr := uintptr(unsafe.Pointer(&b.data[0]))

	return addr%uintptr(b.alignment) == 0
}

// Slice returns the sub-range [start, end) as a new Buffer retaining b's
// alignment, failing when start or end is not a multiple of it. This is the
// hard SIMD-safety contract: a caller that gets a Buffer back knows its
// declared alignment actually holds, with no silent downgrade. Use
// SliceUnaligned for an arbitrary byte boundary that need not align.
func (b Buffer) Slice(start, end int) (Buffer, error) {
	if start < 0 || end < start || end > len(b.data) {
		return Buffer{}, errs.New(errs.KindOutOfBounds, "buffer: slice [%d:%d) out of range for length %d", start, end, len(b.data))
	}

	if start%b.alignment != 0 || end%b.alignment != 0 {
		return Buffer{}, errs.New(errs.KindInvalidArgument, "buffer: slice [%d:%d) not aligned to %d", start, end, b.alignment)
	}

	return Buffer{data: b.data[start:end], alignment: b.alignment, refs: b.shareRefs()}, nil
}

// SliceUnaligned returns the sub-range [start, end) as a new Buffer with
// its alignment claim downgraded to 1, since an arbitrary offset slice is
// not guaranteed to preserve alignment. Unlike Slice, this always succeeds.
func (b Buffer) SliceUnaligned(start, end int) (Buffer, error) {
	if start < 0 || end < start || end > len(b.data) {
		return Buffer{}, errs.New(errs.KindOutOfBounds, "buffer: slice [%d:%d) out of range for length %d", start, end, len(b.data))
	}

	return Buffer{data: b.data[start:end], alignment: 1, refs: b.shareRefs()}, nil
}

// AlignedTo returns a Buffer whose start address actually satisfies align:
// zero-copy if b already does, a freshly allocated copy otherwise.
func (b Buffer) AlignedTo(align int) Buffer {
	if align <= 0 {
		align = 1
	}

	if len(b.data) == 0 || uintptr(unsafe.Pointer(&b.data[0]))%uintptr(align) == 0 {
		return Buffer{data: b.data, alignment: align, refs: b.shareRefs()}
	}

	return copyAligned(b.data, align)
}

func copyAligned(data []byte, align int) Buffer {
	n := len(data)
	raw := make([]byte, n+align-1)

	pad := 0
	if addr := uintptr(unsafe.Pointer(&raw[0])); int(addr%uintptr(align)) != 0 {
		pad = align - int(addr%uintptr(align))
	}

	out := raw[pad : pad+n]
	copy(out, data)

	return Buffer{data: out, alignment: align, refs: newRefCount()}
}

// MutBuffer is an exclusively owned, mutable byte buffer produced by
// IntoMut. It is a distinct type from Buffer so the type system marks the
// boundary where in-place mutation becomes safe.
type MutBuffer struct {
	data      []byte
	alignment int
}

// Bytes returns the mutable backing slice.
func (m *MutBuffer) Bytes() []byte { return m.data }

// Alignment returns the buffer's alignment claim.
func (m *MutBuffer) Alignment() int { return m.alignment }

// Freeze converts m back into an immutable Buffer with a fresh reference
// count, ending the exclusive-mutation window.
func (m *MutBuffer) Freeze() Buffer {
	return Buffer{data: m.data, alignment: m.alignment, refs: newRefCount()}
}

// IntoMut returns a MutBuffer over b's backing storage without copying when
// b is the sole outstanding reference, or a copy otherwise. Go has no
// destructor to decrement refs when a Buffer value is dropped, so the
// counter here only ever grows across Slice/SliceUnaligned/AlignedTo calls;
// IntoMut therefore degrades to a safe copy whenever sharing merely looks
// possible, and never aliases memory another Buffer might still read.
func (b Buffer) IntoMut() MutBuffer {
	if b.refs == nil || atomic.LoadInt32(b.refs) == 1 {
		return MutBuffer{data: b.data, alignment: b.alignment}
	}

	out := append([]byte{}, b.data...)

	return MutBuffer{data: out, alignment: b.alignment}
}

// View reinterprets the buffer's bytes as a slice of T without copying. The
// caller is responsible for ensuring the buffer's length is a multiple of
// sizeof(T) and that alignment requirements for T are met; callers in this
// module only use View with T in {int8,...,float64} where the on-disk
// layout already matches Go's in-memory layout for the native encoding.
func View[T any](b Buffer) ([]T, error) {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		return nil, errs.New(errs.KindInvalidArgument, "buffer: zero-sized element type")
	}

	if len(b.data)%elemSize != 0 {
		return nil, errs.New(errs.KindInvalidSerde, "buffer: length %d is not a multiple of element size %d", len(b.data), elemSize)
	}

	n := len(b.data) / elemSize
	if n == 0 {
		return nil, nil
	}

	ptr := (*T)(unsafe.Pointer(&b.data[0]))

	return unsafe.Slice(ptr, n), nil
}

// Concat copies n buffers into one new Buffer with 1-byte alignment. Used
// when canonicalizing a chunked array into a single contiguous buffer.
func Concat(buffers ...Buffer) Buffer {
	total := 0
	for _, buf := range buffers {
		total += buf.Len()
	}

	out := make([]byte, 0, total)
	for _, buf := range buffers {
		out = append(out, buf.data...)
	}

	return Buffer{data: out, alignment: 1, refs: newRefCount()}
}
