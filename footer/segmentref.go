package footer

import (
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/endian"
)

// SegmentRefSize is the fixed on-disk size, in bytes, of one SegmentRef.
const SegmentRefSize = 12

// SegmentRef points at one contiguous byte range within the file: a
// dtype, stats, or layout flatbuffer-equivalent blob.
type SegmentRef struct {
	Offset uint64
	Length uint32
}

// Bytes encodes r into a fixed SegmentRefSize-byte slice using engine's
// byte order.
func (r SegmentRef) Bytes(engine endian.EndianEngine) []byte {
	var b [SegmentRefSize]byte
	engine.PutUint64(b[0:8], r.Offset)
	engine.PutUint32(b[8:12], r.Length)

	return b[:]
}

// ParseSegmentRef decodes a SegmentRef from data, which must be at least
// SegmentRefSize bytes.
func ParseSegmentRef(data []byte, engine endian.EndianEngine) (SegmentRef, error) {
	if len(data) < SegmentRefSize {
		return SegmentRef{}, errs.New(errs.KindInvalidSerde, "footer: segment ref requires %d bytes, got %d", SegmentRefSize, len(data))
	}

	return SegmentRef{
		Offset: engine.Uint64(data[0:8]),
		Length: engine.Uint32(data[8:12]),
	}, nil
}
