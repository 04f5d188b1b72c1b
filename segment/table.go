package segment

import (
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/endian"
)

// EntrySize is the fixed on-disk size, in bytes, of one Entry. Grounded on
// section.NumericIndexEntry's fixed-size Bytes/Parse idiom: a segment
// table is a flat array of these, scanned without any variable-length
// framing.
const EntrySize = 24

// Entry records where one segment lives in the file and how to read it
// back: its byte range, its declared alignment (so a reader can mmap or
// directly reinterpret the bytes without a copy when the codec is
// CompressionNone), and the codec applied before writing.
type Entry struct {
	Offset             uint64
	Length             uint32 // length on disk, after compression
	UncompressedLength uint32
	Alignment          uint16
	Compression        CompressionType
}

// Bytes encodes e into a fixed EntrySize-byte slice using engine's byte
// order.
func (e Entry) Bytes(engine endian.EndianEngine) []byte {
	var b [EntrySize]byte
	engine.PutUint64(b[0:8], e.Offset)
	engine.PutUint32(b[8:12], e.Length)
	engine.PutUint32(b[12:16], e.UncompressedLength)
	engine.PutUint16(b[16:18], e.Alignment)
	b[18] = byte(e.Compression)
	// b[19:24] reserved for future per-entry flags.

	return b[:]
}

// ParseEntry decodes an Entry from data, which must be at least EntrySize
// bytes.
func ParseEntry(data []byte, engine endian.EndianEngine) (Entry, error) {
	if len(data) < EntrySize {
		return Entry{}, errs.New(errs.KindInvalidSerde, "segment: entry requires %d bytes, got %d", EntrySize, len(data))
	}

	return Entry{
		Offset:             engine.Uint64(data[0:8]),
		Length:             engine.Uint32(data[8:12]),
		UncompressedLength: engine.Uint32(data[12:16]),
		Alignment:          engine.Uint16(data[16:18]),
		Compression:        CompressionType(data[18]),
	}, nil
}

// EncodeTable concatenates entries into the flat segment table blob a
// file writes once, after its segment bytes: a count followed by that
// many fixed-size Entry records, scanned without any further framing.
func EncodeTable(entries []Entry, engine endian.EndianEngine) []byte {
	b := engine.AppendUint32(nil, uint32(len(entries)))
	for _, e := range entries {
		b = append(b, e.Bytes(engine)...)
	}

	return b
}

// DecodeTable decodes a table written by EncodeTable from the front of
// data and reports how many bytes it consumed, so a caller that packed
// more bytes after the table (as vtx.OpenFile does, with the layout tree)
// can find where those begin.
func DecodeTable(data []byte, engine endian.EndianEngine) ([]Entry, int, error) {
	if len(data) < 4 {
		return nil, 0, errs.New(errs.KindInvalidSerde, "segment: table truncated before entry count")
	}

	count := int(engine.Uint32(data[0:4]))
	off := 4

	entries := make([]Entry, count)
	for i := 0; i < count; i++ {
		if len(data) < off+EntrySize {
			return nil, 0, errs.New(errs.KindInvalidSerde, "segment: table truncated at entry %d", i)
		}
		e, err := ParseEntry(data[off:off+EntrySize], engine)
		if err != nil {
			return nil, 0, err
		}
		entries[i] = e
		off += EntrySize
	}

	return entries, off, nil
}
