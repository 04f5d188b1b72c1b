package segment

import (
	"github.com/google/uuid"

	"github.com/vtxfmt/vtx/errs"
)

// Reader serves segment bytes out of a single file's raw bytes, decoding
// each segment's Entry on demand and decompressing through the codec its
// Compression names, with an optional shared Cache fronting repeat reads.
type Reader struct {
	fileID uuid.UUID
	data   []byte
	cache  *Cache
}

// NewReader returns a Reader over data, the full file's bytes, identified
// by fileID for cache namespacing. cache may be nil to disable caching.
func NewReader(fileID uuid.UUID, data []byte, cache *Cache) *Reader {
	return &Reader{fileID: fileID, data: data, cache: cache}
}

// Fetch returns the decompressed bytes described by entry.
func (r *Reader) Fetch(entry Entry) ([]byte, error) {
	if r.cache != nil {
		if cached, ok := r.cache.Get(r.fileID, entry.Offset); ok {
			return cached, nil
		}
	}

	start := entry.Offset
	end := start + uint64(entry.Length)
	if end > uint64(len(r.data)) {
		return nil, errs.New(errs.KindOutOfBounds, "segment: entry range [%d:%d) exceeds file length %d", start, end, len(r.data))
	}

	codec, err := GetCodec(entry.Compression)
	if err != nil {
		return nil, err
	}

	decoded, err := codec.Decompress(r.data[start:end])
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInvalidSerde, "segment: decompressing entry at offset %d", entry.Offset)
	}

	if r.cache != nil {
		r.cache.Set(r.fileID, entry.Offset, decoded)
	}

	return decoded, nil
}
