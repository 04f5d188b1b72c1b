package segment

import (
	"encoding/binary"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
)

// Cache holds decompressed segment bytes across reads of the same file, so
// a scan that revisits a chunk (a second predicate pass, a retried I/O)
// doesn't pay the decompression cost twice. Keys are namespaced per file
// via a version-5 UUID so two open files never collide on the same
// segment offset.
type Cache struct {
	ristretto *ristretto.Cache
}

// NewCache returns a Cache sized for maxCostBytes worth of decompressed
// segment bytes.
func NewCache(maxCostBytes int64) (*Cache, error) {
	rc, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCostBytes / 1024 * 10, // ~10x entries expected, per ristretto's sizing guidance
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &Cache{ristretto: rc}, nil
}

// key derives a stable, collision-resistant cache key for one segment of
// one file: a SHA1-namespaced UUID over fileID and the segment's byte
// offset.
func key(fileID uuid.UUID, offset uint64) uuid.UUID {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], offset)

	return uuid.NewSHA1(fileID, b[:])
}

// Get returns the cached decompressed bytes for the segment at offset
// within fileID, if present.
func (c *Cache) Get(fileID uuid.UUID, offset uint64) ([]byte, bool) {
	v, ok := c.ristretto.Get(key(fileID, offset))
	if !ok {
		return nil, false
	}

	b, ok := v.([]byte)

	return b, ok
}

// Set stores decompressed bytes for the segment at offset within fileID.
func (c *Cache) Set(fileID uuid.UUID, offset uint64, data []byte) {
	c.ristretto.Set(key(fileID, offset), data, int64(len(data)))
}

// Wait blocks until all pending Set calls have been applied; useful in
// tests that assert on cache contents immediately after a Set.
func (c *Cache) Wait() { c.ristretto.Wait() }
