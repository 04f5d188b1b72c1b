//go:build cgozstd

package segment

import "github.com/valyala/gozstd"

// ZstdCodec backed by the cgo valyala/gozstd bindings, opted into via the
// cgozstd build tag when the extra compression ratio at a given CPU budget
// is worth the cgo dependency (see zstd_pure.go for the default backend).
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

// NewZstdCodec returns the Zstandard codec.
func NewZstdCodec() ZstdCodec { return ZstdCodec{} }

func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
