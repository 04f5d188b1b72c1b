package segment

// NoOpCodec bypasses compression entirely; the default for segments too
// small, or already entropy-dense, to benefit.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

// NewNoOpCodec returns the no-op codec.
func NewNoOpCodec() NoOpCodec { return NoOpCodec{} }

func (NoOpCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (NoOpCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
