package encoding

import (
	"encoding/binary"
	"math"
)

func encodeI64(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

func decodeI64(b []byte) int64 {
	return int64(binary.LittleEndian.Uint64(b))
}

func encodeU64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func decodeU64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

func encodeF64(v float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return b
}

func decodeF64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}
