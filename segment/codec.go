// Package segment implements the append-only segment layer (C11): the
// physical byte regions a layout's buffers are written into, each
// independently addressable by a SegmentTableEntry, optionally
// byte-compressed, and reusable across reads through a shared cache.
// Grounded on mebo's compress package for the codec abstraction and on
// section.NumericIndexEntry for the table entry's fixed on-disk layout.
package segment

import (
	"fmt"
)

// CompressionType identifies the byte-level compression, if any, applied
// to one segment's bytes before they were written to the file. This is
// independent of the array encoding cascade (package compressor) chosen
// for the data itself: a bitpacked buffer can still be further
// byte-compressed before hitting disk.
type CompressionType uint8

const (
	CompressionNone CompressionType = iota + 1
	CompressionZstd
	CompressionS2
	CompressionLZ4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Compressor compresses one segment's bytes before they are written.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores one segment's bytes after they are read.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions; every built-in compression type
// implements it on a single stateless value.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[CompressionType]Codec{
	CompressionNone: NewNoOpCodec(),
	CompressionZstd: NewZstdCodec(),
	CompressionS2:   NewS2Codec(),
	CompressionLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves the built-in Codec for compressionType.
func GetCodec(compressionType CompressionType) (Codec, error) {
	codec, ok := builtinCodecs[compressionType]
	if !ok {
		return nil, fmt.Errorf("segment: unsupported compression type %s", compressionType)
	}

	return codec, nil
}
