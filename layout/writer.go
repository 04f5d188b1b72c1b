package layout

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/internal/endian"
	"github.com/vtxfmt/vtx/segment"
)

// WriterConfig controls how Write lays out segments: alignment, and the
// per-segment byte compression applied before each Append.
type WriterConfig struct {
	Alignment   int
	Compression segment.CompressionType
	Codec       segment.Codec
	Engine      endian.EndianEngine
}

// DefaultWriterConfig returns an uncompressed, 8-byte-aligned,
// little-endian configuration.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		Alignment:   8,
		Compression: segment.CompressionNone,
		Codec:       segment.NoOpCodec{},
		Engine:      endian.GetLittleEndianEngine(),
	}
}

// Write lays a out as a Layout tree against w, recursing structurally for
// the two encodings with their own layout shape (chunked, struct) and
// falling back to a single serialized segment (flat) for every other
// encoding, per spec.md §4.7.
func Write(w *segment.Writer, a array.Array, cfg WriterConfig) (Layout, error) {
	switch a.EncodingID {
	case encoding.IDChunked:
		return writeChunked(w, a, cfg)
	case encoding.IDStruct:
		return writeStruct(w, a, cfg)
	default:
		return writeFlat(w, a, cfg)
	}
}

func writeFlat(w *segment.Writer, a array.Array, cfg WriterConfig) (Layout, error) {
	blob := SerializeArray(a, cfg.Engine)

	if _, err := w.Append(blob, cfg.Alignment, cfg.Compression, cfg.Codec); err != nil {
		return Layout{}, err
	}

	return Layout{
		Encoding: IDFlat,
		RowCount: uint64(a.Length),
		Segments: []uint32{uint32(len(w.Entries()) - 1)},
	}, nil
}

func writeChunked(w *segment.Writer, a array.Array, cfg WriterConfig) (Layout, error) {
	children := make([]Layout, len(a.Children))
	for i, c := range a.Children {
		child, err := Write(w, c, cfg)
		if err != nil {
			return Layout{}, err
		}
		children[i] = child
	}

	offsets := make([]uint64, len(a.Children)+1)
	var sum uint64
	for i, c := range a.Children {
		offsets[i] = sum
		sum += uint64(c.Length)
	}
	offsets[len(a.Children)] = sum

	var metadata []byte
	for _, off := range offsets {
		metadata = cfg.Engine.AppendUint64(metadata, off)
	}

	return Layout{
		Encoding: IDChunked,
		RowCount: uint64(a.Length),
		Children: children,
		Metadata: metadata,
	}, nil
}

func writeStruct(w *segment.Writer, a array.Array, cfg WriterConfig) (Layout, error) {
	if _, err := w.Append(a.Buffers[0].Data, cfg.Alignment, cfg.Compression, cfg.Codec); err != nil {
		return Layout{}, err
	}

	children := make([]Layout, len(a.Children))
	for i, c := range a.Children {
		child, err := Write(w, c, cfg)
		if err != nil {
			return Layout{}, err
		}
		children[i] = child
	}

	return Layout{
		Encoding: IDStruct,
		RowCount: uint64(a.Length),
		Segments: []uint32{uint32(len(w.Entries()) - 1)},
		Children: children,
	}, nil
}

// WrapZoned builds a Zoned layout around dataLayout: a sibling zone-map
// segment holding per-block min/max (BuildZoneMap/SerializeZoneMap), so a
// reader can prune whole blocks before touching dataLayout's segments.
// col is the source array the data layout was built from (used to compute
// the zone map) and its dtype (used to encode it).
func WrapZoned(w *segment.Writer, dataLayout Layout, col array.Array, blockSize int, cfg WriterConfig) (Layout, error) {
	blocks, err := BuildZoneMap(col, blockSize)
	if err != nil {
		return Layout{}, err
	}

	zoneBytes, err := SerializeZoneMap(blocks, col.DType, cfg.Engine)
	if err != nil {
		return Layout{}, err
	}

	if blockSize <= 0 {
		blockSize = DefaultZoneBlockSize
	}
	var metadata []byte
	metadata = cfg.Engine.AppendUint32(metadata, uint32(blockSize))

	if _, err := w.Append(zoneBytes, cfg.Alignment, cfg.Compression, cfg.Codec); err != nil {
		return Layout{}, err
	}

	zoneMapLayout := Layout{
		Encoding: IDFlat,
		RowCount: uint64(len(blocks)),
		Segments: []uint32{uint32(len(w.Entries()) - 1)},
	}

	return Layout{
		Encoding: IDZoned,
		RowCount: dataLayout.RowCount,
		Children: []Layout{dataLayout, zoneMapLayout},
		Metadata: metadata,
	}, nil
}
