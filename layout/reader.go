package layout

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/endian"
	"github.com/vtxfmt/vtx/segment"
)

// ReaderConfig supplies the pieces Read needs to turn segment bytes back
// into arrays: the segment table (so a Layout's Segments indices resolve
// to byte ranges) and the byte order used when the file was written.
type ReaderConfig struct {
	Entries []segment.Entry
	Engine  endian.EndianEngine
}

// Read materializes the array described by lay, reading segment bytes
// through rd and interpreting buffers with dt, the logical DType the
// caller supplies (a layout node never stores its own dtype, per spec.md
// §3; it is always derived from the parent schema).
func Read(rd *segment.Reader, lay Layout, dt dtype.DType, cfg ReaderConfig) (array.Array, error) {
	switch lay.Encoding {
	case IDFlat:
		return readFlat(rd, lay, dt, cfg)
	case IDChunked:
		return readChunked(rd, lay, dt, cfg)
	case IDStruct:
		return readStruct(rd, lay, dt, cfg)
	case IDZoned:
		// The data child carries the same dtype as the zoned node itself;
		// the zone map is consulted only by Prune, not by Read.
		return Read(rd, lay.Children[0], dt, cfg)
	default:
		return array.Array{}, errs.New(errs.KindInvalidSerde, "layout: unknown layout encoding %d", lay.Encoding)
	}
}

func (cfg ReaderConfig) entry(segID uint32) (segment.Entry, error) {
	if int(segID) >= len(cfg.Entries) {
		return segment.Entry{}, errs.New(errs.KindOutOfBounds, "layout: segment id %d out of range (%d entries)", segID, len(cfg.Entries))
	}

	return cfg.Entries[segID], nil
}

func readFlat(rd *segment.Reader, lay Layout, dt dtype.DType, cfg ReaderConfig) (array.Array, error) {
	if len(lay.Segments) != 1 {
		return array.Array{}, errs.New(errs.KindInvalidSerde, "layout: flat layout requires exactly 1 segment, got %d", len(lay.Segments))
	}

	entry, err := cfg.entry(lay.Segments[0])
	if err != nil {
		return array.Array{}, err
	}

	data, err := rd.Fetch(entry)
	if err != nil {
		return array.Array{}, err
	}

	return DeserializeArray(data, dt, cfg.Engine)
}

func readChunked(rd *segment.Reader, lay Layout, dt dtype.DType, cfg ReaderConfig) (array.Array, error) {
	children := make([]array.Array, len(lay.Children))
	for i, childLayout := range lay.Children {
		child, err := Read(rd, childLayout, dt, cfg)
		if err != nil {
			return array.Array{}, err
		}
		children[i] = child
	}

	return encoding.NewChunked(dt, children)
}

func readStruct(rd *segment.Reader, lay Layout, dt dtype.DType, cfg ReaderConfig) (array.Array, error) {
	if len(lay.Segments) != 1 {
		return array.Array{}, errs.New(errs.KindInvalidSerde, "layout: struct layout requires exactly 1 segment, got %d", len(lay.Segments))
	}
	if len(lay.Children) != len(dt.Fields) {
		return array.Array{}, errs.New(errs.KindMismatchedTypes, "layout: struct layout has %d children, dtype has %d fields", len(lay.Children), len(dt.Fields))
	}

	entry, err := cfg.entry(lay.Segments[0])
	if err != nil {
		return array.Array{}, err
	}

	validity, err := rd.Fetch(entry)
	if err != nil {
		return array.Array{}, err
	}

	children := make([]array.Array, len(lay.Children))
	for i, childLayout := range lay.Children {
		child, err := Read(rd, childLayout, dt.Fields[i].DType, cfg)
		if err != nil {
			return array.Array{}, err
		}
		children[i] = child
	}

	return array.Array{
		EncodingID: encoding.IDStruct,
		DType:      dt,
		Length:     int(lay.RowCount),
		Buffers:    []array.Buf{{Data: validity}},
		Children:   children,
	}, nil
}
