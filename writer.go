package vtx

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/footer"
	"github.com/vtxfmt/vtx/layout"
	"github.com/vtxfmt/vtx/segment"
)

// WriteConfig controls how WriteFile lays out a file's segments.
type WriteConfig struct {
	Layout layout.WriterConfig
}

// DefaultWriteConfig returns an uncompressed, 8-byte-aligned,
// little-endian configuration.
func DefaultWriteConfig() WriteConfig {
	return WriteConfig{Layout: layout.DefaultWriterConfig()}
}

// WriteFile encodes a (whose logical type is dt) into one complete vtx
// file: the array's segment bytes, its layout tree, its dtype, and the
// segment table that ties layout segment ids back to byte ranges, closed
// out by the footer.Postscript trailer spec.md §6 defines. The returned
// bytes are a complete file; OpenFile reads them back.
func WriteFile(a array.Array, dt dtype.DType, cfg WriteConfig) ([]byte, error) {
	w := segment.NewWriter()
	defer w.Release()

	lay, err := layout.Write(w, a, cfg.Layout)
	if err != nil {
		return nil, err
	}

	engine := cfg.Layout.Engine
	dtypeBytes := dt.Bytes(engine)

	// The layout segment carries both the table translating a layout
	// node's segment ids into file byte ranges and the layout tree
	// itself: the table is self-delimiting (a count plus that many
	// fixed-size entries), so the tree bytes simply follow it.
	layoutBlob := append(segment.EncodeTable(w.Entries(), engine), layout.SerializeLayout(lay, engine)...)

	out := make([]byte, 0, len(w.Bytes())+len(dtypeBytes)+len(layoutBlob)+footer.EOFSize+2*footer.SegmentRefSize)
	out = append(out, w.Bytes()...)

	dtypeRef := footer.SegmentRef{Offset: uint64(len(out)), Length: uint32(len(dtypeBytes))}
	out = append(out, dtypeBytes...)

	layoutRef := footer.SegmentRef{Offset: uint64(len(out)), Length: uint32(len(layoutBlob))}
	out = append(out, layoutBlob...)

	ps := footer.Postscript{DType: &dtypeRef, Layout: layoutRef}

	trailer, err := footer.BuildTrailer(ps, engine)
	if err != nil {
		return nil, err
	}
	out = append(out, trailer...)

	return out, nil
}
