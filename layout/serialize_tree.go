package layout

import (
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/endian"
)

// SerializeLayout encodes lay's full tree into the byte blob a file's
// Postscript.Layout segment ref points at: spec.md §6's "layout
// flatbuffer", realized (like SerializeArray) as a plain self-describing
// recursive binary record rather than an actual flatbuffer schema, since
// no such dependency is wired into this module.
func SerializeLayout(lay Layout, engine endian.EndianEngine) []byte {
	var b []byte
	b = append(b, byte(lay.Encoding))
	b = engine.AppendUint64(b, lay.RowCount)

	b = engine.AppendUint16(b, uint16(len(lay.Segments)))
	for _, seg := range lay.Segments {
		b = engine.AppendUint32(b, seg)
	}

	b = engine.AppendUint32(b, uint32(len(lay.Metadata)))
	b = append(b, lay.Metadata...)

	b = engine.AppendUint16(b, uint16(len(lay.Children)))
	for _, child := range lay.Children {
		b = append(b, SerializeLayout(child, engine)...)
	}

	return b
}

// DeserializeLayout decodes a tree written by SerializeLayout.
func DeserializeLayout(data []byte, engine endian.EndianEngine) (Layout, error) {
	lay, consumed, err := deserializeLayoutNode(data, engine)
	if err != nil {
		return Layout{}, err
	}
	if consumed != len(data) {
		return Layout{}, errs.New(errs.KindInvalidSerde, "layout: layout tree left %d trailing bytes", len(data)-consumed)
	}

	return lay, nil
}

func deserializeLayoutNode(data []byte, engine endian.EndianEngine) (Layout, int, error) {
	const minHeader = 1 + 8 + 2
	if len(data) < minHeader {
		return Layout{}, 0, errs.New(errs.KindInvalidSerde, "layout: layout node truncated before header")
	}

	off := 0
	enc := ID(data[off])
	off++
	rowCount := engine.Uint64(data[off : off+8])
	off += 8

	numSegments := int(engine.Uint16(data[off : off+2]))
	off += 2
	if len(data) < off+4*numSegments {
		return Layout{}, 0, errs.New(errs.KindInvalidSerde, "layout: layout node segments truncated")
	}
	var segments []uint32
	if numSegments > 0 {
		segments = make([]uint32, numSegments)
		for i := 0; i < numSegments; i++ {
			segments[i] = engine.Uint32(data[off : off+4])
			off += 4
		}
	}

	if len(data) < off+4 {
		return Layout{}, 0, errs.New(errs.KindInvalidSerde, "layout: layout node truncated before metadata length")
	}
	metaLen := int(engine.Uint32(data[off : off+4]))
	off += 4
	if len(data) < off+metaLen {
		return Layout{}, 0, errs.New(errs.KindInvalidSerde, "layout: layout node metadata truncated")
	}
	var metadata []byte
	if metaLen > 0 {
		metadata = data[off : off+metaLen]
	}
	off += metaLen

	if len(data) < off+2 {
		return Layout{}, 0, errs.New(errs.KindInvalidSerde, "layout: layout node truncated before child count")
	}
	numChildren := int(engine.Uint16(data[off : off+2]))
	off += 2

	var children []Layout
	if numChildren > 0 {
		children = make([]Layout, numChildren)
		for i := 0; i < numChildren; i++ {
			child, consumed, err := deserializeLayoutNode(data[off:], engine)
			if err != nil {
				return Layout{}, 0, err
			}
			children[i] = child
			off += consumed
		}
	}

	lay := Layout{
		Encoding: enc,
		RowCount: rowCount,
		Segments: segments,
		Children: children,
		Metadata: metadata,
	}

	return lay, off, nil
}
