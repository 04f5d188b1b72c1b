package layout

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/endian"
)

// SerializeArray encodes a's full tree (its own buffers plus every
// child, recursively) into one self-describing byte slice. This plays the
// role spec.md §6 assigns to the "array node flatbuffer": an encoding id,
// metadata bytes, buffers, and child array nodes. No flatbuffer schema is
// wired into this module (SPEC_FULL.md §2 names no such dependency), so
// the tree is a plain length-prefixed recursive binary record instead,
// using the same engine-driven fixed/variable framing as the rest of this
// module's binary formats.
func SerializeArray(a array.Array, engine endian.EndianEngine) []byte {
	var b []byte
	b = engine.AppendUint16(b, uint16(a.EncodingID))
	b = engine.AppendUint32(b, uint32(a.Length))

	b = engine.AppendUint32(b, uint32(len(a.Metadata)))
	b = append(b, a.Metadata...)

	b = engine.AppendUint16(b, uint16(len(a.Buffers)))
	for _, buf := range a.Buffers {
		b = engine.AppendUint16(b, uint16(buf.Alignment))
		b = engine.AppendUint32(b, uint32(len(buf.Data)))
		b = append(b, buf.Data...)
	}

	b = engine.AppendUint16(b, uint16(len(a.Children)))
	for _, child := range a.Children {
		b = append(b, SerializeArray(child, engine)...)
	}

	return b
}

// DeserializeArray decodes a tree written by SerializeArray, given the
// logical DType the root node must have (supplied by the layout's caller,
// per spec.md §3: a layout's dtype is "derived from parent, not stored").
func DeserializeArray(data []byte, dt dtype.DType, engine endian.EndianEngine) (array.Array, error) {
	a, consumed, err := deserializeNode(data, dt, engine)
	if err != nil {
		return array.Array{}, err
	}
	if consumed != len(data) {
		return array.Array{}, errs.New(errs.KindInvalidSerde, "layout: array node left %d trailing bytes", len(data)-consumed)
	}

	return a, nil
}

func deserializeNode(data []byte, dt dtype.DType, engine endian.EndianEngine) (array.Array, int, error) {
	const minHeader = 2 + 4 + 4
	if len(data) < minHeader {
		return array.Array{}, 0, errs.New(errs.KindInvalidSerde, "layout: array node truncated before header")
	}

	off := 0
	encodingID := array.EncodingID(engine.Uint16(data[off : off+2]))
	off += 2
	length := int(engine.Uint32(data[off : off+4]))
	off += 4

	metaLen := int(engine.Uint32(data[off : off+4]))
	off += 4
	if len(data) < off+metaLen {
		return array.Array{}, 0, errs.New(errs.KindInvalidSerde, "layout: array node metadata truncated")
	}
	metadata := data[off : off+metaLen]
	off += metaLen

	if len(data) < off+2 {
		return array.Array{}, 0, errs.New(errs.KindInvalidSerde, "layout: array node truncated before buffer count")
	}
	numBuffers := int(engine.Uint16(data[off : off+2]))
	off += 2

	buffers := make([]array.Buf, numBuffers)
	for i := 0; i < numBuffers; i++ {
		if len(data) < off+2+4 {
			return array.Array{}, 0, errs.New(errs.KindInvalidSerde, "layout: array node buffer %d header truncated", i)
		}
		alignment := int(engine.Uint16(data[off : off+2]))
		off += 2
		bufLen := int(engine.Uint32(data[off : off+4]))
		off += 4
		if len(data) < off+bufLen {
			return array.Array{}, 0, errs.New(errs.KindInvalidSerde, "layout: array node buffer %d truncated", i)
		}
		buffers[i] = array.Buf{Data: data[off : off+bufLen], Alignment: alignment}
		off += bufLen
	}

	if len(data) < off+2 {
		return array.Array{}, 0, errs.New(errs.KindInvalidSerde, "layout: array node truncated before child count")
	}
	numChildren := int(engine.Uint16(data[off : off+2]))
	off += 2

	partial := array.Array{EncodingID: encodingID, DType: dt, Length: length, Metadata: metadata}

	vtable, err := array.Lookup(encodingID)
	if err != nil {
		return array.Array{}, 0, err
	}

	children := make([]array.Array, numChildren)
	for i := 0; i < numChildren; i++ {
		childDType, err := vtable.ChildDType(partial, i)
		if err != nil {
			return array.Array{}, 0, err
		}

		child, consumed, err := deserializeNode(data[off:], childDType, engine)
		if err != nil {
			return array.Array{}, 0, err
		}
		children[i] = child
		off += consumed
	}

	// Encodings whose child count varies per instance (chunked, struct)
	// declare NumChildren() == -1 and validate shape themselves elsewhere;
	// array.New's fixed-arity check would reject them here, so only
	// fixed-arity encodings are checked against the vtable's declared
	// counts, mirroring encoding.structNew's own bypass of array.New.
	if want := vtable.NumBuffers(); want >= 0 && want != numBuffers {
		return array.Array{}, 0, errs.New(errs.KindInvalidSerde, "layout: encoding %s requires %d buffers, got %d", vtable.Name(), want, numBuffers)
	}
	if want := vtable.NumChildren(); want >= 0 && want != numChildren {
		return array.Array{}, 0, errs.New(errs.KindInvalidSerde, "layout: encoding %s requires %d children, got %d", vtable.Name(), want, numChildren)
	}

	a := array.Array{
		EncodingID: encodingID,
		DType:      dt,
		Length:     length,
		Metadata:   metadata,
		Buffers:    buffers,
		Children:   children,
	}

	return a, off, nil
}
