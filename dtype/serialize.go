package dtype

import (
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/endian"
)

// Bytes encodes d into a self-delimiting byte slice, recursing into Elem,
// Fields, and Storage for the composite kinds. Grounded on
// layout.SerializeArray's length-prefixed recursive binary record: no
// flatbuffer schema is wired into this module, so a DType's on-disk form
// is a plain recursive encoding using the same engine-driven framing as
// every other binary format in this module.
func (d DType) Bytes(engine endian.EndianEngine) []byte {
	var b []byte
	b = append(b, byte(d.Kind))
	b = append(b, boolByte(d.Nullable))

	switch d.Kind {
	case KindPrimitive:
		b = append(b, byte(d.PType))
	case KindDecimal:
		b = append(b, d.Precision, byte(d.Scale), byte(d.PType))
	case KindList:
		b = append(b, d.Elem.Bytes(engine)...)
	case KindStruct:
		b = engine.AppendUint16(b, uint16(len(d.Fields)))
		for _, f := range d.Fields {
			b = engine.AppendUint16(b, uint16(len(f.Name)))
			b = append(b, f.Name...)
			b = append(b, f.DType.Bytes(engine)...)
		}
	case KindExtension:
		b = engine.AppendUint16(b, uint16(len(d.ExtID)))
		b = append(b, d.ExtID...)
		b = append(b, d.Storage.Bytes(engine)...)
		b = engine.AppendUint32(b, uint32(len(d.Metadata)))
		b = append(b, d.Metadata...)
	}

	return b
}

// Parse decodes a DType from the front of data, written by Bytes, and
// reports how many bytes it consumed.
func Parse(data []byte, engine endian.EndianEngine) (DType, int, error) {
	if len(data) < 2 {
		return DType{}, 0, errs.New(errs.KindInvalidSerde, "dtype: truncated before kind/nullable header")
	}

	kind := Kind(data[0])
	nullable := data[1] != 0
	off := 2

	d := DType{Kind: kind, Nullable: nullable}

	switch kind {
	case KindNull, KindBool, KindUtf8, KindBinary:
		// no further fields

	case KindPrimitive:
		if len(data) < off+1 {
			return DType{}, 0, errs.New(errs.KindInvalidSerde, "dtype: truncated primitive ptype")
		}
		d.PType = PType(data[off])
		off++

	case KindDecimal:
		if len(data) < off+3 {
			return DType{}, 0, errs.New(errs.KindInvalidSerde, "dtype: truncated decimal fields")
		}
		d.Precision = data[off]
		d.Scale = int8(data[off+1])
		d.PType = PType(data[off+2])
		off += 3

	case KindList:
		elem, consumed, err := Parse(data[off:], engine)
		if err != nil {
			return DType{}, 0, err
		}
		d.Elem = &elem
		off += consumed

	case KindStruct:
		if len(data) < off+2 {
			return DType{}, 0, errs.New(errs.KindInvalidSerde, "dtype: truncated struct field count")
		}
		numFields := int(engine.Uint16(data[off : off+2]))
		off += 2

		fields := make([]Field, numFields)
		for i := 0; i < numFields; i++ {
			if len(data) < off+2 {
				return DType{}, 0, errs.New(errs.KindInvalidSerde, "dtype: truncated struct field %d name length", i)
			}
			nameLen := int(engine.Uint16(data[off : off+2]))
			off += 2
			if len(data) < off+nameLen {
				return DType{}, 0, errs.New(errs.KindInvalidSerde, "dtype: truncated struct field %d name", i)
			}
			name := string(data[off : off+nameLen])
			off += nameLen

			fieldDType, consumed, err := Parse(data[off:], engine)
			if err != nil {
				return DType{}, 0, err
			}
			off += consumed

			fields[i] = Field{Name: name, DType: fieldDType}
		}
		d.Fields = fields

	case KindExtension:
		if len(data) < off+2 {
			return DType{}, 0, errs.New(errs.KindInvalidSerde, "dtype: truncated extension id length")
		}
		idLen := int(engine.Uint16(data[off : off+2]))
		off += 2
		if len(data) < off+idLen {
			return DType{}, 0, errs.New(errs.KindInvalidSerde, "dtype: truncated extension id")
		}
		d.ExtID = string(data[off : off+idLen])
		off += idLen

		storage, consumed, err := Parse(data[off:], engine)
		if err != nil {
			return DType{}, 0, err
		}
		d.Storage = &storage
		off += consumed

		if len(data) < off+4 {
			return DType{}, 0, errs.New(errs.KindInvalidSerde, "dtype: truncated extension metadata length")
		}
		metaLen := int(engine.Uint32(data[off : off+4]))
		off += 4
		if len(data) < off+metaLen {
			return DType{}, 0, errs.New(errs.KindInvalidSerde, "dtype: truncated extension metadata")
		}
		d.Metadata = data[off : off+metaLen]
		off += metaLen

	default:
		return DType{}, 0, errs.New(errs.KindInvalidSerde, "dtype: unknown kind byte %d", kind)
	}

	return d, off, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}

	return 0
}
