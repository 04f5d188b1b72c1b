// Package dtype implements the logical type algebra (C2): Null, Bool,
// Primitive, Decimal, Utf8, Binary, List, Struct, and Extension, with
// nullability tracked orthogonally to the variant.
package dtype

import (
	"fmt"
	"strings"

	"github.com/vtxfmt/vtx/errs"
)

// Kind enumerates the logical type variants.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindPrimitive
	KindDecimal
	KindUtf8
	KindBinary
	KindList
	KindStruct
	KindExtension
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindPrimitive:
		return "primitive"
	case KindDecimal:
		return "decimal"
	case KindUtf8:
		return "utf8"
	case KindBinary:
		return "binary"
	case KindList:
		return "list"
	case KindStruct:
		return "struct"
	case KindExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// PType is the physical scalar type carried by a Primitive DType.
type PType uint8

const (
	PTypeI8 PType = iota
	PTypeI16
	PTypeI32
	PTypeI64
	PTypeU8
	PTypeU16
	PTypeU32
	PTypeU64
	PTypeF32
	PTypeF64
)

// ByteWidth returns the physical size in bytes of one value of this PType.
func (p PType) ByteWidth() int {
	switch p {
	case PTypeI8, PTypeU8:
		return 1
	case PTypeI16, PTypeU16:
		return 2
	case PTypeI32, PTypeU32, PTypeF32:
		return 4
	case PTypeI64, PTypeU64, PTypeF64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether p is a floating point physical type.
func (p PType) IsFloat() bool { return p == PTypeF32 || p == PTypeF64 }

// IsSigned reports whether p is a signed integer physical type.
func (p PType) IsSigned() bool {
	switch p {
	case PTypeI8, PTypeI16, PTypeI32, PTypeI64:
		return true
	default:
		return false
	}
}

func (p PType) String() string {
	names := [...]string{"i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "f32", "f64"}
	if int(p) < len(names) {
		return names[p]
	}

	return "unknown"
}

// Field is one ordered (name, dtype) pair of a Struct DType.
type Field struct {
	Name  string
	DType DType
}

// DType is the logical type of an array: a Kind plus the fields that Kind
// requires, carried orthogonally from the Nullable flag.
type DType struct {
	Kind     Kind
	Nullable bool

	// Primitive
	PType PType

	// Decimal
	Precision uint8
	Scale     int8

	// List
	Elem *DType

	// Struct
	Fields []Field

	// Extension
	ExtID    string
	Storage  *DType
	Metadata []byte
}

// Null is the nullable, field-less Null DType.
func Null() DType { return DType{Kind: KindNull, Nullable: true} }

// Bool constructs a Bool DType.
func Bool(nullable bool) DType { return DType{Kind: KindBool, Nullable: nullable} }

// Primitive constructs a Primitive(ptype) DType.
func Primitive(p PType, nullable bool) DType {
	return DType{Kind: KindPrimitive, PType: p, Nullable: nullable}
}

// Decimal constructs a Decimal(precision, scale) DType over the given
// storage integer width.
func Decimal(precision uint8, scale int8, storage PType, nullable bool) DType {
	return DType{Kind: KindDecimal, Precision: precision, Scale: scale, PType: storage, Nullable: nullable}
}

// Utf8 constructs a Utf8 DType.
func Utf8(nullable bool) DType { return DType{Kind: KindUtf8, Nullable: nullable} }

// Binary constructs a Binary DType.
func Binary(nullable bool) DType { return DType{Kind: KindBinary, Nullable: nullable} }

// List constructs a List(elem) DType.
func List(elem DType, nullable bool) DType {
	return DType{Kind: KindList, Elem: &elem, Nullable: nullable}
}

// Struct constructs a Struct(fields) DType. The struct itself may be
// nullable (a null row masks all fields); individual fields carry their own
// nullability independently.
func Struct(fields []Field, nullable bool) DType {
	return DType{Kind: KindStruct, Fields: fields, Nullable: nullable}
}

// Extension constructs an Extension(id, storage, metadata) DType.
func Extension(id string, storage DType, metadata []byte, nullable bool) DType {
	return DType{Kind: KindExtension, ExtID: id, Storage: &storage, Metadata: metadata, Nullable: nullable}
}

// Predefined extension IDs for the temporal types supplemented from
// original_source/vortex-dtype, which the distilled spec omits but whose
// storage the Extension variant already exists to carry.
const (
	ExtDate32    = "vtx.date32"    // days since epoch, storage PTypeI32
	ExtTime64    = "vtx.time64"    // time-of-day in a TimeUnit, storage PTypeI64
	ExtTimestamp = "vtx.timestamp" // instant in a TimeUnit (+ optional IANA tz), storage PTypeI64
)

// TimeUnit is the resolution used by Time64/Timestamp extension metadata.
type TimeUnit uint8

const (
	Seconds TimeUnit = iota
	Millis
	Micros
	Nanos
)

// TemporalMetadata is the metadata payload for ExtTime64/ExtTimestamp: a
// TimeUnit byte followed by an optional IANA timezone name (empty for
// naive/time64 values).
type TemporalMetadata struct {
	Unit     TimeUnit
	TimeZone string
}

// Encode serializes TemporalMetadata into the opaque bytes stored on the
// Extension DType.
func (m TemporalMetadata) Encode() []byte {
	return append([]byte{byte(m.Unit)}, []byte(m.TimeZone)...)
}

// DecodeTemporalMetadata parses bytes produced by TemporalMetadata.Encode.
func DecodeTemporalMetadata(b []byte) (TemporalMetadata, error) {
	if len(b) == 0 {
		return TemporalMetadata{}, errs.New(errs.KindInvalidSerde, "dtype: empty temporal extension metadata")
	}

	return TemporalMetadata{Unit: TimeUnit(b[0]), TimeZone: string(b[1:])}, nil
}

// Date32 constructs the date32 extension DType (days since the Unix epoch).
func Date32(nullable bool) DType {
	return Extension(ExtDate32, Primitive(PTypeI32, false), nil, nullable)
}

// Time64 constructs the time64 extension DType at the given resolution.
func Time64(unit TimeUnit, nullable bool) DType {
	md := TemporalMetadata{Unit: unit}
	return Extension(ExtTime64, Primitive(PTypeI64, false), md.Encode(), nullable)
}

// Timestamp constructs the timestamp extension DType at the given
// resolution and optional IANA timezone (empty means naive/UTC-unspecified).
func Timestamp(unit TimeUnit, timeZone string, nullable bool) DType {
	md := TemporalMetadata{Unit: unit, TimeZone: timeZone}
	return Extension(ExtTimestamp, Primitive(PTypeI64, false), md.Encode(), nullable)
}

// WithNullable returns a copy of d with Nullable set to nullable.
func (d DType) WithNullable(nullable bool) DType {
	d.Nullable = nullable
	return d
}

// Equal reports whether d and other describe the same logical type,
// including nullability.
func (d DType) Equal(other DType) bool {
	if d.Kind != other.Kind || d.Nullable != other.Nullable {
		return false
	}

	switch d.Kind {
	case KindPrimitive:
		return d.PType == other.PType
	case KindDecimal:
		return d.Precision == other.Precision && d.Scale == other.Scale && d.PType == other.PType
	case KindList:
		return d.Elem.Equal(*other.Elem)
	case KindStruct:
		if len(d.Fields) != len(other.Fields) {
			return false
		}
		for i := range d.Fields {
			if d.Fields[i].Name != other.Fields[i].Name || !d.Fields[i].DType.Equal(other.Fields[i].DType) {
				return false
			}
		}

		return true
	case KindExtension:
		return d.ExtID == other.ExtID && d.Storage.Equal(*other.Storage) && string(d.Metadata) == string(other.Metadata)
	default:
		return true
	}
}

// EqualIgnoreNullable compares d and other ignoring the Nullable flag on
// both the top-level type and all nested types; used by compute dispatch
// to decide whether two arrays are "the same shape" for binary ops.
func (d DType) EqualIgnoreNullable(other DType) bool {
	return d.WithNullable(false).equalLoose(other.WithNullable(false))
}

func (d DType) equalLoose(other DType) bool {
	if d.Kind != other.Kind {
		return false
	}

	switch d.Kind {
	case KindPrimitive:
		return d.PType == other.PType
	case KindDecimal:
		return d.Precision == other.Precision && d.Scale == other.Scale && d.PType == other.PType
	case KindList:
		return d.Elem.equalLoose(*other.Elem)
	case KindStruct:
		if len(d.Fields) != len(other.Fields) {
			return false
		}
		for i := range d.Fields {
			if d.Fields[i].Name != other.Fields[i].Name || !d.Fields[i].DType.equalLoose(other.Fields[i].DType) {
				return false
			}
		}

		return true
	case KindExtension:
		return d.ExtID == other.ExtID
	default:
		return true
	}
}

// ChildDType returns the logical dtype of the i-th structural child implied
// by this DType: for List, the element type (regardless of i); for Struct,
// Fields[i].DType; for Extension, the storage dtype. Other kinds have no
// children and return an error.
func (d DType) ChildDType(i int) (DType, error) {
	switch d.Kind {
	case KindList:
		return *d.Elem, nil
	case KindStruct:
		if i < 0 || i >= len(d.Fields) {
			return DType{}, errs.New(errs.KindOutOfBounds, "dtype: struct child index %d out of range (%d fields)", i, len(d.Fields))
		}

		return d.Fields[i].DType, nil
	case KindExtension:
		return *d.Storage, nil
	default:
		return DType{}, errs.New(errs.KindInvalidArgument, "dtype: %s has no children", d.Kind)
	}
}

func (d DType) String() string {
	var b strings.Builder
	d.writeTo(&b)

	return b.String()
}

func (d DType) writeTo(b *strings.Builder) {
	switch d.Kind {
	case KindPrimitive:
		b.WriteString(d.PType.String())
	case KindDecimal:
		fmt.Fprintf(b, "decimal(%d,%d)", d.Precision, d.Scale)
	case KindList:
		b.WriteString("list<")
		d.Elem.writeTo(b)
		b.WriteString(">")
	case KindStruct:
		b.WriteString("struct<")
		for i, f := range d.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			f.DType.writeTo(b)
		}
		b.WriteString(">")
	case KindExtension:
		fmt.Fprintf(b, "extension<%s>", d.ExtID)
	default:
		b.WriteString(d.Kind.String())
	}

	if d.Nullable {
		b.WriteString("?")
	}
}
