package array

import (
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// CanonicalKind identifies which of the fixed decoded target shapes a
// Canonical value holds (spec.md §3 "Canonical forms").
type CanonicalKind uint8

const (
	CanonicalNull CanonicalKind = iota
	CanonicalBool
	CanonicalPrimitive
	CanonicalDecimal
	CanonicalVarBinView
	CanonicalStruct
	CanonicalList
	CanonicalExtension
)

// View is one entry of a VarBinView canonical form: either inline (len<=12,
// data carried directly) or a reference into one of the shared data
// buffers.
type View struct {
	Length int
	Inline []byte // valid when Length <= 12
	BufIdx int
	Offset int
}

// Canonical is the decoded form every encoding must be convertible to.
// Exactly the fields relevant to Kind are populated.
type Canonical struct {
	Kind     CanonicalKind
	DType    dtype.DType
	Length   int
	Validity Validity

	Bools   []bool
	Ints    []int64
	Uints   []uint64
	Floats  []float64
	Decimal []int64 // storage ints for Decimal<i64>; widened as needed by cast

	Views      []View
	DataBufs   [][]byte
	StructFlds []Canonical
	FieldNames []string

	ListOffsets  []int
	ListElements *Canonical

	ExtStorage *Canonical
}

// Canonicalize decodes a via its registered vtable.
func Canonicalize(a Array) (Canonical, error) {
	v, err := a.Vtable()
	if err != nil {
		return Canonical{}, err
	}

	c, err := v.Canonicalize(a)
	if err != nil {
		return Canonical{}, errs.Wrap(err, errs.KindComputeError, "array: canonicalize encoding %s", v.Name())
	}

	return c, nil
}

// Slice narrows a Canonical to [start, end) by re-slicing; nothing is
// copied, so the result aliases c's backing storage.
func (c Canonical) Slice(start, end int) Canonical {
	out := c
	out.Length = end - start
	out.Validity = c.Validity.Slice(start, end)

	switch c.Kind {
	case CanonicalBool:
		out.Bools = c.Bools[start:end]
	case CanonicalPrimitive:
		if c.Ints != nil {
			out.Ints = c.Ints[start:end]
		}
		if c.Uints != nil {
			out.Uints = c.Uints[start:end]
		}
		if c.Floats != nil {
			out.Floats = c.Floats[start:end]
		}
	case CanonicalDecimal:
		out.Decimal = c.Decimal[start:end]
	case CanonicalVarBinView:
		out.Views = c.Views[start:end]
	case CanonicalStruct:
		fields := make([]Canonical, len(c.StructFlds))
		for i, f := range c.StructFlds {
			fields[i] = f.Slice(start, end)
		}
		out.StructFlds = fields
	case CanonicalList:
		out.ListOffsets = c.ListOffsets[start : end+1]
	}

	return out
}
