package encoding

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// init installs the canonical-to-Array builder array.FromCanonical needs,
// dispatching on CanonicalKind to the plain encoding that wraps it. This is
// the other half of the array/encoding import-cycle seam documented in
// array.SetCanonicalBuilder.
func init() {
	array.SetCanonicalBuilder(buildFromCanonical)
}

func buildFromCanonical(c array.Canonical) (array.Array, error) {
	switch c.Kind {
	case array.CanonicalBool:
		return NewByteBool(c.DType.Nullable, c.Bools, c.Validity)
	case array.CanonicalPrimitive:
		return buildPrimitiveFromCanonical(c)
	case array.CanonicalVarBinView:
		utf8 := c.DType.Kind == dtype.KindUtf8
		return NewVarBinView(utf8, c.DType.Nullable, c.Views, c.DataBufs, c.Validity)
	case array.CanonicalStruct:
		children := make([]array.Array, len(c.StructFlds))
		for i, f := range c.StructFlds {
			child, err := array.FromCanonical(f)
			if err != nil {
				return array.Array{}, err
			}
			children[i] = child
		}

		fields := make([]dtype.Field, len(c.StructFlds))
		for i, f := range c.StructFlds {
			name := ""
			if i < len(c.FieldNames) {
				name = c.FieldNames[i]
			}
			fields[i] = dtype.Field{Name: name, DType: f.DType}
		}

		return NewStruct(fields, children, c.DType.Nullable, c.Validity)
	case array.CanonicalList:
		elements, err := array.FromCanonical(*c.ListElements)
		if err != nil {
			return array.Array{}, err
		}

		elemDType, err := c.DType.ChildDType(0)
		if err != nil {
			return array.Array{}, err
		}

		return NewList(elemDType, c.DType.Nullable, c.ListOffsets, elements, c.Validity)
	default:
		return array.Array{}, errs.New(errs.KindNotImplemented, "encoding: no plain builder for canonical kind %d", c.Kind)
	}
}

func buildPrimitiveFromCanonical(c array.Canonical) (array.Array, error) {
	if c.DType.Kind == dtype.KindNull {
		return NewNull(c.Length)
	}

	pt := c.DType.PType

	switch {
	case c.Floats != nil:
		return NewPrimitive(pt, c.DType.Nullable, c.Length, nil, nil, c.Floats, c.Validity)
	case c.Ints != nil:
		return NewPrimitive(pt, c.DType.Nullable, c.Length, c.Ints, nil, nil, c.Validity)
	case c.Uints != nil:
		return NewPrimitive(pt, c.DType.Nullable, c.Length, nil, c.Uints, nil, c.Validity)
	default:
		// No backing slice populated (e.g. an all-invalid primitive produced
		// without explicit zero-filled data): materialize zeros so
		// NewPrimitive has something to encode.
		return NewPrimitive(pt, c.DType.Nullable, c.Length, make([]int64, c.Length), make([]uint64, c.Length), make([]float64, c.Length), c.Validity)
	}
}
