package encoding

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// structVtable is the plain Struct encoding: one child Array per field, plus
// a top-level validity buffer for rows where the whole struct is null.
// Grounded on spec.md §3's Struct canonical form, which carries child
// Canonical values directly; this vtable is the on-disk/in-process array
// wrapper around that shape.
type structVtable struct{}

var _ array.Vtable = structVtable{}

func init() {
	array.Register(structVtable{})
}

func (structVtable) ID() array.EncodingID { return IDStruct }
func (structVtable) Name() string         { return "struct" }
func (structVtable) NumBuffers() int      { return 1 } // [0] validity

func (v structVtable) NumChildren() int {
	return -1 // variable; structNew checks the child count against the dtype's fields instead of array.New
}

func (structVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	return a.DType.ChildDType(i)
}

func (structVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	fields := make([]array.Canonical, len(a.Children))
	for i, child := range a.Children {
		c, err := array.Canonicalize(child)
		if err != nil {
			return array.Canonical{}, errs.Wrap(err, errs.KindComputeError, "encoding: struct field %d", i)
		}
		fields[i] = c
	}

	names := make([]string, len(a.DType.Fields))
	for i, f := range a.DType.Fields {
		names[i] = f.Name
	}

	return array.Canonical{
		Kind:       array.CanonicalStruct,
		DType:      a.DType,
		Length:     a.Length,
		Validity:   decodeValidity(a.Buffers[0].Data, a.Length, a.DType.Nullable),
		StructFlds: fields,
		FieldNames: names,
	}, nil
}

func (structVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	return array.Canonical{}, false, errs.ErrNotImplemented
}

func (structVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	children := make([]array.Array, len(a.Children))
	for i, c := range a.Children {
		sliced, err := array.Slice(c, start, end)
		if err != nil {
			return array.Array{}, err
		}
		children[i] = sliced
	}

	validity := a.Buffers[0].Data
	if len(validity) > 0 {
		validity = validity[start:end]
	}

	return array.Array{
		EncodingID: IDStruct,
		DType:      a.DType,
		Length:     end - start,
		Buffers:    []array.Buf{{Data: validity}},
		Children:   children,
	}, nil
}

// NewStruct builds a Struct-encoded array from already-constructed field
// arrays and top-level (row) validity.
func NewStruct(fields []dtype.Field, children []array.Array, nullable bool, validity array.Validity) (array.Array, error) {
	n := 0
	if len(children) > 0 {
		n = children[0].Length
	}

	dt := dtype.Struct(fields, nullable)

	return structNew(dt, n, children, validity)
}

// structNew bypasses array.New's fixed NumChildren check (struct's child
// count is dtype-dependent, not encoding-fixed) by validating shape
// directly against the field list instead.
func structNew(dt dtype.DType, n int, children []array.Array, validity array.Validity) (array.Array, error) {
	if len(children) != len(dt.Fields) {
		return array.Array{}, errs.New(errs.KindInvalidArgument, "encoding: struct requires %d fields, got %d children", len(dt.Fields), len(children))
	}

	for i, c := range children {
		if !c.DType.EqualIgnoreNullable(dt.Fields[i].DType) {
			return array.Array{}, errs.New(errs.KindMismatchedTypes, "encoding: struct field %d dtype mismatch: want %s, got %s", i, dt.Fields[i].DType, c.DType)
		}
		if c.Length != n {
			return array.Array{}, errs.New(errs.KindInvalidArgument, "encoding: struct field %d length %d does not match struct length %d", i, c.Length, n)
		}
	}

	return array.Array{
		EncodingID: IDStruct,
		DType:      dt,
		Length:     n,
		Buffers:    []array.Buf{{Data: encodeValidity(validity, n)}},
		Children:   children,
	}, nil
}
