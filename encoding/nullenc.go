package encoding

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// nullVtable encodes the Null dtype: every row is null, no buffers or
// children needed since there is no non-null value to ever store. Grounded
// on constant.go's all-invalid special case, specialized to the dedicated
// Null dtype rather than a nullable variant of some other type.
type nullVtable struct{}

var _ array.Vtable = nullVtable{}

func init() {
	array.Register(nullVtable{})
}

func (nullVtable) ID() array.EncodingID { return IDNull }
func (nullVtable) Name() string         { return "null" }
func (nullVtable) NumBuffers() int      { return 0 }
func (nullVtable) NumChildren() int     { return 0 }

func (nullVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	return dtype.DType{}, errs.New(errs.KindInvalidArgument, "encoding: null has no children")
}

func (nullVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	return array.Canonical{
		Kind:     array.CanonicalPrimitive,
		DType:    a.DType,
		Length:   a.Length,
		Validity: array.AllInvalid(),
	}, nil
}

func (nullVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	return array.Canonical{Kind: array.CanonicalPrimitive, DType: a.DType, Length: 1, Validity: array.AllInvalid()}, true, nil
}

func (nullVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	return array.Array{EncodingID: IDNull, DType: a.DType, Length: end - start}, nil
}

// NewNull builds an array of n nulls.
func NewNull(n int) (array.Array, error) {
	return array.New(IDNull, dtype.Null(), n, nil, nil, nil)
}
