package encoding

import (
	"sort"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// chunkedVtable concatenates a sequence of same-dtype child arrays into one
// logical array without copying, spec.md §4.3's Chunked encoding — the
// shape a layout's column reader naturally produces when it streams row
// groups in rather than materializing the whole column at once.
type chunkedVtable struct{}

var _ array.Vtable = chunkedVtable{}

func init() {
	array.Register(chunkedVtable{})
}

func (chunkedVtable) ID() array.EncodingID { return IDChunked }
func (chunkedVtable) Name() string         { return "chunked" }
func (chunkedVtable) NumBuffers() int      { return 0 }
func (chunkedVtable) NumChildren() int     { return -1 }

func (chunkedVtable) ChildDType(a array.Array, i int) (dtype.DType, error) {
	return a.DType, nil
}

func (chunkedVtable) Canonicalize(a array.Array) (array.Canonical, error) {
	chunks := make([]array.Canonical, len(a.Children))
	for i, c := range a.Children {
		cc, err := array.Canonicalize(c)
		if err != nil {
			return array.Canonical{}, errs.Wrap(err, errs.KindComputeError, "encoding: chunked chunk %d", i)
		}
		chunks[i] = cc
	}

	if len(chunks) == 0 {
		return array.Canonical{Kind: array.CanonicalPrimitive, DType: a.DType, Length: 0, Validity: array.NonNullable()}, nil
	}

	return concatCanonical(chunks)
}

func (chunkedVtable) ScalarAt(a array.Array, i int) (array.Canonical, bool, error) {
	idx, offsets := chunkIndexAt(a.Children, i)
	if idx < 0 {
		return array.Canonical{}, false, errs.New(errs.KindOutOfBounds, "encoding: chunked index %d out of range", i)
	}

	s, err := array.ScalarAt(a.Children[idx], i-offsets[idx])
	if err != nil {
		return array.Canonical{}, false, err
	}

	c, err := scalarToSingleCanonical(s)
	if err != nil {
		return array.Canonical{}, false, err
	}

	return c, true, nil
}

func (chunkedVtable) Slice(a array.Array, start, end int) (array.Array, error) {
	return array.Array{}, errs.ErrNotImplemented
}

func chunkOffsets(children []array.Array) []int {
	offsets := make([]int, len(children))
	sum := 0
	for i, c := range children {
		offsets[i] = sum
		sum += c.Length
	}

	return offsets
}

// chunkIndexAt returns the chunk containing logical index i, and the
// offsets slice used to translate i into a within-chunk index.
func chunkIndexAt(children []array.Array, i int) (int, []int) {
	offsets := chunkOffsets(children)

	idx := sort.Search(len(offsets), func(k int) bool {
		next := offsets[k]
		if k+1 < len(children) {
			next = offsets[k+1]
		} else {
			next = offsets[k] + children[k].Length
		}
		return next > i
	})

	if idx >= len(children) {
		return -1, offsets
	}

	return idx, offsets
}

// NewChunked builds a Chunked-encoded array over same-dtype children.
func NewChunked(dt dtype.DType, children []array.Array) (array.Array, error) {
	n := 0
	for _, c := range children {
		if !c.DType.EqualIgnoreNullable(dt) {
			return array.Array{}, errs.New(errs.KindMismatchedTypes, "encoding: chunked child dtype mismatch: want %s, got %s", dt, c.DType)
		}
		n += c.Length
	}

	return array.Array{EncodingID: IDChunked, DType: dt, Length: n, Children: children}, nil
}

func concatCanonical(chunks []array.Canonical) (array.Canonical, error) {
	first := chunks[0]
	total := 0
	for _, c := range chunks {
		total += c.Length
	}

	validMask := make([]bool, 0, total)
	for _, c := range chunks {
		validMask = append(validMask, c.Validity.Mask(c.Length)...)
	}

	out := array.Canonical{Kind: first.Kind, DType: first.DType, Length: total, Validity: array.FromMask(validMask)}

	switch first.Kind {
	case array.CanonicalBool:
		vals := make([]bool, 0, total)
		for _, c := range chunks {
			vals = append(vals, c.Bools...)
		}
		out.Bools = vals
	case array.CanonicalPrimitive:
		switch {
		case first.Ints != nil:
			vals := make([]int64, 0, total)
			for _, c := range chunks {
				vals = append(vals, c.Ints...)
			}
			out.Ints = vals
		case first.Uints != nil:
			vals := make([]uint64, 0, total)
			for _, c := range chunks {
				vals = append(vals, c.Uints...)
			}
			out.Uints = vals
		case first.Floats != nil:
			vals := make([]float64, 0, total)
			for _, c := range chunks {
				vals = append(vals, c.Floats...)
			}
			out.Floats = vals
		}
	case array.CanonicalVarBinView:
		var views []array.View
		var data [][]byte
		for _, c := range chunks {
			base := len(data)
			data = append(data, c.DataBufs...)
			for _, v := range c.Views {
				if v.Length > 12 {
					v.BufIdx += base
				}
				views = append(views, v)
			}
		}
		out.Views = views
		out.DataBufs = data
	default:
		return array.Canonical{}, errs.New(errs.KindNotImplemented, "encoding: chunked concat not implemented for canonical kind %d", first.Kind)
	}

	return out, nil
}
