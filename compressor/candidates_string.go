package compressor

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/encoding"
)

func init() {
	registerCandidate(fsstCandidate{})
}

// fsstCandidate compresses Utf8/Binary columns with a trained FSST symbol
// table, winning on string columns with shared substrings (the common
// case for log lines, URLs, repeated categorical text).
type fsstCandidate struct{}

func (fsstCandidate) Name() string { return "fsst" }

func (fsstCandidate) CanCompress(a array.Array) bool {
	return a.DType.Kind == dtype.KindUtf8 || a.DType.Kind == dtype.KindBinary
}

func (fsstCandidate) Compress(a array.Array) (array.Array, error) {
	c, err := array.Canonicalize(a)
	if err != nil {
		return array.Array{}, err
	}

	values := make([][]byte, c.Length)
	for i := range values {
		if c.Validity.IsValid(i) {
			values[i] = bytesAtView(c, i)
		}
	}

	return encoding.NewFSST(a.DType.Kind == dtype.KindUtf8, a.DType.Nullable, values, c.Validity)
}
