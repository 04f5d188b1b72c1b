package compressor

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/stats"
)

// Candidate is one encoding the sampling compressor can try. Mirrors
// spec.md §4.5's "candidate encoders whose can_compress(array) = Some".
type Candidate interface {
	// Name identifies the candidate in diagnostics and the decode-cost table.
	Name() string
	// CanCompress reports whether this candidate applies to a's dtype and
	// contents; corresponds to spec.md's can_compress returning Some.
	CanCompress(a array.Array) bool
	// Compress produces a re-encoded array logically equal to a.
	Compress(a array.Array) (array.Array, error)
}

// allCandidates is the full registry, initialized in candidates_numeric.go
// and candidates_string.go. rawCandidate always applies, so the
// compressor can always fall back to "leave uncompressed".
var allCandidates = []Candidate{
	rawCandidate{},
}

func registerCandidate(c Candidate) {
	allCandidates = append(allCandidates, c)
}

func init() {
	registerCandidate(constantCandidate{})
}

// constantCandidate folds an array whose Stats report a single repeated
// value into encoding.Constant, which stores no buffers regardless of
// length. compress's step-1 short-circuit already routes confirmed-constant
// arrays straight to compressConstant without a search; this candidate
// gives the general search path (stratifiedSample trials, CompressLike
// replays) the same option so a constant column never loses to a
// candidate that merely scores well on a sample.
type constantCandidate struct{}

func (constantCandidate) Name() string { return "constant" }

func (constantCandidate) CanCompress(a array.Array) bool {
	return a.Length > 0 && a.Stats.Has(stats.StatIsConstant) && a.Stats.IsConstant
}

func (constantCandidate) Compress(a array.Array) (array.Array, error) {
	val, err := array.ScalarAt(a, 0)
	if err != nil {
		return array.Array{}, err
	}

	return encoding.NewConstant(val, a.Length)
}

// rawCandidate leaves the array exactly as given; its Ratio() is 1.0
// (since compressed size equals uncompressed size up to the primitive
// encoding's own fixed-width layout), giving every other candidate a
// baseline to beat, per spec.md's "permitted to choose leave uncompressed".
type rawCandidate struct{}

func (rawCandidate) Name() string                  { return "raw" }
func (rawCandidate) CanCompress(a array.Array) bool { return true }

func (rawCandidate) Compress(a array.Array) (array.Array, error) {
	return a, nil
}
