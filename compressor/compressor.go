package compressor

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/stats"
)

// Compressor runs the sampling-compressor search (spec.md §4.5) and
// memoizes chosen cascades across calls so peer arrays reuse a decision
// instead of re-searching. The zero value is not usable; use New.
type Compressor struct {
	memo *memo
}

// New returns a Compressor with an empty memoization cache.
func New() *Compressor {
	return &Compressor{memo: newMemo()}
}

// Compress selects and applies an encoding cascade for a, returning the
// re-encoded array and the CompressionTree describing the cascade chosen
// (useful for diagnostics and for explicitly compressing a later peer
// array the same way via CompressLike).
func (c *Compressor) Compress(a array.Array, cfg Config) (array.Array, *CompressionTree, error) {
	if cfg.Objective == nil {
		cfg.Objective = DefaultObjective
	}

	return c.compress(a, cfg, cfg.MaxDepth)
}

// CompressLike re-applies a previously chosen CompressionTree to a peer
// array without running the candidate search, spec.md §4.5 step 5's
// "compress like" reuse path made directly callable.
func (c *Compressor) CompressLike(tree *CompressionTree, a array.Array) (array.Array, error) {
	return tree.apply(a)
}

func (c *Compressor) compress(a array.Array, cfg Config, depth int) (array.Array, *CompressionTree, error) {
	if depth < 0 {
		return array.Array{}, nil, errs.New(errs.KindAssertionFailed,
			"compressor: cascade recursion exceeded configured max depth %d", cfg.MaxDepth)
	}

	// Step 1: short-circuits.
	if a.EncodingID != encoding.IDConstant && a.Stats.Has(stats.StatIsConstant) && a.Stats.IsConstant {
		return c.compressConstant(a)
	}
	if a.EncodingID == encoding.IDChunked {
		return c.compressChunked(a, cfg, depth)
	}
	if a.EncodingID == encoding.IDStruct {
		return c.compressStruct(a, cfg, depth)
	}

	fp := fingerprint(a)
	if tree, ok := c.memo.lookup(fp); ok {
		out, err := tree.apply(a)
		if err != nil {
			return array.Array{}, nil, err
		}

		return out, tree, nil
	}

	winner, winnerName, err := c.search(a, cfg)
	if err != nil {
		return array.Array{}, nil, err
	}

	tree := &CompressionTree{Name: winnerName}

	if depth > 0 && len(winner.Children) > 0 {
		tree.Children = make([]*CompressionTree, len(winner.Children))
		for i, child := range winner.Children {
			cc, ct, err := c.compress(child, cfg, depth-1)
			if err != nil {
				// A child exceeding max depth is the pathological-recursion
				// guard firing; leave that one child uncompressed rather than
				// failing the whole array.
				if errs.Is(err, errs.KindAssertionFailed) {
					continue
				}

				return array.Array{}, nil, err
			}
			winner.Children[i] = cc
			tree.Children[i] = ct
		}
	}

	c.memo.remember(fp, tree)

	return winner, tree, nil
}

// search runs spec.md §4.5 steps 2-4: gather applicable candidates,
// evaluate each against a stratified sample, and pick the one minimizing
// cfg.Objective.
func (c *Compressor) search(a array.Array, cfg Config) (array.Array, string, error) {
	sample, err := stratifiedSample(a, cfg)
	if err != nil {
		return array.Array{}, "", err
	}

	uncompressed, err := array.UncompressedSize(sample)
	if err != nil {
		return array.Array{}, "", err
	}

	type scored struct {
		name  string
		score float64
	}

	var best *scored
	for _, cand := range allCandidates {
		if !cand.CanCompress(a) {
			continue
		}

		trial, err := cand.Compress(sample)
		if err != nil {
			continue
		}

		score := cfg.Objective(CandidateStats{
			Name:              cand.Name(),
			UncompressedBytes: uncompressed,
			CompressedBytes:   array.EncodedSize(trial),
		})

		if best == nil || score < best.score {
			best = &scored{name: cand.Name(), score: score}
		}
	}

	if best == nil {
		// rawCandidate always applies, so this only happens if the
		// candidate pool itself is empty — treat as an internal error.
		return array.Array{}, "", errs.New(errs.KindAssertionFailed, "compressor: no candidate applied to %s", a.DType)
	}

	winningCand := candidateByName(best.name)
	winner, err := winningCand.Compress(a)
	if err != nil {
		return array.Array{}, "", err
	}

	return winner, best.name, nil
}

func (c *Compressor) compressConstant(a array.Array) (array.Array, *CompressionTree, error) {
	val, err := array.ScalarAt(a, 0)
	if err != nil {
		return array.Array{}, nil, err
	}

	out, err := encoding.NewConstant(val, a.Length)
	if err != nil {
		return array.Array{}, nil, err
	}

	return out, &CompressionTree{Name: "constant"}, nil
}

func (c *Compressor) compressChunked(a array.Array, cfg Config, depth int) (array.Array, *CompressionTree, error) {
	children := make([]array.Array, len(a.Children))
	tree := &CompressionTree{Name: "chunked", Children: make([]*CompressionTree, len(a.Children))}

	for i, chunk := range a.Children {
		cc, ct, err := c.compress(chunk, cfg, depth)
		if err != nil {
			return array.Array{}, nil, err
		}
		children[i] = cc
		tree.Children[i] = ct
	}

	out, err := encoding.NewChunked(a.DType, children)
	if err != nil {
		return array.Array{}, nil, err
	}

	return out, tree, nil
}

func (c *Compressor) compressStruct(a array.Array, cfg Config, depth int) (array.Array, *CompressionTree, error) {
	topCanon, err := array.Canonicalize(a)
	if err != nil {
		return array.Array{}, nil, err
	}

	fields := a.DType.Fields
	children := make([]array.Array, len(a.Children))
	tree := &CompressionTree{Name: "struct", Children: make([]*CompressionTree, len(a.Children))}

	for i, field := range a.Children {
		cc, ct, err := c.compress(field, cfg, depth)
		if err != nil {
			return array.Array{}, nil, err
		}
		children[i] = cc
		tree.Children[i] = ct
	}

	out, err := encoding.NewStruct(fields, children, a.DType.Nullable, topCanon.Validity)
	if err != nil {
		return array.Array{}, nil, err
	}

	return out, tree, nil
}
