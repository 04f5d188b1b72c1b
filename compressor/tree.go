package compressor

import (
	"fmt"
	"sync"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/internal/hash"
	"github.com/vtxfmt/vtx/stats"
)

// CompressionTree is the remembered cascade of candidate names chosen for
// one array, so a structurally similar "peer" array (the next chunk, a
// dictionary's values child, a struct field from the next row group) can
// be compressed the same way without re-running the candidate search.
// Grounded on internal/collision.Tracker's "detect a structural property
// once, remember it, and reuse that decision on subsequent calls" shape.
type CompressionTree struct {
	Name     string
	Children []*CompressionTree
}

// apply re-runs the remembered cascade against a full array, skipping the
// search in compress's steps 2-4. Falls back to leaving a uncompressed if
// the remembered candidate no longer applies (e.g. a peer array's dtype
// drifted in a way that invalidates the candidate).
func (t *CompressionTree) apply(a array.Array) (array.Array, error) {
	cand := candidateByName(t.Name)
	if cand == nil || !cand.CanCompress(a) {
		return a, nil
	}

	out, err := cand.Compress(a)
	if err != nil {
		return array.Array{}, err
	}

	for i := range out.Children {
		if i >= len(t.Children) || t.Children[i] == nil {
			continue
		}

		cc, err := t.Children[i].apply(out.Children[i])
		if err != nil {
			return array.Array{}, err
		}
		out.Children[i] = cc
	}

	return out, nil
}

func candidateByName(name string) Candidate {
	for _, c := range allCandidates {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// memo caches CompressionTrees by fingerprint, guarded by a mutex since a
// Compressor may be shared across goroutines compressing sibling columns
// concurrently.
type memo struct {
	mu    sync.Mutex
	trees map[uint64]*CompressionTree
}

func newMemo() *memo {
	return &memo{trees: make(map[uint64]*CompressionTree)}
}

func (m *memo) lookup(fp uint64) (*CompressionTree, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.trees[fp]
	return t, ok
}

func (m *memo) remember(fp uint64, t *CompressionTree) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.trees[fp] = t
}

// fingerprint identifies "peer" arrays eligible for compress-like reuse:
// same dtype plus a coarse statistics digest (constant-ness, sortedness,
// null presence). Two arrays with the same fingerprint are assumed to
// compress well under the same cascade, per spec.md §4.5 step 5.
func fingerprint(a array.Array) uint64 {
	key := fmt.Sprintf("%s|const=%v|sorted=%v|nulls=%v",
		a.DType.String(),
		a.Stats.Has(stats.StatIsConstant) && a.Stats.IsConstant,
		a.Stats.Has(stats.StatIsSorted) && a.Stats.IsSorted,
		a.Stats.Has(stats.StatNullCount) && a.Stats.NullCount > 0,
	)

	return hash.ID(key)
}
