package compressor

import (
	"math/rand"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/encoding"
)

// stratifiedSample implements spec.md §4.5 step 3: when an array is
// larger than s*k rows, partition it into k contiguous regions and draw
// one s-row window from each (position chosen deterministically from
// cfg.Seed), then present the k windows concatenated as a single sample
// array. Candidates are scored against this sample instead of the whole
// column. Returns a directly when it already fits within one sample.
func stratifiedSample(a array.Array, cfg Config) (array.Array, error) {
	n := a.Length
	s, k := cfg.SampleSize, cfg.SampleCount
	if s <= 0 || k <= 0 || n <= s*k {
		return a, nil
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	regionLen := n / k

	windows := make([]array.Array, 0, k)
	for i := 0; i < k; i++ {
		regionStart := i * regionLen
		regionEnd := regionStart + regionLen
		if i == k-1 {
			regionEnd = n
		}

		maxStart := regionEnd - regionStart - s
		start := regionStart
		if maxStart > 0 {
			start = regionStart + rng.Intn(maxStart+1)
		}

		end := start + s
		if end > regionEnd {
			end = regionEnd
		}
		if end <= start {
			continue
		}

		w, err := array.Slice(a, start, end)
		if err != nil {
			return array.Array{}, err
		}
		windows = append(windows, w)
	}

	if len(windows) == 0 {
		return a, nil
	}
	if len(windows) == 1 {
		return windows[0], nil
	}

	return encoding.NewChunked(a.DType, windows)
}
