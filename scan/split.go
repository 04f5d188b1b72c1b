package scan

import "github.com/vtxfmt/vtx/layout"

// Split is one independently scannable row range: a single chunk, together
// with its own Layout subtree, so required-segment resolution and I/O stay
// scoped to just this range. Non-chunked layouts have exactly one split
// spanning the whole node; finer-than-split pruning is Prune's job, not
// the splitter's.
type Split struct {
	RowOffset uint64
	RowCount  uint64
	Layout    layout.Layout
}

// ComputeSplits partitions lay into its natural scan units.
func ComputeSplits(lay layout.Layout) []Split {
	if lay.Encoding != layout.IDChunked {
		return []Split{{RowOffset: 0, RowCount: lay.RowCount, Layout: lay}}
	}

	splits := make([]Split, 0, len(lay.Children))
	offset := uint64(0)
	for _, child := range lay.Children {
		splits = append(splits, Split{RowOffset: offset, RowCount: child.RowCount, Layout: child})
		offset += child.RowCount
	}

	return splits
}
