package layout

import "sort"

// RegisterSplits gathers candidate row-split boundaries for lay into
// splits, a set of absolute row offsets (deduplicated, ascending once
// SortedSplits is called). rowOffset is lay's own starting row within the
// whole column. Chunked layouts contribute one boundary per chunk;
// zoned layouts contribute only their data child's boundaries, so
// zone-map block edges are not added.
func RegisterSplits(lay Layout, rowOffset uint64, splits map[uint64]struct{}) {
	splits[rowOffset] = struct{}{}

	switch lay.Encoding {
	case IDChunked:
		offset := rowOffset
		for _, child := range lay.Children {
			RegisterSplits(child, offset, splits)
			offset += child.RowCount
		}
		splits[rowOffset+lay.RowCount] = struct{}{}

	case IDStruct:
		for _, child := range lay.Children {
			RegisterSplits(child, rowOffset, splits)
		}

	case IDZoned:
		RegisterSplits(lay.Children[0], rowOffset, splits)
	}
}

// SortedSplits returns splits' row offsets in ascending order.
func SortedSplits(splits map[uint64]struct{}) []uint64 {
	out := make([]uint64, 0, len(splits))
	for s := range splits {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// RequiredSegments collects the segment ids lay needs to serve the row
// window [rowOffset, rowOffset+windowLen), appending them to collector in
// a stable (pre-order) order. A flat or struct layout contributes its own
// segments unconditionally (no sub-row segment granularity exists below
// a flat node); a chunked layout only descends into chunks that overlap
// the window.
func RequiredSegments(lay Layout, rowOffset, windowLen uint64, collector *[]uint32) {
	*collector = append(*collector, lay.Segments...)

	switch lay.Encoding {
	case IDChunked:
		offset := rowOffset
		windowEnd := rowOffset + windowLen
		for _, child := range lay.Children {
			childEnd := offset + child.RowCount
			if childEnd > rowOffset && offset < windowEnd {
				RequiredSegments(child, offset, child.RowCount, collector)
			}
			offset = childEnd
		}

	case IDStruct:
		for _, child := range lay.Children {
			RequiredSegments(child, rowOffset, windowLen, collector)
		}

	case IDZoned:
		for _, child := range lay.Children {
			RequiredSegments(child, rowOffset, windowLen, collector)
		}
	}
}
