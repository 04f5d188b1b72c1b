package layout

import (
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/expr"
	"github.com/vtxfmt/vtx/internal/endian"
	"github.com/vtxfmt/vtx/segment"
	"github.com/vtxfmt/vtx/stats"
)

// ZoneBlockSize reports the row count per zone-map block recorded in lay's
// metadata. lay must be a Zoned layout.
func ZoneBlockSize(lay Layout, engine endian.EndianEngine) (int, error) {
	if lay.Encoding != IDZoned {
		return 0, errs.New(errs.KindInvalidArgument, "layout: ZoneBlockSize called on non-zoned layout %s", lay.Encoding)
	}
	if len(lay.Metadata) < 4 {
		return 0, errs.New(errs.KindInvalidSerde, "layout: zoned layout metadata truncated")
	}

	return int(engine.Uint32(lay.Metadata)), nil
}

// Prune evaluates filter against lay's zone map, one block at a time, and
// returns the indices of blocks that cannot be ruled out: a block is
// dropped from the result only when expr.CanPrune proves filter false for
// every row it could contain, using fieldName as the scope key the filter
// expects to find the column's stats under. lay must be a Zoned layout
// over a column of dtype dt. Per spec.md §8's pruning-soundness law, a
// block is dropped only on a positive proof, never on ambiguity.
func Prune(rd *segment.Reader, lay Layout, dt dtype.DType, fieldName string, cfg ReaderConfig, filter expr.Expr) ([]int, error) {
	if lay.Encoding != IDZoned {
		return nil, errs.New(errs.KindInvalidArgument, "layout: Prune called on non-zoned layout %s", lay.Encoding)
	}

	zoneMapLayout := lay.Children[1]
	if len(zoneMapLayout.Segments) != 1 {
		return nil, errs.New(errs.KindInvalidSerde, "layout: zone map layout requires exactly 1 segment, got %d", len(zoneMapLayout.Segments))
	}

	entry, err := cfg.entry(zoneMapLayout.Segments[0])
	if err != nil {
		return nil, err
	}

	data, err := rd.Fetch(entry)
	if err != nil {
		return nil, err
	}

	blocks, err := DeserializeZoneMap(data, dt, cfg.Engine)
	if err != nil {
		return nil, err
	}

	surviving := make([]int, 0, len(blocks))
	for i, block := range blocks {
		fieldStats := map[string]stats.StatsSet{fieldName: block}
		if expr.CanPrune(filter, fieldStats) {
			continue
		}

		surviving = append(surviving, i)
	}

	return surviving, nil
}
