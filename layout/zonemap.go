package layout

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/endian"
	"github.com/vtxfmt/vtx/scalar"
	"github.com/vtxfmt/vtx/stats"
)

// DefaultZoneBlockSize is the row count per zone-map block when none is
// given explicitly, matching spec.md §8 S5's zoned pruning scenario.
const DefaultZoneBlockSize = 1024

// BuildZoneMap computes a per-block min/max over a, one block per
// DefaultZoneBlockSize (or blockSize, if > 0) consecutive rows. Nulls
// within a block are skipped; an all-null block yields an empty
// stats.StatsSet (no min/max), which CanPrune treats as "cannot prune".
func BuildZoneMap(a array.Array, blockSize int) ([]stats.StatsSet, error) {
	if blockSize <= 0 {
		blockSize = DefaultZoneBlockSize
	}

	var blocks []stats.StatsSet
	for start := 0; start < a.Length; start += blockSize {
		end := start + blockSize
		if end > a.Length {
			end = a.Length
		}

		block, err := blockStats(a, start, end)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

func blockStats(a array.Array, start, end int) (stats.StatsSet, error) {
	var set stats.StatsSet

	var min, max scalar.Scalar
	have := false

	for i := start; i < end; i++ {
		s, err := array.ScalarAt(a, i)
		if err != nil {
			return stats.StatsSet{}, errs.Wrap(err, errs.KindComputeError, "layout: zone map scalar_at(%d)", i)
		}
		if s.IsNull() {
			continue
		}

		if !have {
			min, max = s, s
			have = true
			continue
		}

		if c, err := scalar.Compare(s, min); err == nil && c < 0 {
			min = s
		}
		if c, err := scalar.Compare(s, max); err == nil && c > 0 {
			max = s
		}
	}

	if have {
		set.SetMin(min)
		set.SetMax(max)
	}

	return set, nil
}

// SerializeZoneMap encodes blocks (each block's Min/Max, when present)
// into bytes, given the column dtype every block's scalars share.
func SerializeZoneMap(blocks []stats.StatsSet, dt dtype.DType, engine endian.EndianEngine) ([]byte, error) {
	var b []byte
	b = engine.AppendUint32(b, uint32(len(blocks)))

	for _, block := range blocks {
		var flags uint8
		if block.Has(stats.StatMin) {
			flags |= 1
		}
		if block.Has(stats.StatMax) {
			flags |= 2
		}
		b = append(b, flags)

		if block.Has(stats.StatMin) {
			enc, err := encodeScalarValue(block.Min, dt, engine)
			if err != nil {
				return nil, err
			}
			b = append(b, enc...)
		}
		if block.Has(stats.StatMax) {
			enc, err := encodeScalarValue(block.Max, dt, engine)
			if err != nil {
				return nil, err
			}
			b = append(b, enc...)
		}
	}

	return b, nil
}

// DeserializeZoneMap is SerializeZoneMap's inverse.
func DeserializeZoneMap(data []byte, dt dtype.DType, engine endian.EndianEngine) ([]stats.StatsSet, error) {
	if len(data) < 4 {
		return nil, errs.New(errs.KindInvalidSerde, "layout: zone map truncated before block count")
	}
	n := int(engine.Uint32(data[:4]))
	off := 4

	blocks := make([]stats.StatsSet, n)
	for i := 0; i < n; i++ {
		if off >= len(data) {
			return nil, errs.New(errs.KindInvalidSerde, "layout: zone map truncated at block %d", i)
		}
		flags := data[off]
		off++

		var block stats.StatsSet
		if flags&1 != 0 {
			v, consumed, err := decodeScalarValue(data[off:], dt, engine)
			if err != nil {
				return nil, err
			}
			block.SetMin(v)
			off += consumed
		}
		if flags&2 != 0 {
			v, consumed, err := decodeScalarValue(data[off:], dt, engine)
			if err != nil {
				return nil, err
			}
			block.SetMax(v)
			off += consumed
		}

		blocks[i] = block
	}

	return blocks, nil
}
