// Package stats implements StatsSet (C5): the partially-populated
// statistics cache carried by every array, plus the three-way
// all-valid/all-invalid/mask-valid computation used to fill it in.
package stats

import (
	"math/bits"

	"github.com/vtxfmt/vtx/scalar"
)

// Stat identifies one statistic slot in a StatsSet.
type Stat uint8

const (
	StatMin Stat = iota
	StatMax
	StatNullCount
	StatTrueCount
	StatRunCount
	StatIsConstant
	StatIsSorted
	StatIsStrictSorted
	StatBitWidthHistogram
	StatTrailingZeroHistogram
)

func (s Stat) String() string {
	names := [...]string{
		"min", "max", "null_count", "true_count", "run_count",
		"is_constant", "is_sorted", "is_strict_sorted",
		"bit_width_histogram", "trailing_zero_histogram",
	}
	if int(s) < len(names) {
		return names[s]
	}

	return "unknown"
}

// StatsSet is the partially-populated statistics cache attached to an
// array. A nil/zero-value field means "not yet computed", distinguished
// from a computed-but-absent value via the has* flags.
type StatsSet struct {
	Min, Max scalar.Scalar
	hasMin   bool
	hasMax   bool

	NullCount    uint64
	hasNullCount bool

	TrueCount    uint64
	hasTrueCount bool

	RunCount    uint64
	hasRunCount bool

	IsConstant    bool
	hasIsConstant bool

	IsSorted    bool
	hasIsSorted bool

	IsStrictSorted    bool
	hasIsStrictSorted bool

	// BitWidthHistogram[w] counts how many values need exactly w bits.
	BitWidthHistogram    []uint64
	hasBitWidthHistogram bool

	// TrailingZeroHistogram[t] counts how many values have exactly t
	// trailing zero bits.
	TrailingZeroHistogram    []uint64
	hasTrailingZeroHistogram bool

	// Global distinguishes file-level statistics (merged across every
	// chunk, safe for whole-file pruning) from chunk-local statistics that
	// only describe one chunk's contents. See Open Question 1: chunk
	// boundary stats are local-only by default, so a chunked array's
	// per-chunk StatsSet is never silently treated as the whole array's.
	Global bool
}

// Has reports whether stat has already been computed in s.
func (s *StatsSet) Has(stat Stat) bool {
	switch stat {
	case StatMin:
		return s.hasMin
	case StatMax:
		return s.hasMax
	case StatNullCount:
		return s.hasNullCount
	case StatTrueCount:
		return s.hasTrueCount
	case StatRunCount:
		return s.hasRunCount
	case StatIsConstant:
		return s.hasIsConstant
	case StatIsSorted:
		return s.hasIsSorted
	case StatIsStrictSorted:
		return s.hasIsStrictSorted
	case StatBitWidthHistogram:
		return s.hasBitWidthHistogram
	case StatTrailingZeroHistogram:
		return s.hasTrailingZeroHistogram
	default:
		return false
	}
}

func (s *StatsSet) SetMin(v scalar.Scalar)  { s.Min, s.hasMin = v, true }
func (s *StatsSet) SetMax(v scalar.Scalar)  { s.Max, s.hasMax = v, true }
func (s *StatsSet) SetNullCount(n uint64)   { s.NullCount, s.hasNullCount = n, true }
func (s *StatsSet) SetTrueCount(n uint64)   { s.TrueCount, s.hasTrueCount = n, true }
func (s *StatsSet) SetRunCount(n uint64)    { s.RunCount, s.hasRunCount = n, true }
func (s *StatsSet) SetIsConstant(b bool)    { s.IsConstant, s.hasIsConstant = b, true }
func (s *StatsSet) SetIsSorted(b bool)      { s.IsSorted, s.hasIsSorted = b, true }
func (s *StatsSet) SetIsStrictSorted(b bool) {
	s.IsStrictSorted, s.hasIsStrictSorted = b, true
	if b {
		s.SetIsSorted(true)
	}
}

func (s *StatsSet) SetBitWidthHistogram(h []uint64) {
	s.BitWidthHistogram, s.hasBitWidthHistogram = h, true
}

func (s *StatsSet) SetTrailingZeroHistogram(h []uint64) {
	s.TrailingZeroHistogram, s.hasTrailingZeroHistogram = h, true
}

// ValidityShape classifies the third computation branch spec.md §4.4
// requires: a validity-independent fast path for all-valid/all-invalid
// arrays, and a masked path otherwise.
type ValidityShape uint8

const (
	ShapeAllValid ValidityShape = iota
	ShapeAllInvalid
	ShapeMasked
)

// ComputeUint64 computes null_count/is_constant/is_sorted/is_strict_sorted/
// min/max/run_count/histograms for a uint64 canonical buffer in one linear
// pass, branching on validity shape once up front rather than per-element —
// the all-valid/all-invalid/mask-valid three-way split named in spec.md
// §4.4.
func ComputeUint64(values []uint64, shape ValidityShape, validMask []bool) StatsSet {
	var out StatsSet

	n := len(values)
	nulls := uint64(0)
	if shape == ShapeMasked {
		for _, ok := range validMask {
			if !ok {
				nulls++
			}
		}
	} else if shape == ShapeAllInvalid {
		nulls = uint64(n)
	}
	out.SetNullCount(nulls)

	if shape == ShapeAllInvalid || n == 0 {
		out.SetIsConstant(true)
		out.SetIsSorted(true)
		out.SetIsStrictSorted(n <= 1)
		out.SetRunCount(boolToU64(n > 0))

		return out
	}

	bitHist := make([]uint64, 65)
	trailHist := make([]uint64, 65)

	var minV, maxV, firstVal uint64
	haveFirst := false
	isConstant, isSorted, isStrict := true, true, true
	var prev uint64
	havePrev := false
	runCount := uint64(0)
	var prevRunValue uint64
	haveRun := false

	for i, v := range values {
		valid := shape != ShapeMasked || validMask[i]
		if !valid {
			continue
		}

		bitHist[bits.Len64(v)]++
		trailHist[trailingZeros64(v)]++

		if !haveFirst {
			minV, maxV, firstVal = v, v, v
			haveFirst = true
		} else {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
			if v != firstVal {
				isConstant = false
			}
		}

		if havePrev {
			if v < prev {
				isSorted = false
				isStrict = false
			} else if v == prev {
				isStrict = false
			}
		}
		prev = v
		havePrev = true

		if !haveRun || v != prevRunValue {
			runCount++
			prevRunValue = v
			haveRun = true
		}
	}

	out.SetIsConstant(isConstant)
	out.SetIsSorted(isSorted)
	out.SetIsStrictSorted(isStrict)
	out.SetRunCount(runCount)
	out.SetBitWidthHistogram(bitHist)
	out.SetTrailingZeroHistogram(trailHist)

	if haveFirst {
		out.SetMin(scalar.Uint64(minV))
		out.SetMax(scalar.Uint64(maxV))
	}

	return out
}

// ComputeInt64 is ComputeUint64's signed counterpart, used for the I8/I16/
// I32/I64 physical types. It omits the bit-width/trailing-zero histograms,
// which only inform the bit-packing candidate's unsigned codec.
func ComputeInt64(values []int64, shape ValidityShape, validMask []bool) StatsSet {
	var out StatsSet

	n := len(values)
	out.SetNullCount(nullCount(shape, n, validMask))

	if shape == ShapeAllInvalid || n == 0 {
		out.SetIsConstant(true)
		out.SetIsSorted(true)
		out.SetIsStrictSorted(n <= 1)
		out.SetRunCount(boolToU64(n > 0))

		return out
	}

	var minV, maxV, firstVal int64
	haveFirst := false
	isConstant, isSorted, isStrict := true, true, true
	var prev int64
	havePrev := false
	runCount := uint64(0)
	var prevRunValue int64
	haveRun := false

	for i, v := range values {
		if shape == ShapeMasked && !validMask[i] {
			continue
		}

		if !haveFirst {
			minV, maxV, firstVal = v, v, v
			haveFirst = true
		} else {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
			if v != firstVal {
				isConstant = false
			}
		}

		if havePrev {
			if v < prev {
				isSorted = false
				isStrict = false
			} else if v == prev {
				isStrict = false
			}
		}
		prev = v
		havePrev = true

		if !haveRun || v != prevRunValue {
			runCount++
			prevRunValue = v
			haveRun = true
		}
	}

	out.SetIsConstant(isConstant)
	out.SetIsSorted(isSorted)
	out.SetIsStrictSorted(isStrict)
	out.SetRunCount(runCount)

	if haveFirst {
		out.SetMin(scalar.Int64(minV))
		out.SetMax(scalar.Int64(maxV))
	}

	return out
}

// ComputeFloat64 computes the same StatsSet fields as ComputeInt64 for F32/
// F64 values, widened to float64. NaN ordering follows scalar.Compare.
func ComputeFloat64(values []float64, shape ValidityShape, validMask []bool) StatsSet {
	var out StatsSet

	n := len(values)
	out.SetNullCount(nullCount(shape, n, validMask))

	if shape == ShapeAllInvalid || n == 0 {
		out.SetIsConstant(true)
		out.SetIsSorted(true)
		out.SetIsStrictSorted(n <= 1)
		out.SetRunCount(boolToU64(n > 0))

		return out
	}

	var minV, maxV, firstVal float64
	haveFirst := false
	isConstant, isSorted, isStrict := true, true, true
	var prev float64
	havePrev := false
	runCount := uint64(0)
	var prevRunValue float64
	haveRun := false

	for i, v := range values {
		if shape == ShapeMasked && !validMask[i] {
			continue
		}

		if !haveFirst {
			minV, maxV, firstVal = v, v, v
			haveFirst = true
		} else {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
			if v != firstVal {
				isConstant = false
			}
		}

		if havePrev {
			if v < prev {
				isSorted = false
				isStrict = false
			} else if v == prev {
				isStrict = false
			}
		}
		prev = v
		havePrev = true

		if !haveRun || v != prevRunValue {
			runCount++
			prevRunValue = v
			haveRun = true
		}
	}

	out.SetIsConstant(isConstant)
	out.SetIsSorted(isSorted)
	out.SetIsStrictSorted(isStrict)
	out.SetRunCount(runCount)

	if haveFirst {
		out.SetMin(scalar.Float64(minV))
		out.SetMax(scalar.Float64(maxV))
	}

	return out
}

// ComputeBool computes null_count/true_count/is_constant/run_count for a
// Bool canonical buffer. Bool has no meaningful min/max or sort order
// beyond false < true, which ComputeBool does not attempt to surface since
// no compressor candidate currently consumes a bool ordering stat.
func ComputeBool(values []bool, shape ValidityShape, validMask []bool) StatsSet {
	var out StatsSet

	n := len(values)
	out.SetNullCount(nullCount(shape, n, validMask))

	if shape == ShapeAllInvalid || n == 0 {
		out.SetIsConstant(true)
		out.SetRunCount(boolToU64(n > 0))

		return out
	}

	trueCount := uint64(0)
	isConstant := true
	firstVal, haveFirst := false, false
	runCount := uint64(0)
	var prevRunValue bool
	haveRun := false

	for i, v := range values {
		if shape == ShapeMasked && !validMask[i] {
			continue
		}

		if v {
			trueCount++
		}

		if !haveFirst {
			firstVal, haveFirst = v, true
		} else if v != firstVal {
			isConstant = false
		}

		if !haveRun || v != prevRunValue {
			runCount++
			prevRunValue = v
			haveRun = true
		}
	}

	out.SetTrueCount(trueCount)
	out.SetIsConstant(isConstant)
	out.SetRunCount(runCount)

	return out
}

// ComputeVarBin computes null_count/is_constant/is_sorted/is_strict_sorted/
// min/max/run_count for a Utf8 or Binary canonical buffer given its decoded
// string values, comparing lexicographically by byte value.
func ComputeVarBin(values []string, shape ValidityShape, validMask []bool) StatsSet {
	var out StatsSet

	n := len(values)
	out.SetNullCount(nullCount(shape, n, validMask))

	if shape == ShapeAllInvalid || n == 0 {
		out.SetIsConstant(true)
		out.SetIsSorted(true)
		out.SetIsStrictSorted(n <= 1)
		out.SetRunCount(boolToU64(n > 0))

		return out
	}

	var minV, maxV, firstVal string
	haveFirst := false
	isConstant, isSorted, isStrict := true, true, true
	var prev string
	havePrev := false
	runCount := uint64(0)
	var prevRunValue string
	haveRun := false

	for i, v := range values {
		if shape == ShapeMasked && !validMask[i] {
			continue
		}

		if !haveFirst {
			minV, maxV, firstVal = v, v, v
			haveFirst = true
		} else {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
			if v != firstVal {
				isConstant = false
			}
		}

		if havePrev {
			if v < prev {
				isSorted = false
				isStrict = false
			} else if v == prev {
				isStrict = false
			}
		}
		prev = v
		havePrev = true

		if !haveRun || v != prevRunValue {
			runCount++
			prevRunValue = v
			haveRun = true
		}
	}

	out.SetIsConstant(isConstant)
	out.SetIsSorted(isSorted)
	out.SetIsStrictSorted(isStrict)
	out.SetRunCount(runCount)

	if haveFirst {
		out.SetMin(scalar.Utf8(minV))
		out.SetMax(scalar.Utf8(maxV))
	}

	return out
}

func nullCount(shape ValidityShape, n int, validMask []bool) uint64 {
	switch shape {
	case ShapeMasked:
		c := uint64(0)
		for _, ok := range validMask {
			if !ok {
				c++
			}
		}
		return c
	case ShapeAllInvalid:
		return uint64(n)
	default:
		return 0
	}
}

func trailingZeros64(v uint64) int {
	if v == 0 {
		return 64
	}

	return bits.TrailingZeros64(v)
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}

	return 0
}

// Merge combines chunk-local stats sets (in chunk order) into the parent's
// StatsSet and marks the result Global whatever the inputs' own flags.
// Sort order and run count are left unset.
func Merge(chunks []StatsSet) StatsSet {
	var out StatsSet
	if len(chunks) == 0 {
		return out
	}

	// A merge over every chunk of an array produces file-scope stats, so it
	// is marked Global regardless of whether the inputs were; only a
	// partial (pruned) subset of chunks would make the merge non-Global,
	// and callers must not pass a partial subset to Merge.
	out.Global = true

	nullSum, haveNulls := uint64(0), true
	trueSum, haveTrue := uint64(0), true
	allConstant := true
	firstVal := chunks[0]
	minS, maxS := firstVal.Min, firstVal.Max
	haveMin, haveMax := firstVal.hasMin, firstVal.hasMax

	for _, c := range chunks {
		if c.hasNullCount {
			nullSum += c.NullCount
		} else {
			haveNulls = false
		}

		if c.hasTrueCount {
			trueSum += c.TrueCount
		} else {
			haveTrue = false
		}

		if !c.hasIsConstant || !c.IsConstant {
			allConstant = false
		}

		if c.hasMin {
			if !haveMin {
				minS, haveMin = c.Min, true
			} else if ord, err := compareLess(c.Min, minS); err == nil && ord {
				minS = c.Min
			}
		}

		if c.hasMax {
			if !haveMax {
				maxS, haveMax = c.Max, true
			} else if ord, err := compareLess(maxS, c.Max); err == nil && ord {
				maxS = c.Max
			}
		}
	}

	if haveNulls {
		out.SetNullCount(nullSum)
	}
	if haveTrue {
		out.SetTrueCount(trueSum)
	}
	out.SetIsConstant(allConstant && len(chunks) > 0)
	if haveMin {
		out.SetMin(minS)
	}
	if haveMax {
		out.SetMax(maxS)
	}

	// is_sorted across chunk boundaries requires knowing each chunk's
	// min/max relative order too; conservatively, a multi-chunk merge only
	// claims IsSorted when every chunk claimed it AND each chunk's min is
	// >= the previous chunk's max (checked by the caller, which holds the
	// chunk boundary values); this package only merges what's composable
	// from StatsSet alone, so IsSorted is left unset on ambiguous merges.

	return out
}

func compareLess(a, b scalar.Scalar) (bool, error) {
	c, err := scalar.Compare(a, b)
	return c < 0, err
}
