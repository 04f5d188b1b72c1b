package compressor

// decodeCostTable estimates the relative per-value decode cost of each
// candidate encoding, used by DefaultObjective to weigh "ratio" against
// "ratio plus decode cost" per spec.md §4.5. Units are arbitrary; only
// relative ordering matters. Raw is the baseline (a straight copy); only
// constant, which needs no per-element work, is cheaper. Encodings that do
// meaningful per-element work
// at decode time (Gorilla's bit unpacking, ALP-RD's dictionary lookup)
// cost more.
var decodeCostTable = map[string]float64{
	"raw":      1.0,
	"constant": 0.1,
	"bitpack":  1.3,
	"zigzag":   1.2,
	"dict":     1.5,
	"runend":   1.4,
	"gorilla":  2.0,
	"alp":      1.6,
	"alprd":    1.8,
	"fsst":     1.7,
}

// CandidateStats summarizes one candidate's trial compression, the input
// to Objective.
type CandidateStats struct {
	Name              string
	UncompressedBytes int
	CompressedBytes   int
}

// Ratio returns CompressedBytes / UncompressedBytes, or 1.0 (no benefit)
// if UncompressedBytes is zero.
func (s CandidateStats) Ratio() float64 {
	if s.UncompressedBytes == 0 {
		return 1.0
	}

	return float64(s.CompressedBytes) / float64(s.UncompressedBytes)
}

// Objective scores a candidate; lower scores win. Spec.md §4.5 says the
// default objective weights both ratio and decode cost, and that
// "leave uncompressed" is permitted to win if nothing beats 1.0 — callers
// achieve that by always including the "raw" candidate in the pool.
type Objective func(s CandidateStats) float64

// decodeCostWeight balances ratio against decode cost in DefaultObjective;
// a pure ratio-minimizer would always prefer the smallest encoding even
// when it is far more expensive to decode, so a nonzero weight lets a
// cheaper-to-decode candidate with a slightly worse ratio still win.
const decodeCostWeight = 0.05

// DefaultObjective scores ratio plus a small decode-cost penalty.
func DefaultObjective(s CandidateStats) float64 {
	cost, ok := decodeCostTable[s.Name]
	if !ok {
		cost = 1.0
	}

	return s.Ratio() + decodeCostWeight*cost
}

// RatioOnlyObjective scores purely on compression ratio, ignoring decode
// cost; useful when callers are optimizing strictly for file size.
func RatioOnlyObjective(s CandidateStats) float64 {
	return s.Ratio()
}
