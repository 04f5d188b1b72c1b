package scan

import (
	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/errs"
)

// toBoolSlice converts a Bool-typed evaluation result into a plain mask,
// treating null entries as false (a row with an unknown predicate result
// does not pass the filter).
func toBoolSlice(a array.Array) ([]bool, error) {
	canon, err := array.Canonicalize(a)
	if err != nil {
		return nil, err
	}
	if canon.Kind != array.CanonicalBool {
		return nil, errs.New(errs.KindMismatchedTypes, "scan: filter conjunct must evaluate to bool, got canonical kind %d", canon.Kind)
	}

	out := make([]bool, canon.Length)
	for i := range out {
		out[i] = canon.Validity.IsValid(i) && canon.Bools[i]
	}

	return out, nil
}

func selectivityOf(trueCount, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(trueCount) / float64(total)
}

func countTrue(bits []bool) int {
	n := 0
	for _, b := range bits {
		if b {
			n++
		}
	}

	return n
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}

	return false
}
