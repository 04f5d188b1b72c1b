package array

import "github.com/vtxfmt/vtx/stats"

// computeStats canonicalizes a through v and runs the matching stats.Compute*
// pass over the result, giving New a populated StatsSet to attach without
// every caller having to remember to call WithStats itself. Canonical kinds
// with no registered Compute* pass (Struct, List, Decimal, Extension) are
// left at the zero StatsSet rather than erroring, since statistics for
// those shapes are either meaningless (Decimal storage ints are covered by
// their primitive PType) or belong to the children, not the parent.
func computeStats(v Vtable, a Array) (stats.StatsSet, error) {
	c, err := v.Canonicalize(a)
	if err != nil {
		return stats.StatsSet{}, err
	}

	return statsFromCanonical(c), nil
}

// statsFromCanonical runs the matching stats.Compute* pass over an
// already-decoded Canonical. Canonical kinds with no registered Compute*
// pass (Struct, List, Decimal, Extension) come back as the zero StatsSet
// rather than erroring, since statistics for those shapes are either
// meaningless (Decimal storage ints are covered by their primitive PType)
// or belong to the children, not the parent.
func statsFromCanonical(c Canonical) stats.StatsSet {
	shape, mask := validityShape(c.Validity, c.Length)

	switch c.Kind {
	case CanonicalBool:
		return stats.ComputeBool(c.Bools, shape, mask)
	case CanonicalPrimitive:
		switch {
		case c.Ints != nil:
			return stats.ComputeInt64(c.Ints, shape, mask)
		case c.Uints != nil:
			return stats.ComputeUint64(c.Uints, shape, mask)
		case c.Floats != nil:
			return stats.ComputeFloat64(c.Floats, shape, mask)
		}

		return stats.StatsSet{}
	case CanonicalVarBinView:
		return stats.ComputeVarBin(varBinStrings(c), shape, mask)
	default:
		return stats.StatsSet{}
	}
}

func validityShape(v Validity, n int) (stats.ValidityShape, []bool) {
	switch {
	case v.AllInvalidValues():
		return stats.ShapeAllInvalid, nil
	case v.AllValidValues():
		return stats.ShapeAllValid, nil
	default:
		return stats.ShapeMasked, v.Mask(n)
	}
}

// varBinStrings materializes every row of a VarBinView canonical as a Go
// string, inline or by slicing into the referenced data buffer, matching
// canonicalScalarAt's view-resolution rule.
func varBinStrings(c Canonical) []string {
	out := make([]string, len(c.Views))
	for i, v := range c.Views {
		if v.Length <= 12 {
			out[i] = string(v.Inline)
			continue
		}

		out[i] = string(c.DataBufs[v.BufIdx][v.Offset : v.Offset+v.Length])
	}

	return out
}
