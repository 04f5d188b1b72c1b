package expr

import (
	"github.com/vtxfmt/vtx/scalar"
	"github.com/vtxfmt/vtx/stats"
)

// CanPrune reports whether e is provably false for every row of a chunk
// whose top-level field statistics are given in fieldStats, letting a scan
// skip reading the chunk's data entirely (spec.md §4.5's pruning use of
// min/max statistics, synthesized here into a standalone predicate rather
// than a recompiled expression tree). It only recognizes simple
// comparisons between a direct field reference and a literal, conjunctions
// and disjunctions of those, recursively; anything else is conservatively
// treated as not provably false.
func CanPrune(e Expr, fieldStats map[string]stats.StatsSet) bool {
	switch v := e.(type) {
	case Binary:
		switch v.Op {
		case OpAnd:
			// The conjunction is false everywhere if either conjunct is.
			return CanPrune(v.Lhs, fieldStats) || CanPrune(v.Rhs, fieldStats)
		case OpOr:
			// The disjunction is false everywhere only if both sides are.
			return CanPrune(v.Lhs, fieldStats) && CanPrune(v.Rhs, fieldStats)
		default:
			field, lit, flipped, ok := comparisonOperands(v)
			if !ok {
				return false
			}

			fs, ok := fieldStats[field]
			if !ok || !fs.Has(stats.StatMin) || !fs.Has(stats.StatMax) {
				return false
			}

			op := v.Op
			if flipped {
				op = flipComparator(op)
			}

			return compareAgainstRange(op, lit, fs)
		}
	default:
		return false
	}
}

func comparisonOperands(b Binary) (field string, lit scalar.Scalar, flipped bool, ok bool) {
	if name := isFieldIdent(b.Lhs); name != "" {
		if l, isLit := b.Rhs.(Literal); isLit {
			return name, l.Value, false, true
		}
	}
	if name := isFieldIdent(b.Rhs); name != "" {
		if l, isLit := b.Lhs.(Literal); isLit {
			return name, l.Value, true, true
		}
	}

	return "", scalar.Scalar{}, false, false
}

func isFieldIdent(e Expr) string {
	g, ok := e.(GetItem)
	if !ok || g.Name == "" {
		return ""
	}
	if _, ok := g.Child.(Ident); !ok {
		return ""
	}

	return g.Name
}

func flipComparator(op Operator) Operator {
	switch op {
	case OpLt:
		return OpGt
	case OpLte:
		return OpGte
	case OpGt:
		return OpLt
	case OpGte:
		return OpLte
	default:
		return op
	}
}

// compareAgainstRange decides, for a field known to range over
// [fs.Min, fs.Max], whether "field op lit" can be proven false everywhere.
func compareAgainstRange(op Operator, lit scalar.Scalar, fs stats.StatsSet) bool {
	cMin, errMin := scalar.Compare(fs.Min, lit)
	cMax, errMax := scalar.Compare(fs.Max, lit)
	if errMin != nil || errMax != nil {
		return false
	}

	switch op {
	case OpEq:
		return cMin > 0 || cMax < 0
	case OpNeq:
		return cMin == 0 && cMax == 0
	case OpLt:
		return cMin >= 0
	case OpLte:
		return cMin > 0
	case OpGt:
		return cMax <= 0
	case OpGte:
		return cMax < 0
	default:
		return false
	}
}
