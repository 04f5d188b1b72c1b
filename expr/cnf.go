package expr

// ToCNF rewrites e into conjunctive normal form and returns its top-level
// conjuncts: the logical AND of the returned expressions is equivalent to
// e. Useful for a scan that wants to evaluate and short-circuit filter
// conjuncts independently (reordering them by selectivity, say), rather
// than evaluating one large boolean tree at once.
func ToCNF(e Expr) []Expr {
	return flattenAnd(distributeOr(pushNotInward(e, false)))
}

// pushNotInward applies De Morgan's laws to move negation down to the
// comparison leaves, so Invert never wraps an And/Or node in the result.
// neg tracks whether the current subtree is under an odd number of enclosing
// Invert nodes.
func pushNotInward(e Expr, neg bool) Expr {
	switch v := e.(type) {
	case Invert:
		return pushNotInward(v.Child, !neg)
	case Binary:
		if v.Op == OpAnd || v.Op == OpOr {
			lhs := pushNotInward(v.Lhs, neg)
			rhs := pushNotInward(v.Rhs, neg)
			op := v.Op
			if neg {
				if op == OpAnd {
					op = OpOr
				} else {
					op = OpAnd
				}
			}

			return Binary{Op: op, Lhs: lhs, Rhs: rhs}
		}

		if neg {
			if negOp, ok := v.Op.negated(); ok {
				return Binary{Op: negOp, Lhs: v.Lhs, Rhs: v.Rhs}
			}

			return Invert{Child: v}
		}

		return v
	default:
		if neg {
			return Invert{Child: e}
		}

		return e
	}
}

// distributeOr rewrites (a AND b) OR c into (a OR c) AND (b OR c), and
// symmetrically, recursively, until no OR node has an And child.
func distributeOr(e Expr) Expr {
	b, ok := e.(Binary)
	if !ok || b.Op != OpOr {
		return e
	}

	lhs := distributeOr(b.Lhs)
	rhs := distributeOr(b.Rhs)

	if lb, ok := lhs.(Binary); ok && lb.Op == OpAnd {
		return Binary{
			Op:  OpAnd,
			Lhs: distributeOr(Binary{Op: OpOr, Lhs: lb.Lhs, Rhs: rhs}),
			Rhs: distributeOr(Binary{Op: OpOr, Lhs: lb.Rhs, Rhs: rhs}),
		}
	}
	if rb, ok := rhs.(Binary); ok && rb.Op == OpAnd {
		return Binary{
			Op:  OpAnd,
			Lhs: distributeOr(Binary{Op: OpOr, Lhs: lhs, Rhs: rb.Lhs}),
			Rhs: distributeOr(Binary{Op: OpOr, Lhs: lhs, Rhs: rb.Rhs}),
		}
	}

	return Binary{Op: OpOr, Lhs: lhs, Rhs: rhs}
}

func flattenAnd(e Expr) []Expr {
	if b, ok := e.(Binary); ok && b.Op == OpAnd {
		return append(flattenAnd(b.Lhs), flattenAnd(b.Rhs)...)
	}

	return []Expr{e}
}
