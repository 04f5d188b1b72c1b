package expr

// Order controls how a traversal proceeds past the current node. Mirrors
// original_source/vortex-expr/src/traversal's TraversalOrder, reworked as
// a plain enum consumed by free functions instead of a visitor trait
// hierarchy.
type Order uint8

const (
	// Continue visits the node's children as usual.
	Continue Order = iota
	// Skip visits the node itself but not its children.
	Skip
	// Stop aborts the remainder of the traversal immediately.
	Stop
)

// VisitFunc is called once per node in pre-order during Walk.
type VisitFunc func(e Expr) (Order, error)

// Walk performs a pre-order traversal of e, calling visit on each node
// before its children. Returning Skip from visit keeps the sibling
// traversal going but omits that node's children; Stop aborts the whole
// walk immediately.
func Walk(e Expr, visit VisitFunc) (Order, error) {
	ord, err := visit(e)
	if err != nil {
		return Stop, err
	}
	if ord == Stop {
		return Stop, nil
	}
	if ord == Skip {
		return Continue, nil
	}

	for _, c := range e.Children() {
		ord, err = Walk(c, visit)
		if err != nil {
			return Stop, err
		}
		if ord == Stop {
			return Stop, nil
		}
	}

	return Continue, nil
}

// TransformResult is the outcome of rewriting one subtree with Transform.
type TransformResult struct {
	Result  Expr
	Changed bool
}

// TransformFunc is called bottom-up on every node during Transform, after
// its children have already been rewritten. Returning the node unchanged
// (ok=false) leaves it (and its already-rewritten children) in place.
type TransformFunc func(e Expr) (rewritten Expr, ok bool, err error)

// Transform rewrites e bottom-up: every child is transformed first, the
// node is rebuilt over the rewritten children via ReplacingChildren, and
// then fn is given a chance to replace the rebuilt node itself.
func Transform(e Expr, fn TransformFunc) (TransformResult, error) {
	children := e.Children()
	if len(children) == 0 {
		rewritten, ok, err := fn(e)
		if err != nil {
			return TransformResult{}, err
		}
		if !ok {
			return TransformResult{Result: e}, nil
		}

		return TransformResult{Result: rewritten, Changed: true}, nil
	}

	newChildren := make([]Expr, len(children))
	changed := false
	for i, c := range children {
		tr, err := Transform(c, fn)
		if err != nil {
			return TransformResult{}, err
		}
		newChildren[i] = tr.Result
		changed = changed || tr.Changed
	}

	rebuilt := e.ReplacingChildren(newChildren)
	rewritten, ok, err := fn(rebuilt)
	if err != nil {
		return TransformResult{}, err
	}
	if ok {
		return TransformResult{Result: rewritten, Changed: true}, nil
	}

	return TransformResult{Result: rebuilt, Changed: changed}, nil
}
