package expr

// ReferencedFields returns the distinct top-level field names e reads
// directly off the scope struct (via a GetItem whose Child is the
// identity), in first-seen order. A scan uses this for projection
// pushdown: only these fields need to be read from a struct layout to
// evaluate e, even though e may also touch nested fields reached through
// other GetItem chains that this function does not resolve recursively.
func ReferencedFields(e Expr) []string {
	var names []string

	_, _ = Walk(e, func(node Expr) (Order, error) {
		if g, ok := node.(GetItem); ok && g.Name != "" {
			if _, isIdent := g.Child.(Ident); isIdent {
				if indexOfName(names, g.Name) < 0 {
					names = append(names, g.Name)
				}
			}
		}

		return Continue, nil
	})

	return names
}
