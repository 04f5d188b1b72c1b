package array

import "github.com/vtxfmt/vtx/errs"

// canonicalBuilder constructs an Array wrapping a Canonical value using the
// plain (uncompressed) encoding appropriate to its Kind: primitive, bool,
// varbinview, struct, list, or null. It is supplied by package `encoding`'s
// init() (encoding imports array to implement Vtable, so array cannot
// import encoding back; this indirection is the seam that breaks the
// cycle, the same factory-function-variable shape the teacher's
// compress.CreateCodec registry uses for its own codec lookup).
var canonicalBuilder func(Canonical) (Array, error)

// SetCanonicalBuilder installs the canonical-to-Array constructor. Called
// exactly once, from package encoding's init().
func SetCanonicalBuilder(fn func(Canonical) (Array, error)) {
	canonicalBuilder = fn
}

// FromCanonical wraps c in the plain encoding for its Kind.
func FromCanonical(c Canonical) (Array, error) {
	if canonicalBuilder == nil {
		return Array{}, errs.New(errs.KindAssertionFailed, "array: no canonical builder installed (import package encoding for side effects)")
	}

	return canonicalBuilder(c)
}
