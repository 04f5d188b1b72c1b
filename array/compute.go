package array

import (
	"sort"

	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/scalar"
	"github.com/vtxfmt/vtx/stats"
)

// ScalarAt returns the logical value at index i, trying the array's own
// vtable first and falling back to canonicalizing the whole array — the
// dispatch order spec.md §4.2 requires: encoding-specific fast path, then
// generic canonical fallback.
func ScalarAt(a Array, i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.Length {
		return scalar.Scalar{}, errs.New(errs.KindOutOfBounds, "array: index %d out of range for length %d", i, a.Length)
	}

	v, err := a.Vtable()
	if err != nil {
		return scalar.Scalar{}, err
	}

	c, ok, err := v.ScalarAt(a, i)
	if err != nil && !errs.Is(err, errs.KindNotImplemented) {
		return scalar.Scalar{}, err
	}

	if !ok {
		full, err := Canonicalize(a)
		if err != nil {
			return scalar.Scalar{}, err
		}

		return canonicalScalarAt(full, i)
	}

	return canonicalScalarAt(c, 0)
}

func canonicalScalarAt(c Canonical, i int) (scalar.Scalar, error) {
	if !c.Validity.IsValid(i) {
		return scalar.Null(c.DType), nil
	}

	switch c.Kind {
	case CanonicalBool:
		return scalar.Bool(c.Bools[i]), nil
	case CanonicalPrimitive:
		switch {
		case c.Ints != nil:
			return scalar.Scalar{DType: c.DType, Value: c.Ints[i]}, nil
		case c.Uints != nil:
			return scalar.Scalar{DType: c.DType, Value: c.Uints[i]}, nil
		case c.Floats != nil:
			return scalar.Scalar{DType: c.DType, Value: c.Floats[i]}, nil
		default:
			return scalar.Scalar{}, errs.New(errs.KindAssertionFailed, "array: primitive canonical has no backing slice")
		}
	case CanonicalVarBinView:
		v := c.Views[i]
		if v.Length <= 12 {
			return scalar.Binary(v.Inline), nil
		}

		data := c.DataBufs[v.BufIdx][v.Offset : v.Offset+v.Length]
		if c.DType.Kind.String() == "utf8" {
			return scalar.Utf8(string(data)), nil
		}

		return scalar.Binary(data), nil
	default:
		return scalar.Scalar{}, errs.New(errs.KindNotImplemented, "array: ScalarAt not implemented for canonical kind %d", c.Kind)
	}
}

// Slice returns the logical sub-array [start, end), trying the vtable's
// cheap re-expression first and falling back to canonicalize-then-slice.
func Slice(a Array, start, end int) (Array, error) {
	if start < 0 || end < start || end > a.Length {
		return Array{}, errs.New(errs.KindOutOfBounds, "array: slice [%d:%d) out of range for length %d", start, end, a.Length)
	}

	v, err := a.Vtable()
	if err != nil {
		return Array{}, err
	}

	out, err := v.Slice(a, start, end)
	if err == nil {
		return out, nil
	}
	if !errs.Is(err, errs.KindNotImplemented) {
		return Array{}, err
	}

	return sliceViaCanonical(a, start, end)
}

func sliceViaCanonical(a Array, start, end int) (Array, error) {
	full, err := Canonicalize(a)
	if err != nil {
		return Array{}, err
	}

	sliced := full.Slice(start, end)

	return FromCanonical(sliced)
}

// Take gathers the logical values at indices into a new array in canonical
// form. Encodings rarely support gather cheaply, so Take always
// canonicalizes first.
func Take(a Array, indices []int) (Array, error) {
	full, err := Canonicalize(a)
	if err != nil {
		return Array{}, err
	}
	for _, idx := range indices {
		if idx < 0 || idx >= full.Length {
			return Array{}, errs.New(errs.KindOutOfBounds, "array: take index %d out of range for length %d", idx, full.Length)
		}
	}

	out, err := takeCanonical(full, indices)
	if err != nil {
		return Array{}, err
	}

	return FromCanonical(out)
}

// takeCanonical gathers indices out of full, recursing into struct fields
// so Take and Filter work over nested rows, not just flat columns.
func takeCanonical(full Canonical, indices []int) (Canonical, error) {
	out := Canonical{Kind: full.Kind, DType: full.DType, Length: len(indices)}
	validMask := make([]bool, len(indices))
	for i, idx := range indices {
		validMask[i] = full.Validity.IsValid(idx)
	}
	out.Validity = FromMask(validMask)

	switch full.Kind {
	case CanonicalBool:
		vals := make([]bool, len(indices))
		for i, idx := range indices {
			vals[i] = full.Bools[idx]
		}
		out.Bools = vals
	case CanonicalPrimitive:
		switch {
		case full.Ints != nil:
			vals := make([]int64, len(indices))
			for i, idx := range indices {
				vals[i] = full.Ints[idx]
			}
			out.Ints = vals
		case full.Uints != nil:
			vals := make([]uint64, len(indices))
			for i, idx := range indices {
				vals[i] = full.Uints[idx]
			}
			out.Uints = vals
		case full.Floats != nil:
			vals := make([]float64, len(indices))
			for i, idx := range indices {
				vals[i] = full.Floats[idx]
			}
			out.Floats = vals
		}
	case CanonicalVarBinView:
		views := make([]View, len(indices))
		for i, idx := range indices {
			views[i] = full.Views[idx]
		}
		out.Views = views
		out.DataBufs = full.DataBufs
	case CanonicalStruct:
		fields := make([]Canonical, len(full.StructFlds))
		for i, f := range full.StructFlds {
			tf, err := takeCanonical(f, indices)
			if err != nil {
				return Canonical{}, err
			}
			fields[i] = tf
		}
		out.StructFlds = fields
		out.FieldNames = full.FieldNames
	default:
		return Canonical{}, errs.New(errs.KindNotImplemented, "array: Take not implemented for canonical kind %d", full.Kind)
	}

	return out, nil
}

// Filter returns the sub-array of values where mask[i] is true.
func Filter(a Array, mask []bool) (Array, error) {
	if len(mask) != a.Length {
		return Array{}, errs.New(errs.KindInvalidArgument, "array: filter mask length %d does not match array length %d", len(mask), a.Length)
	}

	indices := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			indices = append(indices, i)
		}
	}

	return Take(a, indices)
}

// Invert returns the logical NOT of a Bool array, trying a's vtable's
// Invert hook first and falling back to canonicalizing.
func Invert(a Array) (Array, error) {
	if v, err := a.Vtable(); err == nil {
		if hook, ok := v.(InvertVtable); ok {
			out, handled, err := hook.Invert(a)
			if err != nil {
				return Array{}, err
			}
			if handled {
				return out, nil
			}
		}
	}

	full, err := Canonicalize(a)
	if err != nil {
		return Array{}, err
	}
	if full.Kind != CanonicalBool {
		return Array{}, errs.New(errs.KindMismatchedTypes, "array: Invert requires Bool, got canonical kind %d", full.Kind)
	}

	out := make([]bool, full.Length)
	for i, v := range full.Bools {
		out[i] = !v
	}

	inv := full
	inv.Bools = out

	return FromCanonical(inv)
}

// BinaryOp identifies an elementwise binary compute kernel.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
)

// BinaryNumeric applies op elementwise to two equal-length numeric arrays,
// trying lhs's vtable, then rhs's vtable, then falling back to
// canonicalizing both sides — the three-step dispatch order spec.md §4.2
// names explicitly.
func BinaryNumeric(op BinaryOp, lhs, rhs Array) (Array, error) {
	if lhs.Length != rhs.Length {
		return Array{}, errs.New(errs.KindInvalidArgument, "array: binary op length mismatch %d vs %d", lhs.Length, rhs.Length)
	}

	// Three-step dispatch: try lhs's vtable, then rhs's vtable — both
	// calls keep (op, lhs, rhs) in the same order, just asking a different
	// encoding whether it knows how to compute this particular pairing —
	// then fall back to canonicalizing both sides.
	if out, handled, err := tryBinaryNumericHook(lhs, op, lhs, rhs); handled || err != nil {
		return out, err
	}
	if out, handled, err := tryBinaryNumericHook(rhs, op, lhs, rhs); handled || err != nil {
		return out, err
	}

	lc, err := Canonicalize(lhs)
	if err != nil {
		return Array{}, err
	}
	rc, err := Canonicalize(rhs)
	if err != nil {
		return Array{}, err
	}

	return binaryNumericCanonical(op, lc, rc)
}

// tryBinaryNumericHook asks vtableOwner's vtable whether it can accelerate
// op(lhs, rhs) without canonicalizing either side.
func tryBinaryNumericHook(vtableOwner Array, op BinaryOp, lhs, rhs Array) (Array, bool, error) {
	v, err := vtableOwner.Vtable()
	if err != nil {
		return Array{}, false, nil
	}

	hook, ok := v.(BinaryNumericVtable)
	if !ok {
		return Array{}, false, nil
	}

	out, handled, err := hook.BinaryNumeric(op, lhs, rhs)
	if err != nil {
		return Array{}, false, err
	}

	return out, handled, nil
}

func binaryNumericCanonical(op BinaryOp, lc, rc Canonical) (Array, error) {
	n := lc.Length
	validMask := make([]bool, n)
	for i := range validMask {
		validMask[i] = lc.Validity.IsValid(i) && rc.Validity.IsValid(i)
	}

	isCompare := op >= OpEq && op <= OpGte
	if isCompare {
		out := make([]bool, n)
		for i := range out {
			if !validMask[i] {
				continue
			}
			c, err := compareCanonicalAt(lc, rc, i)
			if err != nil {
				return Array{}, err
			}
			out[i] = applyCompare(op, c)
		}

		return FromCanonical(Canonical{Kind: CanonicalBool, DType: lc.DType.WithNullable(true), Length: n, Validity: FromMask(validMask), Bools: out})
	}

	if op == OpAnd || op == OpOr {
		out := make([]bool, n)
		for i := range out {
			if !validMask[i] {
				continue
			}
			if op == OpAnd {
				out[i] = lc.Bools[i] && rc.Bools[i]
			} else {
				out[i] = lc.Bools[i] || rc.Bools[i]
			}
		}

		return FromCanonical(Canonical{Kind: CanonicalBool, DType: lc.DType.WithNullable(true), Length: n, Validity: FromMask(validMask), Bools: out})
	}

	// Arithmetic: promote to float64 if either side is float, else int64.
	useFloat := lc.Floats != nil || rc.Floats != nil
	if useFloat {
		out := make([]float64, n)
		for i := range out {
			if !validMask[i] {
				continue
			}
			lv, rv := floatAt(lc, i), floatAt(rc, i)
			out[i] = applyArith(op, lv, rv)
		}

		return FromCanonical(Canonical{Kind: CanonicalPrimitive, DType: lc.DType.WithNullable(true), Length: n, Validity: FromMask(validMask), Floats: out})
	}

	out := make([]int64, n)
	for i := range out {
		if !validMask[i] {
			continue
		}
		lv, rv := intAt(lc, i), intAt(rc, i)
		out[i] = int64(applyArith(op, float64(lv), float64(rv)))
	}

	return FromCanonical(Canonical{Kind: CanonicalPrimitive, DType: lc.DType.WithNullable(true), Length: n, Validity: FromMask(validMask), Ints: out})
}

func applyArith(op BinaryOp, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	default:
		return 0
	}
}

func applyCompare(op BinaryOp, c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNeq:
		return c != 0
	case OpLt:
		return c < 0
	case OpLte:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGte:
		return c >= 0
	default:
		return false
	}
}

func floatAt(c Canonical, i int) float64 {
	switch {
	case c.Floats != nil:
		return c.Floats[i]
	case c.Ints != nil:
		return float64(c.Ints[i])
	case c.Uints != nil:
		return float64(c.Uints[i])
	default:
		return 0
	}
}

func intAt(c Canonical, i int) int64 {
	switch {
	case c.Ints != nil:
		return c.Ints[i]
	case c.Uints != nil:
		return int64(c.Uints[i])
	default:
		return 0
	}
}

func compareCanonicalAt(lc, rc Canonical, i int) (int, error) {
	ls, err := canonicalScalarAt(lc, i)
	if err != nil {
		return 0, err
	}
	rs, err := canonicalScalarAt(rc, i)
	if err != nil {
		return 0, err
	}

	return scalar.Compare(ls, rs)
}

// Compare returns an elementwise comparison array for the given op (one of
// OpEq/OpNeq/OpLt/OpLte/OpGt/OpGte).
func Compare(op BinaryOp, lhs, rhs Array) (Array, error) {
	return BinaryNumeric(op, lhs, rhs)
}

// ListContains returns, for each row of a List array, whether needle
// appears among that row's elements, trying a's vtable's ListContains hook
// first and falling back to canonicalizing.
func ListContains(a Array, needle scalar.Scalar) (Array, error) {
	if v, err := a.Vtable(); err == nil {
		if hook, ok := v.(ListContainsVtable); ok {
			out, handled, err := hook.ListContains(a, needle)
			if err != nil {
				return Array{}, err
			}
			if handled {
				return out, nil
			}
		}
	}

	full, err := Canonicalize(a)
	if err != nil {
		return Array{}, err
	}
	if full.Kind != CanonicalList {
		return Array{}, errs.New(errs.KindMismatchedTypes, "array: ListContains requires List, got canonical kind %d", full.Kind)
	}

	out := make([]bool, full.Length)
	validMask := make([]bool, full.Length)
	for row := 0; row < full.Length; row++ {
		validMask[row] = full.Validity.IsValid(row)
		if !validMask[row] {
			continue
		}

		start, end := full.ListOffsets[row], full.ListOffsets[row+1]
		for j := start; j < end; j++ {
			v, err := canonicalScalarAt(*full.ListElements, j)
			if err != nil {
				return Array{}, err
			}
			if v.IsNull() && needle.IsNull() {
				out[row] = true
				break
			}
			if v.IsNull() || needle.IsNull() {
				continue
			}
			c, err := scalar.Compare(v, needle)
			if err != nil {
				return Array{}, err
			}
			if c == 0 {
				out[row] = true
				break
			}
		}
	}

	return FromCanonical(Canonical{Kind: CanonicalBool, DType: a.DType.WithNullable(a.DType.Nullable), Length: full.Length, Validity: FromMask(validMask), Bools: out})
}

// SearchSorted returns the insertion index for needle in a, which must be
// (or canonicalize to) a sorted numeric array. It mirrors sort.Search
// semantics: the smallest index i such that a[i] >= needle. Tries a's
// vtable's SearchSorted hook first and falls back to canonicalizing.
func SearchSorted(a Array, needle scalar.Scalar) (int, error) {
	if v, err := a.Vtable(); err == nil {
		if hook, ok := v.(SearchSortedVtable); ok {
			idx, handled, err := hook.SearchSorted(a, needle)
			if err != nil {
				return 0, err
			}
			if handled {
				return idx, nil
			}
		}
	}

	full, err := Canonicalize(a)
	if err != nil {
		return 0, err
	}

	var searchErr error
	idx := sort.Search(full.Length, func(i int) bool {
		v, err := canonicalScalarAt(full, i)
		if err != nil {
			searchErr = err
			return true
		}
		c, err := scalar.Compare(v, needle)
		if err != nil {
			searchErr = err
			return true
		}

		return c >= 0
	})
	if searchErr != nil {
		return 0, searchErr
	}

	return idx, nil
}

// IsConstant reports whether every valid value in a is equal (spec.md §8's
// is_constant predicate, also true of a zero-length or all-null array).
// Tries the vtable's IsConstant hook, then an already-populated Stats
// field, and only canonicalizes and scans as a last resort.
func IsConstant(a Array) (bool, error) {
	if v, err := a.Vtable(); err == nil {
		if hook, ok := v.(IsConstantVtable); ok {
			b, handled, err := hook.IsConstant(a)
			if err != nil {
				return false, err
			}
			if handled {
				return b, nil
			}
		}
	}

	if a.Stats.Has(stats.StatIsConstant) {
		return a.Stats.IsConstant, nil
	}

	full, err := Canonicalize(a)
	if err != nil {
		return false, err
	}

	s := statsFromCanonical(full)
	if !s.Has(stats.StatIsConstant) {
		return false, errs.New(errs.KindNotImplemented, "array: is_constant not computable for canonical kind %d", full.Kind)
	}

	return s.IsConstant, nil
}

// MinMax returns a's minimum and maximum non-null values. Tries the
// vtable's MinMax hook, then Stats, then canonicalizes and scans.
func MinMax(a Array) (lo, hi scalar.Scalar, err error) {
	if v, verr := a.Vtable(); verr == nil {
		if hook, ok := v.(MinMaxVtable); ok {
			lo, hi, handled, herr := hook.MinMax(a)
			if herr != nil {
				return scalar.Scalar{}, scalar.Scalar{}, herr
			}
			if handled {
				return lo, hi, nil
			}
		}
	}

	if a.Stats.Has(stats.StatMin) && a.Stats.Has(stats.StatMax) {
		return a.Stats.Min, a.Stats.Max, nil
	}

	full, cerr := Canonicalize(a)
	if cerr != nil {
		return scalar.Scalar{}, scalar.Scalar{}, cerr
	}

	s := statsFromCanonical(full)
	if !s.Has(stats.StatMin) || !s.Has(stats.StatMax) {
		return scalar.Null(a.DType), scalar.Null(a.DType), nil
	}

	return s.Min, s.Max, nil
}
