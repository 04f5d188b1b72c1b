package array

import (
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// Cast converts a to target's logical type, trying a's vtable's Cast hook
// first and falling back to canonicalizing. Only the numeric-widening and
// nullability-relaxing casts named in spec.md's testable properties are
// implemented in the generic fallback; anything else reports
// NotImplemented so a registered encoding's own Cast hook can serve it
// instead.
func Cast(a Array, target dtype.DType) (Array, error) {
	if v, err := a.Vtable(); err == nil {
		if hook, ok := v.(CastVtable); ok {
			out, handled, err := hook.Cast(a, target)
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

	if full.DType.EqualIgnoreNullable(target) {
		out := full
		out.DType = target
		if target.Nullable && !full.DType.Nullable {
			out.Validity = AllValid()
		}

		return FromCanonical(out)
	}

	if target.Kind != dtype.KindPrimitive || full.Kind != CanonicalPrimitive {
		return Array{}, errs.New(errs.KindNotImplemented, "array: cast from %s to %s not implemented", full.DType, target)
	}

	n := full.Length
	out := Canonical{Kind: CanonicalPrimitive, DType: target, Length: n, Validity: full.Validity}

	if target.PType.IsFloat() {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = floatAt(full, i)
		}
		out.Floats = vals
	} else if target.PType.IsSigned() {
		vals := make([]int64, n)
		for i := range vals {
			vals[i] = intAt(full, i)
		}
		out.Ints = vals
	} else {
		vals := make([]uint64, n)
		for i := range vals {
			v := intAt(full, i)
			if v < 0 {
				return Array{}, errs.New(errs.KindComputeError, "array: cast of negative value %d to unsigned %s", v, target.PType)
			}
			vals[i] = uint64(v)
		}
		out.Uints = vals
	}

	return FromCanonical(out)
}
