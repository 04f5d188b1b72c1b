// Package scalar implements typed scalar constructors plus a loosely-typed
// tagged-union Value used wherever a single logical value needs to cross a
// DType-erased boundary (compute kernel results, expression literals,
// min/max statistics).
package scalar

import (
	"fmt"

	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// Scalar is a single logical value tagged with its DType. Null is
// represented by Value == nil regardless of DType.Kind.
type Scalar struct {
	DType dtype.DType
	Value any
}

// Null constructs a null scalar of the given dtype.
func Null(dt dtype.DType) Scalar {
	return Scalar{DType: dt.WithNullable(true), Value: nil}
}

// IsNull reports whether s holds no value.
func (s Scalar) IsNull() bool { return s.Value == nil }

// Bool constructs a non-null Bool scalar.
func Bool(v bool) Scalar { return Scalar{DType: dtype.Bool(false), Value: v} }

// Int64 constructs a non-null Primitive(i64) scalar.
func Int64(v int64) Scalar { return Scalar{DType: dtype.Primitive(dtype.PTypeI64, false), Value: v} }

// Uint64 constructs a non-null Primitive(u64) scalar.
func Uint64(v uint64) Scalar { return Scalar{DType: dtype.Primitive(dtype.PTypeU64, false), Value: v} }

// Float64 constructs a non-null Primitive(f64) scalar.
func Float64(v float64) Scalar {
	return Scalar{DType: dtype.Primitive(dtype.PTypeF64, false), Value: v}
}

// Utf8 constructs a non-null Utf8 scalar.
func Utf8(v string) Scalar { return Scalar{DType: dtype.Utf8(false), Value: v} }

// Binary constructs a non-null Binary scalar.
func Binary(v []byte) Scalar { return Scalar{DType: dtype.Binary(false), Value: v} }

// AsBool returns the underlying bool, or an error if s is null or not Bool.
func (s Scalar) AsBool() (bool, error) {
	v, ok := s.Value.(bool)
	if !ok {
		return false, errs.New(errs.KindMismatchedTypes, "scalar: expected bool, got %T", s.Value)
	}

	return v, nil
}

// AsInt64 returns the underlying value widened to int64. It accepts any
// signed integer PType scalar so callers don't need a type switch per
// integer width.
func (s Scalar) AsInt64() (int64, error) {
	switch v := s.Value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	default:
		return 0, errs.New(errs.KindMismatchedTypes, "scalar: expected signed integer, got %T", s.Value)
	}
}

// AsUint64 returns the underlying value widened to uint64.
func (s Scalar) AsUint64() (uint64, error) {
	switch v := s.Value.(type) {
	case uint64:
		return v, nil
	case uint32:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	default:
		return 0, errs.New(errs.KindMismatchedTypes, "scalar: expected unsigned integer, got %T", s.Value)
	}
}

// AsFloat64 returns the underlying value widened to float64.
func (s Scalar) AsFloat64() (float64, error) {
	switch v := s.Value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	default:
		return 0, errs.New(errs.KindMismatchedTypes, "scalar: expected float, got %T", s.Value)
	}
}

// AsString returns the underlying string for Utf8 scalars.
func (s Scalar) AsString() (string, error) {
	v, ok := s.Value.(string)
	if !ok {
		return "", errs.New(errs.KindMismatchedTypes, "scalar: expected string, got %T", s.Value)
	}

	return v, nil
}

// AsBytes returns the underlying byte slice for Binary scalars.
func (s Scalar) AsBytes() ([]byte, error) {
	v, ok := s.Value.([]byte)
	if !ok {
		return nil, errs.New(errs.KindMismatchedTypes, "scalar: expected []byte, got %T", s.Value)
	}

	return v, nil
}

// Compare orders two non-null scalars of the same comparable underlying Go
// type: -1, 0, 1 for less/equal/greater. Null scalars compare as less than
// any non-null value, matching the convention used by min/max statistics.
func Compare(a, b Scalar) (int, error) {
	if a.IsNull() && b.IsNull() {
		return 0, nil
	}
	if a.IsNull() {
		return -1, nil
	}
	if b.IsNull() {
		return 1, nil
	}

	switch av := a.Value.(type) {
	case int64:
		bv, err := b.AsInt64()
		if err != nil {
			return 0, err
		}

		return cmp(av, bv), nil
	case uint64:
		bv, err := b.AsUint64()
		if err != nil {
			return 0, err
		}

		return cmp(av, bv), nil
	case float64:
		bv, err := b.AsFloat64()
		if err != nil {
			return 0, err
		}

		return cmp(av, bv), nil
	case string:
		bv, err := b.AsString()
		if err != nil {
			return 0, err
		}

		return cmp(av, bv), nil
	case bool:
		bv, err := b.AsBool()
		if err != nil {
			return 0, err
		}

		return cmp(boolRank(av), boolRank(bv)), nil
	default:
		return 0, errs.New(errs.KindMismatchedTypes, "scalar: uncomparable type %T", a.Value)
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}

	return 0
}

func cmp[T int64 | uint64 | float64 | string | int](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (s Scalar) String() string {
	if s.IsNull() {
		return "null"
	}

	return fmt.Sprintf("%v", s.Value)
}
