package scalar_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/scalar"
)

func TestNullScalar(t *testing.T) {
	s := scalar.Null(dtype.Primitive(dtype.PTypeI64, true))
	require.True(t, s.IsNull())
}

func TestCompareOrdersNullBelowNonNull(t *testing.T) {
	n := scalar.Null(dtype.Primitive(dtype.PTypeI64, true))
	v := scalar.Int64(5)

	c, err := scalar.Compare(n, v)
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = scalar.Compare(v, n)
	require.NoError(t, err)
	require.Equal(t, 1, c)
}

func TestCompareFloat(t *testing.T) {
	c, err := scalar.Compare(scalar.Float64(1.5), scalar.Float64(2.5))
	require.NoError(t, err)
	require.Equal(t, -1, c)
}

func TestAsInt64WidensNarrowerInts(t *testing.T) {
	s := scalar.Scalar{DType: dtype.Primitive(dtype.PTypeI32, false), Value: int32(7)}
	v, err := s.AsInt64()
	require.NoError(t, err)
	require.Equal(t, int64(7), v)
}

func TestAsBoolMismatch(t *testing.T) {
	_, err := scalar.Int64(1).AsBool()
	require.Error(t, err)
}
