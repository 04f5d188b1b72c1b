package dtype_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/dtype"
)

func TestEqualRespectsNullable(t *testing.T) {
	a := dtype.Primitive(dtype.PTypeI64, false)
	b := dtype.Primitive(dtype.PTypeI64, true)
	require.False(t, a.Equal(b))
	require.True(t, a.EqualIgnoreNullable(b))
}

func TestStructChildDType(t *testing.T) {
	s := dtype.Struct([]dtype.Field{
		{Name: "a", DType: dtype.Primitive(dtype.PTypeI32, false)},
		{Name: "b", DType: dtype.Utf8(true)},
	}, false)

	child, err := s.ChildDType(1)
	require.NoError(t, err)
	require.True(t, child.Equal(dtype.Utf8(true)))

	_, err = s.ChildDType(5)
	require.Error(t, err)
}

func TestListChildDType(t *testing.T) {
	l := dtype.List(dtype.Primitive(dtype.PTypeF64, false), true)
	child, err := l.ChildDType(0)
	require.NoError(t, err)
	require.True(t, child.Equal(dtype.Primitive(dtype.PTypeF64, false)))
}

func TestTimestampExtensionRoundTrips(t *testing.T) {
	ts := dtype.Timestamp(dtype.Millis, "America/New_York", false)
	require.Equal(t, dtype.KindExtension, ts.Kind)
	require.Equal(t, dtype.ExtTimestamp, ts.ExtID)

	md, err := dtype.DecodeTemporalMetadata(ts.Metadata)
	require.NoError(t, err)
	require.Equal(t, dtype.Millis, md.Unit)
	require.Equal(t, "America/New_York", md.TimeZone)

	storage, err := ts.ChildDType(0)
	require.NoError(t, err)
	require.True(t, storage.Equal(dtype.Primitive(dtype.PTypeI64, false)))
}

func TestDTypeString(t *testing.T) {
	s := dtype.Struct([]dtype.Field{{Name: "x", DType: dtype.Primitive(dtype.PTypeI64, true)}}, false)
	require.Equal(t, "struct<x: i64?>", s.String())
}
