package footer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/internal/endian"
)

func TestSegmentRefRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	ref := SegmentRef{Offset: 4096, Length: 128}

	decoded, err := ParseSegmentRef(ref.Bytes(engine), engine)
	require.NoError(t, err)
	require.Equal(t, ref, decoded)
}

func TestPostscriptRoundTripFull(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	dtypeRef := SegmentRef{Offset: 0, Length: 16}
	statsRef := SegmentRef{Offset: 16, Length: 32}
	ps := Postscript{
		DType:  &dtypeRef,
		Stats:  &statsRef,
		Layout: SegmentRef{Offset: 48, Length: 64},
	}

	decoded, err := ParsePostscript(ps.Bytes(engine), engine)
	require.NoError(t, err)
	require.Equal(t, ps, decoded)
}

func TestPostscriptRoundTripLayoutOnly(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	ps := Postscript{Layout: SegmentRef{Offset: 100, Length: 200}}

	decoded, err := ParsePostscript(ps.Bytes(engine), engine)
	require.NoError(t, err)
	require.Nil(t, decoded.DType)
	require.Nil(t, decoded.Stats)
	require.Equal(t, ps.Layout, decoded.Layout)
}

func TestTrailerRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	statsRef := SegmentRef{Offset: 10, Length: 20}
	ps := Postscript{
		Stats:  &statsRef,
		Layout: SegmentRef{Offset: 30, Length: 40},
	}

	trailer, err := BuildTrailer(ps, engine)
	require.NoError(t, err)

	decoded, err := ParseTrailer(trailer, engine)
	require.NoError(t, err)
	require.Equal(t, ps, decoded)
}

func TestTrailerRoundTripWithPrecedingData(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	ps := Postscript{Layout: SegmentRef{Offset: 0, Length: 8}}

	trailer, err := BuildTrailer(ps, engine)
	require.NoError(t, err)

	file := append([]byte("pretend-data-segments-and-layout-flatbuffer"), trailer...)

	decoded, err := ParseTrailer(file, engine)
	require.NoError(t, err)
	require.Equal(t, ps, decoded)
}

func TestParseTrailerBadMagic(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	ps := Postscript{Layout: SegmentRef{Offset: 0, Length: 8}}

	trailer, err := BuildTrailer(ps, engine)
	require.NoError(t, err)

	trailer[len(trailer)-1] = 'X'

	_, err = ParseTrailer(trailer, engine)
	require.Error(t, err)
}

func TestParseTrailerBadVersion(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	ps := Postscript{Layout: SegmentRef{Offset: 0, Length: 8}}

	trailer, err := BuildTrailer(ps, engine)
	require.NoError(t, err)

	engine.PutUint16(trailer[len(trailer)-6:len(trailer)-4], Version+1)

	_, err = ParseTrailer(trailer, engine)
	require.Error(t, err)
}

func TestParseTrailerTooShort(t *testing.T) {
	_, err := ParseTrailer(make([]byte, EOFSize-1), endian.GetLittleEndianEngine())
	require.Error(t, err)
}

func TestParseTrailerTruncatedPostscript(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	ps := Postscript{Layout: SegmentRef{Offset: 0, Length: 8}}

	trailer, err := BuildTrailer(ps, engine)
	require.NoError(t, err)

	_, err = ParseTrailer(trailer[len(trailer)-EOFSize:], engine)
	require.Error(t, err)
}
