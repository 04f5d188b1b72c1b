package segment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/internal/endian"
)

func TestEntryBytesRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	entry := Entry{
		Offset:             1024,
		Length:             256,
		UncompressedLength: 512,
		Alignment:          64,
		Compression:        CompressionZstd,
	}

	encoded := entry.Bytes(engine)
	require.Len(t, encoded, EntrySize)

	decoded, err := ParseEntry(encoded, engine)
	require.NoError(t, err)
	require.Equal(t, entry, decoded)
}

func TestParseEntryTooShort(t *testing.T) {
	_, err := ParseEntry(make([]byte, EntrySize-1), endian.GetLittleEndianEngine())
	require.Error(t, err)
}

func TestWriterAppendAlignment(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	codec := NewNoOpCodec()

	first, err := w.Append([]byte{1, 2, 3}, 8, CompressionNone, codec)
	require.NoError(t, err)
	require.Equal(t, uint64(0), first.Offset)
	require.Equal(t, uint32(3), first.Length)

	second, err := w.Append([]byte{4, 5}, 8, CompressionNone, codec)
	require.NoError(t, err)
	require.Equal(t, uint64(8), second.Offset, "second entry must start on an 8-byte boundary")

	require.Equal(t, []Entry{first, second}, w.Entries())
	require.Len(t, w.Bytes(), 10)
}

func TestWriterAppendNoAlignment(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	codec := NewNoOpCodec()

	first, err := w.Append([]byte{1, 2, 3}, 1, CompressionNone, codec)
	require.NoError(t, err)

	second, err := w.Append([]byte{4}, 1, CompressionNone, codec)
	require.NoError(t, err)
	require.Equal(t, first.Offset+uint64(first.Length), second.Offset)
}

func TestCodecRoundTrip(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 7)
	}

	codecs := map[CompressionType]Codec{
		CompressionNone: NewNoOpCodec(),
		CompressionS2:   NewS2Codec(),
		CompressionLZ4:  NewLZ4Codec(),
		CompressionZstd: NewZstdCodec(),
	}

	for compressionType, codec := range codecs {
		t.Run(compressionType.String(), func(t *testing.T) {
			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, decompressed)
		})
	}
}

func TestGetCodecUnsupported(t *testing.T) {
	_, err := GetCodec(CompressionType(0))
	require.Error(t, err)
}

func TestReaderFetchUsesCache(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	codec := NewS2Codec()
	payload := []byte("row-group segment payload")

	entry, err := w.Append(payload, 1, CompressionS2, codec)
	require.NoError(t, err)

	cache, err := NewCache(1 << 20)
	require.NoError(t, err)

	fileID := uuid.New()
	reader := NewReader(fileID, w.Bytes(), cache)

	got, err := reader.Fetch(entry)
	require.NoError(t, err)
	require.Equal(t, payload, got)

	cache.Wait()
	cached, ok := cache.Get(fileID, entry.Offset)
	require.True(t, ok, "Fetch should have populated the cache")
	require.Equal(t, payload, cached)
}

func TestReaderFetchWithoutCache(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	codec := NewNoOpCodec()
	payload := []byte("no cache configured")

	entry, err := w.Append(payload, 1, CompressionNone, codec)
	require.NoError(t, err)

	reader := NewReader(uuid.New(), w.Bytes(), nil)

	got, err := reader.Fetch(entry)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestReaderFetchOutOfBounds(t *testing.T) {
	reader := NewReader(uuid.New(), make([]byte, 4), nil)

	_, err := reader.Fetch(Entry{Offset: 0, Length: 100, Compression: CompressionNone})
	require.Error(t, err)
}

func TestCacheGetMiss(t *testing.T) {
	cache, err := NewCache(1 << 20)
	require.NoError(t, err)

	_, ok := cache.Get(uuid.New(), 0)
	require.False(t, ok)
}
