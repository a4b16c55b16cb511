package archive

import (
	"bytes"
	"hash/crc32"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/onx/compress"
	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/format"
)

func writeBuffers(t *testing.T, payloads ...[]byte) ([]byte, []bool) {
	t.Helper()

	compressed := make([]bool, len(payloads))
	data := buildArchive(t, 70, "", func(w *Writer) {
		require.NoError(t, w.BeginChunk(TCodeUserTable))
		for i, p := range payloads {
			c, err := w.WriteCompressedBuffer(p)
			require.NoError(t, err)
			compressed[i] = c
		}
		require.NoError(t, w.WriteInt32(12345))
		require.NoError(t, w.EndChunk(TCodeUserTable))
	})

	return data, compressed
}

func enterUserTable(t *testing.T, data []byte) *Reader {
	t.Helper()

	r := openArchive(t, data)
	_, _, err := r.ReadStartSection()
	require.NoError(t, err)
	_, _, err = r.BeginChunk(TCodeUserTable)
	require.NoError(t, err)

	return r
}

func TestCompressedBuffer_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		{42},
		repetitive(64 * 1024),
		noisy(4096),
	}

	data, compressed := writeBuffers(t, payloads...)
	require.Equal(t, []bool{false, false, true, false}, compressed)

	r := enterUserTable(t, data)
	for i, want := range payloads {
		got, err := r.ReadCompressedBufferAll()
		require.NoError(t, err, "buffer %d", i)
		if len(want) == 0 {
			require.Empty(t, got)
			continue
		}
		require.Equal(t, want, got, "buffer %d", i)
	}

	tail, err := r.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(12345), tail)
	require.NoError(t, r.EndChunk(TCodeUserTable))
}

func TestCompressedBuffer_SeekPastMatchesRead(t *testing.T) {
	payloads := [][]byte{repetitive(100000), noisy(777), nil, repetitive(3)}
	data, _ := writeBuffers(t, payloads...)

	read := enterUserTable(t, data)
	skip := enterUserTable(t, data)

	for i := range payloads {
		_, err := read.ReadCompressedBufferAll()
		require.NoError(t, err)
		require.NoError(t, skip.SeekPastCompressedBuffer())
		require.Equal(t, read.Position(), skip.Position(), "buffer %d", i)
	}

	tail, err := skip.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(12345), tail)
}

func TestCompressedBuffer_CRCFailure(t *testing.T) {
	payload := noisy(256)
	data, compressed := writeBuffers(t, payload)
	require.False(t, compressed[0])

	// Flip the last payload byte. The raw bytes sit right before the trailing int32.
	corrupted := bytes.Clone(data)
	idx := bytes.Index(corrupted, payload)
	require.Positive(t, idx)
	corrupted[idx+len(payload)-1] ^= 0xFF

	r := enterUserTable(t, corrupted)
	size, err := r.ReadCompressedBufferSize()
	require.NoError(t, err)
	require.Equal(t, uint64(len(payload)), size)

	got, crcFailed, err := r.ReadCompressedBuffer(size)
	require.NoError(t, err)
	require.True(t, crcFailed)
	require.Len(t, got, len(payload))

	r = enterUserTable(t, corrupted)
	_, err = r.ReadCompressedBufferAll()
	require.ErrorIs(t, err, errs.ErrCRCMismatch)
	require.ErrorIs(t, err, errs.ErrCorruptArchive)

	// Skipping never inspects the payload, so a bad CRC does not matter.
	r = enterUserTable(t, corrupted)
	require.NoError(t, r.SeekPastCompressedBuffer())
}

func TestCompressedBuffer_UnknownMethod(t *testing.T) {
	payload := noisy(64)
	data, _ := writeBuffers(t, payload)

	// The method byte precedes the raw payload.
	corrupted := bytes.Clone(data)
	idx := bytes.Index(corrupted, payload)
	corrupted[idx-1] = 9

	r := enterUserTable(t, corrupted)
	_, err := r.ReadCompressedBufferAll()
	require.ErrorIs(t, err, errs.ErrUnknownCompressionMethod)

	r = enterUserTable(t, corrupted)
	require.ErrorIs(t, r.SeekPastCompressedBuffer(), errs.ErrUnknownCompressionMethod)
}

func TestCompressedBuffer_SizeBeyondChunk(t *testing.T) {
	payload := noisy(64)
	data, _ := writeBuffers(t, payload)

	// Claim a larger uncompressed size than the chunk holds.
	corrupted := bytes.Clone(data)
	idx := bytes.Index(corrupted, payload)
	sizeAt := idx - 1 - 4 - 8
	corrupted[sizeAt] = 0xFF

	r := enterUserTable(t, corrupted)
	_, err := r.ReadCompressedBufferAll()
	require.ErrorIs(t, err, errs.ErrCorruptArchive)

	r = enterUserTable(t, corrupted)
	require.ErrorIs(t, r.SeekPastCompressedBuffer(), errs.ErrCorruptArchive)
}

func TestCompressedBuffer_ForgedSizeDoesNotAllocate(t *testing.T) {
	payload := []byte("x")
	deflated, err := compress.NewDeflateCompressor(compress.DefaultDeflateLevel).Compress(payload)
	require.NoError(t, err)

	// A deflate buffer whose stored size is the largest accepted value.
	data := buildArchive(t, 70, "", func(w *Writer) {
		require.NoError(t, w.BeginChunk(TCodeUserTable))
		require.NoError(t, w.WriteUint64(MaxCompressedBufferSize))
		require.NoError(t, w.WriteUint32(crc32.ChecksumIEEE(payload)))
		require.NoError(t, w.WriteUint8(uint8(format.BufferDeflate)))
		require.NoError(t, w.BeginChunk(TCodeCompressedBuffer))
		require.NoError(t, w.WriteBytes(deflated))
		require.NoError(t, w.EndChunk(TCodeCompressedBuffer))
		require.NoError(t, w.EndChunk(TCodeUserTable))
	})

	r := enterUserTable(t, data)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err = r.ReadCompressedBufferAll()
	runtime.ReadMemStats(&after)

	require.ErrorIs(t, err, errs.ErrCorruptArchive)
	require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20))
}

func BenchmarkCompressedBuffer(b *testing.B) {
	payload := repetitive(1 << 20)

	var out bytes.Buffer
	w, err := NewWriter(&out, 70)
	require.NoError(b, err)
	require.NoError(b, w.WriteStartSection(""))
	_, err = w.WriteCompressedBuffer(payload)
	require.NoError(b, err)
	require.NoError(b, w.Close())
	data := out.Bytes()

	open := func() *Reader {
		r, err := NewReader(bytes.NewReader(data))
		require.NoError(b, err)
		_, _, err = r.ReadStartSection()
		require.NoError(b, err)

		return r
	}

	b.Run("Read", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			_, err := open().ReadCompressedBufferAll()
			if err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("SeekPast", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			if err := open().SeekPastCompressedBuffer(); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func TestCompressedBuffer_CompressionDisabled(t *testing.T) {
	payload := repetitive(10000)

	data := buildArchive(t, 80, "", func(w *Writer) {
		w.SetBufferCompression(false)
		compressed, err := w.WriteCompressedBuffer(payload)
		require.NoError(t, err)
		require.False(t, compressed)
	})
	require.Greater(t, len(data), len(payload))

	r := openArchive(t, data)
	_, _, err := r.ReadStartSection()
	require.NoError(t, err)
	got, err := r.ReadCompressedBufferAll()
	require.NoError(t, err)
	require.Equal(t, payload, got)
}
