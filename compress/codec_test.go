package compress

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/onx/format"
)

var allTypes = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
	format.CompressionDeflate,
}

func meshLikePayload(size int) []byte {
	data := make([]byte, size)
	pattern := []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0x40, 0xcd, 0xcc, 0x4c, 0x3e}
	for i := range data {
		data[i] = pattern[i%len(pattern)]
	}

	return data
}

func TestCreateCodec(t *testing.T) {
	for _, ct := range allTypes {
		codec, err := CreateCodec(ct, "test")
		require.NoError(t, err, ct.String())
		require.NotNil(t, codec)

		shared, err := GetCodec(ct)
		require.NoError(t, err)
		require.NotNil(t, shared)
	}

	_, err := CreateCodec(format.CompressionType(0x7f), "mesh body")
	require.ErrorContains(t, err, "invalid mesh body compression")

	_, err = GetCodec(format.CompressionType(0))
	require.Error(t, err)
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	sizes := []int{1, 17, 1024, 64 * 1024}

	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		for _, size := range sizes {
			t.Run(fmt.Sprintf("%s/%d", ct, size), func(t *testing.T) {
				data := meshLikePayload(size)

				compressed, err := codec.Compress(data)
				require.NoError(t, err)

				restored, err := codec.Decompress(compressed)
				require.NoError(t, err)
				require.True(t, bytes.Equal(data, restored))
			})
		}
	}
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for _, ct := range []format.CompressionType{format.CompressionS2, format.CompressionLZ4, format.CompressionDeflate} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		restored, err := codec.Decompress(nil)
		require.NoError(t, err, ct.String())
		require.Empty(t, restored)
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	garbage := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03}

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionDeflate} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		_, err = codec.Decompress(garbage)
		require.Error(t, err, ct.String())
	}
}

func TestDeflate_DecompressSize(t *testing.T) {
	codec := NewDeflateCompressor(DefaultDeflateLevel)
	data := meshLikePayload(4096)

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(data))

	restored, err := codec.DecompressSize(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, restored)

	_, err = codec.DecompressSize(compressed, len(data)+1)
	require.Error(t, err)

	_, err = codec.DecompressSize(compressed, len(data)-1)
	require.Error(t, err)

	// A size beyond what the stream could ever expand to fails before inflating.
	tiny, err := codec.Compress([]byte("x"))
	require.NoError(t, err)
	_, err = codec.DecompressSize(tiny, 1<<31)
	require.ErrorContains(t, err, "cannot expand")

	_, err = codec.DecompressSize(tiny, -1)
	require.Error(t, err)

	// Within the ratio bound but still larger than the stream yields.
	_, err = codec.DecompressSize(tiny, 4096)
	require.ErrorContains(t, err, "yields 1 bytes")
}

func TestNoOpCompressor_SharesInput(t *testing.T) {
	codec := NewNoOpCompressor()
	data := []byte("verbatim")

	out, err := codec.Compress(data)
	require.NoError(t, err)
	require.Equal(t, &data[0], &out[0])
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	data := meshLikePayload(8192)

	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		var wg sync.WaitGroup
		errCh := make(chan error, 8)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				compressed, err := codec.Compress(data)
				if err != nil {
					errCh <- err
					return
				}
				restored, err := codec.Decompress(compressed)
				if err != nil {
					errCh <- err
					return
				}
				if !bytes.Equal(restored, data) {
					errCh <- fmt.Errorf("%s: round trip mismatch", ct)
				}
			}()
		}
		wg.Wait()
		close(errCh)
		for err := range errCh {
			require.NoError(t, err)
		}
	}
}

func TestCodecForSpeed(t *testing.T) {
	data := meshLikePayload(32 * 1024)

	for _, ct := range allTypes {
		for _, speed := range []int{-3, 0, 3, 5, 8, 10, 42} {
			codec, err := CodecForSpeed(ct, speed)
			require.NoError(t, err, "%s speed %d", ct, speed)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			// Any level decodes with the shared codec.
			shared, err := GetCodec(ct)
			require.NoError(t, err)
			restored, err := shared.Decompress(compressed)
			require.NoError(t, err)
			require.True(t, bytes.Equal(data, restored), "%s speed %d", ct, speed)
		}
	}

	_, err := CodecForSpeed(format.CompressionType(0x7f), 5)
	require.Error(t, err)
}

func TestZstdLevels(t *testing.T) {
	data := meshLikePayload(64 * 1024)

	for _, level := range []ZstdLevel{ZstdDefault, ZstdFastest, ZstdBetter, ZstdBest} {
		codec := NewZstdCompressorLevel(level)
		compressed, err := codec.Compress(data)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(data))

		restored, err := codec.Decompress(compressed)
		require.NoError(t, err)
		require.Equal(t, data, restored)
	}

	require.Equal(t, NewZstdCompressor(), NewZstdCompressorLevel(ZstdLevel(200)))
}

func TestS2Modes(t *testing.T) {
	data := meshLikePayload(16 * 1024)

	for _, mode := range []S2Mode{S2Better, S2Fast, S2Best} {
		compressed, err := NewS2CompressorMode(mode).Compress(data)
		require.NoError(t, err)

		restored, err := NewS2Compressor().Decompress(compressed)
		require.NoError(t, err)
		require.Equal(t, data, restored)
	}

	_, err := NewS2Compressor().Decompress([]byte{0xff, 0xff, 0xff})
	require.ErrorContains(t, err, "s2 block")

	// The varint header claims 0xF0000000 bytes for a single literal.
	forged := binary.AppendUvarint(nil, 0xF0000000)
	forged = append(forged, 0x00, 'x')
	_, err = NewS2Compressor().Decompress(forged)
	require.ErrorContains(t, err, "exceeds")
}
