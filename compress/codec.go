package compress

import (
	"fmt"

	"github.com/arloliu/onx/format"
)

// MaxBlockDecodedSize bounds the output the lz4 and s2 block decoders will
// allocate for one block.
const MaxBlockDecodedSize = 128 << 20

// Compressor compresses a complete payload.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller (NoOp excepted)
//   - Input slice is not modified
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
//
// Implementations return an error if the data is corrupted or was produced by a
// different algorithm.
//
// Thread Safety: Decompressor implementations must be safe for concurrent use.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, LZ4 or Deflate)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Compressor instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionDeflate:
		return NewDeflateCompressor(DefaultDeflateLevel), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:    NewNoOpCompressor(),
	format.CompressionZstd:    NewZstdCompressor(),
	format.CompressionS2:      NewS2Compressor(),
	format.CompressionLZ4:     NewLZ4Compressor(),
	format.CompressionDeflate: NewDeflateCompressor(DefaultDeflateLevel),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// CodecForSpeed returns a codec for compressionType tuned for speed, where 0
// favors the smallest output and 10 the fastest encode. Codecs without a
// tunable level ignore speed.
func CodecForSpeed(compressionType format.CompressionType, speed int) (Codec, error) {
	speed = min(max(speed, 0), 10)

	switch compressionType {
	case format.CompressionZstd:
		switch {
		case speed <= 2:
			return NewZstdCompressorLevel(ZstdBest), nil
		case speed <= 4:
			return NewZstdCompressorLevel(ZstdBetter), nil
		case speed <= 7:
			return NewZstdCompressorLevel(ZstdDefault), nil
		default:
			return NewZstdCompressorLevel(ZstdFastest), nil
		}
	case format.CompressionS2:
		switch {
		case speed <= 2:
			return NewS2CompressorMode(S2Best), nil
		case speed <= 7:
			return NewS2CompressorMode(S2Better), nil
		default:
			return NewS2CompressorMode(S2Fast), nil
		}
	case format.CompressionDeflate:
		// zlib levels run from 9 (best) down to 1 (fastest).
		return NewDeflateCompressor(9 - speed*8/10), nil
	default:
		return GetCodec(compressionType)
	}
}
