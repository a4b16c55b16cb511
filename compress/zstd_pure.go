//go:build !gozstd

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maxZstdDecodedSize caps the memory a single decode may claim, so a forged
// frame header cannot request an arbitrarily large window.
const maxZstdDecodedSize = 1 << 32

// Decoders and encoders are kept warm in pools; EncodeAll and DecodeAll are
// stateless, so any pooled instance serves any call.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
			zstd.WithDecoderMaxMemory(maxZstdDecodedSize),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd decoder: %v", err))
		}

		return decoder
	},
}

// zstdEncoderPools is indexed by ZstdLevel.
var zstdEncoderPools = [...]sync.Pool{
	ZstdDefault: {New: newZstdEncoder(zstd.SpeedDefault)},
	ZstdFastest: {New: newZstdEncoder(zstd.SpeedFastest)},
	ZstdBetter:  {New: newZstdEncoder(zstd.SpeedBetterCompression)},
	ZstdBest:    {New: newZstdEncoder(zstd.SpeedBestCompression)},
}

func newZstdEncoder(level zstd.EncoderLevel) func() any {
	return func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(level),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd encoder: %v", err))
		}

		return encoder
	}
}

// Compress encodes data as a single zstd frame.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	pool := &zstdEncoderPools[c.level]
	encoder, _ := pool.Get().(*zstd.Encoder)
	defer pool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decodes zstd frames. Data from another codec or a damaged frame
// is an error.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd frame: %w", err)
	}

	return out, nil
}
