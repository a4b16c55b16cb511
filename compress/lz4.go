package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4.Compressor carries a hash table; reusing it avoids a large allocation per
// mesh blob.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor compresses with pierrec/lz4 block mode. Blocks carry no size
// header, so decompression grows its output buffer until the block fits.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor returns the lz4 block codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress encodes data as one lz4 block. Incompressible input becomes a
// literal-only block.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lc.CompressBlock(data, dst)
	switch {
	case err != nil:
		return nil, fmt.Errorf("lz4 block: %w", err)
	case n == 0:
		return literalBlock(data), nil
	}

	return dst[:n], nil
}

// Decompress decodes one lz4 block. Mesh bodies of float data rarely exceed 4x,
// so the output starts there and doubles while the block does not fit.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	for size := min(len(data)*4, MaxBlockDecodedSize); ; size = min(size*2, MaxBlockDecodedSize) {
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(data, out)
		if err == nil {
			return out[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) || size == MaxBlockDecodedSize {
			return nil, fmt.Errorf("lz4 block: %w", err)
		}
	}
}

// literalBlock encodes data as a single LZ4 sequence of literals, which any block
// decoder accepts.
func literalBlock(data []byte) []byte {
	n := len(data)
	out := make([]byte, 0, n+n/255+2)
	if n < 15 {
		out = append(out, byte(n<<4))
	} else {
		out = append(out, 0xF0)
		rest := n - 15
		for rest >= 255 {
			out = append(out, 255)
			rest -= 255
		}
		out = append(out, byte(rest))
	}

	return append(out, data...)
}
