//go:build gozstd

package compress

import (
	"github.com/valyala/gozstd"
)

// gozstdLevels maps ZstdLevel to native compression levels.
var gozstdLevels = [...]int{
	ZstdDefault: 3,
	ZstdFastest: 1,
	ZstdBetter:  9,
	ZstdBest:    19,
}

// Compress compresses the input data using Zstandard compression.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, gozstdLevels[c.level]), nil
}

func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
