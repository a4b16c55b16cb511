package compress

// ZstdLevel selects a Zstandard encoder level. The zero value is the default
// level.
type ZstdLevel uint8

const (
	ZstdDefault ZstdLevel = iota
	ZstdFastest
	ZstdBetter
	ZstdBest
)

// ZstdCompressor provides Zstandard compression for mesh codec bodies.
//
// Two implementations exist: the default pure Go one backed by pooled
// klauspost/compress encoders and decoders, and a cgo one backed by
// valyala/gozstd, selected with the gozstd build tag.
type ZstdCompressor struct {
	level ZstdLevel
}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// NewZstdCompressorLevel creates a Zstd compressor that encodes at level.
// Decompression does not depend on the level.
func NewZstdCompressorLevel(level ZstdLevel) ZstdCompressor {
	if level > ZstdBest {
		level = ZstdDefault
	}

	return ZstdCompressor{level: level}
}
