package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Mode selects an S2 block encoder. The zero value is S2Better, which suits
// float-heavy mesh bodies.
type S2Mode uint8

const (
	S2Better S2Mode = iota
	S2Fast
	S2Best
)

// S2Compressor compresses with S2 block encoding. Blocks from every mode decode
// with the same decoder.
type S2Compressor struct {
	mode S2Mode
}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates an S2 compressor in S2Better mode.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// NewS2CompressorMode creates an S2 compressor using mode.
func NewS2CompressorMode(mode S2Mode) S2Compressor {
	return S2Compressor{mode: mode}
}

func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	switch c.mode {
	case S2Fast:
		return s2.Encode(nil, data), nil
	case S2Best:
		return s2.EncodeBest(nil, data), nil
	default:
		return s2.EncodeBetter(nil, data), nil
	}
}

func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 block: %w", err)
	}
	if n > MaxBlockDecodedSize {
		return nil, fmt.Errorf("s2 block: decoded length %d exceeds %d", n, MaxBlockDecodedSize)
	}

	out, err := s2.Decode(make([]byte, n), data)
	if err != nil {
		return nil, fmt.Errorf("s2 block: %w", err)
	}

	return out, nil
}
