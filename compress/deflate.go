package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// DefaultDeflateLevel is the zlib level used for archive compressed buffers.
const DefaultDeflateLevel = zlib.DefaultCompression

// maxDeflateRatio is the largest expansion a deflate stream allows: one
// 258-byte match per two bits.
const maxDeflateRatio = 1032

// DeflateCompressor produces zlib framed deflate streams. It backs method 1 of
// the archive compressed buffer.
type DeflateCompressor struct {
	level int
}

var _ Codec = (*DeflateCompressor)(nil)

// NewDeflateCompressor creates a deflate compressor with the given zlib level.
func NewDeflateCompressor(level int) DeflateCompressor {
	return DeflateCompressor{level: level}
}

// Compress deflates data into a zlib stream.
func (c DeflateCompressor) Compress(data []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(data)/2 + 64)

	w, err := zlib.NewWriterLevel(&out, c.level)
	if err != nil {
		return nil, fmt.Errorf("deflate writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("deflate write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate close: %w", err)
	}

	return out.Bytes(), nil
}

// Decompress inflates a zlib stream.
func (c DeflateCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("inflate reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}

	return out, nil
}

// DecompressSize inflates a zlib stream that must expand to exactly size bytes.
// The output grows with the inflated bytes rather than with size, and a size no
// deflate stream of len(data) bytes could reach fails before inflating.
func (c DeflateCompressor) DecompressSize(data []byte, size int) ([]byte, error) {
	if size < 0 || size/maxDeflateRatio > len(data) {
		return nil, fmt.Errorf("inflate: %d bytes cannot expand to %d", len(data), size)
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("inflate reader: %w", err)
	}
	defer r.Close()

	var out bytes.Buffer
	out.Grow(min(size, 4*len(data)+bytes.MinRead))

	n, err := io.Copy(&out, io.LimitReader(r, int64(size)+1))
	if err != nil {
		return nil, fmt.Errorf("inflate %d bytes: %w", size, err)
	}
	if n != int64(size) {
		return nil, fmt.Errorf("inflate: stream yields %d bytes, want %d", n, size)
	}

	return out.Bytes(), nil
}
