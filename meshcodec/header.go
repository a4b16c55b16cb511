package meshcodec

import (
	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/format"
)

// Magic is the first four bytes of every blob.
const Magic = "ONXC"

// Blob header layout.
const (
	HeaderSize    = 8 // fixed header size in bytes
	FormatVersion = 1 // only supported blob format version
)

// Header is the fixed-size header at the start of a blob. The body that follows
// is compressed with Compression.
type Header struct {
	Version     uint8                  // byte offset 4
	Geometry    format.GeometryType    // byte offset 5
	Compression format.CompressionType // byte offset 6
	// Speed is the encoder speed setting, kept for diagnostics.
	Speed uint8 // byte offset 7
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be exactly 8 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber or a codec failure for
//     an unknown version or geometry type
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}
	if string(data[:4]) != Magic {
		return errs.ErrInvalidMagicNumber
	}

	h.Version = data[4]
	h.Geometry = format.GeometryType(data[5])
	h.Compression = format.CompressionType(data[6])
	h.Speed = data[7]

	return h.Validate()
}

// Validate checks the version and geometry type.
func (h *Header) Validate() error {
	if h.Version != FormatVersion {
		return codecError("unsupported blob version %d", h.Version)
	}
	if h.Geometry != format.GeometryMesh && h.Geometry != format.GeometryPointCloud {
		return codecError("unknown geometry type %d", uint8(h.Geometry))
	}

	return nil
}

// Bytes serializes the header.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b, Magic)
	b[4] = h.Version
	b[5] = uint8(h.Geometry)
	b[6] = uint8(h.Compression)
	b[7] = h.Speed

	return b
}

// ParseHeader parses a Header from the start of a blob.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}

// Type returns the geometry type of a blob without decoding its body.
func Type(data []byte) (format.GeometryType, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return 0, err
	}

	return h.Geometry, nil
}
