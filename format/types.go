package format

import "fmt"

type (
	CompressionType uint8
	BufferMethod    uint8
	GeometryType    uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	// CompressionDeflate represents a zlib framed deflate stream.
	CompressionDeflate CompressionType = 0x5

	// BufferRaw stores compressed-buffer payloads verbatim.
	BufferRaw BufferMethod = 0
	// BufferDeflate stores compressed-buffer payloads as a deflate chunk.
	BufferDeflate BufferMethod = 1

	GeometryPointCloud GeometryType = 0 // GeometryPointCloud is an encoded point cloud.
	GeometryMesh       GeometryType = 1 // GeometryMesh is an encoded triangular mesh.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionDeflate:
		return "Deflate"
	default:
		return "Unknown"
	}
}

// ParseCompressionType parses a case-sensitive lower-case compression name.
func ParseCompressionType(name string) (CompressionType, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	case "deflate":
		return CompressionDeflate, nil
	default:
		return 0, fmt.Errorf("unknown compression type: %q", name)
	}
}

func (m BufferMethod) String() string {
	switch m {
	case BufferRaw:
		return "Raw"
	case BufferDeflate:
		return "Deflate"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(m))
	}
}

func (g GeometryType) String() string {
	switch g {
	case GeometryPointCloud:
		return "PointCloud"
	case GeometryMesh:
		return "Mesh"
	default:
		return "Unknown"
	}
}
