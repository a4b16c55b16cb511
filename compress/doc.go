// Package compress provides the compression codecs used by onx.
//
// Two consumers share the package:
//
//  1. The chunked archive stores compressed buffers either raw or as a zlib
//     framed deflate stream (DeflateCompressor). The deflate codec also offers
//     DecompressSize, which inflates into a single allocation of the size recorded
//     in the buffer header.
//  2. The mesh codec compresses its attribute body with any of the general-purpose
//     codecs below, chosen per blob and recorded in the blob header.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): bytes are passed through untouched
//   - Zstd (format.CompressionZstd): best ratio, pooled klauspost/compress encoders;
//     build with the gozstd tag to use the cgo valyala/gozstd bindings instead
//   - S2 (format.CompressionS2): fast, klauspost/compress/s2
//   - LZ4 (format.CompressionLZ4): fastest decompression, pierrec/lz4 block mode
//   - Deflate (format.CompressionDeflate): zlib stream, klauspost/compress/zlib
//
// # Architecture
//
//	type Codec interface {
//	    Compress(data []byte) ([]byte, error)
//	    Decompress(data []byte) ([]byte, error)
//	}
//
// CreateCodec builds a codec for a format.CompressionType, GetCodec returns a shared
// built-in instance and CodecForSpeed maps the mesh encoder's 0..10 speed onto a
// Zstd level, an S2 mode or a zlib level. Output at any level decodes with the
// shared instance.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use.
package compress
