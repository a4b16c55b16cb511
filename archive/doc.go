// Package archive reads and writes the chunked binary model archive.
//
// # Layout
//
//	┌──────────────────────────────────────────────────────────────┐
//	│ Start section (32 bytes)                                     │
//	│  "3D Geometry File Format " + version right-justified in 8   │
//	├──────────────────────────────────────────────────────────────┤
//	│ Comment block chunk (free text)                              │
//	├──────────────────────────────────────────────────────────────┤
//	│ Chunk*                                                       │
//	│  tcode  uint32                                               │
//	│  value  int64   payload length, or data for short chunks     │
//	│  payload        absent for short chunks, may nest chunks     │
//	└──────────────────────────────────────────────────────────────┘
//
// All integers are little endian. A type code with the TCodeShort bit set
// denotes a short chunk whose value is data and which has no payload.
//
// # Chunk bookkeeping
//
// Reader.BeginChunk pushes the chunk onto a stack and Reader.EndChunk pops it,
// verifying the type code and seeking past any unread payload. Reads never cross
// the end of the innermost open chunk. Any truncated read, type code mismatch or
// length overrun is reported as errs.ErrCorruptArchive and the caller is expected
// to abandon the whole read; the reader never attempts partial recovery.
//
// Writer buffers the archive in a pooled buffer, back-patching chunk lengths in
// EndChunk, and flushes on Close.
//
// # Compressed buffers
//
// A compressed buffer is {size uint64, crc32 uint32, method uint8, payload}. Method
// 0 stores size raw bytes; method 1 stores a TCodeCompressedBuffer chunk holding a
// deflate stream. SeekPastCompressedBuffer skips either form without inflating.
//
// # Thread Safety
//
// Readers and writers are not safe for concurrent use.
package archive
