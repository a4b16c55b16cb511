// Package errs defines the sentinel errors shared by the onx packages.
//
// Errors are wrapped with context by the packages that return them, so callers
// should match them with errors.Is:
//
//	doc, err := model.Read(path)
//	if errors.Is(err, errs.ErrCorruptArchive) {
//	    // file is damaged, doc is nil
//	}
package errs

import "errors"

// Archive framing errors.
var (
	// ErrCorruptArchive reports chunk bookkeeping failures, bad lengths or bad headers.
	ErrCorruptArchive = errors.New("corrupt archive")
	// ErrTruncated reports a read past the end of the underlying stream.
	ErrTruncated = errors.New("truncated archive")
	// ErrChunkMismatch reports a BeginChunk/EndChunk type code mismatch.
	ErrChunkMismatch = errors.New("chunk type code mismatch")
	// ErrChunkOverrun reports a read or seek past the end of the open chunk.
	ErrChunkOverrun = errors.New("chunk length overrun")
	// ErrUnbalancedChunks reports chunks left open when an archive is closed.
	ErrUnbalancedChunks = errors.New("unbalanced chunks")
	// ErrInvalidStartSection reports a missing or malformed file header.
	ErrInvalidStartSection = errors.New("invalid start section")
	// ErrUnsupportedArchiveVersion reports an on-disk version the reader does not know.
	ErrUnsupportedArchiveVersion = errors.New("unsupported archive version")
	// ErrInvalidString reports a malformed length-prefixed string.
	ErrInvalidString = errors.New("invalid string")
)

// Compressed buffer errors.
var (
	// ErrCRCMismatch reports a decompressed buffer whose CRC32 differs from the stored one.
	ErrCRCMismatch = errors.New("compressed buffer crc mismatch")
	// ErrUnknownCompressionMethod reports a compressed buffer method byte other than 0 or 1.
	ErrUnknownCompressionMethod = errors.New("unknown compressed buffer method")
	// ErrBufferSizeMismatch reports an inflated buffer whose size differs from the stored size.
	ErrBufferSizeMismatch = errors.New("compressed buffer size mismatch")
)

// Embedded file errors.
var (
	// ErrUnsupportedVersion reports an embedded-file sub-format version other than 4.
	ErrUnsupportedVersion = errors.New("unsupported embedded file version")
	// ErrNotApplicable reports user data written by a different application.
	ErrNotApplicable = errors.New("user data record not applicable")
)

// Model errors.
var (
	// ErrNotFound reports a lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrIndexOutOfRange reports direct indexing outside a table.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrComponentRemoved reports a reference to a table entry that no longer exists.
	ErrComponentRemoved = errors.New("component removed")
	// ErrDuplicateID reports an Add with an id already present in the table.
	ErrDuplicateID = errors.New("duplicate component id")
	// ErrNilComponent reports an Add of a nil component.
	ErrNilComponent = errors.New("nil component")
	// ErrInvalidWriteVersion reports a write version the writer cannot produce.
	ErrInvalidWriteVersion = errors.New("invalid write version")
	// ErrUnknownGeometryKind reports a geometry kind tag outside the known set.
	ErrUnknownGeometryKind = errors.New("unknown geometry kind")
)

// Mesh codec errors.
var (
	// ErrCodecFailure reports an encode or decode failure of the mesh codec.
	ErrCodecFailure = errors.New("mesh codec failure")
	// ErrInvalidMagicNumber reports a mesh blob without the expected magic.
	ErrInvalidMagicNumber = errors.New("invalid magic number")
	// ErrMissingPositions reports a mesh blob without a usable position attribute.
	ErrMissingPositions = errors.New("missing position attribute")
	// ErrInvalidHeaderSize reports a buffer shorter than the fixed blob header.
	ErrInvalidHeaderSize = errors.New("invalid header size")
)
