package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/arloliu/onx/endian"
	"github.com/arloliu/onx/errs"
)

const (
	// StartSectionSize is the fixed size of the file header.
	StartSectionSize = 32
	// ChunkHeaderSize is the size of a chunk's tcode and value fields.
	ChunkHeaderSize = 12

	startMagic = "3D Geometry File Format "
)

type openChunk struct {
	tcode TypeCode
	start int64 // first payload byte
	end   int64 // one past the last payload byte
}

// Reader reads a chunked archive from a seekable stream.
//
// Note: Reader is NOT thread-safe.
type Reader struct {
	rs      io.ReadSeeker
	engine  endian.EndianEngine
	pos     int64
	size    int64
	version int
	stack   []openChunk
	scratch [16]byte
}

// NewReader creates a Reader over rs. The stream is measured once so reads past
// its end can be reported as truncation rather than a short read.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("measure archive: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind archive: %w", err)
	}

	return &Reader{
		rs:     rs,
		engine: endian.GetLittleEndianEngine(),
		size:   size,
		stack:  make([]openChunk, 0, 8),
	}, nil
}

// NewBufferReader creates a Reader over an in-memory archive fragment that has
// no start section of its own, such as a user data blob. onDiskVersion is the
// version the fragment was written with.
func NewBufferReader(data []byte, onDiskVersion int) (*Reader, error) {
	if !IsSupportedVersion(onDiskVersion) {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedArchiveVersion, onDiskVersion)
	}

	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	r.version = onDiskVersion

	return r, nil
}

// FileReader is a Reader that owns the file it reads.
type FileReader struct {
	*Reader
	file *os.File
}

// OpenForRead opens the archive at path. The caller must Close the returned
// reader on every path.
func OpenForRead(path string) (*FileReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	r, err := NewReader(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return &FileReader{Reader: r, file: file}, nil
}

// Close releases the underlying file.
func (f *FileReader) Close() error {
	return f.file.Close()
}

// Version returns the on-disk version read by ReadStartSection.
func (r *Reader) Version() int {
	return r.version
}

// Position returns the absolute stream offset of the next read.
func (r *Reader) Position() int64 {
	return r.pos
}

// Size returns the total stream length.
func (r *Reader) Size() int64 {
	return r.size
}

// Depth returns the number of open chunks.
func (r *Reader) Depth() int {
	return len(r.stack)
}

// Remaining returns the bytes left before the end of the innermost open chunk,
// or before the end of the stream at top level.
func (r *Reader) Remaining() int64 {
	return r.limit() - r.pos
}

func (r *Reader) limit() int64 {
	if n := len(r.stack); n > 0 {
		return r.stack[n-1].end
	}

	return r.size
}

func corrupt(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", errs.ErrCorruptArchive, err, fmt.Sprintf(format, args...))
}

// checkAvailable reports whether n more bytes may be consumed at the current
// position without crossing the innermost chunk or the stream end.
func (r *Reader) checkAvailable(n int64) error {
	if n < 0 {
		return corrupt(errs.ErrChunkOverrun, "negative length %d at offset %d", n, r.pos)
	}
	if r.pos+n <= r.limit() {
		return nil
	}
	if len(r.stack) > 0 && r.pos+n <= r.size {
		return corrupt(errs.ErrChunkOverrun, "%d bytes at offset %d cross end of %s", n, r.pos, r.stack[len(r.stack)-1].tcode)
	}

	return corrupt(errs.ErrTruncated, "%d bytes at offset %d, stream size %d", n, r.pos, r.size)
}

func (r *Reader) readInto(dst []byte) error {
	if err := r.checkAvailable(int64(len(dst))); err != nil {
		return err
	}

	n, err := io.ReadFull(r.rs, dst)
	r.pos += int64(n)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return corrupt(errs.ErrTruncated, "short read at offset %d", r.pos)
		}

		return fmt.Errorf("read archive: %w", err)
	}

	return nil
}

func (r *Reader) seekTo(offset int64) error {
	if offset == r.pos {
		return nil
	}
	if _, err := r.rs.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek archive: %w", err)
	}
	r.pos = offset

	return nil
}

// SeekForward skips n bytes inside the current chunk without reading them.
func (r *Reader) SeekForward(n int64) error {
	if err := r.checkAvailable(n); err != nil {
		return err
	}

	return r.seekTo(r.pos + n)
}

// ReadStartSection reads the file header and the comment block. It returns the
// on-disk version and the comment text.
func (r *Reader) ReadStartSection() (int, string, error) {
	if r.pos != 0 || len(r.stack) != 0 {
		return 0, "", fmt.Errorf("%w: start section must be read first", errs.ErrInvalidStartSection)
	}

	var header [StartSectionSize]byte
	if err := r.readInto(header[:]); err != nil {
		return 0, "", fmt.Errorf("%w: %w", errs.ErrInvalidStartSection, err)
	}
	if string(header[:len(startMagic)]) != startMagic {
		return 0, "", corrupt(errs.ErrInvalidStartSection, "bad magic")
	}

	field := strings.TrimSpace(string(header[len(startMagic):]))
	version, err := strconv.Atoi(field)
	if err != nil {
		return 0, "", corrupt(errs.ErrInvalidStartSection, "bad version field %q", field)
	}
	if !IsSupportedVersion(version) {
		return 0, "", fmt.Errorf("%w: %d", errs.ErrUnsupportedArchiveVersion, version)
	}
	r.version = version

	length, err := r.beginChunk(TCodeCommentBlock)
	if err != nil {
		return 0, "", err
	}
	comment := make([]byte, length)
	if err := r.readInto(comment); err != nil {
		return 0, "", err
	}
	if err := r.EndChunk(TCodeCommentBlock); err != nil {
		return 0, "", err
	}

	return version, string(comment), nil
}

// BeginChunk reads a chunk header and enters the chunk. When expected is not
// TCodeAny the header's type code must match it. For long chunks the returned
// value is the payload length; for short chunks it is the chunk's data.
func (r *Reader) BeginChunk(expected TypeCode) (TypeCode, int64, error) {
	if err := r.readInto(r.scratch[:ChunkHeaderSize]); err != nil {
		return 0, 0, err
	}

	tcode := TypeCode(r.engine.Uint32(r.scratch[0:4]))
	value := int64(r.engine.Uint64(r.scratch[4:12])) //nolint:gosec

	if expected != TCodeAny && tcode != expected {
		return 0, 0, corrupt(errs.ErrChunkMismatch, "expected %s, found %s at offset %d", expected, tcode, r.pos-ChunkHeaderSize)
	}

	if tcode.IsShort() {
		r.stack = append(r.stack, openChunk{tcode: tcode, start: r.pos, end: r.pos})
		return tcode, value, nil
	}

	if err := r.checkAvailable(value); err != nil {
		return 0, 0, err
	}
	r.stack = append(r.stack, openChunk{tcode: tcode, start: r.pos, end: r.pos + value})

	return tcode, value, nil
}

func (r *Reader) beginChunk(expected TypeCode) (int64, error) {
	_, value, err := r.BeginChunk(expected)
	return value, err
}

// PeekChunk returns the next chunk header without consuming it.
func (r *Reader) PeekChunk() (TypeCode, int64, error) {
	start := r.pos
	if err := r.readInto(r.scratch[:ChunkHeaderSize]); err != nil {
		return 0, 0, err
	}
	tcode := TypeCode(r.engine.Uint32(r.scratch[0:4]))
	value := int64(r.engine.Uint64(r.scratch[4:12])) //nolint:gosec

	if err := r.seekTo(start); err != nil {
		return 0, 0, err
	}

	return tcode, value, nil
}

// EndChunk leaves the innermost chunk, which must have type code tcode. Unread
// payload is skipped.
func (r *Reader) EndChunk(tcode TypeCode) error {
	n := len(r.stack)
	if n == 0 {
		return corrupt(errs.ErrUnbalancedChunks, "EndChunk(%s) with no open chunk", tcode)
	}

	top := r.stack[n-1]
	if top.tcode != tcode {
		return corrupt(errs.ErrChunkMismatch, "EndChunk(%s) closes %s", tcode, top.tcode)
	}
	if r.pos > top.end {
		return corrupt(errs.ErrChunkOverrun, "%s read %d bytes past its end", tcode, r.pos-top.end)
	}

	if err := r.seekTo(top.end); err != nil {
		return err
	}
	r.stack = r.stack[:n-1]

	return nil
}

// ReadChunkBytes copies the next chunk, header included, without interpreting
// its payload. The result can be written back verbatim with WriteChunkBytes.
func (r *Reader) ReadChunkBytes() (TypeCode, []byte, error) {
	start := r.pos
	tcode, _, err := r.BeginChunk(TCodeAny)
	if err != nil {
		return 0, nil, err
	}
	end := r.stack[len(r.stack)-1].end
	r.stack = r.stack[:len(r.stack)-1]

	if err := r.seekTo(start); err != nil {
		return 0, nil, err
	}
	raw, err := r.ReadBytes(end - start)
	if err != nil {
		return 0, nil, err
	}

	return tcode, raw, nil
}

// ReadUint8 reads one byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.readInto(r.scratch[:1]); err != nil {
		return 0, err
	}

	return r.scratch[0], nil
}

// ReadBool reads a one-byte boolean.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadUint8()
	return b != 0, err
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.readInto(r.scratch[:4]); err != nil {
		return 0, err
	}

	return r.engine.Uint32(r.scratch[:4]), nil
}

// ReadInt32 reads a little-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err //nolint:gosec
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.readInto(r.scratch[:8]); err != nil {
		return 0, err
	}

	return r.engine.Uint64(r.scratch[:8]), nil
}

// ReadInt64 reads a little-endian int64.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err //nolint:gosec
}

// ReadFloat32 reads an IEEE 754 single.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads an IEEE 754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadUUID reads a 16-byte id stored in GUID layout.
func (r *Reader) ReadUUID() (uuid.UUID, error) {
	if err := r.readInto(r.scratch[:endian.GUIDSize]); err != nil {
		return uuid.Nil, err
	}

	return uuid.UUID(endian.GUID(r.scratch[:endian.GUIDSize])), nil
}

// ReadBytes reads exactly n bytes into a new slice.
func (r *Reader) ReadBytes(n int64) ([]byte, error) {
	if err := r.checkAvailable(n); err != nil {
		return nil, err
	}

	out := make([]byte, n)
	if err := r.readInto(out); err != nil {
		return nil, err
	}

	return out, nil
}

// ReadByteArray reads an int32 length followed by that many bytes.
func (r *Reader) ReadByteArray() ([]byte, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, corrupt(errs.ErrChunkOverrun, "negative byte array length %d", n)
	}

	return r.ReadBytes(int64(n))
}

// ReadString reads an int32 byte length followed by UTF-8 bytes.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", corrupt(errs.ErrInvalidString, "negative string length %d", n)
	}
	if n == 0 {
		return "", nil
	}

	b, err := r.ReadBytes(int64(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadWString reads a UTF-16LE string: an int32 count of code units including
// the terminating NUL, then the units. A count of zero is the empty string.
func (r *Reader) ReadWString() (string, error) {
	count, err := r.ReadInt32()
	if err != nil {
		return "", err
	}
	if count < 0 {
		return "", corrupt(errs.ErrInvalidString, "negative wide string length %d", count)
	}
	if count == 0 {
		return "", nil
	}

	raw, err := r.ReadBytes(int64(count) * 2)
	if err != nil {
		return "", err
	}

	units := make([]uint16, count)
	for i := range units {
		units[i] = r.engine.Uint16(raw[i*2:])
	}
	if units[count-1] != 0 {
		return "", corrupt(errs.ErrInvalidString, "wide string not terminated")
	}

	return string(utf16.Decode(units[:count-1])), nil
}
