package archive

import (
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/arloliu/onx/endian"
	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/internal/pool"
)

var errWriterClosed = errors.New("archive writer closed")

// Writer writes a chunked archive.
//
// The archive is assembled in a pooled buffer so chunk lengths can be
// back-patched, and is flushed to the destination by Close.
//
// Note: Writer is NOT thread-safe.
type Writer struct {
	dst       io.Writer
	buf       *pool.ByteBuffer
	engine    endian.EndianEngine
	version   int
	stack     []writeChunk
	noDeflate bool
}

type writeChunk struct {
	tcode  TypeCode
	offset int // offset of the chunk header in buf
}

// NewWriter creates a Writer for the given on-disk version.
func NewWriter(dst io.Writer, onDiskVersion int) (*Writer, error) {
	if !IsSupportedVersion(onDiskVersion) {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedArchiveVersion, onDiskVersion)
	}

	return &Writer{
		dst:     dst,
		buf:     pool.GetArchiveBuffer(),
		engine:  endian.GetLittleEndianEngine(),
		version: onDiskVersion,
		stack:   make([]writeChunk, 0, 8),
	}, nil
}

// Version returns the on-disk version being written.
func (w *Writer) Version() int {
	return w.version
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	if w.buf == nil {
		return 0
	}

	return w.buf.Len()
}

// SetBufferCompression controls whether WriteCompressedBuffer may deflate.
// When disabled every buffer is stored raw. Enabled by default.
func (w *Writer) SetBufferCompression(enabled bool) {
	w.noDeflate = !enabled
}

// Depth returns the number of open chunks.
func (w *Writer) Depth() int {
	return len(w.stack)
}

func (w *Writer) check() error {
	if w.buf == nil {
		return errWriterClosed
	}

	return nil
}

// WriteStartSection writes the file header followed by the comment block.
func (w *Writer) WriteStartSection(comment string) error {
	if err := w.check(); err != nil {
		return err
	}
	if w.buf.Len() != 0 {
		return fmt.Errorf("%w: start section must be written first", errs.ErrInvalidStartSection)
	}

	header := fmt.Sprintf("%s%8d", startMagic, w.version)
	w.buf.MustWrite([]byte(header))

	if err := w.BeginChunk(TCodeCommentBlock); err != nil {
		return err
	}
	w.buf.MustWrite([]byte(comment))

	return w.EndChunk(TCodeCommentBlock)
}

// BeginChunk starts a long chunk. Its length is filled in by EndChunk.
func (w *Writer) BeginChunk(tcode TypeCode) error {
	if err := w.check(); err != nil {
		return err
	}
	if tcode.IsShort() {
		return fmt.Errorf("BeginChunk(%s): short chunks have no payload, use WriteShortChunk", tcode)
	}

	w.stack = append(w.stack, writeChunk{tcode: tcode, offset: w.buf.Len()})
	w.buf.B = w.engine.AppendUint32(w.buf.B, uint32(tcode))
	w.buf.B = w.engine.AppendUint64(w.buf.B, 0)

	return nil
}

// EndChunk closes the innermost chunk, which must have type code tcode.
func (w *Writer) EndChunk(tcode TypeCode) error {
	if err := w.check(); err != nil {
		return err
	}

	n := len(w.stack)
	if n == 0 {
		return fmt.Errorf("%w: EndChunk(%s) with no open chunk", errs.ErrUnbalancedChunks, tcode)
	}
	top := w.stack[n-1]
	if top.tcode != tcode {
		return fmt.Errorf("%w: EndChunk(%s) closes %s", errs.ErrChunkMismatch, tcode, top.tcode)
	}

	length := w.buf.Len() - top.offset - ChunkHeaderSize
	w.engine.PutUint64(w.buf.B[top.offset+4:top.offset+ChunkHeaderSize], uint64(length)) //nolint:gosec
	w.stack = w.stack[:n-1]

	return nil
}

// WriteShortChunk writes a complete short chunk carrying value.
func (w *Writer) WriteShortChunk(tcode TypeCode, value int64) error {
	if err := w.check(); err != nil {
		return err
	}
	if !tcode.IsShort() {
		return fmt.Errorf("WriteShortChunk(%s): type code is not short", tcode)
	}

	w.buf.B = w.engine.AppendUint32(w.buf.B, uint32(tcode))
	w.buf.B = w.engine.AppendUint64(w.buf.B, uint64(value)) //nolint:gosec

	return nil
}

// WriteChunkBytes writes a complete chunk previously copied with
// ReadChunkBytes.
func (w *Writer) WriteChunkBytes(raw []byte) error {
	if err := w.check(); err != nil {
		return err
	}
	if len(raw) < ChunkHeaderSize {
		return fmt.Errorf("%w: chunk of %d bytes", errs.ErrTruncated, len(raw))
	}

	tcode := TypeCode(w.engine.Uint32(raw[0:4]))
	value := int64(w.engine.Uint64(raw[4:ChunkHeaderSize])) //nolint:gosec
	if !tcode.IsShort() && value != int64(len(raw)-ChunkHeaderSize) {
		return fmt.Errorf("%w: %s declares %d payload bytes, have %d", errs.ErrChunkOverrun, tcode, value, len(raw)-ChunkHeaderSize)
	}
	w.buf.MustWrite(raw)

	return nil
}

// WriteEndOfFile writes the end-of-file marker, whose value is the total archive
// length including the marker itself.
func (w *Writer) WriteEndOfFile() error {
	if len(w.stack) != 0 {
		return fmt.Errorf("%w: %d chunks open at end of file", errs.ErrUnbalancedChunks, len(w.stack))
	}

	return w.WriteShortChunk(TCodeEndOfFile, int64(w.Len()+ChunkHeaderSize))
}

// Close verifies that every chunk was closed, flushes the archive to the
// destination and releases the buffer. Close is safe to call more than once.
func (w *Writer) Close() error {
	if w.buf == nil {
		return nil
	}
	defer func() {
		pool.PutArchiveBuffer(w.buf)
		w.buf = nil
	}()

	if len(w.stack) != 0 {
		return fmt.Errorf("%w: %s left open", errs.ErrUnbalancedChunks, w.stack[len(w.stack)-1].tcode)
	}

	if _, err := w.buf.WriteTo(w.dst); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}

	return nil
}

// Abort releases the buffer without writing anything.
func (w *Writer) Abort() {
	if w.buf != nil {
		pool.PutArchiveBuffer(w.buf)
		w.buf = nil
	}
}

// WriteUint8 writes one byte.
func (w *Writer) WriteUint8(v uint8) error {
	if err := w.check(); err != nil {
		return err
	}
	w.buf.AppendByte(v)

	return nil
}

// WriteBool writes a one-byte boolean.
func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.WriteUint8(1)
	}

	return w.WriteUint8(0)
}

// WriteUint32 writes a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) error {
	if err := w.check(); err != nil {
		return err
	}
	w.buf.B = w.engine.AppendUint32(w.buf.B, v)

	return nil
}

// WriteInt32 writes a little-endian int32.
func (w *Writer) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v)) //nolint:gosec
}

// WriteUint64 writes a little-endian uint64.
func (w *Writer) WriteUint64(v uint64) error {
	if err := w.check(); err != nil {
		return err
	}
	w.buf.B = w.engine.AppendUint64(w.buf.B, v)

	return nil
}

// WriteInt64 writes a little-endian int64.
func (w *Writer) WriteInt64(v int64) error {
	return w.WriteUint64(uint64(v)) //nolint:gosec
}

// WriteFloat32 writes an IEEE 754 single.
func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes an IEEE 754 double.
func (w *Writer) WriteFloat64(v float64) error {
	return w.WriteUint64(math.Float64bits(v))
}

// WriteUUID writes id in GUID layout.
func (w *Writer) WriteUUID(id uuid.UUID) error {
	if err := w.check(); err != nil {
		return err
	}
	w.buf.B = endian.AppendGUID(w.buf.B, id)

	return nil
}

// WriteBytes writes b without a length prefix.
func (w *Writer) WriteBytes(b []byte) error {
	if err := w.check(); err != nil {
		return err
	}
	w.buf.MustWrite(b)

	return nil
}

// WriteByteArray writes an int32 length followed by b.
func (w *Writer) WriteByteArray(b []byte) error {
	if len(b) > math.MaxInt32 {
		return fmt.Errorf("byte array of %d bytes exceeds int32 length", len(b))
	}
	if err := w.WriteInt32(int32(len(b))); err != nil { //nolint:gosec
		return err
	}

	return w.WriteBytes(b)
}

// WriteString writes an int32 byte length followed by UTF-8 bytes.
func (w *Writer) WriteString(s string) error {
	if len(s) > math.MaxInt32 {
		return fmt.Errorf("%w: %d bytes", errs.ErrInvalidString, len(s))
	}
	if err := w.WriteInt32(int32(len(s))); err != nil { //nolint:gosec
		return err
	}
	w.buf.MustWrite([]byte(s))

	return nil
}

// WriteWString writes s as UTF-16LE code units with a terminating NUL, preceded
// by the int32 unit count. The empty string is written as a zero count.
func (w *Writer) WriteWString(s string) error {
	if s == "" {
		return w.WriteInt32(0)
	}

	units := utf16.Encode([]rune(s))
	if err := w.WriteInt32(int32(len(units) + 1)); err != nil { //nolint:gosec
		return err
	}
	w.buf.Grow(2 * (len(units) + 1))
	for _, u := range units {
		w.buf.B = w.engine.AppendUint16(w.buf.B, u)
	}
	w.buf.B = w.engine.AppendUint16(w.buf.B, 0)

	return nil
}
