package archive

import (
	"fmt"
	"hash/crc32"

	"github.com/arloliu/onx/compress"
	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/format"
)

// MaxCompressedBufferSize bounds the uncompressed size accepted from a compressed
// buffer header, so a corrupt size cannot trigger a huge allocation.
const MaxCompressedBufferSize = 1 << 31

var deflate = compress.NewDeflateCompressor(compress.DefaultDeflateLevel)

// WriteCompressedBuffer writes data as a compressed buffer. The deflate form is
// used only when it is smaller than the raw bytes; compressed reports which form
// was written.
func (w *Writer) WriteCompressedBuffer(data []byte) (compressed bool, err error) {
	if err := w.WriteUint64(uint64(len(data))); err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}

	if err := w.WriteUint32(crc32.ChecksumIEEE(data)); err != nil {
		return false, err
	}

	var deflated []byte
	if !w.noDeflate {
		if deflated, err = deflate.Compress(data); err != nil {
			return false, fmt.Errorf("compress buffer: %w", err)
		}
	}

	if deflated == nil || len(deflated) >= len(data) {
		if err := w.WriteUint8(uint8(format.BufferRaw)); err != nil {
			return false, err
		}

		return false, w.WriteBytes(data)
	}

	if err := w.WriteUint8(uint8(format.BufferDeflate)); err != nil {
		return false, err
	}
	if err := w.BeginChunk(TCodeCompressedBuffer); err != nil {
		return false, err
	}
	if err := w.WriteBytes(deflated); err != nil {
		return false, err
	}

	return true, w.EndChunk(TCodeCompressedBuffer)
}

// ReadCompressedBufferSize reads the uncompressed size that starts every
// compressed buffer. It must be followed by ReadCompressedBuffer with the same
// size.
func (r *Reader) ReadCompressedBufferSize() (uint64, error) {
	size, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	if size > MaxCompressedBufferSize {
		return 0, corrupt(errs.ErrBufferSizeMismatch, "compressed buffer size %d exceeds limit", size)
	}

	return size, nil
}

// ReadCompressedBuffer reads the remainder of a compressed buffer whose size was
// returned by ReadCompressedBufferSize. crcFailed reports a checksum mismatch;
// the bytes are still returned so the caller can decide what to do with them.
func (r *Reader) ReadCompressedBuffer(size uint64) (data []byte, crcFailed bool, err error) {
	if size == 0 {
		return nil, false, nil
	}

	crc, method, err := r.readCompressedBufferHeader()
	if err != nil {
		return nil, false, err
	}

	switch method {
	case format.BufferRaw:
		data, err = r.ReadBytes(int64(size)) //nolint:gosec
		if err != nil {
			return nil, false, err
		}
	case format.BufferDeflate:
		length, err := r.beginChunk(TCodeCompressedBuffer)
		if err != nil {
			return nil, false, err
		}
		payload, err := r.ReadBytes(length)
		if err != nil {
			return nil, false, err
		}
		if err := r.EndChunk(TCodeCompressedBuffer); err != nil {
			return nil, false, err
		}

		data, err = deflate.DecompressSize(payload, int(size)) //nolint:gosec
		if err != nil {
			return nil, false, corrupt(errs.ErrBufferSizeMismatch, "%v", err)
		}
	default:
		return nil, false, corrupt(errs.ErrUnknownCompressionMethod, "method %d", method)
	}

	return data, crc32.ChecksumIEEE(data) != crc, nil
}

// ReadCompressedBufferAll reads a complete compressed buffer and treats a CRC
// mismatch as corruption.
func (r *Reader) ReadCompressedBufferAll() ([]byte, error) {
	size, err := r.ReadCompressedBufferSize()
	if err != nil {
		return nil, err
	}

	data, crcFailed, err := r.ReadCompressedBuffer(size)
	if err != nil {
		return nil, err
	}
	if crcFailed {
		return nil, corrupt(errs.ErrCRCMismatch, "buffer of %d bytes", size)
	}

	return data, nil
}

// SeekPastCompressedBuffer skips a complete compressed buffer without
// materializing it. Raw payloads are skipped with SeekForward; deflate payloads
// are skipped by entering and immediately leaving their chunk.
func (r *Reader) SeekPastCompressedBuffer() error {
	size, err := r.ReadCompressedBufferSize()
	if err != nil {
		return err
	}
	if size == 0 {
		return nil
	}

	_, method, err := r.readCompressedBufferHeader()
	if err != nil {
		return err
	}

	switch method {
	case format.BufferRaw:
		return r.SeekForward(int64(size)) //nolint:gosec
	case format.BufferDeflate:
		if _, err := r.beginChunk(TCodeCompressedBuffer); err != nil {
			return err
		}

		return r.EndChunk(TCodeCompressedBuffer)
	default:
		return corrupt(errs.ErrUnknownCompressionMethod, "method %d", method)
	}
}

func (r *Reader) readCompressedBufferHeader() (uint32, format.BufferMethod, error) {
	crc, err := r.ReadUint32()
	if err != nil {
		return 0, 0, err
	}
	method, err := r.ReadUint8()
	if err != nil {
		return 0, 0, err
	}

	return crc, format.BufferMethod(method), nil
}
