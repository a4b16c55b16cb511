package pool

import (
	"io"
	"sync"
)

// Pool sizing. Mesh blobs are small and short lived; archive buffers hold a whole
// document while it is written.
const (
	MeshBufferDefaultSize     = 1024 * 16        // 16KiB
	MeshBufferMaxThreshold    = 1024 * 256       // 256KiB
	ArchiveBufferDefaultSize  = 1024 * 64        // 64KiB
	ArchiveBufferMaxThreshold = 1024 * 1024 * 16 // 16MiB
)

// ByteBuffer is an append-only byte slice that can be recycled through a
// ByteBufferPool. Encoders append to B directly with the endian Append helpers.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer returns an empty buffer with capacity size.
func NewByteBuffer(size int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, size)}
}

func (bb *ByteBuffer) Bytes() []byte { return bb.B }
func (bb *ByteBuffer) Len() int      { return len(bb.B) }
func (bb *ByteBuffer) Cap() int      { return cap(bb.B) }

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// MustWrite appends data.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// AppendByte appends a single byte.
func (bb *ByteBuffer) AppendByte(b byte) {
	bb.B = append(bb.B, b)
}

// Write implements io.Writer. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the whole buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ExtendOrGrow lengthens the buffer by n bytes, reallocating when the spare
// capacity is too small. The new bytes are left for the caller to fill; they are
// not guaranteed to be zero.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	start := len(bb.B)
	bb.Grow(n)
	bb.B = bb.B[:start+n]
}

// Grow makes room for n more bytes. Buffers up to four mesh chunks grow by
// MeshBufferDefaultSize; larger ones grow by a quarter of their capacity, and
// never by less than n.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	step := MeshBufferDefaultSize
	if cap(bb.B) > 4*MeshBufferDefaultSize {
		step = cap(bb.B) / 4
	}
	step = max(step, n)

	grown := make([]byte, len(bb.B), len(bb.B)+step)
	copy(grown, bb.B)
	bb.B = grown
}

// ByteBufferPool recycles ByteBuffers. Buffers that grew past maxThreshold are
// dropped on Put instead of being kept alive by the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool returns a pool whose new buffers have capacity size. A
// maxThreshold of zero keeps buffers of any size.
func NewByteBufferPool(size int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool:         sync.Pool{New: func() any { return NewByteBuffer(size) }},
		maxThreshold: maxThreshold,
	}
}

// Get returns an empty buffer.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put resets bb and returns it to the pool. Nil is ignored.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil || (p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold) {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var (
	meshPool    = NewByteBufferPool(MeshBufferDefaultSize, MeshBufferMaxThreshold)
	archivePool = NewByteBufferPool(ArchiveBufferDefaultSize, ArchiveBufferMaxThreshold)
)

// GetMeshBuffer returns a buffer for encoding a mesh blob body.
func GetMeshBuffer() *ByteBuffer { return meshPool.Get() }

// PutMeshBuffer recycles a buffer from GetMeshBuffer.
func PutMeshBuffer(bb *ByteBuffer) { meshPool.Put(bb) }

// GetArchiveBuffer returns a buffer for writing a whole archive.
func GetArchiveBuffer() *ByteBuffer { return archivePool.Get() }

// PutArchiveBuffer recycles a buffer from GetArchiveBuffer.
func PutArchiveBuffer(bb *ByteBuffer) { archivePool.Put(bb) }
