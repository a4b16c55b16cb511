package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(8)
	n, err := bb.Write([]byte("chunk"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	bb.AppendByte('!')
	require.Equal(t, []byte("chunk!"), bb.Bytes())
	require.Equal(t, 6, bb.Len())

	bb.Reset()
	require.Zero(t, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 8)
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte{1, 2, 3, 4})

	bb.ExtendOrGrow(8)
	require.Equal(t, 12, bb.Len())
	require.Equal(t, 16, bb.Cap(), "spare capacity is used in place")

	bb.ExtendOrGrow(8)
	require.Equal(t, 20, bb.Len())
	require.Equal(t, []byte{1, 2, 3, 4}, bb.B[:4])
}

func TestByteBuffer_GrowLarge(t *testing.T) {
	bb := NewByteBuffer(MeshBufferDefaultSize)
	bb.MustWrite(make([]byte, MeshBufferDefaultSize))

	bb.Grow(MeshBufferDefaultSize * 10)
	require.GreaterOrEqual(t, bb.Cap(), MeshBufferDefaultSize*11)
	require.Equal(t, MeshBufferDefaultSize, bb.Len())
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte("abc"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, "abc", out.String())
}

func TestPools(t *testing.T) {
	mesh := GetMeshBuffer()
	require.Zero(t, mesh.Len())
	require.GreaterOrEqual(t, mesh.Cap(), MeshBufferDefaultSize)
	mesh.MustWrite([]byte("x"))
	PutMeshBuffer(mesh)

	arc := GetArchiveBuffer()
	require.Zero(t, arc.Len())
	require.GreaterOrEqual(t, arc.Cap(), ArchiveBufferDefaultSize)
	PutArchiveBuffer(arc)

	require.NotPanics(t, func() { PutArchiveBuffer(nil) })
}

func TestPool_DiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(16, 64)
	bb := p.Get()
	bb.Grow(1024)
	p.Put(bb)

	again := p.Get()
	require.Zero(t, again.Len())
}
