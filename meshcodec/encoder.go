package meshcodec

import (
	"fmt"
	"math"

	"github.com/arloliu/onx/compress"
	"github.com/arloliu/onx/convert"
	"github.com/arloliu/onx/endian"
	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/format"
	"github.com/arloliu/onx/geometry"
	"github.com/arloliu/onx/internal/options"
	"github.com/arloliu/onx/internal/pool"
)

var engine = endian.GetLittleEndianEngine()

// source is an attribute on its way into a blob.
type source struct {
	desc Descriptor
	// put writes value i into dst, which is desc.Stride bytes long.
	put func(dst []byte, i int)
	// pointMap is nil when desc.IdentityMap is set.
	pointMap []uint32
}

// Encode compresses a mesh into a blob.
//
// Every quad is split into the triangles [0,1,2] and [2,3,0]. Each triangle
// corner becomes its own point, mapped to its vertex through an explicit point
// map, so duplicate positions are kept as they are. Normals, texture
// coordinates and colors are stored only when their length equals the vertex
// count.
func Encode(m *geometry.Mesh, opts ...Option) ([]byte, error) {
	cfg, err := configure(opts)
	if err != nil {
		return nil, err
	}
	if m == nil || len(m.Vertices) == 0 {
		return nil, fmt.Errorf("%w: %w", errs.ErrCodecFailure, errs.ErrMissingPositions)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCodecFailure, err)
	}
	if len(m.Vertices) > math.MaxInt32 {
		return nil, codecError("%d vertices exceed the blob limit", len(m.Vertices))
	}

	triangles := m.TriangleCount() + 2*m.QuadCount()
	if triangles > math.MaxUint32/3 {
		return nil, codecError("%d triangles exceed the blob limit", triangles)
	}

	corners, release := pool.GetUint32Slice(3 * triangles)
	defer release()
	k := 0
	for _, f := range m.Faces {
		corners[k], corners[k+1], corners[k+2] = uint32(f.A), uint32(f.B), uint32(f.C) //nolint:gosec
		k += 3
		if !f.IsTriangle() {
			corners[k], corners[k+1], corners[k+2] = uint32(f.C), uint32(f.D), uint32(f.A) //nolint:gosec
			k += 3
		}
	}

	n := uint32(len(m.Vertices)) //nolint:gosec
	sources := []source{{
		desc: Descriptor{Type: AttributePosition, DataType: DataFloat32, Components: 3, Stride: 12, ValueCount: n},
		put: func(dst []byte, i int) {
			putFloat32s(dst, m.Vertices[i].X, m.Vertices[i].Y, m.Vertices[i].Z)
		},
		pointMap: corners,
	}}
	if m.HasNormals() {
		sources = append(sources, source{
			desc: Descriptor{Type: AttributeNormal, DataType: DataFloat32, Components: 3, Stride: 12, ValueCount: n},
			put: func(dst []byte, i int) {
				putFloat32s(dst, m.Normals[i].X, m.Normals[i].Y, m.Normals[i].Z)
			},
			pointMap: corners,
		})
	}
	if m.HasTextureCoords() {
		sources = append(sources, source{
			desc: Descriptor{Type: AttributeTexCoord, DataType: DataFloat32, Components: 2, Stride: 8, ValueCount: n},
			put: func(dst []byte, i int) {
				putFloat32s(dst, m.TextureCoords[i].X, m.TextureCoords[i].Y)
			},
			pointMap: corners,
		})
	}
	if m.HasVertexColors() {
		sources = append(sources, colorSource(m.VertexColors, corners))
	}

	buf := pool.GetMeshBuffer()
	defer pool.PutMeshBuffer(buf)

	writeBody(buf, uint32(3*triangles), uint32(triangles), sources) //nolint:gosec
	// Triangle t uses points 3t, 3t+1 and 3t+2.
	for p := range 3 * triangles {
		buf.B = engine.AppendUint32(buf.B, uint32(p)) //nolint:gosec
	}

	return finish(format.GeometryMesh, buf.B, cfg)
}

// EncodePointCloud compresses a point cloud into a blob. Points are stored as
// float64 so locations survive exactly. Normals and colors are stored only
// when their length equals the point count.
func EncodePointCloud(pc *geometry.PointCloud, opts ...Option) ([]byte, error) {
	cfg, err := configure(opts)
	if err != nil {
		return nil, err
	}
	if pc == nil || len(pc.Points) == 0 {
		return nil, fmt.Errorf("%w: %w", errs.ErrCodecFailure, errs.ErrMissingPositions)
	}
	if len(pc.Points) > math.MaxInt32 {
		return nil, codecError("%d points exceed the blob limit", len(pc.Points))
	}

	n := uint32(len(pc.Points)) //nolint:gosec
	sources := []source{{
		desc: Descriptor{Type: AttributePosition, DataType: DataFloat64, Components: 3, Stride: 24, ValueCount: n, IdentityMap: true},
		put: func(dst []byte, i int) {
			putFloat64s(dst, pc.Points[i].X, pc.Points[i].Y, pc.Points[i].Z)
		},
	}}
	if pc.HasNormals() {
		sources = append(sources, source{
			desc: Descriptor{Type: AttributeNormal, DataType: DataFloat64, Components: 3, Stride: 24, ValueCount: n, IdentityMap: true},
			put: func(dst []byte, i int) {
				putFloat64s(dst, pc.Normals[i].X, pc.Normals[i].Y, pc.Normals[i].Z)
			},
		})
	}
	if pc.HasColors() {
		sources = append(sources, colorSource(pc.Colors, nil))
	}

	buf := pool.GetMeshBuffer()
	defer pool.PutMeshBuffer(buf)

	writeBody(buf, n, 0, sources)

	return finish(format.GeometryPointCloud, buf.B, cfg)
}

func configure(opts []Option) (Config, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// colorSource stores colors as {alpha, red, green, blue} bytes.
func colorSource(colors []convert.Color, pointMap []uint32) source {
	return source{
		desc: Descriptor{
			Type:        AttributeColor,
			DataType:    DataUint8,
			Components:  4,
			Stride:      4,
			ValueCount:  uint32(len(colors)), //nolint:gosec
			IdentityMap: pointMap == nil,
		},
		put: func(dst []byte, i int) {
			argb := colors[i].ARGBBytes()
			copy(dst, argb[:])
		},
		pointMap: pointMap,
	}
}

// writeBody appends the counts, then each attribute's descriptor, values and
// point map. Faces, if any, are appended by the caller.
func writeBody(buf *pool.ByteBuffer, pointCount, faceCount uint32, sources []source) {
	buf.B = engine.AppendUint32(buf.B, pointCount)
	buf.B = engine.AppendUint32(buf.B, faceCount)
	buf.AppendByte(uint8(len(sources))) //nolint:gosec

	for _, s := range sources {
		d := s.desc
		buf.AppendByte(uint8(d.Type))
		buf.AppendByte(uint8(d.DataType))
		buf.AppendByte(d.Components)
		buf.AppendByte(d.Stride)
		buf.B = engine.AppendUint32(buf.B, d.ValueCount)
		if d.IdentityMap {
			buf.AppendByte(1)
		} else {
			buf.AppendByte(0)
		}

		stride := int(d.Stride)
		start := len(buf.B)
		buf.ExtendOrGrow(int(d.ValueCount) * stride)
		for i := range int(d.ValueCount) {
			off := start + i*stride
			s.put(buf.B[off:off+stride], i)
		}

		if !d.IdentityMap {
			for _, v := range s.pointMap {
				buf.B = engine.AppendUint32(buf.B, v)
			}
		}
	}
}

// finish compresses body and prepends the header.
func finish(geom format.GeometryType, body []byte, cfg Config) ([]byte, error) {
	codec, err := compress.CodecForSpeed(cfg.Compression, cfg.Speed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCodecFailure, err)
	}
	compressed, err := codec.Compress(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCodecFailure, err)
	}

	h := Header{
		Version:     FormatVersion,
		Geometry:    geom,
		Compression: cfg.Compression,
		Speed:       uint8(cfg.Speed), //nolint:gosec
	}
	out := make([]byte, 0, HeaderSize+len(compressed))
	out = append(out, h.Bytes()...)

	return append(out, compressed...), nil
}

func putFloat32s(dst []byte, vals ...float32) {
	for i, v := range vals {
		engine.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

func putFloat64s(dst []byte, vals ...float64) {
	for i, v := range vals {
		engine.PutUint64(dst[i*8:], math.Float64bits(v))
	}
}
