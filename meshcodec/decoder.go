package meshcodec

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/onx/compress"
	"github.com/arloliu/onx/convert"
	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/format"
	"github.com/arloliu/onx/geometry"
)

// Decode reconstructs the mesh or point cloud stored in a blob. The result is
// a *geometry.Mesh or a *geometry.PointCloud, as reported by Type.
//
// A blob without a usable position attribute fails with ErrMissingPositions.
// Missing normal, texture coordinate or color attributes leave those arrays
// empty. Every error wraps errs.ErrCodecFailure; nothing is returned on
// failure.
func Decode(data []byte) (geometry.Geometry, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, wrapCodec(err)
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, wrapCodec(err)
	}
	body, err := codec.Decompress(data[HeaderSize:])
	if err != nil {
		return nil, wrapCodec(err)
	}

	b, err := parseBody(body)
	if err != nil {
		return nil, err
	}

	if h.Geometry == format.GeometryPointCloud {
		pc, err := b.pointCloud()
		if err != nil {
			return nil, err
		}

		return pc, nil
	}

	m, err := b.mesh()
	if err != nil {
		return nil, err
	}

	return m, nil
}

func wrapCodec(err error) error {
	if errors.Is(err, errs.ErrCodecFailure) {
		return err
	}

	return fmt.Errorf("%w: %w", errs.ErrCodecFailure, err)
}

// body is a parsed, validated blob body.
type body struct {
	pointCount uint32
	attributes []*attribute
	faces      []uint32 // three point ids per face
}

// find returns the first attribute of type t.
func (b *body) find(t AttributeType) *attribute {
	for _, a := range b.attributes {
		if a.Type == t {
			return a
		}
	}

	return nil
}

// cursor reads a blob body with bounds checks.
type cursor struct {
	data []byte
	off  int
}

func (c *cursor) take(n uint64) ([]byte, error) {
	if n > uint64(len(c.data)-c.off) {
		return nil, codecError("body truncated: need %d bytes at offset %d, have %d", n, c.off, len(c.data)-c.off)
	}
	out := c.data[c.off : c.off+int(n)] //nolint:gosec
	c.off += int(n)                      //nolint:gosec

	return out, nil
}

func (c *cursor) uint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (c *cursor) uint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}

	return engine.Uint32(b), nil
}

func (c *cursor) uint32s(n uint32) ([]uint32, error) {
	raw, err := c.take(uint64(n) * 4)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, n)
	for i := range out {
		out[i] = engine.Uint32(raw[i*4:])
	}

	return out, nil
}

func parseBody(data []byte) (*body, error) {
	c := &cursor{data: data}

	pointCount, err := c.uint32()
	if err != nil {
		return nil, err
	}
	faceCount, err := c.uint32()
	if err != nil {
		return nil, err
	}
	attrCount, err := c.uint8()
	if err != nil {
		return nil, err
	}

	b := &body{pointCount: pointCount, attributes: make([]*attribute, 0, attrCount)}
	for range attrCount {
		a, err := parseAttribute(c, pointCount)
		if err != nil {
			return nil, err
		}
		b.attributes = append(b.attributes, a)
	}

	if uint64(faceCount)*3 > math.MaxUint32 {
		return nil, codecError("face count %d out of range", faceCount)
	}
	if b.faces, err = c.uint32s(faceCount * 3); err != nil {
		return nil, err
	}
	for i, p := range b.faces {
		if p >= pointCount {
			return nil, codecError("face %d: point %d out of range [0,%d)", i/3, p, pointCount)
		}
	}

	if c.off != len(data) {
		return nil, codecError("%d trailing body bytes", len(data)-c.off)
	}

	return b, nil
}

func parseAttribute(c *cursor, pointCount uint32) (*attribute, error) {
	var fields [4]uint8
	for i := range fields {
		v, err := c.uint8()
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	valueCount, err := c.uint32()
	if err != nil {
		return nil, err
	}
	identity, err := c.uint8()
	if err != nil {
		return nil, err
	}

	a := &attribute{Descriptor: Descriptor{
		Type:        AttributeType(fields[0]),
		DataType:    DataType(fields[1]),
		Components:  fields[2],
		Stride:      fields[3],
		ValueCount:  valueCount,
		IdentityMap: identity != 0,
	}}
	if err := a.validate(pointCount); err != nil {
		return nil, err
	}

	if a.values, err = c.take(uint64(valueCount) * uint64(a.Stride)); err != nil {
		return nil, err
	}

	if !a.IdentityMap {
		if a.pointMap, err = c.uint32s(pointCount); err != nil {
			return nil, err
		}
		for p, v := range a.pointMap {
			if v >= valueCount {
				return nil, codecError("%s: point %d maps to value %d of %d", a.Type, p, v, valueCount)
			}
		}
	}

	return a, nil
}

// sameMapping reports whether a and b assign every point the same value index.
func sameMapping(a, b *attribute) bool {
	if a.ValueCount != b.ValueCount {
		return false
	}
	if a.IdentityMap || b.IdentityMap {
		return a.IdentityMap == b.IdentityMap
	}

	return slices.Equal(a.pointMap, b.pointMap)
}

// perVertex calls set(v, value) for each vertex v of pos that attr covers.
// When attr shares the position mapping its values line up with the vertices
// one to one; otherwise values are routed through the points.
func perVertex(b *body, pos, attr *attribute, set func(v int, value []byte)) {
	if sameMapping(pos, attr) {
		for v := range int(pos.ValueCount) {
			set(v, attr.value(uint32(v))) //nolint:gosec
		}

		return
	}

	for p := range b.pointCount {
		set(int(pos.valueIndex(p)), attr.value(attr.valueIndex(p)))
	}
}

func (b *body) mesh() (*geometry.Mesh, error) {
	pos := b.find(AttributePosition)
	if pos == nil || pos.ValueCount == 0 {
		return nil, fmt.Errorf("%w: %w", errs.ErrCodecFailure, errs.ErrMissingPositions)
	}
	if !pos.is(DataFloat32, 3) {
		return nil, codecError("mesh positions must be 3 × float32")
	}
	if pos.ValueCount > math.MaxInt32 {
		return nil, codecError("%d vertices exceed the mesh limit", pos.ValueCount)
	}

	n := int(pos.ValueCount)
	m := &geometry.Mesh{Vertices: make([]geometry.Point3f, n)}
	for v := range n {
		x, y, z := getFloat32s3(pos.value(uint32(v))) //nolint:gosec
		m.Vertices[v] = geometry.Point3f{X: x, Y: y, Z: z}
	}

	if a := b.find(AttributeNormal); a != nil {
		if !a.is(DataFloat32, 3) {
			return nil, codecError("mesh normals must be 3 × float32")
		}
		m.Normals = make([]geometry.Vector3f, n)
		perVertex(b, pos, a, func(v int, value []byte) {
			x, y, z := getFloat32s3(value)
			m.Normals[v] = geometry.Vector3f{X: x, Y: y, Z: z}
		})
	}
	if a := b.find(AttributeTexCoord); a != nil {
		if !a.is(DataFloat32, 2) {
			return nil, codecError("mesh texture coordinates must be 2 × float32")
		}
		m.TextureCoords = make([]geometry.Point2f, n)
		perVertex(b, pos, a, func(v int, value []byte) {
			m.TextureCoords[v] = geometry.Point2f{X: getFloat32(value, 0), Y: getFloat32(value, 1)}
		})
	}
	if a := b.find(AttributeColor); a != nil {
		if !a.is(DataUint8, 4) {
			return nil, codecError("mesh colors must be 4 × uint8")
		}
		m.VertexColors = make([]convert.Color, n)
		perVertex(b, pos, a, func(v int, value []byte) {
			m.VertexColors[v] = convert.ColorFromARGBBytes([4]byte(value))
		})
	}

	m.Faces = make([]geometry.MeshFace, len(b.faces)/3)
	for i := range m.Faces {
		corner := func(k int) int32 {
			return int32(pos.valueIndex(b.faces[3*i+k])) //nolint:gosec
		}
		m.Faces[i] = geometry.Triangle(corner(0), corner(1), corner(2))
	}

	return m, nil
}

func (b *body) pointCloud() (*geometry.PointCloud, error) {
	pos := b.find(AttributePosition)
	if pos == nil || pos.ValueCount == 0 || b.pointCount == 0 {
		return nil, fmt.Errorf("%w: %w", errs.ErrCodecFailure, errs.ErrMissingPositions)
	}

	n := int(b.pointCount)
	pc := &geometry.PointCloud{Points: make([]geometry.Point3d, n)}

	get3, err := vector3Reader(pos)
	if err != nil {
		return nil, err
	}
	for p := range b.pointCount {
		x, y, z := get3(pos.value(pos.valueIndex(p)))
		pc.Points[p] = geometry.Point3d{X: x, Y: y, Z: z}
	}

	if a := b.find(AttributeNormal); a != nil {
		get3, err := vector3Reader(a)
		if err != nil {
			return nil, err
		}
		pc.Normals = make([]geometry.Vector3d, n)
		for p := range b.pointCount {
			x, y, z := get3(a.value(a.valueIndex(p)))
			pc.Normals[p] = geometry.Vector3d{X: x, Y: y, Z: z}
		}
	}
	if a := b.find(AttributeColor); a != nil {
		if !a.is(DataUint8, 4) {
			return nil, codecError("point cloud colors must be 4 × uint8")
		}
		pc.Colors = make([]convert.Color, n)
		for p := range b.pointCount {
			pc.Colors[p] = convert.ColorFromARGBBytes([4]byte(a.value(a.valueIndex(p))))
		}
	}

	return pc, nil
}

// vector3Reader returns a decoder for 3-component float32 or float64 values.
func vector3Reader(a *attribute) (func([]byte) (float64, float64, float64), error) {
	switch {
	case a.is(DataFloat64, 3):
		return func(v []byte) (float64, float64, float64) {
			return getFloat64(v, 0), getFloat64(v, 1), getFloat64(v, 2)
		}, nil
	case a.is(DataFloat32, 3):
		return func(v []byte) (float64, float64, float64) {
			x, y, z := getFloat32s3(v)
			return float64(x), float64(y), float64(z)
		}, nil
	default:
		return nil, codecError("%s must be 3 × float32 or float64", a.Type)
	}
}

func getFloat32(src []byte, i int) float32 {
	return math.Float32frombits(engine.Uint32(src[i*4:]))
}

func getFloat32s3(src []byte) (float32, float32, float32) {
	return getFloat32(src, 0), getFloat32(src, 1), getFloat32(src, 2)
}

func getFloat64(src []byte, i int) float64 {
	return math.Float64frombits(engine.Uint64(src[i*8:]))
}
