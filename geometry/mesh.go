package geometry

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/convert"
	"github.com/arloliu/onx/errs"
)

// MeshFace indexes three or four mesh vertices. A triangle repeats its third
// index: C == D.
type MeshFace struct {
	A, B, C, D int32
}

// Triangle returns a triangular face.
func Triangle(a, b, c int32) MeshFace {
	return MeshFace{a, b, c, c}
}

// Quad returns a quadrilateral face.
func Quad(a, b, c, d int32) MeshFace {
	return MeshFace{a, b, c, d}
}

// IsTriangle reports whether the face has three distinct slots.
func (f MeshFace) IsTriangle() bool {
	return f.C == f.D
}

// Mesh is a polygon mesh of triangles and quads. Normals, TextureCoords and
// VertexColors are per-vertex and are only meaningful when their length equals
// len(Vertices).
type Mesh struct {
	Vertices      []Point3f
	Normals       []Vector3f
	TextureCoords []Point2f
	VertexColors  []convert.Color
	Faces         []MeshFace
}

var _ Geometry = (*Mesh)(nil)

func (*Mesh) Kind() Kind { return KindMesh }

// BoundingBox covers every vertex, including ones no face uses.
func (m *Mesh) BoundingBox() BoundingBox {
	if len(m.Vertices) == 0 {
		return EmptyBoundingBox()
	}

	lo, hi := m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = Point3f{math32.Min(lo.X, v.X), math32.Min(lo.Y, v.Y), math32.Min(lo.Z, v.Z)}
		hi = Point3f{math32.Max(hi.X, v.X), math32.Max(hi.Y, v.Y), math32.Max(hi.Z, v.Z)}
	}

	return BoundingBox{Min: lo.ToDouble(), Max: hi.ToDouble()}
}

// TriangleCount returns the number of triangular faces.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, f := range m.Faces {
		if f.IsTriangle() {
			n++
		}
	}

	return n
}

// QuadCount returns the number of quadrilateral faces.
func (m *Mesh) QuadCount() int {
	return len(m.Faces) - m.TriangleCount()
}

func (m *Mesh) HasNormals() bool       { return len(m.Vertices) > 0 && len(m.Normals) == len(m.Vertices) }
func (m *Mesh) HasTextureCoords() bool { return len(m.Vertices) > 0 && len(m.TextureCoords) == len(m.Vertices) }
func (m *Mesh) HasVertexColors() bool  { return len(m.Vertices) > 0 && len(m.VertexColors) == len(m.Vertices) }

// Validate checks that every face index refers to a vertex.
func (m *Mesh) Validate() error {
	n := int32(len(m.Vertices)) //nolint:gosec
	for i, f := range m.Faces {
		for _, idx := range [4]int32{f.A, f.B, f.C, f.D} {
			if idx < 0 || idx >= n {
				return fmt.Errorf("face %d: vertex index %d out of range [0,%d)", i, idx, n)
			}
		}
	}

	return nil
}

// FaceNormal returns the unit normal of face i, computed from its first three
// vertices. A degenerate face yields the zero vector.
func (m *Mesh) FaceNormal(i int) Vector3f {
	f := m.Faces[i]
	a, b, c := m.Vertices[f.A], m.Vertices[f.B], m.Vertices[f.C]

	u := Vector3f{b.X - a.X, b.Y - a.Y, b.Z - a.Z}
	v := Vector3f{c.X - a.X, c.Y - a.Y, c.Z - a.Z}

	return unitize(Vector3f{
		X: u.Y*v.Z - u.Z*v.Y,
		Y: u.Z*v.X - u.X*v.Z,
		Z: u.X*v.Y - u.Y*v.X,
	})
}

// UnitizeNormals scales every vertex normal to unit length.
func (m *Mesh) UnitizeNormals() {
	for i, n := range m.Normals {
		m.Normals[i] = unitize(n)
	}
}

func unitize(v Vector3f) Vector3f {
	l := math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	if l == 0 || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return Vector3f{}
	}

	return Vector3f{v.X / l, v.Y / l, v.Z / l}
}

// Write stores the vertex and face counts and one flag per optional array,
// followed by compressed buffers for the vertices, the present optional arrays
// and the faces.
func (m *Mesh) Write(w *archive.Writer) error {
	if err := m.Validate(); err != nil {
		return err
	}

	n := len(m.Vertices)
	if err := writeCount(w, n); err != nil {
		return err
	}
	if err := writeCount(w, len(m.Faces)); err != nil {
		return err
	}

	hasNormals, hasUV, hasColors := m.HasNormals(), m.HasTextureCoords(), m.HasVertexColors()
	for _, flag := range [3]bool{hasNormals, hasUV, hasColors} {
		if err := w.WriteBool(flag); err != nil {
			return err
		}
	}

	err := writePacked(w, n, 12, func(dst []byte, i int) {
		putFloat32s(dst, m.Vertices[i].X, m.Vertices[i].Y, m.Vertices[i].Z)
	})
	if err != nil {
		return err
	}

	if hasNormals {
		err := writePacked(w, n, 12, func(dst []byte, i int) {
			putFloat32s(dst, m.Normals[i].X, m.Normals[i].Y, m.Normals[i].Z)
		})
		if err != nil {
			return err
		}
	}
	if hasUV {
		err := writePacked(w, n, 8, func(dst []byte, i int) {
			putFloat32s(dst, m.TextureCoords[i].X, m.TextureCoords[i].Y)
		})
		if err != nil {
			return err
		}
	}
	if hasColors {
		if err := writeColors(w, m.VertexColors); err != nil {
			return err
		}
	}

	return writePacked(w, len(m.Faces), 16, func(dst []byte, i int) {
		f := m.Faces[i]
		engine.PutUint32(dst[0:], uint32(f.A)) //nolint:gosec
		engine.PutUint32(dst[4:], uint32(f.B)) //nolint:gosec
		engine.PutUint32(dst[8:], uint32(f.C)) //nolint:gosec
		engine.PutUint32(dst[12:], uint32(f.D)) //nolint:gosec
	})
}

func (m *Mesh) Read(r *archive.Reader) error {
	n, err := readCount(r)
	if err != nil {
		return err
	}
	faceCount, err := readCount(r)
	if err != nil {
		return err
	}

	var flags [3]bool
	for i := range flags {
		if flags[i], err = r.ReadBool(); err != nil {
			return err
		}
	}

	out := Mesh{}
	out.Vertices, err = readPacked(r, n, 12, func(src []byte) Point3f {
		return Point3f{getFloat32(src, 0), getFloat32(src, 1), getFloat32(src, 2)}
	})
	if err != nil {
		return err
	}

	if flags[0] {
		out.Normals, err = readPacked(r, n, 12, func(src []byte) Vector3f {
			return Vector3f{getFloat32(src, 0), getFloat32(src, 1), getFloat32(src, 2)}
		})
		if err != nil {
			return err
		}
	}
	if flags[1] {
		out.TextureCoords, err = readPacked(r, n, 8, func(src []byte) Point2f {
			return Point2f{getFloat32(src, 0), getFloat32(src, 1)}
		})
		if err != nil {
			return err
		}
	}
	if flags[2] {
		if out.VertexColors, err = readColors(r, n); err != nil {
			return err
		}
	}

	out.Faces, err = readPacked(r, faceCount, 16, func(src []byte) MeshFace {
		return MeshFace{
			A: int32(engine.Uint32(src[0:])),  //nolint:gosec
			B: int32(engine.Uint32(src[4:])),  //nolint:gosec
			C: int32(engine.Uint32(src[8:])),  //nolint:gosec
			D: int32(engine.Uint32(src[12:])), //nolint:gosec
		}
	})
	if err != nil {
		return err
	}
	if err := out.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrCorruptArchive, err)
	}

	*m = out

	return nil
}
