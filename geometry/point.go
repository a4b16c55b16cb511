package geometry

import "github.com/arloliu/onx/archive"

// Point3d is a double precision location.
type Point3d struct {
	X, Y, Z float64
}

// Vector3d is a double precision direction.
type Vector3d struct {
	X, Y, Z float64
}

// Point3f is a single precision location, used for mesh vertices.
type Point3f struct {
	X, Y, Z float32
}

// Vector3f is a single precision direction, used for mesh normals.
type Vector3f struct {
	X, Y, Z float32
}

// Point2f is a texture coordinate.
type Point2f struct {
	X, Y float32
}

// Point4d is a homogeneous control point. W is 1 for non-rational curves.
type Point4d struct {
	X, Y, Z, W float64
}

// Euclidean returns the point divided by its weight.
func (p Point4d) Euclidean() Point3d {
	if p.W == 0 || p.W == 1 {
		return Point3d{p.X, p.Y, p.Z}
	}

	return Point3d{p.X / p.W, p.Y / p.W, p.Z / p.W}
}

// ToDouble widens p.
func (p Point3f) ToDouble() Point3d {
	return Point3d{float64(p.X), float64(p.Y), float64(p.Z)}
}

// Point is a single point object.
type Point struct {
	Location Point3d
}

var _ Geometry = (*Point)(nil)

func (*Point) Kind() Kind { return KindPoint }

func (p *Point) BoundingBox() BoundingBox {
	return EmptyBoundingBox().UnionPoint(p.Location)
}

func (p *Point) Write(w *archive.Writer) error {
	return writePoint3d(w, p.Location)
}

func (p *Point) Read(r *archive.Reader) error {
	loc, err := readPoint3d(r)
	if err != nil {
		return err
	}
	p.Location = loc

	return nil
}
