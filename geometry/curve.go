package geometry

import (
	"fmt"

	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/errs"
)

// LineCurve is a straight segment.
type LineCurve struct {
	From, To Point3d
}

var _ Geometry = (*LineCurve)(nil)

func (*LineCurve) Kind() Kind { return KindLineCurve }

func (c *LineCurve) BoundingBox() BoundingBox {
	return EmptyBoundingBox().UnionPoint(c.From).UnionPoint(c.To)
}

func (c *LineCurve) Write(w *archive.Writer) error {
	if err := writePoint3d(w, c.From); err != nil {
		return err
	}

	return writePoint3d(w, c.To)
}

func (c *LineCurve) Read(r *archive.Reader) error {
	from, err := readPoint3d(r)
	if err != nil {
		return err
	}
	to, err := readPoint3d(r)
	if err != nil {
		return err
	}
	c.From, c.To = from, to

	return nil
}

// PolylineCurve is a sequence of connected segments.
type PolylineCurve struct {
	Points []Point3d
}

var _ Geometry = (*PolylineCurve)(nil)

func (*PolylineCurve) Kind() Kind { return KindPolylineCurve }

func (c *PolylineCurve) BoundingBox() BoundingBox {
	box := EmptyBoundingBox()
	for _, p := range c.Points {
		box = box.UnionPoint(p)
	}

	return box
}

// IsClosed reports whether the last point coincides with the first.
func (c *PolylineCurve) IsClosed() bool {
	n := len(c.Points)
	return n > 2 && c.Points[0] == c.Points[n-1]
}

func (c *PolylineCurve) Write(w *archive.Writer) error {
	if err := writeCount(w, len(c.Points)); err != nil {
		return err
	}

	return writePoints3d(w, c.Points)
}

func (c *PolylineCurve) Read(r *archive.Reader) error {
	n, err := readCount(r)
	if err != nil {
		return err
	}
	pts, err := readPoints3d(r, n)
	if err != nil {
		return err
	}
	c.Points = pts

	return nil
}

// NurbsCurve is a non-uniform rational B-spline. Control points are stored
// homogeneous; for non-rational curves every weight is 1.
//
// Evaluation belongs to the geometry kernel. This type only carries the
// definition and derives a bounding box from the control hull, which always
// contains the curve.
type NurbsCurve struct {
	Dimension     int
	Rational      bool
	Order         int
	ControlPoints []Point4d
	Knots         []float64
}

var _ Geometry = (*NurbsCurve)(nil)

func (*NurbsCurve) Kind() Kind { return KindNurbsCurve }

func (c *NurbsCurve) BoundingBox() BoundingBox {
	box := EmptyBoundingBox()
	for _, cv := range c.ControlPoints {
		box = box.UnionPoint(cv.Euclidean())
	}

	return box
}

// IsValid checks the relation between order, control point count and knot
// count: a curve of order k with n control points has n+k-2 knots.
func (c *NurbsCurve) IsValid() bool {
	n := len(c.ControlPoints)
	return c.Order >= 2 && n >= c.Order && len(c.Knots) == n+c.Order-2
}

func (c *NurbsCurve) Write(w *archive.Writer) error {
	if err := w.WriteInt32(int32(c.Dimension)); err != nil { //nolint:gosec
		return err
	}
	if err := w.WriteBool(c.Rational); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(c.Order)); err != nil { //nolint:gosec
		return err
	}
	if err := writeCount(w, len(c.ControlPoints)); err != nil {
		return err
	}
	if err := writeCount(w, len(c.Knots)); err != nil {
		return err
	}

	err := writePacked(w, len(c.ControlPoints), 32, func(dst []byte, i int) {
		cv := c.ControlPoints[i]
		putFloat64s(dst, cv.X, cv.Y, cv.Z, cv.W)
	})
	if err != nil {
		return err
	}

	return writePacked(w, len(c.Knots), 8, func(dst []byte, i int) {
		putFloat64s(dst, c.Knots[i])
	})
}

func (c *NurbsCurve) Read(r *archive.Reader) error {
	dim, err := r.ReadInt32()
	if err != nil {
		return err
	}
	rational, err := r.ReadBool()
	if err != nil {
		return err
	}
	order, err := r.ReadInt32()
	if err != nil {
		return err
	}
	if dim < 1 || order < 1 {
		return fmt.Errorf("%w: nurbs dimension %d order %d", errs.ErrCorruptArchive, dim, order)
	}

	cvCount, err := readCount(r)
	if err != nil {
		return err
	}
	knotCount, err := readCount(r)
	if err != nil {
		return err
	}

	cvs, err := readPacked(r, cvCount, 32, func(src []byte) Point4d {
		return Point4d{getFloat64(src, 0), getFloat64(src, 1), getFloat64(src, 2), getFloat64(src, 3)}
	})
	if err != nil {
		return err
	}
	knots, err := readPacked(r, knotCount, 8, func(src []byte) float64 {
		return getFloat64(src, 0)
	})
	if err != nil {
		return err
	}

	*c = NurbsCurve{
		Dimension:     int(dim),
		Rational:      rational,
		Order:         int(order),
		ControlPoints: cvs,
		Knots:         knots,
	}

	return nil
}
