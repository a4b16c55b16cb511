package geometry

import "math"

// BoundingBox is an axis-aligned box. A box whose Min exceeds its Max on any
// axis is invalid; EmptyBoundingBox returns the canonical invalid box.
type BoundingBox struct {
	Min Point3d
	Max Point3d
}

// EmptyBoundingBox returns a box that contains nothing. Its union with any point
// or valid box is that point or box.
func EmptyBoundingBox() BoundingBox {
	inf := math.Inf(1)

	return BoundingBox{
		Min: Point3d{inf, inf, inf},
		Max: Point3d{-inf, -inf, -inf},
	}
}

// IsValid reports whether the box contains at least one point.
func (b BoundingBox) IsValid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// UnionPoint grows the box to contain p.
func (b BoundingBox) UnionPoint(p Point3d) BoundingBox {
	return BoundingBox{
		Min: Point3d{min(b.Min.X, p.X), min(b.Min.Y, p.Y), min(b.Min.Z, p.Z)},
		Max: Point3d{max(b.Max.X, p.X), max(b.Max.Y, p.Y), max(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing b and o. Invalid boxes are ignored.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	switch {
	case !o.IsValid():
		return b
	case !b.IsValid():
		return o
	}

	return b.UnionPoint(o.Min).UnionPoint(o.Max)
}

// Center returns the midpoint of a valid box.
func (b BoundingBox) Center() Point3d {
	return Point3d{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// Diagonal returns Max - Min.
func (b BoundingBox) Diagonal() Vector3d {
	return Vector3d{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
}
