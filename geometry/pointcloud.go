package geometry

import (
	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/convert"
)

// PointCloud is an unordered set of points with optional per-point normals and
// colors. Optional arrays are used only when their length equals len(Points).
type PointCloud struct {
	Points  []Point3d
	Normals []Vector3d
	Colors  []convert.Color
}

var _ Geometry = (*PointCloud)(nil)

func (*PointCloud) Kind() Kind { return KindPointCloud }

func (pc *PointCloud) BoundingBox() BoundingBox {
	box := EmptyBoundingBox()
	for _, p := range pc.Points {
		box = box.UnionPoint(p)
	}

	return box
}

func (pc *PointCloud) HasNormals() bool { return len(pc.Points) > 0 && len(pc.Normals) == len(pc.Points) }
func (pc *PointCloud) HasColors() bool  { return len(pc.Points) > 0 && len(pc.Colors) == len(pc.Points) }

func (pc *PointCloud) Write(w *archive.Writer) error {
	n := len(pc.Points)
	if err := writeCount(w, n); err != nil {
		return err
	}
	if err := writeCount(w, optionalLen(len(pc.Normals), n)); err != nil {
		return err
	}
	if err := writeCount(w, optionalLen(len(pc.Colors), n)); err != nil {
		return err
	}
	if err := writePoints3d(w, pc.Points); err != nil {
		return err
	}
	if pc.HasNormals() {
		if err := writeVectors3d(w, pc.Normals); err != nil {
			return err
		}
	}
	if pc.HasColors() {
		return writeColors(w, pc.Colors)
	}

	return nil
}

func (pc *PointCloud) Read(r *archive.Reader) error {
	var counts [3]int
	for i := range counts {
		n, err := readCount(r)
		if err != nil {
			return err
		}
		counts[i] = n
	}

	pts, err := readPoints3d(r, counts[0])
	if err != nil {
		return err
	}

	out := PointCloud{Points: pts}
	if counts[1] > 0 {
		if out.Normals, err = readVectors3d(r, counts[1]); err != nil {
			return err
		}
	}
	if counts[2] > 0 {
		if out.Colors, err = readColors(r, counts[2]); err != nil {
			return err
		}
	}
	*pc = out

	return nil
}
