package geometry

import (
	"fmt"

	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/errs"
)

// Kind tags a concrete geometry type on disk.
type Kind uint8

const (
	KindPoint Kind = iota + 1
	KindPointCloud
	KindLineCurve
	KindPolylineCurve
	KindNurbsCurve
	KindMesh
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindPointCloud:
		return "PointCloud"
	case KindLineCurve:
		return "LineCurve"
	case KindPolylineCurve:
		return "PolylineCurve"
	case KindNurbsCurve:
		return "NurbsCurve"
	case KindMesh:
		return "Mesh"
	case KindOpaque:
		return "Opaque"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Geometry is implemented by every kind in this package.
type Geometry interface {
	Kind() Kind
	BoundingBox() BoundingBox

	// Write appends the kind's payload to w.
	Write(w *archive.Writer) error
	// Read replaces the receiver's contents with the payload at r.
	Read(r *archive.Reader) error
}

var constructors = map[Kind]func() Geometry{
	KindPoint:         func() Geometry { return &Point{} },
	KindPointCloud:    func() Geometry { return &PointCloud{} },
	KindLineCurve:     func() Geometry { return &LineCurve{} },
	KindPolylineCurve: func() Geometry { return &PolylineCurve{} },
	KindNurbsCurve:    func() Geometry { return &NurbsCurve{} },
	KindMesh:          func() Geometry { return &Mesh{} },
	KindOpaque:        func() Geometry { return &Opaque{} },
}

// New returns an empty geometry of the given kind.
func New(kind Kind) (Geometry, error) {
	ctor, ok := constructors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownGeometryKind, uint8(kind))
	}

	return ctor(), nil
}

// WriteTagged writes g's kind tag followed by its payload.
func WriteTagged(w *archive.Writer, g Geometry) error {
	if err := w.WriteUint8(uint8(g.Kind())); err != nil {
		return err
	}

	return g.Write(w)
}

// ReadTagged reads a kind tag and the payload it announces.
func ReadTagged(r *archive.Reader) (Geometry, error) {
	tag, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	g, err := New(Kind(tag))
	if err != nil {
		return nil, err
	}
	if err := g.Read(r); err != nil {
		return nil, fmt.Errorf("read %s: %w", Kind(tag), err)
	}

	return g, nil
}
