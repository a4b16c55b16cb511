package model

import (
	"github.com/arloliu/onx/convert"
	"github.com/arloliu/onx/geometry"
)

// ObjectMode controls whether an object can be seen and selected.
type ObjectMode uint8

const (
	ModeNormal ObjectMode = iota
	ModeHidden
	ModeLocked
)

func (m ObjectMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeHidden:
		return "hidden"
	case ModeLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// ColorSource selects where an object's display color comes from.
type ColorSource uint8

const (
	ColorFromLayer ColorSource = iota
	ColorFromObject
	ColorFromMaterial
)

// Attributes are the per-object properties stored next to its geometry.
type Attributes struct {
	LayerIndex    int               `cbor:"1,keyasint"`
	MaterialIndex int               `cbor:"2,keyasint"`
	Visible       bool              `cbor:"3,keyasint"`
	Mode          ObjectMode        `cbor:"4,keyasint"`
	ColorSource   ColorSource       `cbor:"5,keyasint"`
	Color         convert.Color     `cbor:"6,keyasint"`
	GroupIndices  []int             `cbor:"7,keyasint,omitempty"`
	UserStrings   map[string]string `cbor:"8,keyasint,omitempty"`
}

// DefaultAttributes returns visible, normal-mode attributes on layer 0 with no
// material.
func DefaultAttributes() Attributes {
	return Attributes{
		MaterialIndex: -1,
		Visible:       true,
		Mode:          ModeNormal,
		Color:         convert.Unset,
	}
}

// IsActive reports whether the object takes part in extents and display.
func (a Attributes) IsActive() bool {
	return a.Visible && a.Mode != ModeHidden
}

// ModelObject is a geometry object in the document. The object's name is its
// component name.
type ModelObject struct {
	ComponentHeader

	Attributes Attributes
	Geometry   geometry.Geometry
}

// NewObject wraps g with default attributes.
func NewObject(g geometry.Geometry) *ModelObject {
	return &ModelObject{Attributes: DefaultAttributes(), Geometry: g}
}
