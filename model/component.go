package model

import (
	"github.com/google/uuid"

	"github.com/arloliu/onx/convert"
	"github.com/arloliu/onx/embedfile"
	"github.com/arloliu/onx/geometry"
)

// Component is implemented by every table entry.
type Component interface {
	Header() *ComponentHeader
}

// ComponentHeader holds the identity every component shares. ID never changes;
// Index is the component's position in its table and may be renumbered by
// Table.Compact.
type ComponentHeader struct {
	ID    uuid.UUID
	Index int
	Name  string
}

// Header returns h itself, so embedding ComponentHeader implements Component.
func (h *ComponentHeader) Header() *ComponentHeader { return h }

// Material describes surface appearance.
type Material struct {
	ComponentHeader `cbor:"-"`

	DiffuseColor     convert.Color `cbor:"1,keyasint"`
	SpecularColor    convert.Color `cbor:"2,keyasint"`
	Shine            float64       `cbor:"3,keyasint"`
	Transparency     float64       `cbor:"4,keyasint"`
	RenderMaterialID uuid.UUID     `cbor:"5,keyasint"`
}

// Layer groups objects for visibility and display.
type Layer struct {
	ComponentHeader `cbor:"-"`

	ParentID      uuid.UUID     `cbor:"1,keyasint"`
	Color         convert.Color `cbor:"2,keyasint"`
	Visible       bool          `cbor:"3,keyasint"`
	Locked        bool          `cbor:"4,keyasint"`
	MaterialIndex int           `cbor:"5,keyasint"`
}

// Group is a named set of objects. Membership is recorded on the objects.
type Group struct {
	ComponentHeader `cbor:"-"`
}

// DimStyle holds dimension and annotation settings.
type DimStyle struct {
	ComponentHeader `cbor:"-"`

	TextHeight          float64 `cbor:"1,keyasint"`
	ArrowSize           float64 `cbor:"2,keyasint"`
	ExtensionLineOffset float64 `cbor:"3,keyasint"`
	Font                string  `cbor:"4,keyasint"`
}

// InstanceDefinition is a block definition: a named set of objects that
// instance references place in the model.
type InstanceDefinition struct {
	ComponentHeader `cbor:"-"`

	Description string      `cbor:"1,keyasint"`
	URL         string      `cbor:"2,keyasint"`
	ObjectIDs   []uuid.UUID `cbor:"3,keyasint"`
}

// Bitmap references an image used by materials or backgrounds.
type Bitmap struct {
	ComponentHeader `cbor:"-"`

	FileName string `cbor:"1,keyasint"`
	Width    int    `cbor:"2,keyasint"`
	Height   int    `cbor:"3,keyasint"`
}

// Projection is a view projection.
type Projection uint8

const (
	ProjectionParallel Projection = iota
	ProjectionPerspective
)

// View is a viewport camera. The document stores model viewports and named
// views in separate tables of this type.
type View struct {
	ComponentHeader `cbor:"-"`

	Projection Projection        `cbor:"1,keyasint"`
	Location   geometry.Point3d  `cbor:"2,keyasint"`
	Target     geometry.Point3d  `cbor:"3,keyasint"`
	Up         geometry.Vector3d `cbor:"4,keyasint"`
	LensLength float64           `cbor:"5,keyasint"`
}

// RenderContent is a renderer-owned material, environment or texture, kept as
// the renderer's XML.
type RenderContent struct {
	ComponentHeader `cbor:"-"`

	Kind   string    `cbor:"1,keyasint"`
	TypeID uuid.UUID `cbor:"2,keyasint"`
	XML    string    `cbor:"3,keyasint"`
}

// UserData is a plug-in's private data attached to the document.
type UserData struct {
	ComponentHeader

	ApplicationID  uuid.UUID
	ArchiveVersion int
	KernelVersion  uint32
	Goo            []byte
}

// Record returns the data in the form embedfile reads.
func (u *UserData) Record() embedfile.Record {
	return embedfile.Record{
		ApplicationID:  u.ApplicationID,
		ArchiveVersion: u.ArchiveVersion,
		KernelVersion:  u.KernelVersion,
		Goo:            u.Goo,
	}
}

// UserDataFromRecord wraps rec as a document component.
func UserDataFromRecord(rec embedfile.Record) *UserData {
	return &UserData{
		ApplicationID:  rec.ApplicationID,
		ArchiveVersion: rec.ArchiveVersion,
		KernelVersion:  rec.KernelVersion,
		Goo:            rec.Goo,
	}
}
