package model

import (
	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/embedfile"
	"github.com/arloliu/onx/geometry"
)

// Document is an in-memory model: descriptive properties, settings and the
// component tables.
//
// Note: Document is NOT thread-safe. Callers must serialize access to a single
// document.
type Document struct {
	Properties Properties
	Settings   Settings

	Materials           *Table[*Material]
	Layers              *Table[*Layer]
	Groups              *Table[*Group]
	DimStyles           *Table[*DimStyle]
	InstanceDefinitions *Table[*InstanceDefinition]
	Bitmaps             *Table[*Bitmap]
	Objects             *Table[*ModelObject]
	Views               *Table[*View]
	NamedViews          *Table[*View]
	RenderContent       *Table[*RenderContent]
	PlugInData          *Table[*UserData]
	Strings             *Strings

	// Comment and ArchiveVersion describe the start section of the archive a
	// read document came from. ArchiveVersion is an on-disk version.
	Comment        string
	ArchiveVersion int
}

// New returns an empty document with default settings.
func New() *Document {
	return &Document{
		Settings:            DefaultSettings(),
		Materials:           NewTable[*Material]("materials"),
		Layers:              NewTable[*Layer]("layers"),
		Groups:              NewTable[*Group]("groups"),
		DimStyles:           NewTable[*DimStyle]("dimstyles"),
		InstanceDefinitions: NewTable[*InstanceDefinition]("instance definitions"),
		Bitmaps:             NewTable[*Bitmap]("bitmaps"),
		Objects:             NewTable[*ModelObject]("objects"),
		Views:               NewTable[*View]("views"),
		NamedViews:          NewTable[*View]("named views"),
		RenderContent:       NewTable[*RenderContent]("render content"),
		PlugInData:          NewTable[*UserData]("plug-in data"),
		Strings:             NewStrings(),
	}
}

// GetBoundingBox returns the union of the boxes of every active object. A
// document without active geometry yields an invalid box.
func (d *Document) GetBoundingBox() geometry.BoundingBox {
	box := geometry.EmptyBoundingBox()
	for _, obj := range d.Objects.All() {
		if obj.Geometry == nil || !obj.Attributes.IsActive() {
			continue
		}
		box = box.Union(obj.Geometry.BoundingBox())
	}

	return box
}

// documentInfo returns the document information user data record, if any.
func (d *Document) documentInfo() (*UserData, bool) {
	for _, ud := range d.PlugInData.All() {
		if ud.ApplicationID == embedfile.DocumentInfoID {
			return ud, true
		}
	}

	return nil, false
}

// EmbeddedFilePaths lists the files embedded in the document, in the order they
// were stored.
func (d *Document) EmbeddedFilePaths() ([]string, error) {
	ud, ok := d.documentInfo()
	if !ok {
		return nil, nil
	}

	return embedfile.ExtractPaths(ud.Record())
}

// EmbeddedFile returns the contents of an embedded file. See
// embedfile.ExtractBuffer for the matching rules.
func (d *Document) EmbeddedFile(path string, strict bool) ([]byte, bool, error) {
	ud, ok := d.documentInfo()
	if !ok {
		return nil, false, nil
	}

	return embedfile.ExtractBuffer(ud.Record(), path, strict)
}

// SetEmbeddedFiles replaces the embedded files with files.
func (d *Document) SetEmbeddedFiles(files []embedfile.File) error {
	rec, err := embedfile.Build(files, nil, archive.OnDiskVersion(archive.CurrentVersion))
	if err != nil {
		return err
	}

	if ud, ok := d.documentInfo(); ok {
		ud.ArchiveVersion = rec.ArchiveVersion
		ud.KernelVersion = rec.KernelVersion
		ud.Goo = rec.Goo

		return nil
	}

	ud := UserDataFromRecord(rec)
	ud.Name = "document information"
	_, err = d.PlugInData.Add(ud)

	return err
}
