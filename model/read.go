package model

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/convert"
	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/geometry"
	"github.com/arloliu/onx/internal/options"
)

// Read loads the document stored at path.
func Read(path string, opts ...ReadOption) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return ReadFrom(bytes.NewReader(data), opts...)
}

// ReadFrom loads a document from rs. On any failure the document is nil; a
// partially read model is never returned.
func ReadFrom(rs io.ReadSeeker, opts ...ReadOption) (*Document, error) {
	cfg := defaultReadOptions()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	r, err := archive.NewReader(rs)
	if err != nil {
		return nil, err
	}

	dr := docReader{r: r, log: cfg.logger}
	d, err := dr.document()
	if err != nil {
		return nil, err
	}

	return d, nil
}

// FromByteArray loads a document from archive bytes.
func FromByteArray(data []byte, opts ...ReadOption) (*Document, error) {
	return ReadFrom(bytes.NewReader(data), opts...)
}

// Decode loads a document from the base64 text produced by Encode.
func Decode(text string, opts ...ReadOption) (*Document, error) {
	data, err := convert.DecodeBase64(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptArchive, err)
	}

	return FromByteArray(data, opts...)
}

// ReadNotes returns the notes text of the archive at path. Only the start
// section and the properties table are read.
func ReadNotes(path string) (string, error) {
	fr, err := archive.OpenForRead(path)
	if err != nil {
		return "", err
	}
	defer fr.Close()

	return readNotes(fr.Reader)
}

// ReadArchiveVersion returns the user-facing version of the archive at path.
// Only the start section is read.
func ReadArchiveVersion(path string) (int, error) {
	fr, err := archive.OpenForRead(path)
	if err != nil {
		return 0, err
	}
	defer fr.Close()

	version, _, err := fr.ReadStartSection()
	if err != nil {
		return 0, err
	}

	return archive.UserVersion(version), nil
}

func readNotes(r *archive.Reader) (string, error) {
	if _, _, err := r.ReadStartSection(); err != nil {
		return "", err
	}

	for {
		tcode, _, err := r.BeginChunk(archive.TCodeAny)
		if err != nil {
			return "", err
		}

		switch tcode {
		case archive.TCodeEndOfFile:
			return "", nil
		case archive.TCodePropertiesTable:
			var p Properties
			if err := readProperties(r, &p); err != nil {
				return "", err
			}

			return p.Notes.Text, nil
		}

		if err := r.EndChunk(tcode); err != nil {
			return "", err
		}
	}
}

type docReader struct {
	r   *archive.Reader
	log *slog.Logger
}

func (dr docReader) document() (*Document, error) {
	version, comment, err := dr.r.ReadStartSection()
	if err != nil {
		return nil, err
	}

	d := New()
	d.Comment = comment
	d.ArchiveVersion = version

	for {
		tcode, _, err := dr.r.BeginChunk(archive.TCodeAny)
		if err != nil {
			return nil, err
		}
		if tcode == archive.TCodeEndOfFile {
			if err := dr.r.EndChunk(tcode); err != nil {
				return nil, err
			}

			return d, nil
		}

		if err := dr.table(d, tcode); err != nil {
			return nil, fmt.Errorf("read %s: %w", tcode, err)
		}
		if err := dr.r.EndChunk(tcode); err != nil {
			return nil, err
		}
	}
}

// table reads the body of the table chunk tcode into d. Unknown tables are
// skipped.
func (dr docReader) table(d *Document, tcode archive.TypeCode) error {
	r := dr.r

	var n int
	var err error
	switch tcode {
	case archive.TCodePropertiesTable:
		err = readProperties(r, &d.Properties)
	case archive.TCodeSettingsTable:
		err = dr.settings(&d.Settings)
	case archive.TCodeBitmapTable:
		n, err = readRecords(dr, d.Bitmaps, archive.TCodeComponentRecord, readComponent(func() *Bitmap { return &Bitmap{} }))
	case archive.TCodeMaterialTable:
		n, err = readRecords(dr, d.Materials, archive.TCodeComponentRecord, readComponent(func() *Material { return &Material{} }))
	case archive.TCodeLayerTable:
		n, err = readRecords(dr, d.Layers, archive.TCodeComponentRecord, readComponent(func() *Layer { return &Layer{} }))
	case archive.TCodeGroupTable:
		n, err = readRecords(dr, d.Groups, archive.TCodeComponentRecord, readComponent(func() *Group { return &Group{} }))
	case archive.TCodeDimStyleTable:
		n, err = readRecords(dr, d.DimStyles, archive.TCodeComponentRecord, readComponent(func() *DimStyle { return &DimStyle{} }))
	case archive.TCodeInstanceDefinitionTable:
		n, err = readRecords(dr, d.InstanceDefinitions, archive.TCodeComponentRecord,
			readComponent(func() *InstanceDefinition { return &InstanceDefinition{} }))
	case archive.TCodeRenderContentTable:
		n, err = readRecords(dr, d.RenderContent, archive.TCodeComponentRecord,
			readComponent(func() *RenderContent { return &RenderContent{} }))
	case archive.TCodeViewTable:
		n, err = readRecords(dr, d.Views, archive.TCodeComponentRecord, readComponent(func() *View { return &View{} }))
	case archive.TCodeNamedViewTable:
		n, err = readRecords(dr, d.NamedViews, archive.TCodeComponentRecord, readComponent(func() *View { return &View{} }))
	case archive.TCodeObjectTable:
		n, err = readRecords(dr, d.Objects, archive.TCodeObjectRecord, readObject)
	case archive.TCodeUserTable:
		n, err = readRecords(dr, d.PlugInData, archive.TCodeUserDataRecord, readUserData)
	case archive.TCodeStringsTable:
		n, err = dr.strings(d.Strings)
	default:
		dr.log.Debug("skipping unknown table", "table", tcode.String(), "offset", r.Position())
		return nil
	}
	if err != nil {
		return err
	}
	dr.log.Debug("table read", "table", tcode.String(), "count", n)

	return nil
}

// readProperties reads the properties table body. Missing sub-records keep
// their zero values.
func readProperties(r *archive.Reader, p *Properties) error {
	return forEachChunk(r, func(tcode archive.TypeCode) error {
		switch tcode {
		case archive.TCodePropertiesNotes:
			return readBody(r, &p.Notes)
		case archive.TCodePropertiesApplication:
			return readBody(r, &p.Application)
		case archive.TCodePropertiesRevision:
			return readBody(r, &p.Revision)
		}

		return nil
	})
}

func (dr docReader) settings(s *Settings) error {
	return forEachChunk(dr.r, func(tcode archive.TypeCode) error {
		if tcode != archive.TCodeSettingsRecord {
			return nil
		}

		return readBody(dr.r, s)
	})
}

func (dr docReader) strings(s *Strings) (int, error) {
	n := 0
	err := forEachChunk(dr.r, func(tcode archive.TypeCode) error {
		if tcode != archive.TCodeStringRecord {
			return nil
		}
		key, err := dr.r.ReadString()
		if err != nil {
			return err
		}
		value, err := dr.r.ReadString()
		if err != nil {
			return err
		}
		s.Set(key, value)
		n++

		return nil
	})

	return n, err
}

// readRecords restores every record chunk of type recordCode into t. Records
// of other types are skipped.
func readRecords[T Component](dr docReader, t *Table[T], recordCode archive.TypeCode, read func(*archive.Reader) (T, error)) (int, error) {
	n := 0
	err := forEachChunk(dr.r, func(tcode archive.TypeCode) error {
		if tcode != recordCode {
			dr.log.Debug("skipping record", "table", t.Name(), "record", tcode.String())
			return nil
		}
		comp, err := read(dr.r)
		if err != nil {
			return err
		}
		n++

		return t.restore(comp)
	})

	return n, err
}

// forEachChunk enters each chunk of the current table in turn and calls visit
// with the reader positioned at its payload. It stops at the end-of-table
// marker or at the end of the enclosing chunk. Whatever visit leaves unread is
// skipped.
func forEachChunk(r *archive.Reader, visit func(archive.TypeCode) error) error {
	for r.Remaining() > 0 {
		tcode, _, err := r.BeginChunk(archive.TCodeAny)
		if err != nil {
			return err
		}
		if tcode == archive.TCodeEndOfTable {
			return r.EndChunk(tcode)
		}
		if err := visit(tcode); err != nil {
			return err
		}
		if err := r.EndChunk(tcode); err != nil {
			return err
		}
	}

	return nil
}

func readComponent[T Component](newComp func() T) func(*archive.Reader) (T, error) {
	return func(r *archive.Reader) (T, error) {
		comp := newComp()
		if err := readHeader(r, comp.Header()); err != nil {
			var zero T
			return zero, err
		}
		if err := readBody(r, comp); err != nil {
			var zero T
			return zero, err
		}

		return comp, nil
	}
}

func readObject(r *archive.Reader) (*ModelObject, error) {
	obj := &ModelObject{Attributes: DefaultAttributes()}
	if err := readHeader(r, &obj.ComponentHeader); err != nil {
		return nil, err
	}

	err := forEachChunk(r, func(tcode archive.TypeCode) error {
		switch tcode {
		case archive.TCodeAttributes:
			return readBody(r, &obj.Attributes)
		case archive.TCodeGeometry:
			g, err := geometry.ReadTagged(r)
			if err != nil {
				return err
			}
			obj.Geometry = g
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return obj, nil
}

func readUserData(r *archive.Reader) (*UserData, error) {
	ud := &UserData{}
	if err := readHeader(r, &ud.ComponentHeader); err != nil {
		return nil, err
	}

	var err error
	if ud.ApplicationID, err = r.ReadUUID(); err != nil {
		return nil, err
	}
	version, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	ud.ArchiveVersion = int(version)
	if ud.KernelVersion, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if ud.Goo, err = r.ReadCompressedBufferAll(); err != nil {
		return nil, err
	}

	return ud, nil
}
