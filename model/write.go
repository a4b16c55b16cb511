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

// Write writes the document to the file at path. A partially written file is
// removed when writing fails.
func (d *Document) Write(path string, opts ...WriteOption) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return d.WriteArchive(f, opts...)
}

// WriteArchive writes the document as a chunked archive to dst. Nothing is
// written to dst unless the whole archive was assembled successfully.
func (d *Document) WriteArchive(dst io.Writer, opts ...WriteOption) error {
	cfg := defaultWriteOptions()
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	onDisk := cfg.OnDiskVersion()
	w, err := archive.NewWriter(dst, onDisk)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidWriteVersion, err)
	}
	defer w.Abort()
	w.SetBufferCompression(cfg.BufferCompression)

	dw := docWriter{w: w, log: cfg.logger}
	if err := dw.document(d, cfg); err != nil {
		return err
	}
	if err := w.WriteEndOfFile(); err != nil {
		return err
	}

	size := w.Len()
	if err := w.Close(); err != nil {
		return err
	}
	cfg.logger.Debug("document written", "version", onDisk, "bytes", size)

	return nil
}

// ToByteArray returns the document as archive bytes.
func (d *Document) ToByteArray(opts ...WriteOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteArchive(&buf, opts...); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Encode returns the document as base64 text.
func (d *Document) Encode(opts ...WriteOption) (string, error) {
	data, err := d.ToByteArray(opts...)
	if err != nil {
		return "", err
	}

	return convert.EncodeBase64(data), nil
}

type docWriter struct {
	w   *archive.Writer
	log *slog.Logger
}

func (dw docWriter) document(d *Document, cfg *WriteOptions) error {
	if err := dw.w.WriteStartSection(cfg.Comment); err != nil {
		return err
	}

	steps := []struct {
		tcode archive.TypeCode
		write func() (int, error)
	}{
		{archive.TCodePropertiesTable, func() (int, error) { return 3, dw.properties(&d.Properties) }},
		{archive.TCodeSettingsTable, func() (int, error) { return 1, dw.settings(&d.Settings) }},
		{archive.TCodeBitmapTable, func() (int, error) { return writeRecords(dw.w, d.Bitmaps, writeComponent[*Bitmap]) }},
		{archive.TCodeMaterialTable, func() (int, error) { return writeRecords(dw.w, d.Materials, writeComponent[*Material]) }},
		{archive.TCodeLayerTable, func() (int, error) { return writeRecords(dw.w, d.Layers, writeComponent[*Layer]) }},
		{archive.TCodeGroupTable, func() (int, error) { return writeRecords(dw.w, d.Groups, writeComponent[*Group]) }},
		{archive.TCodeDimStyleTable, func() (int, error) { return writeRecords(dw.w, d.DimStyles, writeComponent[*DimStyle]) }},
		{archive.TCodeInstanceDefinitionTable, func() (int, error) {
			return writeRecords(dw.w, d.InstanceDefinitions, writeComponent[*InstanceDefinition])
		}},
		{archive.TCodeRenderContentTable, func() (int, error) { return writeRecords(dw.w, d.RenderContent, writeComponent[*RenderContent]) }},
		{archive.TCodeObjectTable, func() (int, error) { return writeRecords(dw.w, d.Objects, writeObject) }},
		{archive.TCodeViewTable, func() (int, error) { return writeRecords(dw.w, d.Views, writeComponent[*View]) }},
		{archive.TCodeNamedViewTable, func() (int, error) { return writeRecords(dw.w, d.NamedViews, writeComponent[*View]) }},
		{archive.TCodeStringsTable, func() (int, error) { return dw.strings(d.Strings) }},
	}
	if cfg.SaveUserData {
		steps = append(steps, struct {
			tcode archive.TypeCode
			write func() (int, error)
		}{archive.TCodeUserTable, func() (int, error) { return writeRecords(dw.w, d.PlugInData, writeUserData) }})
	}

	for _, step := range steps {
		if err := dw.w.BeginChunk(step.tcode); err != nil {
			return err
		}
		n, err := step.write()
		if err != nil {
			return fmt.Errorf("write %s: %w", step.tcode, err)
		}
		if err := dw.w.WriteShortChunk(archive.TCodeEndOfTable, int64(n)); err != nil {
			return err
		}
		if err := dw.w.EndChunk(step.tcode); err != nil {
			return err
		}
		dw.log.Debug("table written", "table", step.tcode.String(), "count", n)
	}

	return nil
}

func (dw docWriter) properties(p *Properties) error {
	records := []struct {
		tcode archive.TypeCode
		body  any
	}{
		{archive.TCodePropertiesNotes, &p.Notes},
		{archive.TCodePropertiesApplication, &p.Application},
		{archive.TCodePropertiesRevision, &p.Revision},
	}
	for _, rec := range records {
		if err := writeChunk(dw.w, rec.tcode, func() error { return writeBody(dw.w, rec.body) }); err != nil {
			return err
		}
	}

	return nil
}

func (dw docWriter) settings(s *Settings) error {
	return writeChunk(dw.w, archive.TCodeSettingsRecord, func() error { return writeBody(dw.w, s) })
}

func (dw docWriter) strings(s *Strings) (int, error) {
	for key, value := range s.All() {
		err := writeChunk(dw.w, archive.TCodeStringRecord, func() error {
			if err := dw.w.WriteString(key); err != nil {
				return err
			}

			return dw.w.WriteString(value)
		})
		if err != nil {
			return 0, err
		}
	}

	return s.Count(), nil
}

// writeRecords writes one record chunk per live component in index order.
func writeRecords[T Component](w *archive.Writer, t *Table[T], write func(*archive.Writer, T) error) (int, error) {
	n := 0
	for _, comp := range t.All() {
		if err := write(w, comp); err != nil {
			return n, fmt.Errorf("%s %s: %w", t.Name(), comp.Header().ID, err)
		}
		n++
	}

	return n, nil
}

func writeComponent[T Component](w *archive.Writer, comp T) error {
	return writeChunk(w, archive.TCodeComponentRecord, func() error {
		if err := writeHeader(w, comp.Header()); err != nil {
			return err
		}

		return writeBody(w, comp)
	})
}

func writeObject(w *archive.Writer, obj *ModelObject) error {
	return writeChunk(w, archive.TCodeObjectRecord, func() error {
		if err := writeHeader(w, &obj.ComponentHeader); err != nil {
			return err
		}
		err := writeChunk(w, archive.TCodeAttributes, func() error {
			return writeBody(w, &obj.Attributes)
		})
		if err != nil {
			return err
		}
		if obj.Geometry == nil {
			return nil
		}

		return writeChunk(w, archive.TCodeGeometry, func() error {
			return geometry.WriteTagged(w, obj.Geometry)
		})
	})
}

func writeUserData(w *archive.Writer, ud *UserData) error {
	return writeChunk(w, archive.TCodeUserDataRecord, func() error {
		if err := writeHeader(w, &ud.ComponentHeader); err != nil {
			return err
		}
		if err := w.WriteUUID(ud.ApplicationID); err != nil {
			return err
		}
		if err := w.WriteInt32(int32(ud.ArchiveVersion)); err != nil { //nolint:gosec
			return err
		}
		if err := w.WriteUint32(ud.KernelVersion); err != nil {
			return err
		}
		_, err := w.WriteCompressedBuffer(ud.Goo)

		return err
	})
}

// writeChunk wraps body in a long chunk.
func writeChunk(w *archive.Writer, tcode archive.TypeCode, body func() error) error {
	if err := w.BeginChunk(tcode); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}

	return w.EndChunk(tcode)
}
