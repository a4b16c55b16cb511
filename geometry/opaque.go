package geometry

import "github.com/arloliu/onx/archive"

// Opaque carries geometry owned by the kernel, such as a brep or SubD, whose
// payload this package does not interpret. ClassName identifies the kernel
// type and Box is the extent recorded when the payload was produced.
type Opaque struct {
	ClassName string
	Box       BoundingBox
	Data      []byte
}

var _ Geometry = (*Opaque)(nil)

func (*Opaque) Kind() Kind { return KindOpaque }

func (o *Opaque) BoundingBox() BoundingBox { return o.Box }

func (o *Opaque) Write(w *archive.Writer) error {
	if err := w.WriteString(o.ClassName); err != nil {
		return err
	}
	if err := writePoint3d(w, o.Box.Min); err != nil {
		return err
	}
	if err := writePoint3d(w, o.Box.Max); err != nil {
		return err
	}
	_, err := w.WriteCompressedBuffer(o.Data)

	return err
}

func (o *Opaque) Read(r *archive.Reader) error {
	name, err := r.ReadString()
	if err != nil {
		return err
	}
	lo, err := readPoint3d(r)
	if err != nil {
		return err
	}
	hi, err := readPoint3d(r)
	if err != nil {
		return err
	}
	data, err := r.ReadCompressedBufferAll()
	if err != nil {
		return err
	}

	*o = Opaque{ClassName: name, Box: BoundingBox{Min: lo, Max: hi}, Data: data}

	return nil
}
