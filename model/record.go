package model

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/errs"
)

// encMode encodes record bodies with Core Deterministic Encoding, so the same
// component always produces the same archive bytes.
var encMode cbor.EncMode

// decMode ignores unknown fields, so records written by newer writers still
// load.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("model: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		MaxArrayElements: 1 << 24,
		MaxMapPairs:      1 << 24,
	}.DecMode()
	if err != nil {
		panic("model: CBOR decoder initialization failed: " + err.Error())
	}
}

// writeBody appends v as a CBOR byte array.
func writeBody(w *archive.Writer, v any) error {
	body, err := encMode.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record body: %w", err)
	}

	return w.WriteByteArray(body)
}

// readBody reads a CBOR byte array into v. Malformed CBOR is corruption.
func readBody(r *archive.Reader, v any) error {
	body, err := r.ReadByteArray()
	if err != nil {
		return err
	}
	if err := decMode.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: record body: %w", errs.ErrCorruptArchive, err)
	}

	return nil
}

// writeHeader writes the identity shared by every component record.
func writeHeader(w *archive.Writer, h *ComponentHeader) error {
	if err := w.WriteUUID(h.ID); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(h.Index)); err != nil { //nolint:gosec
		return err
	}

	return w.WriteString(h.Name)
}

func readHeader(r *archive.Reader, h *ComponentHeader) error {
	id, err := r.ReadUUID()
	if err != nil {
		return err
	}
	index, err := r.ReadInt32()
	if err != nil {
		return err
	}
	if index < 0 {
		return fmt.Errorf("%w: negative component index %d", errs.ErrCorruptArchive, index)
	}
	name, err := r.ReadString()
	if err != nil {
		return err
	}

	*h = ComponentHeader{ID: id, Index: int(index), Name: name}

	return nil
}
