package embedfile

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/errs"
)

// Version is the only sub-format version this package reads and writes.
const Version = 4

// DocumentInfoID is the application id reserved for the document information
// user data record.
var DocumentInfoID = uuid.MustParse("7a0b4f4e-4c3f-4a1c-9a0b-6f8e2d4c1b53")

// Record is a user data record attached to a document. Goo is private to the
// application identified by ApplicationID and is parsed with the archive and
// kernel versions it was written with.
type Record struct {
	ApplicationID  uuid.UUID
	ArchiveVersion int
	KernelVersion  uint32
	Goo            []byte
}

// File is one embedded file.
type File struct {
	Path string
	Data []byte
}

// Digest returns the BLAKE3-256 digest of the file contents.
func (f File) Digest() [32]byte {
	return blake3.Sum256(f.Data)
}

// manifestEntry describes one file in the document JSON written by Build.
type manifestEntry struct {
	Path   string `json:"path"`
	Size   int    `json:"size"`
	Blake3 string `json:"blake3"`
}

// Manifest returns the document JSON Build writes when none is supplied.
func Manifest(files []File) ([]byte, error) {
	entries := make([]manifestEntry, len(files))
	for i, f := range files {
		sum := f.Digest()
		entries[i] = manifestEntry{Path: f.Path, Size: len(f.Data), Blake3: hex.EncodeToString(sum[:])}
	}

	out, err := json.Marshal(struct {
		Files []manifestEntry `json:"files"`
	}{Files: entries})
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}

	return out, nil
}

// Build writes files into a new document information record. A nil
// documentJSON is replaced by Manifest(files). archiveVersion is an on-disk
// version.
func Build(files []File, documentJSON []byte, archiveVersion int) (Record, error) {
	if documentJSON == nil {
		var err error
		if documentJSON, err = Manifest(files); err != nil {
			return Record{}, err
		}
	}

	var goo bytes.Buffer
	w, err := archive.NewWriter(&goo, archiveVersion)
	if err != nil {
		return Record{}, err
	}
	defer w.Abort()

	if err := w.WriteInt32(Version); err != nil {
		return Record{}, err
	}
	if err := w.WriteByteArray(documentJSON); err != nil {
		return Record{}, err
	}
	if err := w.WriteInt32(int32(len(files))); err != nil { //nolint:gosec
		return Record{}, err
	}
	for _, f := range files {
		if err := w.WriteWString(f.Path); err != nil {
			return Record{}, err
		}
		if _, err := w.WriteCompressedBuffer(f.Data); err != nil {
			return Record{}, fmt.Errorf("embed %q: %w", f.Path, err)
		}
	}

	if err := w.Close(); err != nil {
		return Record{}, err
	}

	return Record{
		ApplicationID:  DocumentInfoID,
		ArchiveVersion: archiveVersion,
		KernelVersion:  archive.KernelVersion,
		Goo:            goo.Bytes(),
	}, nil
}

// ExtractPaths returns every embedded path in write order. A record from another
// application or with an unsupported sub-format version yields no paths and a
// nil error.
func ExtractPaths(rec Record) ([]string, error) {
	var paths []string
	err := scan(rec, func(r *archive.Reader, path string) (bool, error) {
		paths = append(paths, path)
		return false, r.SeekPastCompressedBuffer()
	})
	if err != nil {
		return nil, notFoundOK(err)
	}

	return paths, nil
}

// ExtractBuffer returns the contents of the first entry matching target. An
// exact, case-sensitive path match is tried first; unless strict is set, the
// final path components are then compared case-insensitively. ok is false when
// nothing matches or the record does not carry embedded files.
func ExtractBuffer(rec Record, target string, strict bool) ([]byte, bool, error) {
	var (
		data  []byte
		found bool
	)

	err := scan(rec, func(r *archive.Reader, path string) (bool, error) {
		if !Match(path, target, strict) {
			return false, r.SeekPastCompressedBuffer()
		}

		var err error
		data, err = r.ReadCompressedBufferAll()
		if err != nil {
			return true, err
		}
		found = true

		return true, nil
	})
	if err != nil {
		return nil, false, notFoundOK(err)
	}

	return data, found, nil
}

// ExtractAll returns every embedded file in write order.
func ExtractAll(rec Record) ([]File, error) {
	var files []File
	err := scan(rec, func(r *archive.Reader, path string) (bool, error) {
		data, err := r.ReadCompressedBufferAll()
		if err != nil {
			return true, err
		}
		files = append(files, File{Path: path, Data: data})

		return false, nil
	})
	if err != nil {
		return nil, notFoundOK(err)
	}

	return files, nil
}

// Match reports whether path selects target under the lookup policy of
// ExtractBuffer.
func Match(path, target string, strict bool) bool {
	if path == target {
		return true
	}
	if strict {
		return false
	}

	return strings.EqualFold(baseName(path), baseName(target))
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}

	return path
}

func notFoundOK(err error) error {
	if errors.Is(err, errs.ErrNotApplicable) || errors.Is(err, errs.ErrUnsupportedVersion) {
		return nil
	}

	return err
}

// scan opens the record's goo, validates the header and calls visit for each
// path. visit must consume the entry's compressed buffer and returns stop to end
// the scan early.
func scan(rec Record, visit func(r *archive.Reader, path string) (stop bool, err error)) error {
	if rec.ApplicationID != DocumentInfoID {
		return errs.ErrNotApplicable
	}

	r, err := archive.NewBufferReader(rec.Goo, rec.ArchiveVersion)
	if err != nil {
		return err
	}

	version, err := r.ReadInt32()
	if err != nil {
		return err
	}
	if version != Version {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, version)
	}

	jsonLen, err := r.ReadInt32()
	if err != nil {
		return err
	}
	if jsonLen < 0 || 4+int64(jsonLen) > r.Remaining() {
		return fmt.Errorf("%w: %w: document JSON length %d with %d bytes left",
			errs.ErrCorruptArchive, errs.ErrChunkOverrun, jsonLen, r.Remaining())
	}
	if err := r.SeekForward(int64(jsonLen)); err != nil {
		return err
	}

	count, err := r.ReadInt32()
	if err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("%w: negative path count %d", errs.ErrCorruptArchive, count)
	}

	for range count {
		path, err := r.ReadWString()
		if err != nil {
			return err
		}
		stop, err := visit(r, path)
		if err != nil {
			return fmt.Errorf("entry %q: %w", path, err)
		}
		if stop {
			return nil
		}
	}

	return nil
}
