package embedfile

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/errs"
)

func sampleFiles() []File {
	return []File{
		{Path: `C:\textures\Brick.png`, Data: bytes.Repeat([]byte("brick"), 4000)},
		{Path: "/home/cad/decals/logo.svg", Data: []byte("<svg/>")},
		{Path: "notes.txt", Data: nil},
		{Path: "lib/textures/brick.PNG", Data: []byte("second brick")},
	}
}

func buildSample(t *testing.T) Record {
	t.Helper()

	rec, err := Build(sampleFiles(), nil, 70)
	require.NoError(t, err)
	require.Equal(t, DocumentInfoID, rec.ApplicationID)
	require.Equal(t, 70, rec.ArchiveVersion)
	require.Equal(t, archive.KernelVersion, rec.KernelVersion)

	return rec
}

func TestExtractPaths_WriteOrder(t *testing.T) {
	rec := buildSample(t)

	paths, err := ExtractPaths(rec)
	require.NoError(t, err)
	require.Equal(t, []string{
		`C:\textures\Brick.png`,
		"/home/cad/decals/logo.svg",
		"notes.txt",
		"lib/textures/brick.PNG",
	}, paths)
}

func TestExtractBuffer(t *testing.T) {
	rec := buildSample(t)
	files := sampleFiles()

	tests := []struct {
		name   string
		target string
		strict bool
		want   []byte
		ok     bool
	}{
		{"exact strict", "/home/cad/decals/logo.svg", true, files[1].Data, true},
		{"exact wins over earlier name match", "lib/textures/brick.PNG", true, files[3].Data, true},
		{"filename only strict", "logo.svg", true, nil, false},
		{"filename only", "logo.svg", false, files[1].Data, true},
		{"filename case folded", "LOGO.SVG", false, files[1].Data, true},
		{"first name match in write order", "brick.png", false, files[0].Data, true},
		{"other directory same name", "/tmp/Brick.png", false, files[0].Data, true},
		{"exact case differs", `c:\textures\brick.png`, true, nil, false},
		{"empty entry", "notes.txt", true, nil, true},
		{"missing", "missing.bin", false, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ExtractBuffer(rec, tt.target, tt.strict)
			require.NoError(t, err)
			require.Equal(t, tt.ok, ok)
			if len(tt.want) == 0 {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestExtractAll(t *testing.T) {
	rec := buildSample(t)

	got, err := ExtractAll(rec)
	require.NoError(t, err)
	require.Len(t, got, 4)

	for i, want := range sampleFiles() {
		require.Equal(t, want.Path, got[i].Path)
		require.Equal(t, want.Digest(), got[i].Digest())
	}
}

func TestExtract_NotApplicable(t *testing.T) {
	rec := buildSample(t)
	rec.ApplicationID = uuid.New()

	paths, err := ExtractPaths(rec)
	require.NoError(t, err)
	require.Empty(t, paths)

	data, ok, err := ExtractBuffer(rec, "notes.txt", false)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, data)
}

func TestExtract_UnsupportedVersion(t *testing.T) {
	for _, version := range []int32{3, 5} {
		var goo bytes.Buffer
		w, err := archive.NewWriter(&goo, 70)
		require.NoError(t, err)
		require.NoError(t, w.WriteInt32(version))
		require.NoError(t, w.WriteByteArray([]byte("{}")))
		require.NoError(t, w.WriteInt32(0))
		require.NoError(t, w.Close())

		rec := Record{ApplicationID: DocumentInfoID, ArchiveVersion: 70, Goo: goo.Bytes()}

		paths, err := ExtractPaths(rec)
		require.NoError(t, err)
		require.Empty(t, paths)

		_, ok, err := ExtractBuffer(rec, "x", false)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestExtract_Corrupt(t *testing.T) {
	rec := buildSample(t)

	t.Run("truncated", func(t *testing.T) {
		bad := rec
		bad.Goo = rec.Goo[:len(rec.Goo)/2]

		_, err := ExtractPaths(bad)
		require.ErrorIs(t, err, errs.ErrCorruptArchive)

		_, err = ExtractAll(bad)
		require.ErrorIs(t, err, errs.ErrCorruptArchive)
	})

	t.Run("json length beyond goo", func(t *testing.T) {
		bad := rec
		bad.Goo = bytes.Clone(rec.Goo)
		bad.Goo[4] = 0xFF
		bad.Goo[5] = 0xFF
		bad.Goo[6] = 0xFF

		_, _, err := ExtractBuffer(bad, "notes.txt", true)
		require.ErrorIs(t, err, errs.ErrCorruptArchive)
	})

	t.Run("bad archive version", func(t *testing.T) {
		bad := rec
		bad.ArchiveVersion = 7

		_, err := ExtractPaths(bad)
		require.ErrorIs(t, err, errs.ErrUnsupportedArchiveVersion)
	})
}

func TestBuild_DocumentJSON(t *testing.T) {
	files := sampleFiles()

	manifest, err := Manifest(files)
	require.NoError(t, err)

	var decoded struct {
		Files []struct {
			Path   string `json:"path"`
			Size   int    `json:"size"`
			Blake3 string `json:"blake3"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(manifest, &decoded))
	require.Len(t, decoded.Files, len(files))
	require.Equal(t, files[0].Path, decoded.Files[0].Path)
	require.Equal(t, len(files[0].Data), decoded.Files[0].Size)
	require.Len(t, decoded.Files[0].Blake3, 64)

	// Caller supplied JSON is carried but never interpreted.
	rec, err := Build(files[:1], []byte("not json at all"), 80)
	require.NoError(t, err)
	got, ok, err := ExtractBuffer(rec, files[0].Path, true)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, files[0].Data, got)
}

func TestMatch(t *testing.T) {
	require.True(t, Match("a/b/c.txt", "a/b/c.txt", true))
	require.False(t, Match("a/b/c.txt", "c.txt", true))
	require.True(t, Match(`a\b\C.TXT`, "x/y/c.txt", false))
	require.True(t, Match("c.txt", "C.txt", false))
	require.False(t, Match("a/b/c.txt", "a/b/d.txt", false))
}
