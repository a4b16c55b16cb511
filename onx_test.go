package onx

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/format"
	"github.com/arloliu/onx/geometry"
	"github.com/arloliu/onx/meshcodec"
	"github.com/arloliu/onx/model"
)

func testMesh() *geometry.Mesh {
	return &geometry.Mesh{
		Vertices: []geometry.Point3f{{X: 0}, {X: 2}, {X: 2, Y: 1}, {Y: 1}},
		Faces:    []geometry.MeshFace{geometry.Quad(0, 1, 2, 3)},
	}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument()
	require.NotNil(t, doc)
	require.Zero(t, doc.Objects.Count())
	require.False(t, doc.GetBoundingBox().IsValid())
}

// TestDocumentFileRoundTrip verifies write, read and the header-only readers
func TestDocumentFileRoundTrip(t *testing.T) {
	doc := NewDocument()
	doc.Properties.Notes = model.Notes{Text: "facade notes"}
	_, err := doc.Layers.Add(&model.Layer{ComponentHeader: model.ComponentHeader{Name: "Default"}, Visible: true})
	require.NoError(t, err)
	_, err = doc.Objects.Add(model.NewObject(testMesh()))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "part.onx")
	require.NoError(t, doc.Write(path, model.WithVersion(6)))

	notes, err := ReadNotes(path)
	require.NoError(t, err)
	require.Equal(t, "facade notes", notes)

	version, err := ReadArchiveVersion(path)
	require.NoError(t, err)
	require.Equal(t, 6, version)

	got, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, 1, got.Layers.Count())
	require.Equal(t, 1, got.Objects.Count())

	box := got.GetBoundingBox()
	require.True(t, box.IsValid())
	require.Equal(t, geometry.Point3d{X: 2, Y: 1}, box.Max)
}

func TestDocumentTextRoundTrip(t *testing.T) {
	doc := NewDocument()
	doc.Strings.Set("project", "bracket")

	text, err := doc.Encode()
	require.NoError(t, err)

	got, err := Decode(text)
	require.NoError(t, err)
	v, ok := got.Strings.Get("project")
	require.True(t, ok)
	require.Equal(t, "bracket", v)

	data, err := doc.ToByteArray()
	require.NoError(t, err)
	got, err = FromByteArray(data)
	require.NoError(t, err)
	require.Equal(t, 1, got.Strings.Count())

	got, err = Decode("not base64!")
	require.ErrorIs(t, err, errs.ErrCorruptArchive)
	require.Nil(t, got)
}

func TestEncodeMesh(t *testing.T) {
	m := testMesh()

	blob, err := EncodeMesh(m)
	require.NoError(t, err)

	h, err := meshcodec.ParseHeader(blob)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, h.Compression, "defaults to zstd")
	require.Equal(t, uint8(meshcodec.DefaultSpeed), h.Speed)

	geom, err := MeshType(blob)
	require.NoError(t, err)
	require.Equal(t, format.GeometryMesh, geom)

	g, err := DecodeMesh(blob)
	require.NoError(t, err)
	got, ok := g.(*geometry.Mesh)
	require.True(t, ok)
	require.Equal(t, m.Vertices, got.Vertices)
	require.Equal(t, []geometry.MeshFace{geometry.Triangle(0, 1, 2), geometry.Triangle(2, 3, 0)}, got.Faces)

	t.Run("OptionsOverrideDefaults", func(t *testing.T) {
		blob, err := EncodeMesh(m, meshcodec.WithCompression(format.CompressionLZ4), meshcodec.WithSpeed(10))
		require.NoError(t, err)
		h, err := meshcodec.ParseHeader(blob)
		require.NoError(t, err)
		require.Equal(t, format.CompressionLZ4, h.Compression)
		require.Equal(t, uint8(10), h.Speed)
	})

	t.Run("PointCloud", func(t *testing.T) {
		pc := &geometry.PointCloud{Points: []geometry.Point3d{{X: 1.25}, {Y: -3.5}}}
		blob, err := EncodeMesh(pc)
		require.NoError(t, err)

		geom, err := MeshType(blob)
		require.NoError(t, err)
		require.Equal(t, format.GeometryPointCloud, geom)

		g, err := DecodeMesh(blob)
		require.NoError(t, err)
		require.Equal(t, pc.Points, g.(*geometry.PointCloud).Points)
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := EncodeMesh(&geometry.Point{})
		require.ErrorIs(t, err, errs.ErrCodecFailure)

		_, err = EncodeMesh(nil)
		require.ErrorIs(t, err, errs.ErrMissingPositions)
	})
}
