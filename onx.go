// Package onx reads and writes chunked 3D model archives and compresses mesh
// geometry into compact blobs.
//
// A model archive holds a Document: descriptive properties, settings and
// component tables of layers, materials, objects and so on. Objects carry
// geometry such as meshes, point clouds and curves. Archives can also carry
// embedded files, for example texture images, inside a document information
// record.
//
// # Core Features
//
//   - Chunked binary archive with nested, length-prefixed chunks
//   - Tables with stable ids and indices that survive a round trip, gaps included
//   - Header-only reads of notes and archive version
//   - Base64 text encoding for transport
//   - Embedded file listing and extraction
//   - Mesh and point cloud blobs with Zstd, S2, LZ4 or Deflate compression
//
// # Basic Usage
//
// Creating and writing a document:
//
//	import "github.com/arloliu/onx"
//
//	doc := onx.NewDocument()
//	doc.Layers.Add(&model.Layer{ComponentHeader: model.ComponentHeader{Name: "Default"}, Visible: true})
//	doc.Objects.Add(model.NewObject(mesh))
//	err := doc.Write("part.onx", model.WithVersion(7))
//
// Reading a document:
//
//	doc, err := onx.Read("part.onx")
//	fmt.Println(doc.Objects.Count(), doc.GetBoundingBox())
//
// Compressing a mesh:
//
//	blob, err := onx.EncodeMesh(mesh)
//	g, err := onx.DecodeMesh(blob)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the model and
// meshcodec packages. For fine-grained control use those packages directly,
// or archive and embedfile for the wire formats.
package onx

import (
	"fmt"

	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/format"
	"github.com/arloliu/onx/geometry"
	"github.com/arloliu/onx/meshcodec"
	"github.com/arloliu/onx/model"
)

var defaultMeshOptions = []meshcodec.Option{
	meshcodec.WithCompression(format.CompressionZstd),
	meshcodec.WithSpeed(meshcodec.DefaultSpeed),
}

// NewDocument creates an empty document with default settings.
func NewDocument() *model.Document {
	return model.New()
}

// Read reads a model archive from a file.
//
// Returns a nil document and an error wrapping errs.ErrCorruptArchive when the
// file is malformed. The document is never partially populated.
func Read(path string, opts ...model.ReadOption) (*model.Document, error) {
	return model.Read(path, opts...)
}

// ReadNotes returns the notes text of a model archive without reading its
// tables.
func ReadNotes(path string) (string, error) {
	return model.ReadNotes(path)
}

// ReadArchiveVersion returns the user-facing major version of a model archive,
// for example 7 for an archive written with version 70.
func ReadArchiveVersion(path string) (int, error) {
	return model.ReadArchiveVersion(path)
}

// FromByteArray reads a model archive from memory.
func FromByteArray(data []byte, opts ...model.ReadOption) (*model.Document, error) {
	return model.FromByteArray(data, opts...)
}

// Decode reads a model archive from its base64 text encoding, as produced by
// Document.Encode.
func Decode(text string, opts ...model.ReadOption) (*model.Document, error) {
	return model.Decode(text, opts...)
}

// EncodeMesh compresses a *geometry.Mesh or *geometry.PointCloud into a blob.
//
// Without options the blob uses Zstd at the default speed. Options are applied
// after the defaults, so they override them.
//
// Returns:
//   - []byte: The blob, starting with a header that Type and DecodeMesh read.
//   - error: errs.ErrCodecFailure for any other geometry kind or a failed encode.
func EncodeMesh(g geometry.Geometry, opts ...meshcodec.Option) ([]byte, error) {
	allOpts := append(append([]meshcodec.Option(nil), defaultMeshOptions...), opts...)

	switch v := g.(type) {
	case *geometry.Mesh:
		return meshcodec.Encode(v, allOpts...)
	case *geometry.PointCloud:
		return meshcodec.EncodePointCloud(v, allOpts...)
	case nil:
		return nil, fmt.Errorf("%w: %w", errs.ErrCodecFailure, errs.ErrMissingPositions)
	default:
		return nil, fmt.Errorf("%w: cannot compress %s geometry", errs.ErrCodecFailure, g.Kind())
	}
}

// DecodeMesh reconstructs the *geometry.Mesh or *geometry.PointCloud stored in
// a blob.
func DecodeMesh(blob []byte) (geometry.Geometry, error) {
	return meshcodec.Decode(blob)
}

// MeshType reports whether a blob holds a mesh or a point cloud without
// decompressing it.
func MeshType(blob []byte) (format.GeometryType, error) {
	return meshcodec.Type(blob)
}
