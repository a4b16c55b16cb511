// Package model is the in-memory 3D model container and its archive codec.
//
// A Document holds descriptive properties, modeling settings and one Table per
// component kind: materials, layers, groups, dimension styles, instance
// definitions, bitmaps, geometry objects, views, named views, render content
// and plug-in data.
//
// # Archive layout
//
// After the start section, a written document is a sequence of table chunks in
// this order:
//
//	PropertiesTable   notes, application, revision records
//	SettingsTable     one settings record
//	BitmapTable ... RenderContentTable
//	ObjectTable       header, attributes chunk, optional geometry chunk
//	ViewTable, NamedViewTable
//	StringsTable      key/value records
//	UserTable         only when user data is saved
//	EndOfFile
//
// Each table ends with an EndOfTable short chunk carrying the record count.
// Component records start with the id, index and name of the component; the
// remaining fields are a CBOR body with integer keys. Readers skip tables and
// records they do not recognize.
//
// Because properties are written first, ReadNotes and ReadArchiveVersion touch
// only the head of the file no matter how large the model is.
//
// # Identity
//
// A component keeps its id for life. Its index is its position in the table
// and survives a write/read round trip, gaps included. Ref is a weak handle
// that reports errs.ErrComponentRemoved once its target is deleted.
//
// # Errors
//
// Read, ReadFrom, FromByteArray and Decode return a nil document on any
// failure. Malformed input wraps errs.ErrCorruptArchive.
package model
