// Package embedfile reads and writes the files a document carries inside its
// "document information" user data record.
//
// The record's goo is an archive fragment with this layout:
//
//	int32    sub-format version (always 4)
//	int32    document JSON length, followed by that many bytes
//	int32    path count
//	repeated path count times:
//	  wstring          file path
//	  compressed buffer file contents
//
// Readers only accept version 4. Any other version is reported as "not found"
// rather than as an error, because callers usually check records speculatively.
//
// Lookups scan the entries in write order and skip the contents of every entry
// they do not return with archive.Reader.SeekPastCompressedBuffer, so extracting
// one small file from a record holding many large ones stays cheap.
package embedfile
