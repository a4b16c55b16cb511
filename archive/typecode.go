package archive

import "fmt"

// TypeCode identifies the kind of a chunk.
type TypeCode uint32

// TCodeShort marks a chunk whose value is data rather than a payload length.
const TCodeShort TypeCode = 0x80000000

// TCodeAny is passed to BeginChunk to accept any type code.
const TCodeAny TypeCode = 0

// Start section and framing codes.
const (
	TCodeCommentBlock     TypeCode = 0x00000001
	TCodeEndOfFile        TypeCode = TCodeShort | 0x00007FFF
	TCodeEndOfTable       TypeCode = 0xFFFFFFFF
	TCodeCompressedBuffer TypeCode = 0x20000300
)

// Table codes.
const (
	TCodeMaterialTable           TypeCode = 0x10000010
	TCodeLayerTable              TypeCode = 0x10000011
	TCodeObjectTable             TypeCode = 0x10000013
	TCodePropertiesTable         TypeCode = 0x10000014
	TCodeSettingsTable           TypeCode = 0x10000015
	TCodeBitmapTable             TypeCode = 0x10000016
	TCodeUserTable               TypeCode = 0x10000017
	TCodeGroupTable              TypeCode = 0x10000018
	TCodeDimStyleTable           TypeCode = 0x10000020
	TCodeInstanceDefinitionTable TypeCode = 0x10000021
	TCodeViewTable               TypeCode = 0x10000030
	TCodeNamedViewTable          TypeCode = 0x10000031
	TCodeRenderContentTable      TypeCode = 0x10000032
	TCodeStringsTable            TypeCode = 0x10000033
)

// Record codes.
const (
	TCodeComponentRecord TypeCode = 0x20000001
	TCodeObjectRecord    TypeCode = 0x20000002
	TCodeGeometry        TypeCode = 0x20000003
	TCodeAttributes      TypeCode = 0x20000004
	TCodeUserDataRecord  TypeCode = 0x20000005
	TCodeStringRecord    TypeCode = 0x20000006

	TCodePropertiesNotes       TypeCode = 0x20000101
	TCodePropertiesApplication TypeCode = 0x20000102
	TCodePropertiesRevision    TypeCode = 0x20000103
	TCodeSettingsRecord        TypeCode = 0x20000201
)

var typeCodeNames = map[TypeCode]string{
	TCodeCommentBlock:            "CommentBlock",
	TCodeEndOfFile:               "EndOfFile",
	TCodeEndOfTable:              "EndOfTable",
	TCodeCompressedBuffer:        "CompressedBuffer",
	TCodeMaterialTable:           "MaterialTable",
	TCodeLayerTable:              "LayerTable",
	TCodeObjectTable:             "ObjectTable",
	TCodePropertiesTable:         "PropertiesTable",
	TCodeSettingsTable:           "SettingsTable",
	TCodeBitmapTable:             "BitmapTable",
	TCodeUserTable:               "UserTable",
	TCodeGroupTable:              "GroupTable",
	TCodeDimStyleTable:           "DimStyleTable",
	TCodeInstanceDefinitionTable: "InstanceDefinitionTable",
	TCodeViewTable:               "ViewTable",
	TCodeNamedViewTable:          "NamedViewTable",
	TCodeRenderContentTable:      "RenderContentTable",
	TCodeStringsTable:            "StringsTable",
	TCodeComponentRecord:         "ComponentRecord",
	TCodeObjectRecord:            "ObjectRecord",
	TCodeGeometry:                "Geometry",
	TCodeAttributes:              "Attributes",
	TCodeUserDataRecord:          "UserDataRecord",
	TCodeStringRecord:            "StringRecord",
	TCodePropertiesNotes:         "PropertiesNotes",
	TCodePropertiesApplication:   "PropertiesApplication",
	TCodePropertiesRevision:      "PropertiesRevision",
	TCodeSettingsRecord:          "SettingsRecord",
}

// IsShort reports whether chunks with this code carry no payload.
func (t TypeCode) IsShort() bool {
	return t&TCodeShort != 0
}

func (t TypeCode) String() string {
	if name, ok := typeCodeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("TypeCode(0x%08X)", uint32(t))
}
