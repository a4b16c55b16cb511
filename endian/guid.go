package endian

import "encoding/binary"

// GUIDSize is the on-disk size of a 128-bit id.
const GUIDSize = 16

// PutGUID writes an RFC 4122 id (network byte order, as held by uuid.UUID) into dst
// using the on-disk GUID layout: Data1 as little-endian uint32, Data2 and Data3 as
// little-endian uint16, then the 8 bytes of Data4 unchanged.
//
// dst must be at least GUIDSize bytes.
func PutGUID(dst []byte, id [16]byte) {
	_ = dst[GUIDSize-1]
	binary.LittleEndian.PutUint32(dst[0:4], binary.BigEndian.Uint32(id[0:4]))
	binary.LittleEndian.PutUint16(dst[4:6], binary.BigEndian.Uint16(id[4:6]))
	binary.LittleEndian.PutUint16(dst[6:8], binary.BigEndian.Uint16(id[6:8]))
	copy(dst[8:16], id[8:16])
}

// AppendGUID appends id to dst in the on-disk GUID layout.
func AppendGUID(dst []byte, id [16]byte) []byte {
	var tmp [GUIDSize]byte
	PutGUID(tmp[:], id)

	return append(dst, tmp[:]...)
}

// GUID reads an id stored in the on-disk GUID layout back into RFC 4122 byte order.
//
// src must be at least GUIDSize bytes.
func GUID(src []byte) [16]byte {
	_ = src[GUIDSize-1]
	var id [16]byte
	binary.BigEndian.PutUint32(id[0:4], binary.LittleEndian.Uint32(src[0:4]))
	binary.BigEndian.PutUint16(id[4:6], binary.LittleEndian.Uint16(src[4:6]))
	binary.BigEndian.PutUint16(id[6:8], binary.LittleEndian.Uint16(src[6:8]))
	copy(id[8:16], src[8:16])

	return id
}
