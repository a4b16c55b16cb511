package convert

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/arloliu/onx/endian"
)

// UUIDToString formats id in the canonical lower-case 8-4-4-4-12 form.
func UUIDToString(id uuid.UUID) string {
	return id.String()
}

// UUIDFromString parses s, accepting the canonical form with or without
// surrounding braces, and the urn:uuid: prefix.
func UUIDFromString(s string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		trimmed = trimmed[1 : len(trimmed)-1]
	}

	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse uuid %q: %w", s, err)
	}

	return id, nil
}

// UUIDToBytes returns id in the on-disk GUID byte layout.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var out [16]byte
	endian.PutGUID(out[:], id)

	return out
}

// UUIDFromBytes converts 16 bytes in the on-disk GUID layout to an id.
func UUIDFromBytes(b []byte) (uuid.UUID, error) {
	if len(b) != endian.GUIDSize {
		return uuid.Nil, fmt.Errorf("uuid needs %d bytes, got %d", endian.GUIDSize, len(b))
	}

	return uuid.UUID(endian.GUID(b)), nil
}
