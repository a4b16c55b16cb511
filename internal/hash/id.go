// Package hash derives the 64-bit ids used to index component names.
package hash

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// NameID returns the xxHash64 of name folded to lower case, so names that
// differ only by case share an id. Distinct names may still collide; callers
// compare the names themselves before trusting a match.
func NameID(name string) uint64 {
	return xxhash.Sum64String(strings.ToLower(name))
}
