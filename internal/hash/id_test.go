package hash

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"
)

func TestNameIDFoldsCase(t *testing.T) {
	require.Equal(t, NameID("Default"), NameID("DEFAULT"))
	require.Equal(t, xxhash.Sum64String("walls"), NameID("Walls"))
	require.NotEqual(t, NameID("Layer 01"), NameID("Layer 02"))
}
