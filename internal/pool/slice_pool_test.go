package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetUint32Slice(t *testing.T) {
	s, cleanup := GetUint32Slice(10)
	require.Len(t, s, 10)
	for i := range s {
		s[i] = uint32(i)
	}
	cleanup()

	s2, cleanup2 := GetUint32Slice(4)
	defer cleanup2()
	require.Len(t, s2, 4)
}
