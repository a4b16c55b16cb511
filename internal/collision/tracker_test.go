package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/onx/internal/hash"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
}

func TestTracker_TrackAndLookup(t *testing.T) {
	tracker := NewTracker()

	tracker.Track("Default", 0)
	tracker.Track("Walls", 1)
	require.Equal(t, 2, tracker.Count())

	slot, ok := tracker.Lookup("walls")
	require.True(t, ok)
	require.Equal(t, 1, slot)

	slot, ok = tracker.Lookup("DEFAULT")
	require.True(t, ok)
	require.Equal(t, 0, slot)

	_, ok = tracker.Lookup("Roof")
	require.False(t, ok)
}

func TestTracker_EmptyName(t *testing.T) {
	tracker := NewTracker()

	tracker.Track("", 3)
	require.Equal(t, 0, tracker.Count())

	_, ok := tracker.Lookup("")
	require.False(t, ok)
}

func TestTracker_DuplicateNames(t *testing.T) {
	tracker := NewTracker()

	tracker.Track("Glass", 4)
	tracker.Track("glass", 7)
	require.Equal(t, 2, tracker.Count())

	slot, ok := tracker.Lookup("GLASS")
	require.True(t, ok)
	require.Equal(t, 4, slot)

	tracker.Untrack("Glass", 4)
	slot, ok = tracker.Lookup("Glass")
	require.True(t, ok)
	require.Equal(t, 7, slot)

	tracker.Untrack("glass", 7)
	_, ok = tracker.Lookup("Glass")
	require.False(t, ok)
	require.Equal(t, 0, tracker.Count())
}

func TestTracker_Collision(t *testing.T) {
	tracker := NewTracker()

	// Forge a collision by planting an entry under another name's hash.
	h := hash.NameID("Concrete")
	tracker.byHash[h] = []entry{{name: "Masonry", slot: 9}}
	tracker.count = 1

	tracker.Track("Concrete", 2)
	require.Len(t, tracker.byHash[h], 2)

	slot, ok := tracker.Lookup("concrete")
	require.True(t, ok)
	require.Equal(t, 2, slot)

	slot, ok = tracker.Lookup("MASONRY")
	require.False(t, ok, "planted entry lives under a foreign hash")
	require.Zero(t, slot)

	tracker.Untrack("Concrete", 2)
	_, ok = tracker.Lookup("Concrete")
	require.False(t, ok)
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	tracker.Track("a", 0)
	tracker.Track("b", 1)

	tracker.Reset()
	require.Equal(t, 0, tracker.Count())
	_, ok := tracker.Lookup("a")
	require.False(t, ok)
}
