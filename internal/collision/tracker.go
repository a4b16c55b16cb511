package collision

import (
	"strings"

	"github.com/arloliu/onx/internal/hash"
)

type entry struct {
	name string
	slot int
}

// Tracker indexes component names by their case-folded hash. Names that
// collide on the hash share a bucket and are told apart by comparing the names.
// Several slots may share a name; Lookup returns the one tracked first.
type Tracker struct {
	byHash map[uint64][]entry // Hash → entries in tracking order
	count  int
}

// NewTracker creates a new name tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byHash: make(map[uint64][]entry),
	}
}

// Track records that slot holds a component called name. Empty names are not
// indexed.
func (t *Tracker) Track(name string, slot int) {
	if name == "" {
		return
	}

	h := hash.NameID(name)
	t.byHash[h] = append(t.byHash[h], entry{name: name, slot: slot})
	t.count++
}

// Untrack removes the entry recorded for name and slot.
func (t *Tracker) Untrack(name string, slot int) {
	if name == "" {
		return
	}

	h := hash.NameID(name)
	entries := t.byHash[h]
	for i, e := range entries {
		if e.slot == slot && e.name == name {
			entries = append(entries[:i], entries[i+1:]...)
			t.count--

			break
		}
	}

	if len(entries) == 0 {
		delete(t.byHash, h)
	} else {
		t.byHash[h] = entries
	}
}

// Lookup returns the first slot tracked under a name equal to name ignoring
// case.
func (t *Tracker) Lookup(name string) (int, bool) {
	for _, e := range t.byHash[hash.NameID(name)] {
		if strings.EqualFold(e.name, name) {
			return e.slot, true
		}
	}

	return 0, false
}

// Count returns the number of tracked entries.
func (t *Tracker) Count() int {
	return t.count
}

// Reset clears all entries, keeping the map's capacity.
func (t *Tracker) Reset() {
	clear(t.byHash)
	t.count = 0
}
