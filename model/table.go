package model

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/google/uuid"

	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/internal/collision"
)

type slot[T Component] struct {
	comp T
	gen  uint32
	live bool
}

// Table is an arena of components addressed by index and by id.
//
// A component's Index is its slot. Deleting a component leaves an empty slot, so
// the indices of the remaining components do not move until Compact is called.
// Ids never change.
//
// Note: Table is NOT thread-safe.
type Table[T Component] struct {
	name     string
	slots    []slot[T]
	byID     map[uuid.UUID]int
	names    *collision.Tracker
	live     int
	snapshot []uuid.UUID // index → id, rebuilt when At(0) starts a pass
}

// NewTable creates an empty table. name is used in error messages.
func NewTable[T Component](name string) *Table[T] {
	return &Table[T]{
		name:  name,
		byID:  make(map[uuid.UUID]int),
		names: collision.NewTracker(),
	}
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

// Count returns the number of components.
func (t *Table[T]) Count() int {
	return t.live
}

// Len returns the number of slots, including empty ones.
func (t *Table[T]) Len() int {
	return len(t.slots)
}

// Add appends comp and returns its index. A nil id is replaced by a new random
// id.
func (t *Table[T]) Add(comp T) (int, error) {
	if isNil(comp) {
		return -1, fmt.Errorf("%s: %w", t.name, errs.ErrNilComponent)
	}

	h := comp.Header()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if _, dup := t.byID[h.ID]; dup {
		return -1, fmt.Errorf("%s: %w: %s", t.name, errs.ErrDuplicateID, h.ID)
	}

	h.Index = len(t.slots)
	t.place(h.Index, comp)

	return h.Index, nil
}

// maxRestoreIndex bounds the slots a read may allocate for one table.
const maxRestoreIndex = 1 << 24

// restore puts comp back at the index it was written with. Gaps left by
// deleted components are kept as empty slots.
func (t *Table[T]) restore(comp T) error {
	h := comp.Header()
	if _, dup := t.byID[h.ID]; dup || h.ID == uuid.Nil {
		return fmt.Errorf("%w: %s: %w: %s", errs.ErrCorruptArchive, t.name, errs.ErrDuplicateID, h.ID)
	}
	if h.Index > maxRestoreIndex {
		return fmt.Errorf("%w: %s: index %d out of range", errs.ErrCorruptArchive, t.name, h.Index)
	}
	if h.Index < len(t.slots) && t.slots[h.Index].live {
		return fmt.Errorf("%w: %s: index %d used twice", errs.ErrCorruptArchive, t.name, h.Index)
	}
	for len(t.slots) <= h.Index {
		t.slots = append(t.slots, slot[T]{})
	}
	t.place(h.Index, comp)

	return nil
}

func (t *Table[T]) place(index int, comp T) {
	h := comp.Header()
	if index == len(t.slots) {
		t.slots = append(t.slots, slot[T]{})
	}

	s := &t.slots[index]
	s.comp = comp
	s.live = true
	t.byID[h.ID] = index
	t.names.Track(h.Name, index)
	t.live++
}

// Delete removes the component with the given id. It reports whether a
// component was removed.
func (t *Table[T]) Delete(id uuid.UUID) bool {
	index, ok := t.byID[id]
	if !ok {
		return false
	}

	s := &t.slots[index]
	t.names.Untrack(s.comp.Header().Name, index)
	delete(t.byID, id)

	var zero T
	s.comp = zero
	s.live = false
	s.gen++
	t.live--

	return true
}

// FindIndex returns the component at index. ok is false for an index outside
// the table or an empty slot.
func (t *Table[T]) FindIndex(index int) (T, bool) {
	var zero T
	if index < 0 || index >= len(t.slots) || !t.slots[index].live {
		return zero, false
	}

	return t.slots[index].comp, true
}

// FindID returns the component with the given id.
func (t *Table[T]) FindID(id uuid.UUID) (T, bool) {
	index, ok := t.byID[id]
	if !ok {
		var zero T
		return zero, false
	}

	return t.slots[index].comp, true
}

// FindName returns the first component, in insertion order, whose name equals
// name ignoring case.
func (t *Table[T]) FindName(name string) (T, bool) {
	index, ok := t.names.Lookup(name)
	if !ok {
		var zero T
		return zero, false
	}

	return t.FindIndex(index)
}

// Rename changes the name of the component with the given id and keeps the
// name index current.
func (t *Table[T]) Rename(id uuid.UUID, name string) bool {
	index, ok := t.byID[id]
	if !ok {
		return false
	}

	h := t.slots[index].comp.Header()
	t.names.Untrack(h.Name, index)
	h.Name = name
	t.names.Track(name, index)

	return true
}

// At returns the i-th live component of the current iteration pass.
//
// At(0) snapshots the ids of the live components in index order; later calls
// resolve positions through that snapshot. Deleting a component during a pass
// therefore does not shift the positions of the others, and At reports
// ErrComponentRemoved for the deleted position. The next pass, starting at 0
// again, no longer contains it. i outside the snapshot is ErrIndexOutOfRange.
func (t *Table[T]) At(i int) (T, error) {
	var zero T
	if i == 0 || t.snapshot == nil {
		t.snapshot = t.ids()
	}
	if i < 0 || i >= len(t.snapshot) {
		return zero, fmt.Errorf("%s: %w: %d of %d", t.name, errs.ErrIndexOutOfRange, i, len(t.snapshot))
	}

	comp, ok := t.FindID(t.snapshot[i])
	if !ok {
		return zero, fmt.Errorf("%s: %w: position %d", t.name, errs.ErrComponentRemoved, i)
	}

	return comp, nil
}

// All iterates over the live components in index order. The set of components
// is fixed when iteration starts; components deleted during iteration are
// skipped.
func (t *Table[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for _, id := range t.ids() {
			comp, ok := t.FindID(id)
			if !ok {
				continue
			}
			if !yield(comp.Header().Index, comp) {
				return
			}
		}
	}
}

// Compact removes empty slots and renumbers the remaining components in order.
// Refs taken before compaction still resolve by id.
func (t *Table[T]) Compact() {
	if t.live == len(t.slots) {
		return
	}

	kept := make([]slot[T], 0, t.live)
	t.names.Reset()
	for _, s := range t.slots {
		if !s.live {
			continue
		}

		index := len(kept)
		h := s.comp.Header()
		h.Index = index
		t.byID[h.ID] = index
		t.names.Track(h.Name, index)
		kept = append(kept, slot[T]{comp: s.comp, live: true})
	}
	t.slots = kept
	t.snapshot = nil
}

// Ref returns a handle to the component with the given id.
func (t *Table[T]) Ref(id uuid.UUID) (Ref[T], error) {
	index, ok := t.byID[id]
	if !ok {
		return Ref[T]{}, fmt.Errorf("%s: %w: %s", t.name, errs.ErrNotFound, id)
	}

	return Ref[T]{table: t, id: id, index: index, gen: t.slots[index].gen}, nil
}

func (t *Table[T]) ids() []uuid.UUID {
	ids := make([]uuid.UUID, 0, t.live)
	for _, s := range t.slots {
		if s.live {
			ids = append(ids, s.comp.Header().ID)
		}
	}

	return ids
}

// Ref is a weak handle to a table entry. It does not keep the entry alive: once
// the entry is deleted, Get reports ErrComponentRemoved.
type Ref[T Component] struct {
	table *Table[T]
	id    uuid.UUID
	index int
	gen   uint32
}

// ID returns the id of the referenced component.
func (r Ref[T]) ID() uuid.UUID {
	return r.id
}

// Get returns the referenced component.
func (r Ref[T]) Get() (T, error) {
	var zero T
	if r.table == nil {
		return zero, errs.ErrNotFound
	}

	if r.index < len(r.table.slots) {
		s := r.table.slots[r.index]
		if s.live && s.gen == r.gen && s.comp.Header().ID == r.id {
			return s.comp, nil
		}
	}

	// Compaction moves entries; fall back to the id.
	if comp, ok := r.table.FindID(r.id); ok {
		return comp, nil
	}

	return zero, fmt.Errorf("%s: %w: %s", r.table.name, errs.ErrComponentRemoved, r.id)
}

// Valid reports whether the referenced component still exists.
func (r Ref[T]) Valid() bool {
	_, err := r.Get()
	return err == nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
