package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/onx/errs"
)

func newLayers(t *testing.T, names ...string) (*Table[*Layer], []*Layer) {
	t.Helper()

	table := NewTable[*Layer]("layers")
	layers := make([]*Layer, len(names))
	for i, name := range names {
		layers[i] = &Layer{ComponentHeader: ComponentHeader{Name: name}, Visible: true}
		index, err := table.Add(layers[i])
		require.NoError(t, err)
		require.Equal(t, i, index)
	}

	return table, layers
}

func TestTable_Add(t *testing.T) {
	table, layers := newLayers(t, "Default", "Walls")

	require.Equal(t, 2, table.Count())
	require.Equal(t, 2, table.Len())
	for i, l := range layers {
		require.NotEqual(t, uuid.Nil, l.ID, "Add assigns an id")
		require.Equal(t, i, l.Index)
	}

	t.Run("KeepsGivenID", func(t *testing.T) {
		id := uuid.New()
		l := &Layer{ComponentHeader: ComponentHeader{ID: id}}
		_, err := table.Add(l)
		require.NoError(t, err)
		require.Equal(t, id, l.ID)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		dup := &Layer{ComponentHeader: ComponentHeader{ID: layers[0].ID}}
		_, err := table.Add(dup)
		require.ErrorIs(t, err, errs.ErrDuplicateID)
	})

	t.Run("Nil", func(t *testing.T) {
		_, err := table.Add(nil)
		require.ErrorIs(t, err, errs.ErrNilComponent)
	})
}

func TestTable_Lookup(t *testing.T) {
	table, layers := newLayers(t, "Default", "Walls", "walls")

	got, ok := table.FindID(layers[1].ID)
	require.True(t, ok)
	require.Same(t, layers[1], got)

	got, ok = table.FindIndex(2)
	require.True(t, ok)
	require.Same(t, layers[2], got)

	_, ok = table.FindIndex(3)
	require.False(t, ok)
	_, ok = table.FindIndex(-1)
	require.False(t, ok)

	got, ok = table.FindName("WALLS")
	require.True(t, ok)
	require.Same(t, layers[1], got, "first match in insertion order")

	_, ok = table.FindName("Roof")
	require.False(t, ok)

	require.True(t, table.Rename(layers[1].ID, "Roof"))
	got, ok = table.FindName("roof")
	require.True(t, ok)
	require.Same(t, layers[1], got)
	got, ok = table.FindName("walls")
	require.True(t, ok)
	require.Same(t, layers[2], got)
	require.False(t, table.Rename(uuid.New(), "x"))
}

func TestTable_DeleteLeavesGap(t *testing.T) {
	table, layers := newLayers(t, "a", "b", "c")

	require.True(t, table.Delete(layers[1].ID))
	require.False(t, table.Delete(layers[1].ID))

	require.Equal(t, 2, table.Count())
	require.Equal(t, 3, table.Len())
	require.Equal(t, 2, layers[2].Index, "remaining indices do not move")

	_, ok := table.FindIndex(1)
	require.False(t, ok)
	_, ok = table.FindName("b")
	require.False(t, ok)

	var indices []int
	for i := range table.All() {
		indices = append(indices, i)
	}
	require.Equal(t, []int{0, 2}, indices)
}

func TestTable_AtSnapshot(t *testing.T) {
	table, layers := newLayers(t, "a", "b", "c", "d")

	first, err := table.At(0)
	require.NoError(t, err)
	require.Same(t, layers[0], first)

	// Deleting mid-pass keeps the other positions stable.
	require.True(t, table.Delete(layers[1].ID))

	_, err = table.At(1)
	require.ErrorIs(t, err, errs.ErrComponentRemoved)

	got, err := table.At(2)
	require.NoError(t, err)
	require.Same(t, layers[2], got)

	got, err = table.At(3)
	require.NoError(t, err)
	require.Same(t, layers[3], got)

	_, err = table.At(4)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	// A new pass no longer contains the deleted component.
	var names []string
	for i := 0; ; i++ {
		l, err := table.At(i)
		if err != nil {
			require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
			break
		}
		names = append(names, l.Name)
	}
	require.Equal(t, []string{"a", "c", "d"}, names)

	_, err = table.At(-1)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestTable_AllSkipsDeletedDuringIteration(t *testing.T) {
	table, layers := newLayers(t, "a", "b", "c")

	var seen []string
	for _, l := range table.All() {
		seen = append(seen, l.Name)
		if l.Name == "a" {
			table.Delete(layers[1].ID)
		}
	}
	require.Equal(t, []string{"a", "c"}, seen)
}

func TestTable_Compact(t *testing.T) {
	table, layers := newLayers(t, "a", "b", "c")

	ref, err := table.Ref(layers[2].ID)
	require.NoError(t, err)

	require.True(t, table.Delete(layers[0].ID))
	table.Compact()

	require.Equal(t, 2, table.Len())
	require.Equal(t, 0, layers[1].Index)
	require.Equal(t, 1, layers[2].Index)

	got, ok := table.FindName("c")
	require.True(t, ok)
	require.Same(t, layers[2], got)

	got, err = ref.Get()
	require.NoError(t, err, "refs resolve by id after compaction")
	require.Same(t, layers[2], got)
}

func TestRef(t *testing.T) {
	table, layers := newLayers(t, "a", "b")

	ref, err := table.Ref(layers[0].ID)
	require.NoError(t, err)
	require.Equal(t, layers[0].ID, ref.ID())
	require.True(t, ref.Valid())

	got, err := ref.Get()
	require.NoError(t, err)
	require.Same(t, layers[0], got)

	require.True(t, table.Delete(layers[0].ID))
	require.False(t, ref.Valid())
	_, err = ref.Get()
	require.ErrorIs(t, err, errs.ErrComponentRemoved)

	// Handles resolve by id, so re-adding the component revives them.
	_, err = table.Add(layers[0])
	require.NoError(t, err)
	got, err = ref.Get()
	require.NoError(t, err)
	require.Same(t, layers[0], got)

	_, err = table.Ref(uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)

	var zero Ref[*Layer]
	_, err = zero.Get()
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTable_Restore(t *testing.T) {
	table := NewTable[*Layer]("layers")

	b := &Layer{ComponentHeader: ComponentHeader{ID: uuid.New(), Index: 2, Name: "b"}}
	a := &Layer{ComponentHeader: ComponentHeader{ID: uuid.New(), Index: 0, Name: "a"}}
	require.NoError(t, table.restore(b))
	require.NoError(t, table.restore(a))

	require.Equal(t, 3, table.Len())
	require.Equal(t, 2, table.Count())
	got, ok := table.FindIndex(2)
	require.True(t, ok)
	require.Same(t, b, got)

	next := &Layer{}
	index, err := table.Add(next)
	require.NoError(t, err)
	require.Equal(t, 3, index)

	dupID := &Layer{ComponentHeader: ComponentHeader{ID: a.ID, Index: 5}}
	require.ErrorIs(t, table.restore(dupID), errs.ErrCorruptArchive)

	dupIndex := &Layer{ComponentHeader: ComponentHeader{ID: uuid.New(), Index: 0}}
	require.ErrorIs(t, table.restore(dupIndex), errs.ErrCorruptArchive)

	nilID := &Layer{ComponentHeader: ComponentHeader{Index: 9}}
	require.ErrorIs(t, table.restore(nilID), errs.ErrCorruptArchive)

	huge := &Layer{ComponentHeader: ComponentHeader{ID: uuid.New(), Index: maxRestoreIndex + 1}}
	require.ErrorIs(t, table.restore(huge), errs.ErrCorruptArchive)
}

func TestStrings(t *testing.T) {
	s := NewStrings()
	s.Set("b", "1")
	s.Set("a", "2")
	s.Set("b", "3")

	require.Equal(t, 2, s.Count())
	require.Equal(t, []string{"b", "a"}, s.Keys())
	v, ok := s.Get("b")
	require.True(t, ok)
	require.Equal(t, "3", v)

	require.True(t, s.Delete("b"))
	require.False(t, s.Delete("b"))
	require.Equal(t, []string{"a"}, s.Keys())

	for k, v := range s.All() {
		require.Equal(t, "a", k)
		require.Equal(t, "2", v)
	}
}
