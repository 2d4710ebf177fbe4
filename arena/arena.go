package arena

import (
	"github.com/arcana-engine/sierra-sub000/lifeutils"
)

type entry[T any] struct {
	value    T
	nextFree int
	occupied bool
}

// Table is a stable-index table mapping a small integer handle to a value of
// one resource kind. Insert returns an index that stays valid until the
// matching Remove, regardless of how many other entries come and go. Removed
// slots are recycled before the table grows.
//
// Table is not safe for concurrent use; owners guard it with their own lock,
// held only for the duration of a single Insert/Remove/Get.
type Table[T any] struct {
	entries  []entry[T]
	freeHead int
	count    int
}

// NewTable creates a Table pre-sized to hold capacity entries before its first
// growth. The capacity is a performance hint only, never a hard limit.
func NewTable[T any](capacity int) *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, capacity),
		freeHead: -1,
	}
}

// Insert stores value and returns its index.
func (t *Table[T]) Insert(value T) int {
	t.count++

	if t.freeHead >= 0 {
		index := t.freeHead
		t.freeHead = t.entries[index].nextFree
		t.entries[index] = entry[T]{value: value, nextFree: -1, occupied: true}
		return index
	}

	t.entries = append(t.entries, entry[T]{value: value, nextFree: -1, occupied: true})
	return len(t.entries) - 1
}

// Remove vacates the slot at index and returns the stored value. The caller is
// responsible for destroying the returned native object exactly once. Removing
// a vacant or out-of-range index is a contract violation: it asserts in debug
// builds and returns the zero value in release builds.
func (t *Table[T]) Remove(index int) T {
	var zero T
	if index < 0 || index >= len(t.entries) || !t.entries[index].occupied {
		lifeutils.DebugAssert(false, "arena: Remove of vacant index %d", index)
		return zero
	}

	value := t.entries[index].value
	t.entries[index] = entry[T]{value: zero, nextFree: t.freeHead, occupied: false}
	t.freeHead = index
	t.count--
	return value
}

// Get returns the value at index, or false if the slot is vacant.
func (t *Table[T]) Get(index int) (T, bool) {
	if index < 0 || index >= len(t.entries) || !t.entries[index].occupied {
		var zero T
		return zero, false
	}
	return t.entries[index].value, true
}

// Len returns the number of occupied slots.
func (t *Table[T]) Len() int {
	return t.count
}

// Cap returns the number of slots the table can hold before growing.
func (t *Table[T]) Cap() int {
	return cap(t.entries)
}

// Visit calls visit for every occupied slot. Used at teardown to report leaked
// entries.
func (t *Table[T]) Visit(visit func(index int, value T)) {
	for i := range t.entries {
		if t.entries[i].occupied {
			visit(i, t.entries[i].value)
		}
	}
}
