package ecs

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/cey0225/kon/assert"
)

// borrowState tracks the runtime borrow flags of one store. Queries acquire a
// borrow for the duration of a traversal; structural mutations of a borrowed
// store fail with ErrBorrowConflict.
type borrowState struct {
	shared    int
	exclusive bool
}

// busy reports whether any borrow is currently held.
func (b *borrowState) busy() bool {
	return b.exclusive || b.shared > 0
}

// acquireShared takes a shared borrow. Any number of shared borrows may
// coexist, but not with an exclusive one.
func (b *borrowState) acquireShared() error {
	if b.exclusive {
		return ErrBorrowConflict
	}
	b.shared++
	return nil
}

func (b *borrowState) releaseShared() {
	assert.That(b.shared > 0, "released a shared borrow that was never acquired")
	b.shared--
}

// acquireExclusive takes the exclusive borrow. It fails while any other
// borrow is held.
func (b *borrowState) acquireExclusive() error {
	if b.busy() {
		return ErrBorrowConflict
	}
	b.exclusive = true
	return nil
}

func (b *borrowState) releaseExclusive() {
	assert.That(b.exclusive, "released an exclusive borrow that was never acquired")
	b.exclusive = false
}

// anyStore is the type-erased interface the world holds for every registered
// component store.
type anyStore interface {
	componentName() string
	denseLen() int
	slotAt(row int) uint32
	contains(slot uint32) bool
	removeSlot(slot uint32) (bool, error)
	borrow() *borrowState
	rawJSON(slot uint32) (json.RawMessage, error)
}

var _ anyStore = &Store[int]{}

// Store is a sparse-set backed container for one component type. The dense
// arrays hold one row per entity that has the component, with no gaps, so a
// traversal touches only live data. The sparse index maps entity slots to
// dense rows.
type Store[T any] struct {
	compName string
	index    sparseIndex
	slots    []uint32 // dense row -> entity slot, same length as values
	values   []T
	borrows  borrowState
}

// newStore creates an empty store for component type T.
func newStore[T any](compName string) *Store[T] {
	const initialCapacity = 16
	return &Store[T]{
		compName: compName,
		index:    newSparseIndex(),
		slots:    make([]uint32, 0, initialCapacity),
		values:   make([]T, 0, initialCapacity),
	}
}

// componentName returns the registered name of the component type.
func (s *Store[T]) componentName() string {
	return s.compName
}

// denseLen returns the number of entities that currently have the component.
func (s *Store[T]) denseLen() int {
	return len(s.values)
}

// contains reports whether the slot has a row in this store.
func (s *Store[T]) contains(slot uint32) bool {
	_, ok := s.index.get(slot)
	return ok
}

// set inserts or overwrites the component for a slot. On overwrite the dense
// row is reused in place and the previous value is returned.
func (s *Store[T]) set(slot uint32, value T) (prev T, replaced bool, err error) {
	if s.borrows.busy() {
		return prev, false, eris.Wrapf(ErrBorrowConflict, "cannot set component %q during traversal", s.compName)
	}
	if row, ok := s.index.get(slot); ok {
		prev = s.values[row]
		s.values[row] = value
		return prev, true, nil
	}
	s.index.set(slot, len(s.values))
	s.slots = append(s.slots, slot)
	s.values = append(s.values, value)
	return prev, false, nil
}

// get returns a pointer into the dense array for a slot. The pointer is
// invalidated by the next structural mutation of the store.
func (s *Store[T]) get(slot uint32) (*T, bool) {
	row, ok := s.index.get(slot)
	if !ok {
		return nil, false
	}
	return &s.values[row], true
}

// removeSlot removes the component for a slot, if present. The last dense row
// is swapped into the vacated row so the dense arrays stay gapless, and the
// moved entity's sparse entry is patched to its new row.
func (s *Store[T]) removeSlot(slot uint32) (bool, error) {
	if s.borrows.busy() {
		return false, eris.Wrapf(ErrBorrowConflict, "cannot remove component %q during traversal", s.compName)
	}
	row, ok := s.index.get(slot)
	if !ok {
		return false, nil
	}

	lastRow := len(s.values) - 1
	if row != lastRow {
		movedSlot := s.slots[lastRow]
		s.slots[row] = movedSlot
		s.values[row] = s.values[lastRow]
		s.index.set(movedSlot, row)
	}
	s.slots = s.slots[:lastRow]
	s.values = s.values[:lastRow]
	s.index.remove(slot)
	return true, nil
}

// take removes the component for a slot and returns the removed value.
func (s *Store[T]) take(slot uint32) (T, bool, error) {
	var zero T
	row, ok := s.index.get(slot)
	if !ok {
		return zero, false, nil
	}
	value := s.values[row]
	if _, err := s.removeSlot(slot); err != nil {
		return zero, false, err
	}
	return value, true, nil
}

// slotAt returns the entity slot stored at a dense row.
func (s *Store[T]) slotAt(row int) uint32 {
	return s.slots[row]
}

// valueAt returns a pointer to the component stored at a dense row.
func (s *Store[T]) valueAt(row int) *T {
	return &s.values[row]
}

// borrow exposes the store's borrow flags to the query layer.
func (s *Store[T]) borrow() *borrowState {
	return &s.borrows
}

// rawJSON marshals the component for a slot, for state dumps and searches.
func (s *Store[T]) rawJSON(slot uint32) (json.RawMessage, error) {
	row, ok := s.index.get(slot)
	if !ok {
		return nil, eris.Wrap(ErrEntityNotFound, "slot has no row in store")
	}
	data, err := json.Marshal(s.values[row])
	if err != nil {
		return nil, eris.Wrapf(err, "failed to marshal component %q", s.compName)
	}
	return data, nil
}
