package ecs

import (
	"fmt"
	"math"

	"github.com/kelindar/bitmap"
)

// EntityID identifies a logical game object. It pairs a recyclable slot index
// with a generation counter so that handles to despawned entities can never
// alias a later entity occupying the same slot.
type EntityID struct {
	Index      uint32
	Generation uint32
}

// MaxEntityIndex is the highest slot index the world will allocate.
const MaxEntityIndex = math.MaxUint32 - 1

func (e EntityID) String() string {
	return fmt.Sprintf("Entity(%dv%d)", e.Index, e.Generation)
}

// entityTable owns entity slot allocation. Each slot carries a generation
// counter that only ever increases; a handle is live iff its generation
// matches the slot's current generation and the slot's alive bit is set.
// The world is single-threaded by contract, so the table takes no locks.
type entityTable struct {
	nextIndex   uint32        // Next slot to allocate when the free list is empty
	generations []uint32      // Current generation per slot, indexed by slot
	alive       bitmap.Bitmap // Alive bit per slot
	free        []uint32      // Stack of recycled slots (LIFO)
}

// newEntityTable creates an empty entity table.
func newEntityTable() entityTable {
	return entityTable{
		nextIndex:   0,
		generations: make([]uint32, 0, sparseCapacity),
		alive:       bitmap.Bitmap{},
		free:        make([]uint32, 0),
	}
}

// spawn allocates a slot and returns its handle. The most recently freed slot
// is reused first; otherwise a fresh slot is allocated.
func (t *entityTable) spawn() EntityID {
	var index uint32
	if n := len(t.free); n > 0 {
		// Pop from the top of the free stack (LIFO).
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = t.nextIndex
		if index > MaxEntityIndex {
			panic("ecs: max number of entity slots exceeded")
		}
		t.nextIndex++
	}

	for int(index) >= len(t.generations) {
		t.generations = append(t.generations, 0)
	}

	t.alive.Set(index)
	return EntityID{Index: index, Generation: t.generations[index]}
}

// despawn marks the handle's slot dead and queues it for reuse. The slot's
// generation is bumped so the handle can never match a live entity again.
func (t *entityTable) despawn(e EntityID) error {
	if !t.isAlive(e) {
		return ErrEntityNotFound
	}

	t.alive.Remove(e.Index)
	t.generations[e.Index]++
	t.free = append(t.free, e.Index)

	return nil
}

// isAlive reports whether the handle refers to a live entity. Pure lookup.
func (t *entityTable) isAlive(e EntityID) bool {
	if int(e.Index) >= len(t.generations) {
		return false
	}
	return t.alive.Contains(e.Index) && t.generations[e.Index] == e.Generation
}

// generation returns the current generation for a slot.
func (t *entityTable) generation(index uint32) uint32 {
	if int(index) >= len(t.generations) {
		return 0
	}
	return t.generations[index]
}

// count returns the number of live entities.
func (t *entityTable) count() int {
	return t.alive.Count()
}

// each calls fn for every live slot in ascending index order.
func (t *entityTable) each(fn func(EntityID)) {
	t.alive.Range(func(index uint32) {
		fn(EntityID{Index: index, Generation: t.generations[index]})
	})
}
