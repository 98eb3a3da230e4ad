package ecs

import (
	"github.com/rotisserie/eris"
)

// tagFilter holds the tag constraints of a selector before resolution.
type tagFilter struct {
	tagged    []string
	notTagged []string
}

// resolve turns tag names into masks. Names are registered on first use so a
// selector can mention a tag no entity carries yet.
func (f tagFilter) resolve(w *World) (required, excluded TagMask, err error) {
	if required, err = w.maskFor(f.tagged); err != nil {
		return TagMask{}, TagMask{}, err
	}
	if excluded, err = w.maskFor(f.notTagged); err != nil {
		return TagMask{}, TagMask{}, err
	}
	return required, excluded, nil
}

// matchTags reports whether a slot's tag mask satisfies the filter.
func matchTags(w *World, slot uint32, required, excluded TagMask) bool {
	mask := w.tags.maskOf(slot)
	return mask.ContainsAll(required) && !mask.Intersects(excluded)
}

// acquireAll takes a borrow on every store, rolling back on conflict. The
// returned release function undoes all of them.
func acquireAll(exclusive bool, borrows []*borrowState) (func(), error) {
	for i, b := range borrows {
		var err error
		if exclusive {
			err = b.acquireExclusive()
		} else {
			err = b.acquireShared()
		}
		if err != nil {
			releaseAll(exclusive, borrows[:i])
			return nil, eris.Wrap(err, "selector cannot borrow store")
		}
	}
	return func() { releaseAll(exclusive, borrows) }, nil
}

func releaseAll(exclusive bool, borrows []*borrowState) {
	for _, b := range borrows {
		if exclusive {
			b.releaseExclusive()
		} else {
			b.releaseShared()
		}
	}
}

// smallestStore picks the store with the fewest rows to drive the traversal.
// Every other required store is then probed per slot, so the loop cost is
// bounded by the rarest component.
func smallestStore(stores []anyStore) anyStore {
	driver := stores[0]
	for _, s := range stores[1:] {
		if s.denseLen() < driver.denseLen() {
			driver = s
		}
	}
	return driver
}

// entityAt rebuilds the full identifier for a slot known to be live.
func (w *World) entityAt(slot uint32) EntityID {
	return EntityID{Index: slot, Generation: w.entities.generation(slot)}
}

// -------------------------------------------------------------------------------------------------
// One component
// -------------------------------------------------------------------------------------------------

// Selector iterates entities that have component A, optionally filtered by
// tags. Built by Select or SelectMut; a selector is cheap to construct and
// holds no borrow until Each runs.
type Selector[A any] struct {
	world  *World
	mut    bool
	filter tagFilter
}

// Select builds a read-only selector over component A. The traversal holds a
// shared borrow on A's store; overlapping read traversals are allowed.
func Select[A any](w *World) *Selector[A] {
	return &Selector[A]{world: w}
}

// SelectMut builds a mutating selector over component A. The traversal holds
// the exclusive borrow on A's store, so it conflicts with any other traversal
// touching A.
func SelectMut[A any](w *World) *Selector[A] {
	return &Selector[A]{world: w, mut: true}
}

// Tagged restricts the selector to entities carrying every named tag.
func (s *Selector[A]) Tagged(names ...string) *Selector[A] {
	s.filter.tagged = append(s.filter.tagged, names...)
	return s
}

// NotTagged excludes entities carrying any of the named tags.
func (s *Selector[A]) NotTagged(names ...string) *Selector[A] {
	s.filter.notTagged = append(s.filter.notTagged, names...)
	return s
}

// Each calls fn for every matching entity. The component pointer aims into
// the store's dense array and is valid only for the duration of the call.
// An error from fn aborts the traversal and is returned.
func (s *Selector[A]) Each(fn func(EntityID, *A) error) error {
	w := s.world
	sa := storeOf[A](w)
	required, excluded, err := s.filter.resolve(w)
	if err != nil {
		return err
	}
	release, err := acquireAll(s.mut, []*borrowState{sa.borrow()})
	if err != nil {
		return err
	}
	defer release()

	for row := 0; row < sa.denseLen(); row++ {
		slot := sa.slotAt(row)
		if !matchTags(w, slot, required, excluded) {
			continue
		}
		if err := fn(w.entityAt(slot), sa.valueAt(row)); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of matching entities.
func (s *Selector[A]) Count() (int, error) {
	count := 0
	err := s.Each(func(EntityID, *A) error {
		count++
		return nil
	})
	return count, err
}

// First returns the first matching entity, or found false when none match.
func (s *Selector[A]) First() (id EntityID, value *A, found bool, err error) {
	err = s.Each(func(e EntityID, a *A) error {
		if !found {
			id, value, found = e, a, true
		}
		return errStopIteration
	})
	if eris.Is(err, errStopIteration) {
		err = nil
	}
	return id, value, found, err
}

var errStopIteration = eris.New("stop iteration")

// -------------------------------------------------------------------------------------------------
// Two components
// -------------------------------------------------------------------------------------------------

// Selector2 iterates entities that have both components A and B.
type Selector2[A, B any] struct {
	world  *World
	mut    bool
	filter tagFilter
}

// Select2 builds a read-only selector over components A and B.
func Select2[A, B any](w *World) *Selector2[A, B] {
	return &Selector2[A, B]{world: w}
}

// SelectMut2 builds a mutating selector over components A and B. Naming the
// same component type twice is a borrow conflict.
func SelectMut2[A, B any](w *World) *Selector2[A, B] {
	return &Selector2[A, B]{world: w, mut: true}
}

// Tagged restricts the selector to entities carrying every named tag.
func (s *Selector2[A, B]) Tagged(names ...string) *Selector2[A, B] {
	s.filter.tagged = append(s.filter.tagged, names...)
	return s
}

// NotTagged excludes entities carrying any of the named tags.
func (s *Selector2[A, B]) NotTagged(names ...string) *Selector2[A, B] {
	s.filter.notTagged = append(s.filter.notTagged, names...)
	return s
}

// Each calls fn for every matching entity. The traversal is driven by the
// store with the fewest rows; the other store is probed per slot.
func (s *Selector2[A, B]) Each(fn func(EntityID, *A, *B) error) error {
	w := s.world
	sa, sb := storeOf[A](w), storeOf[B](w)
	required, excluded, err := s.filter.resolve(w)
	if err != nil {
		return err
	}
	release, err := acquireAll(s.mut, []*borrowState{sa.borrow(), sb.borrow()})
	if err != nil {
		return err
	}
	defer release()

	driver := smallestStore([]anyStore{sa, sb})
	for row := 0; row < driver.denseLen(); row++ {
		slot := driver.slotAt(row)
		pa, ok := sa.get(slot)
		if !ok {
			continue
		}
		pb, ok := sb.get(slot)
		if !ok {
			continue
		}
		if !matchTags(w, slot, required, excluded) {
			continue
		}
		if err := fn(w.entityAt(slot), pa, pb); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of matching entities.
func (s *Selector2[A, B]) Count() (int, error) {
	count := 0
	err := s.Each(func(EntityID, *A, *B) error {
		count++
		return nil
	})
	return count, err
}

// -------------------------------------------------------------------------------------------------
// Three components
// -------------------------------------------------------------------------------------------------

// Selector3 iterates entities that have components A, B, and C.
type Selector3[A, B, C any] struct {
	world  *World
	mut    bool
	filter tagFilter
}

// Select3 builds a read-only selector over components A, B, and C.
func Select3[A, B, C any](w *World) *Selector3[A, B, C] {
	return &Selector3[A, B, C]{world: w}
}

// SelectMut3 builds a mutating selector over components A, B, and C.
func SelectMut3[A, B, C any](w *World) *Selector3[A, B, C] {
	return &Selector3[A, B, C]{world: w, mut: true}
}

// Tagged restricts the selector to entities carrying every named tag.
func (s *Selector3[A, B, C]) Tagged(names ...string) *Selector3[A, B, C] {
	s.filter.tagged = append(s.filter.tagged, names...)
	return s
}

// NotTagged excludes entities carrying any of the named tags.
func (s *Selector3[A, B, C]) NotTagged(names ...string) *Selector3[A, B, C] {
	s.filter.notTagged = append(s.filter.notTagged, names...)
	return s
}

// Each calls fn for every matching entity.
func (s *Selector3[A, B, C]) Each(fn func(EntityID, *A, *B, *C) error) error {
	w := s.world
	sa, sb, sc := storeOf[A](w), storeOf[B](w), storeOf[C](w)
	required, excluded, err := s.filter.resolve(w)
	if err != nil {
		return err
	}
	release, err := acquireAll(s.mut, []*borrowState{sa.borrow(), sb.borrow(), sc.borrow()})
	if err != nil {
		return err
	}
	defer release()

	driver := smallestStore([]anyStore{sa, sb, sc})
	for row := 0; row < driver.denseLen(); row++ {
		slot := driver.slotAt(row)
		pa, ok := sa.get(slot)
		if !ok {
			continue
		}
		pb, ok := sb.get(slot)
		if !ok {
			continue
		}
		pc, ok := sc.get(slot)
		if !ok {
			continue
		}
		if !matchTags(w, slot, required, excluded) {
			continue
		}
		if err := fn(w.entityAt(slot), pa, pb, pc); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of matching entities.
func (s *Selector3[A, B, C]) Count() (int, error) {
	count := 0
	err := s.Each(func(EntityID, *A, *B, *C) error {
		count++
		return nil
	})
	return count, err
}

// -------------------------------------------------------------------------------------------------
// Four components
// -------------------------------------------------------------------------------------------------

// Selector4 iterates entities that have components A, B, C, and D.
type Selector4[A, B, C, D any] struct {
	world  *World
	mut    bool
	filter tagFilter
}

// Select4 builds a read-only selector over components A, B, C, and D.
func Select4[A, B, C, D any](w *World) *Selector4[A, B, C, D] {
	return &Selector4[A, B, C, D]{world: w}
}

// SelectMut4 builds a mutating selector over components A, B, C, and D.
func SelectMut4[A, B, C, D any](w *World) *Selector4[A, B, C, D] {
	return &Selector4[A, B, C, D]{world: w, mut: true}
}

// Tagged restricts the selector to entities carrying every named tag.
func (s *Selector4[A, B, C, D]) Tagged(names ...string) *Selector4[A, B, C, D] {
	s.filter.tagged = append(s.filter.tagged, names...)
	return s
}

// NotTagged excludes entities carrying any of the named tags.
func (s *Selector4[A, B, C, D]) NotTagged(names ...string) *Selector4[A, B, C, D] {
	s.filter.notTagged = append(s.filter.notTagged, names...)
	return s
}

// Each calls fn for every matching entity.
func (s *Selector4[A, B, C, D]) Each(fn func(EntityID, *A, *B, *C, *D) error) error {
	w := s.world
	sa, sb := storeOf[A](w), storeOf[B](w)
	sc, sd := storeOf[C](w), storeOf[D](w)
	required, excluded, err := s.filter.resolve(w)
	if err != nil {
		return err
	}
	borrows := []*borrowState{sa.borrow(), sb.borrow(), sc.borrow(), sd.borrow()}
	release, err := acquireAll(s.mut, borrows)
	if err != nil {
		return err
	}
	defer release()

	driver := smallestStore([]anyStore{sa, sb, sc, sd})
	for row := 0; row < driver.denseLen(); row++ {
		slot := driver.slotAt(row)
		pa, ok := sa.get(slot)
		if !ok {
			continue
		}
		pb, ok := sb.get(slot)
		if !ok {
			continue
		}
		pc, ok := sc.get(slot)
		if !ok {
			continue
		}
		pd, ok := sd.get(slot)
		if !ok {
			continue
		}
		if !matchTags(w, slot, required, excluded) {
			continue
		}
		if err := fn(w.entityAt(slot), pa, pb, pc, pd); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of matching entities.
func (s *Selector4[A, B, C, D]) Count() (int, error) {
	count := 0
	err := s.Each(func(EntityID, *A, *B, *C, *D) error {
		count++
		return nil
	})
	return count, err
}
