package ecs_test

import (
	"testing"

	"github.com/cey0225/kon/assert"
	"github.com/cey0225/kon/ecs"
	"github.com/cey0225/kon/testutils"
)

func TestSelector_MovementSystem(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	mover := w.Spawn()
	_, _, err := ecs.Set(w, mover, testutils.Position{X: 0, Y: 0})
	assert.NilError(t, err)
	_, _, err = ecs.Set(w, mover, testutils.Velocity{DX: 1, DY: 0})
	assert.NilError(t, err)

	// An entity without Velocity must not move.
	still := w.Spawn()
	_, _, err = ecs.Set(w, still, testutils.Position{X: 10, Y: 10})
	assert.NilError(t, err)

	err = ecs.SelectMut2[testutils.Position, testutils.Velocity](w).
		Each(func(_ ecs.EntityID, pos *testutils.Position, vel *testutils.Velocity) error {
			pos.X += vel.DX
			pos.Y += vel.DY
			return nil
		})
	assert.NilError(t, err)

	moved, _ := ecs.Get[testutils.Position](w, mover)
	assert.Equal(t, 1.0, moved.X)
	assert.Equal(t, 0.0, moved.Y)
	unmoved, _ := ecs.Get[testutils.Position](w, still)
	assert.Equal(t, 10.0, unmoved.X)
}

func TestSelector_TagFilters(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	spawnWithTags := func(hp int, tags ...string) ecs.EntityID {
		e := w.Spawn()
		_, _, err := ecs.Set(w, e, testutils.Health{HP: hp, Max: 100})
		assert.NilError(t, err)
		for _, tag := range tags {
			assert.NilError(t, w.AddTag(e, tag))
		}
		return e
	}

	enemy := spawnWithTags(10, "enemy")
	frozenEnemy := spawnWithTags(20, "enemy", "frozen")
	spawnWithTags(30) // untagged

	var seen []ecs.EntityID
	err := ecs.Select[testutils.Health](w).Tagged("enemy").NotTagged("frozen").
		Each(func(id ecs.EntityID, _ *testutils.Health) error {
			seen = append(seen, id)
			return nil
		})
	assert.NilError(t, err)
	assert.DeepEqual(t, []ecs.EntityID{enemy}, seen)

	count, err := ecs.Select[testutils.Health](w).Tagged("enemy").Count()
	assert.NilError(t, err)
	assert.Equal(t, 2, count)

	// A tag name no entity carries yields an empty traversal, not an error.
	count, err = ecs.Select[testutils.Health](w).Tagged("ghost").Count()
	assert.NilError(t, err)
	assert.Equal(t, 0, count)

	// Filters see tag changes immediately.
	assert.NilError(t, w.RemoveTag(frozenEnemy, "frozen"))
	count, err = ecs.Select[testutils.Health](w).Tagged("enemy").NotTagged("frozen").Count()
	assert.NilError(t, err)
	assert.Equal(t, 2, count)
}

func TestSelector_DrivenByRarestComponent(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	// Many entities with Position, few with Sprite. The join must only
	// produce entities that have both.
	for i := 0; i < 50; i++ {
		e := w.Spawn()
		_, _, err := ecs.Set(w, e, testutils.Position{X: float64(i)})
		assert.NilError(t, err)
		if i%10 == 0 {
			_, _, err = ecs.Set(w, e, testutils.Sprite{Layer: i})
			assert.NilError(t, err)
		}
	}

	count, err := ecs.Select2[testutils.Position, testutils.Sprite](w).Count()
	assert.NilError(t, err)
	assert.Equal(t, 5, count)

	// Order of type parameters does not change the result set.
	count, err = ecs.Select2[testutils.Sprite, testutils.Position](w).Count()
	assert.NilError(t, err)
	assert.Equal(t, 5, count)
}

func TestSelector_ThreeAndFourWayJoins(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	full := w.Spawn()
	for _, set := range []func() error{
		func() error { _, _, err := ecs.Set(w, full, testutils.Position{}); return err },
		func() error { _, _, err := ecs.Set(w, full, testutils.Velocity{}); return err },
		func() error { _, _, err := ecs.Set(w, full, testutils.Health{HP: 1}); return err },
		func() error { _, _, err := ecs.Set(w, full, testutils.Sprite{}); return err },
	} {
		assert.NilError(t, set())
	}

	partial := w.Spawn()
	_, _, err := ecs.Set(w, partial, testutils.Position{})
	assert.NilError(t, err)
	_, _, err = ecs.Set(w, partial, testutils.Velocity{})
	assert.NilError(t, err)

	count, err := ecs.Select3[testutils.Position, testutils.Velocity, testutils.Health](w).Count()
	assert.NilError(t, err)
	assert.Equal(t, 1, count)

	count, err = ecs.Select4[testutils.Position, testutils.Velocity, testutils.Health, testutils.Sprite](w).Count()
	assert.NilError(t, err)
	assert.Equal(t, 1, count)
}

func TestSelector_First(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	_, _, _, err := ecs.Select[testutils.Position](w).First()
	assert.NilError(t, err)

	e := w.Spawn()
	_, _, err = ecs.Set(w, e, testutils.Position{X: 4})
	assert.NilError(t, err)

	id, pos, found, err := ecs.Select[testutils.Position](w).First()
	assert.NilError(t, err)
	assert.True(t, found)
	assert.Equal(t, e, id)
	assert.Equal(t, 4.0, pos.X)
}

func TestSelector_MutationDuringTraversalFails(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	e := w.Spawn()
	_, _, err := ecs.Set(w, e, testutils.Position{})
	assert.NilError(t, err)
	other := w.Spawn()
	_, _, err = ecs.Set(w, other, testutils.Position{})
	assert.NilError(t, err)

	err = ecs.Select[testutils.Position](w).Each(func(id ecs.EntityID, _ *testutils.Position) error {
		// Structural mutations of the traversed store are rejected.
		_, _, setErr := ecs.Set(w, other, testutils.Position{X: 1})
		assert.ErrorIs(t, setErr, ecs.ErrBorrowConflict)
		_, _, remErr := ecs.Remove[testutils.Position](w, other)
		assert.ErrorIs(t, remErr, ecs.ErrBorrowConflict)
		assert.ErrorIs(t, w.Despawn(other), ecs.ErrBorrowConflict)

		// Stores not in the traversal are unaffected.
		_, _, hpErr := ecs.Set(w, other, testutils.Health{HP: 5})
		assert.NilError(t, hpErr)
		return nil
	})
	assert.NilError(t, err)

	// The borrow is released when the traversal ends.
	_, _, err = ecs.Set(w, other, testutils.Position{X: 1})
	assert.NilError(t, err)
}

func TestSelector_BorrowModes(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	e := w.Spawn()
	_, _, err := ecs.Set(w, e, testutils.Position{})
	assert.NilError(t, err)

	// Overlapping read traversals are allowed.
	err = ecs.Select[testutils.Position](w).Each(func(ecs.EntityID, *testutils.Position) error {
		inner, innerErr := ecs.Select[testutils.Position](w).Count()
		assert.NilError(t, innerErr)
		assert.Equal(t, 1, inner)
		return nil
	})
	assert.NilError(t, err)

	// A mutating traversal conflicts with an active read traversal.
	err = ecs.Select[testutils.Position](w).Each(func(ecs.EntityID, *testutils.Position) error {
		innerErr := ecs.SelectMut[testutils.Position](w).Each(
			func(ecs.EntityID, *testutils.Position) error { return nil })
		assert.ErrorIs(t, innerErr, ecs.ErrBorrowConflict)
		return nil
	})
	assert.NilError(t, err)
}

func TestSelector_AliasedMutableStoresFail(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	e := w.Spawn()
	_, _, err := ecs.Set(w, e, testutils.Position{})
	assert.NilError(t, err)

	// Naming the same component twice in a mutable selector would alias two
	// exclusive borrows of one store.
	err = ecs.SelectMut2[testutils.Position, testutils.Position](w).
		Each(func(ecs.EntityID, *testutils.Position, *testutils.Position) error { return nil })
	assert.ErrorIs(t, err, ecs.ErrBorrowConflict)

	// Read-only aliasing is fine.
	count, err := ecs.Select2[testutils.Position, testutils.Position](w).Count()
	assert.NilError(t, err)
	assert.Equal(t, 1, count)
}

func TestSelector_CallbackErrorAborts(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	for i := 0; i < 5; i++ {
		e := w.Spawn()
		_, _, err := ecs.Set(w, e, testutils.Health{HP: i})
		assert.NilError(t, err)
	}

	visits := 0
	err := ecs.Select[testutils.Health](w).Each(func(ecs.EntityID, *testutils.Health) error {
		visits++
		if visits == 2 {
			return ecs.ErrEntityNotFound
		}
		return nil
	})
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)
	assert.Equal(t, 2, visits)

	// The borrow is released even on an aborted traversal.
	_, _, err = ecs.Set(w, w.Spawn(), testutils.Health{})
	assert.NilError(t, err)
}
