package ecs_test

import (
	"testing"

	"github.com/cey0225/kon/assert"
	"github.com/cey0225/kon/ecs"
	"github.com/cey0225/kon/testutils"
)

func TestWorld_SetGetRemove(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	e := w.Spawn()
	_, replaced, err := ecs.Set(w, e, testutils.Position{X: 1, Y: 2})
	assert.NilError(t, err)
	assert.False(t, replaced)

	pos, ok := ecs.Get[testutils.Position](w, e)
	assert.True(t, ok)
	assert.Equal(t, 1.0, pos.X)

	// Writes through the pointer land in the store.
	pos.X = 5
	pos2, _ := ecs.Get[testutils.Position](w, e)
	assert.Equal(t, 5.0, pos2.X)

	prev, replaced, err := ecs.Set(w, e, testutils.Position{X: 9, Y: 9})
	assert.NilError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, 5.0, prev.X)

	removed, wasThere, err := ecs.Remove[testutils.Position](w, e)
	assert.NilError(t, err)
	assert.True(t, wasThere)
	assert.Equal(t, 9.0, removed.X)
	assert.False(t, ecs.Has[testutils.Position](w, e))
}

func TestWorld_RemoveMissingComponentIsNoop(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	e := w.Spawn()
	_, wasThere, err := ecs.Remove[testutils.Health](w, e)
	assert.NilError(t, err)
	assert.False(t, wasThere)
}

func TestWorld_DespawnClearsEverything(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	e := w.Spawn()
	_, _, err := ecs.Set(w, e, testutils.Position{X: 1})
	assert.NilError(t, err)
	_, _, err = ecs.Set(w, e, testutils.Health{HP: 10, Max: 10})
	assert.NilError(t, err)
	assert.NilError(t, w.AddTag(e, "enemy"))

	assert.NilError(t, w.Despawn(e))
	assert.False(t, w.IsAlive(e))
	assert.Equal(t, 0, w.EntityCount())

	// The reused slot starts empty.
	e2 := w.Spawn()
	assert.Equal(t, e.Index, e2.Index)
	assert.False(t, ecs.Has[testutils.Position](w, e2))
	assert.False(t, ecs.Has[testutils.Health](w, e2))
	assert.False(t, w.HasTag(e2, "enemy"))
}

func TestWorld_StaleHandleIsInert(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	stale := w.Spawn()
	_, _, err := ecs.Set(w, stale, testutils.Health{HP: 1})
	assert.NilError(t, err)
	assert.NilError(t, w.Despawn(stale))

	// The slot is reused by a fresh entity.
	fresh := w.Spawn()
	_, _, err = ecs.Set(w, fresh, testutils.Health{HP: 100})
	assert.NilError(t, err)

	// The stale handle observes nothing and mutates nothing.
	assert.False(t, w.IsAlive(stale))
	_, ok := ecs.Get[testutils.Health](w, stale)
	assert.False(t, ok)
	assert.False(t, ecs.Has[testutils.Health](w, stale))
	_, _, err = ecs.Set(w, stale, testutils.Health{HP: 0})
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)
	assert.ErrorIs(t, w.Despawn(stale), ecs.ErrEntityNotFound)
	assert.ErrorIs(t, w.AddTag(stale, "x"), ecs.ErrEntityNotFound)

	hp, ok := ecs.Get[testutils.Health](w, fresh)
	assert.True(t, ok)
	assert.Equal(t, 100, hp.HP)
}

func TestWorld_Tags(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	e := w.Spawn()
	assert.NilError(t, w.AddTag(e, "enemy"))
	assert.NilError(t, w.AddTag(e, "boss"))
	assert.True(t, w.HasTag(e, "enemy"))
	assert.True(t, w.HasTag(e, "boss"))
	assert.False(t, w.HasTag(e, "frozen"))

	// Adding a tag twice is idempotent.
	assert.NilError(t, w.AddTag(e, "enemy"))
	assert.DeepEqual(t, []string{"enemy", "boss"}, w.TagsOf(e))

	assert.NilError(t, w.RemoveTag(e, "boss"))
	assert.False(t, w.HasTag(e, "boss"))

	// Removing an absent or unknown tag is a no-op.
	assert.NilError(t, w.RemoveTag(e, "boss"))
	assert.NilError(t, w.RemoveTag(e, "never-registered"))
}

func TestWorld_TagCapacity(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld(ecs.WithTagCapacity(2))

	e := w.Spawn()
	assert.NilError(t, w.AddTag(e, "a"))
	assert.NilError(t, w.AddTag(e, "b"))
	assert.ErrorIs(t, w.AddTag(e, "c"), ecs.ErrTagCapacityExceeded)

	// Already-registered names still work after a failed registration.
	assert.NilError(t, w.AddTag(e, "a"))
	assert.DeepEqual(t, []string{"a", "b"}, w.RegisteredTags())
}

func TestWorld_ComponentRegistry(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	e := w.Spawn()
	_, _, err := ecs.Set(w, e, testutils.Position{})
	assert.NilError(t, err)
	_, _, err = ecs.Set(w, e, testutils.Velocity{})
	assert.NilError(t, err)

	assert.DeepEqual(t, []string{"Position", "Velocity"}, w.ComponentNames())

	schema, err := w.ComponentSchema("Position")
	assert.NilError(t, err)
	assert.NilError(t, w.CheckSchemaCompat("Position", schema))

	// A stored Velocity schema does not match Position.
	other, err := w.ComponentSchema("Velocity")
	assert.NilError(t, err)
	assert.ErrorContains(t, w.CheckSchemaCompat("Position", other), "has changed")

	_, err = w.ComponentSchema("Nope")
	assert.ErrorContains(t, err, "not registered")
}

func TestWorld_EntityBuilder(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()

	e, err := ecs.With(
		ecs.With(w.NewEntity(), testutils.Position{X: 3}),
		testutils.Health{HP: 50, Max: 50},
	).Tagged("enemy").ID()
	assert.NilError(t, err)

	assert.True(t, w.IsAlive(e))
	assert.True(t, w.HasTag(e, "enemy"))
	pos, ok := ecs.Get[testutils.Position](w, e)
	assert.True(t, ok)
	assert.Equal(t, 3.0, pos.X)
}

func TestWorld_EntityBuilderFailureDespawns(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld(ecs.WithTagCapacity(1))

	e := w.Spawn()
	assert.NilError(t, w.AddTag(e, "only"))

	_, err := w.NewEntity().Tagged("overflow").ID()
	assert.ErrorIs(t, err, ecs.ErrTagCapacityExceeded)
	// The half-built entity is gone.
	assert.Equal(t, 1, w.EntityCount())
}
