package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityTable_SpawnAssignsFreshSlots(t *testing.T) {
	t.Parallel()
	table := newEntityTable()

	a := table.spawn()
	b := table.spawn()
	c := table.spawn()

	assert.Equal(t, uint32(0), a.Index)
	assert.Equal(t, uint32(1), b.Index)
	assert.Equal(t, uint32(2), c.Index)
	assert.Equal(t, uint32(0), a.Generation)
	assert.Equal(t, 3, table.count())
}

func TestEntityTable_DespawnBumpsGeneration(t *testing.T) {
	t.Parallel()
	table := newEntityTable()

	a := table.spawn()
	assert.True(t, table.isAlive(a))
	assert.NoError(t, table.despawn(a))
	assert.False(t, table.isAlive(a))

	// The slot is reused with a higher generation, so the old identifier
	// stays dead.
	b := table.spawn()
	assert.Equal(t, a.Index, b.Index)
	assert.Equal(t, a.Generation+1, b.Generation)
	assert.True(t, table.isAlive(b))
	assert.False(t, table.isAlive(a))
}

func TestEntityTable_DespawnDeadEntityFails(t *testing.T) {
	t.Parallel()
	table := newEntityTable()

	a := table.spawn()
	assert.NoError(t, table.despawn(a))
	assert.ErrorIs(t, table.despawn(a), ErrEntityNotFound)

	// An identifier that was never spawned is also not found.
	assert.ErrorIs(t, table.despawn(EntityID{Index: 99}), ErrEntityNotFound)
}

func TestEntityTable_FreeSlotsReusedLIFO(t *testing.T) {
	t.Parallel()
	table := newEntityTable()

	a := table.spawn()
	b := table.spawn()
	table.spawn()

	assert.NoError(t, table.despawn(a))
	assert.NoError(t, table.despawn(b))

	// b was freed last, so its slot comes back first.
	first := table.spawn()
	second := table.spawn()
	assert.Equal(t, b.Index, first.Index)
	assert.Equal(t, a.Index, second.Index)
}

func TestEntityTable_GenerationsAreMonotonic(t *testing.T) {
	t.Parallel()
	table := newEntityTable()

	id := table.spawn()
	slot := id.Index
	for gen := uint32(0); gen < 100; gen++ {
		assert.Equal(t, gen, id.Generation)
		assert.NoError(t, table.despawn(id))
		id = table.spawn()
		assert.Equal(t, slot, id.Index)
	}
}

func TestEntityTable_EachVisitsOnlyLive(t *testing.T) {
	t.Parallel()
	table := newEntityTable()

	a := table.spawn()
	b := table.spawn()
	c := table.spawn()
	assert.NoError(t, table.despawn(b))

	var seen []EntityID
	table.each(func(id EntityID) {
		seen = append(seen, id)
	})
	assert.Equal(t, []EntityID{a, c}, seen)
}
