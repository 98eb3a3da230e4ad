package ecs

// EntityBuilder spawns an entity and attaches components and tags in one
// chain. The first error in the chain sticks; later steps are skipped.
type EntityBuilder struct {
	world *World
	id    EntityID
	err   error
}

// NewEntity spawns an entity and returns a builder for it.
func (w *World) NewEntity() *EntityBuilder {
	return &EntityBuilder{
		world: w,
		id:    w.Spawn(),
	}
}

// With attaches a component to the entity under construction.
func With[T any](b *EntityBuilder, value T) *EntityBuilder {
	if b.err == nil {
		_, _, b.err = Set(b.world, b.id, value)
	}
	return b
}

// Tagged sets a named tag on the entity under construction.
func (b *EntityBuilder) Tagged(name string) *EntityBuilder {
	if b.err == nil {
		b.err = b.world.AddTag(b.id, name)
	}
	return b
}

// ID finishes the chain. If any step failed, the entity is despawned and the
// first error is returned.
func (b *EntityBuilder) ID() (EntityID, error) {
	if b.err != nil {
		_ = b.world.Despawn(b.id)
		return EntityID{}, b.err
	}
	return b.id, nil
}
