package ecs

import (
	"reflect"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/wI2L/jsondiff"
)

// componentInfo holds the registration record for one component type.
type componentInfo struct {
	name   string
	typ    reflect.Type
	schema *jsonschema.Schema
}

// World is the root ECS container. It owns the entity table, one sparse-set
// store per registered component type, and the tag index. A World is not safe
// for concurrent use; callers serialize access externally.
type World struct {
	id        string
	namespace string
	log       zerolog.Logger

	entities entityTable
	tags     tagIndex

	stores  map[reflect.Type]anyStore
	infos   map[string]componentInfo
	ordered []anyStore // Registration order, for deterministic dumps
}

// WorldOption configures a World during construction.
type WorldOption func(*World)

// WithTagCapacity fixes the number of distinct tag names the world accepts.
// Values above MaxTags are clamped.
func WithTagCapacity(capacity int) WorldOption {
	return func(w *World) {
		if capacity > MaxTags {
			capacity = MaxTags
		}
		if capacity > 0 {
			w.tags = newTagIndex(capacity)
		}
	}
}

// WithLogger sets the world's logger.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.log = logger
	}
}

// WithNamespace sets the world's namespace, used in log context.
func WithNamespace(namespace string) WorldOption {
	return func(w *World) {
		w.namespace = namespace
	}
}

// NewWorld creates an empty world.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		id:       uuid.New().String(),
		log:      zerolog.Nop(),
		entities: newEntityTable(),
		tags:     newTagIndex(MaxTags),
		stores:   make(map[reflect.Type]anyStore),
		infos:    make(map[string]componentInfo),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With().
		Str("world_id", w.id).
		Str("namespace", w.namespace).
		Logger()
	return w
}

// ID returns the world's instance identifier.
func (w *World) ID() string {
	return w.id
}

// Namespace returns the world's namespace.
func (w *World) Namespace() string {
	return w.namespace
}

// Logger returns the world's logger.
func (w *World) Logger() *zerolog.Logger {
	return &w.log
}

// -------------------------------------------------------------------------------------------------
// Entity lifecycle
// -------------------------------------------------------------------------------------------------

// Spawn creates a new empty entity and returns its identifier. Freed slots
// are reused with a bumped generation, so identifiers of despawned entities
// never alias new ones.
func (w *World) Spawn() EntityID {
	id := w.entities.spawn()
	w.log.Trace().Stringer("entity", id).Msg("spawned entity")
	return id
}

// Despawn destroys an entity, removing all of its components and tags.
// Returns ErrEntityNotFound if the entity is already dead, and
// ErrBorrowConflict if any store is mid-traversal.
func (w *World) Despawn(id EntityID) error {
	if !w.entities.isAlive(id) {
		return eris.Wrapf(ErrEntityNotFound, "cannot despawn %s", id)
	}
	for _, store := range w.ordered {
		if store.borrow().busy() {
			return eris.Wrapf(ErrBorrowConflict, "cannot despawn %s during traversal", id)
		}
	}
	for _, store := range w.ordered {
		if _, err := store.removeSlot(id.Index); err != nil {
			return err
		}
	}
	w.tags.clearSlot(id.Index)
	if err := w.entities.despawn(id); err != nil {
		return err
	}
	w.log.Trace().Stringer("entity", id).Msg("despawned entity")
	return nil
}

// IsAlive reports whether an entity identifier is current. Identifiers from
// before a slot's reuse report false.
func (w *World) IsAlive(id EntityID) bool {
	return w.entities.isAlive(id)
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.entities.count()
}

// EachEntity calls fn for every live entity.
func (w *World) EachEntity(fn func(EntityID)) {
	w.entities.each(fn)
}

// -------------------------------------------------------------------------------------------------
// Tags
// -------------------------------------------------------------------------------------------------

// AddTag sets a named tag on an entity. The tag name is registered on first
// use; once the tag capacity is exhausted, unseen names fail with
// ErrTagCapacityExceeded and the registry is left unchanged.
func (w *World) AddTag(id EntityID, name string) error {
	if !w.entities.isAlive(id) {
		return eris.Wrapf(ErrEntityNotFound, "cannot tag %s", id)
	}
	bit, err := w.tags.register(name)
	if err != nil {
		return eris.Wrapf(err, "cannot register tag %q", name)
	}
	w.tags.add(id.Index, bit)
	return nil
}

// RemoveTag clears a named tag from an entity. Clearing a tag the entity does
// not have, or a name never registered, is a no-op.
func (w *World) RemoveTag(id EntityID, name string) error {
	if !w.entities.isAlive(id) {
		return eris.Wrapf(ErrEntityNotFound, "cannot untag %s", id)
	}
	if bit, ok := w.tags.bitOf(name); ok {
		w.tags.remove(id.Index, bit)
	}
	return nil
}

// HasTag reports whether a live entity carries a named tag.
func (w *World) HasTag(id EntityID, name string) bool {
	if !w.entities.isAlive(id) {
		return false
	}
	bit, ok := w.tags.bitOf(name)
	return ok && w.tags.maskOf(id.Index).Has(bit)
}

// TagsOf returns the tag names set on a live entity.
func (w *World) TagsOf(id EntityID) []string {
	if !w.entities.isAlive(id) {
		return nil
	}
	return w.tags.namesOf(id.Index)
}

// RegisteredTags returns every tag name the world has seen, in bit order.
func (w *World) RegisteredTags() []string {
	return append([]string(nil), w.tags.names...)
}

// maskFor resolves tag names to a combined mask. Names are registered on
// first use so that a query can mention a tag before any entity carries it.
func (w *World) maskFor(names []string) (TagMask, error) {
	var mask TagMask
	for _, name := range names {
		bit, err := w.tags.register(name)
		if err != nil {
			return TagMask{}, eris.Wrapf(err, "cannot register tag %q", name)
		}
		mask.set(bit)
	}
	return mask, nil
}

// -------------------------------------------------------------------------------------------------
// Component stores
// -------------------------------------------------------------------------------------------------

// storeOf returns the store for component type T, registering the type on
// first use.
func storeOf[T any](w *World) *Store[T] {
	var zero T
	typ := reflect.TypeOf(zero)
	if existing, ok := w.stores[typ]; ok {
		return existing.(*Store[T])
	}

	name := componentName(typ)
	store := newStore[T](name)
	w.stores[typ] = store
	w.ordered = append(w.ordered, store)
	w.infos[name] = componentInfo{
		name:   name,
		typ:    typ,
		schema: jsonschema.Reflect(zero),
	}
	w.log.Debug().Str("component", name).Msg("registered component store")
	return store
}

// componentName derives the registered name of a component type.
func componentName(typ reflect.Type) string {
	if name := typ.Name(); name != "" {
		return name
	}
	return typ.String()
}

// ComponentNames returns the names of all registered component types, in
// registration order.
func (w *World) ComponentNames() []string {
	names := make([]string, 0, len(w.ordered))
	for _, store := range w.ordered {
		names = append(names, store.componentName())
	}
	return names
}

// ComponentTypes returns a map of component names to their reflect.Type.
func (w *World) ComponentTypes() map[string]reflect.Type {
	types := make(map[string]reflect.Type, len(w.infos))
	for name, info := range w.infos {
		types[name] = info.typ
	}
	return types
}

// ComponentSchema returns the JSON schema of a registered component type.
func (w *World) ComponentSchema(name string) ([]byte, error) {
	info, ok := w.infos[name]
	if !ok {
		return nil, eris.Errorf("component %q is not registered", name)
	}
	data, err := json.Marshal(info.schema)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to marshal schema for component %q", name)
	}
	return data, nil
}

// CheckSchemaCompat compares a previously stored component schema against the
// current one and fails if the shape of the component has changed. Used when
// restoring a dumped world state against a newer build.
func (w *World) CheckSchemaCompat(name string, stored []byte) error {
	current, err := w.ComponentSchema(name)
	if err != nil {
		return err
	}
	patch, err := jsondiff.CompareJSON(stored, current)
	if err != nil {
		return eris.Wrapf(err, "failed to diff schema for component %q", name)
	}
	if len(patch) > 0 {
		return eris.Errorf("schema for component %q has changed: %s", name, patch.String())
	}
	return nil
}

// storeByName looks up a registered store by component name.
func (w *World) storeByName(name string) (anyStore, bool) {
	info, ok := w.infos[name]
	if !ok {
		return nil, false
	}
	store, ok := w.stores[info.typ]
	return store, ok
}

// Set inserts or overwrites component T on an entity. On overwrite the
// previous value is returned with replaced set to true. Fails with
// ErrEntityNotFound on a dead entity and ErrBorrowConflict if the store is
// mid-traversal.
func Set[T any](w *World, id EntityID, value T) (prev T, replaced bool, err error) {
	if !w.entities.isAlive(id) {
		return prev, false, eris.Wrapf(ErrEntityNotFound, "cannot set component on %s", id)
	}
	return storeOf[T](w).set(id.Index, value)
}

// Get returns a pointer to component T on an entity, or (nil, false) if the
// entity is dead or lacks the component. The pointer is invalidated by the
// next structural mutation of the store.
func Get[T any](w *World, id EntityID) (*T, bool) {
	if !w.entities.isAlive(id) {
		return nil, false
	}
	return storeOf[T](w).get(id.Index)
}

// Has reports whether a live entity has component T.
func Has[T any](w *World, id EntityID) bool {
	if !w.entities.isAlive(id) {
		return false
	}
	return storeOf[T](w).contains(id.Index)
}

// Remove takes component T off an entity, returning the removed value. A
// missing component reports removed false with no error.
func Remove[T any](w *World, id EntityID) (value T, removed bool, err error) {
	if !w.entities.isAlive(id) {
		return value, false, eris.Wrapf(ErrEntityNotFound, "cannot remove component from %s", id)
	}
	return storeOf[T](w).take(id.Index)
}
