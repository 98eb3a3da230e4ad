package ecs

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/cey0225/kon/codec"
)

// EntityState is the inspectable snapshot of one entity.
type EntityState struct {
	ID         EntityID                   `json:"id"`
	Tags       []string                   `json:"tags,omitempty"`
	Components map[string]json.RawMessage `json:"components"`
}

// WorldState is the inspectable snapshot of a world, produced by DumpState.
type WorldState struct {
	WorldID   string                     `json:"world_id"`
	Namespace string                     `json:"namespace,omitempty"`
	Schemas   map[string]json.RawMessage `json:"schemas"`
	Entities  []EntityState              `json:"entities"`
}

// DumpState snapshots every live entity with its tags and components, along
// with the schema of each registered component type. Entities appear in slot
// order, so repeated dumps of an unchanged world compare equal.
func (w *World) DumpState() (*WorldState, error) {
	state := &WorldState{
		WorldID:   w.id,
		Namespace: w.namespace,
		Schemas:   make(map[string]json.RawMessage, len(w.infos)),
		Entities:  make([]EntityState, 0, w.entities.count()),
	}

	for _, name := range w.ComponentNames() {
		schema, err := w.ComponentSchema(name)
		if err != nil {
			return nil, err
		}
		state.Schemas[name] = schema
	}

	var dumpErr error
	w.entities.each(func(id EntityID) {
		if dumpErr != nil {
			return
		}
		entity := EntityState{
			ID:         id,
			Tags:       w.tags.namesOf(id.Index),
			Components: make(map[string]json.RawMessage),
		}
		for _, store := range w.ordered {
			if !store.contains(id.Index) {
				continue
			}
			raw, err := store.rawJSON(id.Index)
			if err != nil {
				dumpErr = eris.Wrapf(err, "failed to dump entity %s", id)
				return
			}
			entity.Components[store.componentName()] = raw
		}
		state.Entities = append(state.Entities, entity)
	})
	if dumpErr != nil {
		return nil, dumpErr
	}

	return state, nil
}

// DumpStateJSON returns the DumpState snapshot encoded as JSON.
func (w *World) DumpStateJSON() ([]byte, error) {
	state, err := w.DumpState()
	if err != nil {
		return nil, err
	}
	return codec.Encode(state)
}
