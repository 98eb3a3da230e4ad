package ecs

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/cey0225/kon/cql"
	"github.com/cey0225/kon/filter"
)

// SearchParam contains parameters for a search query.
// We use expr lang for the where clause to filter the entities, please refer to its documentation
// for more details: https://expr-lang.org/docs/getting-started.
type SearchParam struct {
	Find  []string    // List of component names to search for
	Match SearchMatch // A match type to use for the search
	Where string      // Optional expr language string to filter the results.
}

// validateAndGetFilter validates the search parameters and returns an expr VM program compiled
// from the where clause.
func (s *SearchParam) validateAndGetFilter() (*vm.Program, error) {
	if len(s.Find) == 0 {
		return nil, eris.New("component list cannot be empty")
	}

	if s.Match != MatchExact && s.Match != MatchContains {
		return nil, eris.Errorf("invalid `match` value: must be either '%s' or '%s'", MatchExact, MatchContains)
	}

	var filter *vm.Program

	// If no expression is provided, return a nil program
	if len(s.Where) == 0 {
		return filter, nil
	}

	// Compile the expression and check that the return type is boolean.
	filter, err := expr.Compile(s.Where, expr.AsBool())
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse where clause")
	}

	return filter, nil
}

// SearchMatch is the type of match to use for the search.
type SearchMatch string

const (
	// MatchExact matches entities that have exactly the specified components.
	MatchExact SearchMatch = "exact"
	// MatchContains matches entities that contain the specified components, but may have other
	// components as well.
	MatchContains SearchMatch = "contains"
)

// NewSearch returns a map of entities that match the given search parameters.
func (w *World) NewSearch(params SearchParam) ([]map[string]any, error) {
	filter, err := params.validateAndGetFilter()
	if err != nil {
		return nil, eris.Wrap(err, "invalid search params")
	}

	find := make([]anyStore, 0, len(params.Find))
	for _, name := range params.Find {
		store, ok := w.storeByName(name)
		if !ok {
			return nil, eris.Errorf("component %s not registered", name)
		}
		find = append(find, store)
	}

	results := make([]map[string]any, 0)
	driver := smallestStore(find)
	for row := 0; row < driver.denseLen(); row++ {
		slot := driver.slotAt(row)
		if !w.matchComponents(slot, find, params.Match) {
			continue
		}

		entityMap, err := w.entityToMap(slot)
		if err != nil {
			return nil, err
		}

		// If there's no filter, include all entities.
		if filter == nil {
			results = append(results, entityMap)
			continue
		}

		// Run the filter expression. We set the entity map as the environment for `Run` so the vm
		// program has access to the entity data to filter.
		output, err := expr.Run(filter, entityMap)
		if err != nil {
			return nil, eris.Wrap(err, "failed to run filter expression")
		}

		isMatchFilter, ok := output.(bool)
		// Because we compile the expr once without passing in the environment, as it's only available
		// while iterating, expr.Compile can't fully check if the expression returns a bool,
		// especially when we filter for a struct field e.g. health.hp > 200, expr can't determine the
		// type of health.hp during compilation.
		if !ok {
			return nil, eris.New("invalid where clause")
		}

		if isMatchFilter {
			results = append(results, entityMap)
		}
	}

	return results, nil
}

// SearchByFilter returns every live entity matched by a filter predicate.
// Filters see the entity's component names and tags, not component data; use
// NewSearch with a where clause to filter on data.
func (w *World) SearchByFilter(f filter.Filter) []EntityID {
	var results []EntityID
	w.entities.each(func(id EntityID) {
		if f.Matches(w.viewOf(id.Index)) {
			results = append(results, id)
		}
	})
	return results
}

// SearchByQuery compiles a CQL expression and returns the matching entities.
func (w *World) SearchByQuery(query string) ([]EntityID, error) {
	f, err := cql.Parse(query, w.resolveComponentName)
	if err != nil {
		return nil, err
	}
	return w.SearchByFilter(f), nil
}

// resolveComponentName is the cql.Resolver over this world's registry.
func (w *World) resolveComponentName(name string) (string, error) {
	if _, ok := w.infos[name]; !ok {
		return "", eris.Errorf("component %s not registered", name)
	}
	return name, nil
}

// viewOf builds the filterable view of a slot.
func (w *World) viewOf(slot uint32) filter.EntityView {
	var components []string
	for _, store := range w.ordered {
		if store.contains(slot) {
			components = append(components, store.componentName())
		}
	}
	return filter.EntityView{
		Components: components,
		Tags:       w.tags.namesOf(slot),
	}
}

// matchComponents reports whether a slot satisfies the find list under the
// given match mode. Exact means the slot has the listed components and no
// others.
func (w *World) matchComponents(slot uint32, find []anyStore, match SearchMatch) bool {
	for _, store := range find {
		if !store.contains(slot) {
			return false
		}
	}
	if match == MatchContains {
		return true
	}

	count := 0
	for _, store := range w.ordered {
		if store.contains(slot) {
			count++
		}
	}
	return count == len(find)
}

// entityToMap converts an entity to a map of its components. An "_id" key is added to the map
// to store the entity slot, and a "_tags" key holds its tag names.
func (w *World) entityToMap(slot uint32) (map[string]any, error) {
	data := make(map[string]any)

	// We have to use the raw slot here or else we can't query the data because for some
	// reason expr can't compare EntityID with integers in the expression.
	data["_id"] = slot
	data["_tags"] = w.tags.namesOf(slot)

	for _, store := range w.ordered {
		if !store.contains(slot) {
			continue
		}
		raw, err := store.rawJSON(slot)
		if err != nil {
			return nil, err
		}
		var comp any
		if err := json.Unmarshal(raw, &comp); err != nil {
			return nil, eris.Wrapf(err, "failed to decode component %q", store.componentName())
		}
		data[store.componentName()] = comp
	}

	return data, nil
}
