// Package filter provides composable predicates over an entity's component
// and tag sets. Filters are built with the Contains, Exact, Tagged, And, Or,
// Not, and All combinators, either directly or by compiling a query string.
package filter

// EntityView describes one entity to a filter: the names of the components it
// has and the tags set on it.
type EntityView struct {
	Components []string
	Tags       []string
}

// Filter is a predicate over an entity's components and tags.
type Filter interface {
	// Matches returns true if the entity matches the filter.
	Matches(view EntityView) bool
}
