package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned when attempting to operate on a non-existent entity
	// or when an entity cannot be found in the expected location.
	ErrEntityNotFound = eris.New("entity does not exist")

	// ErrTagCapacityExceeded is returned when registering a tag name would exceed the
	// world's fixed tag capacity.
	ErrTagCapacityExceeded = eris.New("tag capacity exceeded")

	// ErrBorrowConflict is returned when a structural mutation overlaps a store
	// traversal, or when overlapping traversals need incompatible access to a store.
	ErrBorrowConflict = eris.New("store borrow conflict")
)
