package ecs

import "github.com/cey0225/kon/assert"

// sparseIndex maps entity slot indexes to dense-array rows. A tombstone marks
// slots that currently hold no row.
type sparseIndex []int

const sparseCapacity = 128
const sparseTombstone = -1

// newSparseIndex creates a new sparse index.
func newSparseIndex() sparseIndex {
	s := make(sparseIndex, sparseCapacity)
	for i := range sparseCapacity {
		s[i] = sparseTombstone
	}
	return s
}

// get returns the dense row for a slot and whether it exists.
func (s *sparseIndex) get(slot uint32) (int, bool) {
	if int(slot) >= len(*s) {
		return 0, false
	}

	row := (*s)[slot]
	if row == sparseTombstone {
		return 0, false
	}

	return row, true
}

// set stores a dense row for a slot, growing the backing slice if needed.
func (s *sparseIndex) set(slot uint32, row int) {
	assert.That(row >= 0, "row must be a non-negative dense index")

	if int(slot) >= len(*s) { // Grow slice if needed
		// Grow by doubling or to slot+1, whichever is larger.
		oldLen := len(*s)
		newLen := max(oldLen*2, int(slot)+1)

		newSlice := make(sparseIndex, newLen)
		copy(newSlice, *s)
		for i := oldLen; i < newLen; i++ {
			newSlice[i] = sparseTombstone
		}
		*s = newSlice
	}

	(*s)[slot] = row
}

// remove sets a slot's row to tombstone. Returns true if the slot held a row.
func (s *sparseIndex) remove(slot uint32) bool {
	if int(slot) >= len(*s) {
		return false
	}

	if (*s)[slot] == sparseTombstone {
		return false
	}

	(*s)[slot] = sparseTombstone
	return true
}
