package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cey0225/kon/testutils"
)

// -------------------------------------------------------------------------------------------------
// Model-Based Fuzzing
//
// This test verifies the sparseIndex implementation correctness using model-based testing. It
// compares our implementation against a Go's map as the model by applying random sequences of
// set/get/remove operations to both and asserting equivalence.
// Operations are weighted (set=55%, remove=35%, get=10%) to prioritize state mutations.
// -------------------------------------------------------------------------------------------------

func TestSparseIndex_ModelBasedFuzz(t *testing.T) {
	t.Parallel()
	prng := testutils.NewRand(t)

	impl := newSparseIndex()
	model := make(map[uint32]int, sparseCapacity)

	const (
		opsMax  = 1 << 15 // 32_768 iterations
		maxSlot = 10_000
	)

	// Check the impl against the model by running the same operations on both.
	for range opsMax {
		slot := uint32(prng.IntN(maxSlot))

		op := testutils.RandWeightedOp(prng, sparseIndexOps)
		switch op {
		case opSet:
			row := prng.IntN(1 << 30)
			impl.set(slot, row)
			model[slot] = row

			// Property: get(k) after set(k) must exist and return the same row.
			got, ok := impl.get(slot)
			assert.True(t, ok, "set(%d) then get should exist", slot)
			assert.Equal(t, row, got, "set(%d) then get row mismatch", slot)

		case opGet:
			// Bias toward existing slots (80%) to test the retrieval path.
			if len(model) > 0 && prng.Float64() < 0.8 {
				slot = testutils.RandMapKey(prng, model)
			}
			gotImpl, okImpl := impl.get(slot)
			gotModel, okModel := model[slot]

			// Property: get(k) returns same existence and row as model.
			assert.Equal(t, okModel, okImpl, "get(%d) existence mismatch", slot)
			if okImpl {
				assert.Equal(t, gotModel, gotImpl, "get(%d) row mismatch", slot)
			}

			// Property: if slot doesn't exist but is within bounds, internal value must be tombstone.
			if !okImpl && int(slot) < len(impl) {
				assert.Equal(t, sparseTombstone, impl[slot], "get(%d) non-existent slot should be tombstone", slot)
			}

		case opRemove:
			okImpl := impl.remove(slot)
			_, okModel := model[slot]
			delete(model, slot)

			// Property: remove(k) returns same existence as model.
			assert.Equal(t, okModel, okImpl, "remove(%d) existence mismatch", slot)

			// Property: get(k) after remove(k) must not exist (value becomes tombstone).
			_, ok := impl.get(slot)
			assert.False(t, ok, "remove(%d) then get should not exist", slot)
			if int(slot) < len(impl) {
				assert.Equal(t, sparseTombstone, impl[slot], "remove(%d) internal value should be tombstone", slot)
			}

		default:
			panic("unreachable")
		}
	}

	// Final state check: verify all slots in model exist in impl with correct rows.
	for slot, expectedRow := range model {
		gotRow, ok := impl.get(slot)
		assert.True(t, ok, "slot %d should exist in impl", slot)
		assert.Equal(t, expectedRow, gotRow, "slot %d row mismatch", slot)
	}
}

type sparseIndexOp uint8

const (
	opSet    sparseIndexOp = 55
	opRemove sparseIndexOp = 35
	opGet    sparseIndexOp = 10
)

var sparseIndexOps = []sparseIndexOp{opSet, opRemove, opGet}
