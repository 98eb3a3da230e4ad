package testutils

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"testing"
	"time"
)

// Seed drives every NewRand source. Randomized per run unless TEST_SEED is
// set, and always printed so a failing run can be replayed.
var Seed uint64 //nolint:gochecknoglobals // shared so one run has one seed

func init() { //nolint:gochecknoinits // seed must be fixed before any test runs
	Seed = uint64(time.Now().UnixNano()) //nolint:gosec // not security sensitive
	if raw := os.Getenv("TEST_SEED"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 0, 64); err == nil {
			Seed = parsed
		}
	}
	fmt.Printf("to reproduce: TEST_SEED=0x%x\n", Seed) //nolint:forbidigo // test-only
}

// NewRand returns a PCG source seeded from Seed.
func NewRand(t *testing.T) *rand.Rand {
	t.Helper()
	return rand.New(rand.NewPCG(Seed, Seed)) //nolint:gosec // weak RNG is fine here
}

// RandMapKey picks a uniformly random key from a non-empty map.
func RandMapKey[K comparable, V any](r *rand.Rand, m map[K]V) K {
	n := r.IntN(len(m))
	for k := range m {
		if n == 0 {
			return k
		}
		n--
	}
	panic("unreachable")
}

// WeightedOp constrains operation enums whose numeric value doubles as the
// selection weight.
type WeightedOp interface {
	~uint8 | ~uint16 | ~uint32 | ~int
}

// RandWeightedOp picks an op from the slice with probability proportional to
// its value.
func RandWeightedOp[T WeightedOp](r *rand.Rand, ops []T) T {
	var total int
	for _, op := range ops {
		total += int(op)
	}

	pick := r.IntN(total)
	for _, op := range ops {
		if pick < int(op) {
			return op
		}
		pick -= int(op)
	}
	panic("unreachable")
}
