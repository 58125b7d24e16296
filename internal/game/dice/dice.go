// Package dice provides the core randomness abstraction for the Undercroft
// engine. Retreat rolls, possession rolls, and exit-count rolls all draw from
// a Source so tests can substitute deterministic values.
package dice

import (
	"math/rand"
	"sync"
)

// Source is the randomness provider for the engine.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// mathSource implements Source using math/rand with a private locked state.
type mathSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a Source backed by math/rand seeded with seed.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSource(seed int64) Source {
	return &mathSource{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (m *mathSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Intn(n)
}

// chanceDenominator is the resolution used when mapping Intn onto [0, 1).
const chanceDenominator = 1 << 16

// Float64 returns a uniformly distributed value in [0, 1) drawn from src.
//
// Precondition: src must not be nil.
func Float64(src Source) float64 {
	return float64(src.Intn(chanceDenominator)) / float64(chanceDenominator)
}

// Chance reports whether a uniform draw from src lands below p.
// p <= 0 never succeeds; p >= 1 always succeeds.
//
// Precondition: src must not be nil.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return Float64(src) < p
}

// Between returns a random int in [min, max] inclusive.
//
// Precondition: min <= max.
func Between(src Source, min, max int) int {
	if min == max {
		return min
	}
	return min + src.Intn(max-min+1)
}
