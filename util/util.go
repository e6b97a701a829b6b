// Package util provides small helpers shared by the wikidex commands.
package util

import (
	"math/rand/v2"
	"sync"
)

// RNG is a seeded random source for picking among a key's records.
// It is safe for concurrent use.
type RNG struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed uint64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n). It panics if
// n <= 0.
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}
