package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG(t *testing.T) {
	rng := NewRNG(4711)
	first := []int{rng.Intn(100), rng.Intn(100), rng.Intn(100)}
	rng.Reset()
	assert.Equal(t, first, []int{rng.Intn(100), rng.Intn(100), rng.Intn(100)})
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestSequence(t *testing.T) {
	seq := NewSequence(1, 5)
	assert.Equal(t, 1, seq.Intn(2))
	assert.Equal(t, 1, seq.Intn(2))
	assert.Equal(t, 1, seq.Intn(3))
	assert.Equal(t, []int{2, 2, 3}, seq.Calls())

	assert.Equal(t, 0, NewSequence().Intn(4))
}

func TestFixtures(t *testing.T) {
	assert.Equal(t, Field("mobj_t", "x"), Field("mobj_t", "x"))
	assert.Equal(t, "P_Example", Function("P_Example").Name)
}
