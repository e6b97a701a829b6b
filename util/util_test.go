package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)

	for range 32 {
		v := a.Intn(10)
		assert.Equal(t, v, b.Intn(10), "same seed, same sequence")
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
	assert.Equal(t, uint64(4711), a.Seed())
}

func TestRNG_Concurrent(t *testing.T) {
	rng := NewRNG(1)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.Less(t, rng.Intn(3), 3)
			}
		}()
	}
	wg.Wait()
}
