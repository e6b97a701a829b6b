package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/wikidex/record"
)

// RNG is a seeded random source. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Sequence replays scripted Intn results, each reduced modulo n, and
// records every n it was asked for. It is thread-safe.
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
	calls  []int
}

// NewSequence creates a Sequence cycling through values.
// With no values it always returns 0.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// Intn implements the resolver's random source.
func (s *Sequence) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, n)
	if len(s.values) == 0 || n <= 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Calls returns the n of every Intn call so far.
func (s *Sequence) Calls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.calls...)
}

// Function returns a function record named name.
func Function(name string) *record.Function {
	return &record.Function{
		Entry:      record.Entry{Name: name, Description: name + " does something. It is useful. "},
		Signature:  name + "(mobj_t mo)",
		ReturnType: "nil",
	}
}

// Common returns a canned answer record.
func Common(name, desc string) *record.Common {
	return &record.Common{
		Entry: record.Entry{Name: name, Description: desc},
		URL:   "https://wiki.srb2.org/wiki/" + name,
	}
}

// Field returns a field record of parent. Fields with the same arguments
// encode to identical bytes.
func Field(parent, name string) *record.Field {
	return &record.Field{
		Entry:         record.Entry{Name: name},
		Parent:        parent,
		Category:      "General",
		Type:          "`INT32`",
		Accessibility: record.AccessReadWrite,
	}
}

// Struct returns a struct record.
func Struct(name, category string) *record.Struct {
	return &record.Struct{
		Entry:         record.Entry{Name: name, Description: "The " + name + " userdata."},
		Accessibility: record.AccessReadOnly,
		Category:      category,
	}
}
