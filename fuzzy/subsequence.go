package fuzzy

import (
	"slices"
	"sync"

	sfuzzy "github.com/sahilm/fuzzy"

	"github.com/hupe1980/wikidex/record"
)

// Subsequence resolves queries whose characters appear in order within a
// key, preferring matches at word starts and adjacent runs. It is meant as
// a fallback after a Resolver.
type Subsequence struct {
	universe Universe
	rand     Rand

	once    sync.Once
	entries []entry
}

// NewSubsequence returns a Subsequence resolver over u.
func NewSubsequence(u Universe, rnd Rand) *Subsequence {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Subsequence{universe: u, rand: rnd}
}

type source []entry

func (s source) String(i int) string { return s[i].norm }
func (s source) Len() int            { return len(s) }

func (s *Subsequence) load() []entry {
	s.once.Do(func() {
		for k := range s.universe.Keys() {
			t, _ := s.universe.Tag(k)
			s.entries = append(s.entries, entry{key: k, norm: Normalize(k), tag: t})
		}
	})
	return s.entries
}

// Resolve implements Interface. Score is the library's raw match score.
func (s *Subsequence) Resolve(query string, tags ...record.Tag) (Match, error) {
	q := Normalize(query)
	if q == "" {
		return Match{}, ErrNoMatch
	}
	entries := s.load()
	if len(tags) > 0 {
		entries = slices.DeleteFunc(slices.Clone(entries), func(e entry) bool {
			return !slices.Contains(tags, e.tag)
		})
	}
	matches := sfuzzy.FindFrom(q, source(entries))
	if len(matches) == 0 {
		return Match{}, ErrNoMatch
	}
	ties := 1
	for ties < len(matches) && matches[ties].Score == matches[0].Score {
		ties++
	}
	// FindFrom sorts by score only, so restore key order within the tie.
	first := matches[0].Index
	for _, m := range matches[:ties] {
		first = min(first, m.Index)
	}
	m, err := pick(s.universe, s.rand, entries[first].key)
	if err != nil {
		return Match{}, err
	}
	m.Score, m.TieSize = matches[0].Score, ties
	return m, nil
}
