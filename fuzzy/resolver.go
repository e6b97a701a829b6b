package fuzzy

import (
	"errors"
	"iter"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/hupe1980/wikidex/record"
)

const (
	// DefaultCutoff is the lowest score a candidate may have.
	DefaultCutoff = 90
	// DefaultLimit is how many candidates are kept before tie breaking.
	DefaultLimit = 5
)

// ErrNoMatch is returned when no key scores at or above the cutoff.
var ErrNoMatch = errors.New("fuzzy: no match")

// Rand picks an integer in [0, n).
type Rand interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.IntN(n) }

// Universe is the set of keys a Resolver searches and the records behind
// them. *lookup.Lookup satisfies it.
type Universe interface {
	Keys() iter.Seq[string]
	Tag(key string) (record.Tag, bool)
	Records(key string) []record.Record
}

// Match is the outcome of a resolution.
type Match struct {
	Key    string
	Score  int
	Record record.Record
	// TieSize is the number of candidates sharing the top score.
	TieSize int
	// Choices is the number of records the pick was made from.
	Choices int
}

// Interface resolves a query to a single record.
type Interface interface {
	Resolve(query string, tags ...record.Tag) (Match, error)
}

// Options configures a Resolver.
type Options struct {
	Cutoff int
	Limit  int
	Scorer Scorer
	Rand   Rand
}

// Option mutates Options.
type Option func(o *Options)

// WithCutoff sets the minimum score.
func WithCutoff(cutoff int) Option {
	return func(o *Options) { o.Cutoff = cutoff }
}

// WithLimit sets how many top candidates are considered.
func WithLimit(limit int) Option {
	return func(o *Options) { o.Limit = limit }
}

// WithScorer replaces WeightedRatio.
func WithScorer(s Scorer) Option {
	return func(o *Options) {
		if s != nil {
			o.Scorer = s
		}
	}
}

// WithRand sets the random source used to pick among records.
func WithRand(r Rand) Option {
	return func(o *Options) {
		if r != nil {
			o.Rand = r
		}
	}
}

type entry struct {
	key  string
	norm string
	tag  record.Tag
}

// Resolver picks a record for a free-text query. It is safe for concurrent
// use as long as its Rand is.
type Resolver struct {
	universe Universe
	opts     Options

	once    sync.Once
	entries []entry
}

// NewResolver returns a Resolver over u.
func NewResolver(u Universe, optFns ...Option) *Resolver {
	opts := Options{
		Cutoff: DefaultCutoff,
		Limit:  DefaultLimit,
		Scorer: WeightedRatio,
		Rand:   globalRand{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Resolver{universe: u, opts: opts}
}

// Options returns the effective options.
func (r *Resolver) Options() Options { return r.opts }

func (r *Resolver) load() []entry {
	r.once.Do(func() {
		for k := range r.universe.Keys() {
			t, _ := r.universe.Tag(k)
			r.entries = append(r.entries, entry{key: k, norm: Normalize(k), tag: t})
		}
	})
	return r.entries
}

// Candidates returns the top scoring keys for query, restricted to keys
// whose records carry one of tags when any are given.
func (r *Resolver) Candidates(query string, tags ...record.Tag) []Candidate {
	q := Normalize(query)
	var out []Candidate
	for _, e := range r.load() {
		if len(tags) > 0 && !slices.Contains(tags, e.tag) {
			continue
		}
		if s := r.opts.Scorer(q, e.norm); s >= r.opts.Cutoff {
			out = append(out, Candidate{Key: e.key, Score: s})
		}
	}
	return top(out, r.opts.Limit)
}

// ResolveKey returns the key a query resolves to along with the size of
// the tie it was chosen from.
func (r *Resolver) ResolveKey(query string, tags ...record.Tag) (Candidate, int, error) {
	best := Best(r.Candidates(query, tags...))
	if len(best) == 0 {
		return Candidate{}, 0, ErrNoMatch
	}
	return best[0], len(best), nil
}

// Resolve returns a record for query. Among the keys sharing the top score
// the first one in key order wins, and one of its records is picked at
// random.
func (r *Resolver) Resolve(query string, tags ...record.Tag) (Match, error) {
	c, ties, err := r.ResolveKey(query, tags...)
	if err != nil {
		return Match{}, err
	}
	m, err := pick(r.universe, r.opts.Rand, c.Key)
	if err != nil {
		return Match{}, err
	}
	m.Score, m.TieSize = c.Score, ties
	return m, nil
}

// Pick returns one of key's records, chosen with the resolver's Rand when
// there is more than one.
func (r *Resolver) Pick(key string) (Match, error) {
	return pick(r.universe, r.opts.Rand, key)
}

func pick(u Universe, rnd Rand, key string) (Match, error) {
	recs := u.Records(key)
	if len(recs) == 0 {
		return Match{}, ErrNoMatch
	}
	i := 0
	if len(recs) > 1 {
		i = rnd.Intn(len(recs))
	}
	return Match{Key: key, Record: recs[i], Choices: len(recs)}, nil
}

type chain []Interface

// Chain tries each resolver in turn and returns the first match. Errors
// other than ErrNoMatch stop the chain.
func Chain(rs ...Interface) Interface {
	return chain(rs)
}

func (c chain) Resolve(query string, tags ...record.Tag) (Match, error) {
	for _, r := range c {
		m, err := r.Resolve(query, tags...)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, ErrNoMatch) {
			return Match{}, err
		}
	}
	return Match{}, ErrNoMatch
}
