package wikidex

import (
	"context"
	"slices"
	"time"

	"github.com/hupe1980/wikidex/blobstore"
	"github.com/hupe1980/wikidex/codec"
	"github.com/hupe1980/wikidex/counter"
	"github.com/hupe1980/wikidex/fuzzy"
	"github.com/hupe1980/wikidex/source"
)

// New creates a new Index builder.
//
// The builder is immutable - each method returns a new builder with the updated configuration.
//
// Example:
//
//	idx, err := wikidex.New().
//	    Sources(source.Functions(store, "functions.wiki"), source.Structs(store, "structs/")).
//	    Store(store).
//	    Cutoff(85).
//	    Build(ctx)
func New() Builder {
	return Builder{}
}

// Builder is an immutable fluent builder for an Index.
type Builder struct {
	sources    []source.Source
	codec      *codec.Options
	logger     *Logger
	metrics    MetricsCollector
	store      blobstore.Store
	counterSet bool
	blob       string
	persister  counter.Persister
	counterFns []counter.Option
	fuzzyFns   []fuzzy.Option
	cacheSize  *int
	skipFailed bool
}

// Sources appends sources. Earlier sources win exact lookups for queries
// that several sources supply.
func (b Builder) Sources(s ...source.Source) Builder {
	b.sources = append(slices.Clip(b.sources), s...)
	return b
}

// Codec sets how records are encoded and compressed.
func (b Builder) Codec(o codec.Options) Builder {
	b.codec = &o
	return b
}

// Logger sets the structured logger.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// Store sets the store dumps and, by default, the query count go to.
func (b Builder) Store(s blobstore.Store) Builder {
	b.store = s
	return b
}

// Counter keeps the query count in blob of the builder's store, saving it
// at most once per flushInterval. Milestones replace the default set when
// given.
func (b Builder) Counter(blob string, flushInterval time.Duration, milestones ...uint64) Builder {
	b.counterSet = true
	b.blob = blob
	b.counterFns = append(slices.Clip(b.counterFns), counter.WithFlushInterval(flushInterval))
	if len(milestones) > 0 {
		b.counterFns = append(b.counterFns, counter.WithMilestones(milestones...))
	}
	return b
}

// CounterPersister keeps the query count with p instead of the store.
func (b Builder) CounterPersister(p counter.Persister) Builder {
	b.persister = p
	return b
}

// Cutoff sets the minimum similarity score, 0 to 100.
// Default: 90.
func (b Builder) Cutoff(cutoff int) Builder {
	b.fuzzyFns = append(slices.Clip(b.fuzzyFns), fuzzy.WithCutoff(cutoff))
	return b
}

// Limit sets how many top candidates are considered.
// Default: 5.
func (b Builder) Limit(limit int) Builder {
	b.fuzzyFns = append(slices.Clip(b.fuzzyFns), fuzzy.WithLimit(limit))
	return b
}

// Scorer sets the similarity function.
// Default: fuzzy.WeightedRatio.
func (b Builder) Scorer(s fuzzy.Scorer) Builder {
	b.fuzzyFns = append(slices.Clip(b.fuzzyFns), fuzzy.WithScorer(s))
	return b
}

// Rand sets the random source used to pick among a key's records.
func (b Builder) Rand(r fuzzy.Rand) Builder {
	b.fuzzyFns = append(slices.Clip(b.fuzzyFns), fuzzy.WithRand(r))
	return b
}

// CacheSize sets how many resolved queries are remembered. Zero disables
// the cache.
// Default: 1024.
func (b Builder) CacheSize(n int) Builder {
	b.cacheSize = &n
	return b
}

// SkipFailedSources logs and skips sources that fail instead of aborting
// the build.
func (b Builder) SkipFailedSources(skip bool) Builder {
	b.skipFailed = skip
	return b
}

// Options returns the builder's configuration as Open options.
func (b Builder) Options() []Option {
	var opts []Option
	if b.codec != nil {
		opts = append(opts, WithCodec(*b.codec))
	}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}
	if b.store != nil {
		opts = append(opts, WithStore(b.store))
	}

	p := b.persister
	if p == nil && b.counterSet && b.store != nil && b.blob != "" {
		p = counter.NewBlobPersister(b.store, b.blob)
	}
	if p != nil || len(b.counterFns) > 0 {
		opts = append(opts, WithCounter(p, b.counterFns...))
	}

	if len(b.fuzzyFns) > 0 {
		opts = append(opts, WithFuzzy(b.fuzzyFns...))
	}
	if b.cacheSize != nil {
		opts = append(opts, WithCacheSize(*b.cacheSize))
	}
	if b.skipFailed {
		opts = append(opts, WithSkipFailedSources(true))
	}
	return opts
}

// Build drains the sources and creates the Index.
func (b Builder) Build(ctx context.Context) (*Index, error) {
	return Open(ctx, b.sources, b.Options()...)
}

// MustBuild is like Build but panics on error.
func (b Builder) MustBuild(ctx context.Context) *Index {
	idx, err := b.Build(ctx)
	if err != nil {
		panic(err)
	}
	return idx
}
