package wikidex

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/wikidex/blobstore"
	"github.com/hupe1980/wikidex/counter"
	"github.com/hupe1980/wikidex/fuzzy"
	"github.com/hupe1980/wikidex/index/dictionary"
	"github.com/hupe1980/wikidex/index/lookup"
	"github.com/hupe1980/wikidex/internal/hash"
	"github.com/hupe1980/wikidex/record"
	"github.com/hupe1980/wikidex/source"
)

// BuildStats describes how an Index was built.
type BuildStats struct {
	Sources        int           `json:"sources"`
	FailedSources  int           `json:"failed_sources"`
	Pairs          int           `json:"pairs"`
	Keys           int           `json:"keys"`
	DistinctValues int           `json:"distinct_values"`
	Duration       time.Duration `json:"duration"`
}

// Stats is a snapshot of an Index.
type Stats struct {
	Build      BuildStats       `json:"build"`
	Dictionary dictionary.Stats `json:"dictionary"`
	Lookup     lookup.Stats     `json:"lookup"`
	Queries    uint64           `json:"queries"`
	Cached     int              `json:"cached"`
}

type cached struct {
	candidate fuzzy.Candidate
	ties      int
}

// Index answers queries against records gathered from sources. It is
// immutable once built and safe for concurrent use.
type Index struct {
	dict     *dictionary.Dictionary
	lookup   *lookup.Lookup
	resolver *fuzzy.Resolver
	fallback *fuzzy.Subsequence
	counter  *counter.Counter
	cache    *lru.Cache[string, cached]
	store    blobstore.Store

	logger  *Logger
	metrics MetricsCollector
	stats   BuildStats
}

// Open drains sources and builds an Index from their pairs.
//
// Sources are read concurrently but fed to the index in the order given, so
// when two sources supply the same query the earlier source wins the exact
// lookup.
func Open(ctx context.Context, sources []source.Source, optFns ...Option) (*Index, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	start := time.Now()
	idx, err := build(ctx, sources, opts)

	var stats BuildStats
	if idx != nil {
		idx.stats.Duration = time.Since(start)
		stats = idx.stats
	}
	opts.metricsCollector.RecordBuild(stats.Pairs, time.Since(start), err)
	opts.logger.LogBuild(ctx, stats, err)

	if err != nil {
		return nil, err
	}
	return idx, nil
}

func build(ctx context.Context, sources []source.Source, opts options) (*Index, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	drained, failed, err := drain(ctx, sources, opts)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, pairs := range drained {
		total += len(pairs)
	}

	b := dictionary.NewBuilder(dictionary.WithCodec(opts.codec), dictionary.WithSizeHint(total))
	aggregate := make([]record.Pair, 0, 2*total)
	for _, pairs := range drained {
		for _, p := range pairs {
			if err := b.Add(p.Query, p.Record); err != nil {
				return nil, fmt.Errorf("wikidex: add %q: %w", p.Query, err)
			}
			aggregate = append(aggregate, p)
			if desc := p.Record.Header().Description; strings.TrimSpace(desc) != "" {
				aggregate = append(aggregate, record.Pair{Query: desc, Record: p.Record})
			}
		}
	}
	dict := b.Close()

	lk, err := lookup.New(aggregate, lookup.WithCodec(opts.codec))
	if err != nil {
		return nil, fmt.Errorf("wikidex: build lookup: %w", err)
	}

	persister := opts.persister
	if persister == nil && opts.store != nil {
		persister = counter.NewBlobPersister(opts.store, counter.DefaultBlob)
	}
	logger := opts.logger
	counterOpts := append([]counter.Option{
		counter.WithOnError(func(err error) {
			logger.Warn("query count not saved", "error", err)
		}),
	}, opts.counterOptions...)
	qc := counter.New(persister, counterOpts...)
	if err := qc.Load(ctx); err != nil {
		return nil, fmt.Errorf("wikidex: load query count: %w", err)
	}

	idx := &Index{
		dict:     dict,
		lookup:   lk,
		counter:  qc,
		store:    opts.store,
		logger:   opts.logger,
		metrics:  opts.metricsCollector,
		resolver: fuzzy.NewResolver(lk, opts.fuzzyOptions...),
	}
	idx.fallback = fuzzy.NewSubsequence(lk, idx.resolver.Options().Rand)

	if opts.cacheSize > 0 {
		cache, err := lru.New[string, cached](opts.cacheSize)
		if err != nil {
			return nil, err
		}
		idx.cache = cache
	}

	ds := dict.Stats()
	idx.stats = BuildStats{
		Sources:        len(sources),
		FailedSources:  failed,
		Pairs:          total,
		Keys:           lk.Len(),
		DistinctValues: ds.DistinctValues,
	}
	return idx, nil
}

// drain collects every source concurrently. The result keeps source order.
func drain(ctx context.Context, sources []source.Source, opts options) ([][]record.Pair, int, error) {
	drained := make([][]record.Pair, len(sources))
	skipped := make([]bool, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range sources {
		g.Go(func() error {
			pairs, err := source.Collect(gctx, s)
			opts.logger.LogSource(gctx, s.Name(), len(pairs), err)
			if err != nil {
				if opts.skipFailedSources {
					skipped[i] = true
					return nil
				}
				return &SourceError{Source: s.Name(), cause: err}
			}
			drained[i] = pairs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	failed := 0
	for _, s := range skipped {
		if s {
			failed++
		}
	}
	return drained, failed, nil
}

// TryGet returns the record stored under exactly query.
func (idx *Index) TryGet(query string) (record.Record, bool) {
	r, ok := idx.dict.TryGet(query)
	idx.metrics.RecordLookup(ok)
	return r, ok
}

// Keys returns every lookup key in first-supplied order. Descriptions are
// keys too.
func (idx *Index) Keys() iter.Seq[string] {
	return idx.lookup.Keys()
}

// KeysWithTags returns the keys whose first record carries one of tags.
func (idx *Index) KeysWithTags(tags ...record.Tag) iter.Seq[string] {
	return idx.lookup.KeysWithTags(tags...)
}

// Values returns the records stored under key in supply order.
func (idx *Index) Values(key string) []record.Record {
	return idx.lookup.Records(key)
}

// Stats returns a snapshot of the index.
func (idx *Index) Stats() Stats {
	s := Stats{
		Build:      idx.stats,
		Dictionary: idx.dict.Stats(),
		Lookup:     idx.lookup.Stats(),
		Queries:    idx.counter.Count(),
	}
	if idx.cache != nil {
		s.Cached = idx.cache.Len()
	}
	return s
}

// Dump writes the exact-lookup dictionary to the configured store and
// returns the blob name, which is derived from the dump's content.
func (idx *Index) Dump(ctx context.Context) (string, error) {
	if idx.store == nil {
		return "", ErrNoStore
	}
	data, err := idx.dict.SerializeAll()
	if err != nil {
		idx.logger.LogDump(ctx, "", 0, err)
		return "", err
	}
	name := DumpPrefix + hash.DigestHex(data) + ".wdx"
	if err := idx.store.Put(ctx, name, data); err != nil {
		err = fmt.Errorf("wikidex: write dump: %w", err)
		idx.logger.LogDump(ctx, name, 0, err)
		return "", err
	}
	idx.logger.LogDump(ctx, name, len(data), nil)
	return name, nil
}

// RecordQuery counts one answered query and reports the new count and
// whether it is a milestone.
func (idx *Index) RecordQuery(ctx context.Context) (uint64, bool) {
	n, milestone := idx.counter.Record(ctx)
	if milestone {
		idx.logger.LogMilestone(ctx, n)
	}
	return n, milestone
}

// QueryCount returns the number of queries recorded so far.
func (idx *Index) QueryCount() uint64 {
	return idx.counter.Count()
}

// TryMilestone reports the current query count and whether it is a
// milestone.
func (idx *Index) TryMilestone() (uint64, bool) {
	return idx.counter.TryMilestone()
}
