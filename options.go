package wikidex

import (
	"github.com/hupe1980/wikidex/blobstore"
	"github.com/hupe1980/wikidex/codec"
	"github.com/hupe1980/wikidex/counter"
	"github.com/hupe1980/wikidex/fuzzy"
)

// DefaultCacheSize is the number of resolved queries remembered by an Index.
const DefaultCacheSize = 1024

// DumpPrefix is the store prefix dumps are written under.
const DumpPrefix = "dumps/"

type options struct {
	codec             codec.Options
	logger            *Logger
	metricsCollector  MetricsCollector
	store             blobstore.Store
	persister         counter.Persister
	counterOptions    []counter.Option
	fuzzyOptions      []fuzzy.Option
	cacheSize         int
	skipFailedSources bool
}

func defaultOptions() options {
	return options{
		codec:            codec.Process(),
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		cacheSize:        DefaultCacheSize,
	}
}

// Option configures Open.
type Option func(*options)

// WithCodec sets the codec and compression records are stored with.
//
// The default is codec.Process().
func WithCodec(o codec.Options) Option {
	return func(opts *options) {
		opts.codec = o
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithStore sets the store dumps are written to and, unless WithCounter
// names another persister, where the query count is kept.
func WithStore(s blobstore.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithCounter sets where the query count is persisted. A nil persister
// with a store configured keeps the count in the store's counter.DefaultBlob.
func WithCounter(p counter.Persister, optFns ...counter.Option) Option {
	return func(o *options) {
		o.persister = p
		o.counterOptions = append(o.counterOptions, optFns...)
	}
}

// WithFuzzy configures approximate matching.
func WithFuzzy(optFns ...fuzzy.Option) Option {
	return func(o *options) {
		o.fuzzyOptions = append(o.fuzzyOptions, optFns...)
	}
}

// WithCacheSize sets how many resolved queries are remembered.
// Zero or less disables the cache.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithSkipFailedSources makes a build log and skip a failing source
// instead of aborting.
func WithSkipFailedSources(skip bool) Option {
	return func(o *options) {
		o.skipFailedSources = skip
	}
}
