package wikidex

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordBuild is called once per build with the number of pairs fed
	// to the index.
	RecordBuild(pairs int, duration time.Duration, err error)

	// RecordLookup is called after each exact lookup.
	RecordLookup(found bool)

	// RecordResolve is called after each search that fell through to
	// approximate matching. err is nil if a record was found.
	RecordResolve(method Method, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordLookup(bool)                          {}
func (NoopMetricsCollector) RecordResolve(Method, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	BuildCount        atomic.Int64
	BuildErrors       atomic.Int64
	BuildPairs        atomic.Int64
	LookupCount       atomic.Int64
	LookupHits        atomic.Int64
	ResolveCount      atomic.Int64
	ResolveMisses     atomic.Int64
	ResolveTotalNanos atomic.Int64
	FuzzyHits         atomic.Int64
	SubsequenceHits   atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(pairs int, _ time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildPairs.Add(int64(pairs))
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(found bool) {
	b.LookupCount.Add(1)
	if found {
		b.LookupHits.Add(1)
	}
}

// RecordResolve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResolve(method Method, duration time.Duration, err error) {
	b.ResolveCount.Add(1)
	b.ResolveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ResolveMisses.Add(1)
		return
	}
	switch method {
	case MethodFuzzy:
		b.FuzzyHits.Add(1)
	case MethodSubsequence:
		b.SubsequenceHits.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:      b.BuildCount.Load(),
		BuildErrors:     b.BuildErrors.Load(),
		BuildPairs:      b.BuildPairs.Load(),
		LookupCount:     b.LookupCount.Load(),
		LookupHits:      b.LookupHits.Load(),
		ResolveCount:    b.ResolveCount.Load(),
		ResolveMisses:   b.ResolveMisses.Load(),
		ResolveAvgNanos: b.getAvgResolveNanos(),
		FuzzyHits:       b.FuzzyHits.Load(),
		SubsequenceHits: b.SubsequenceHits.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgResolveNanos() int64 {
	count := b.ResolveCount.Load()
	if count == 0 {
		return 0
	}
	return b.ResolveTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of metrics from BasicMetricsCollector.
type BasicMetricsStats struct {
	BuildCount      int64 `json:"build_count"`
	BuildErrors     int64 `json:"build_errors"`
	BuildPairs      int64 `json:"build_pairs"`
	LookupCount     int64 `json:"lookup_count"`
	LookupHits      int64 `json:"lookup_hits"`
	ResolveCount    int64 `json:"resolve_count"`
	ResolveMisses   int64 `json:"resolve_misses"`
	ResolveAvgNanos int64 `json:"resolve_avg_nanos"`
	FuzzyHits       int64 `json:"fuzzy_hits"`
	SubsequenceHits int64 `json:"subsequence_hits"`
}
