package wikidex

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/hupe1980/wikidex/fuzzy"
	"github.com/hupe1980/wikidex/record"
)

// Method names the stage of Search that produced a result.
type Method uint8

const (
	MethodExact Method = iota + 1
	MethodFuzzy
	MethodSubsequence
)

func (m Method) String() string {
	switch m {
	case MethodExact:
		return "exact"
	case MethodFuzzy:
		return "fuzzy"
	case MethodSubsequence:
		return "subsequence"
	default:
		return "unknown"
	}
}

// Result is a record found for a query.
type Result struct {
	fuzzy.Match
	Method Method
}

// Resolve finds the closest key to query by similarity score and returns
// one of its records. Tags restrict the keys considered. It returns
// ErrNoMatch when no key scores at or above the cutoff.
func (idx *Index) Resolve(query string, tags ...record.Tag) (Result, error) {
	c, ties, ok := idx.cachedKey(query, tags)
	if !ok {
		var err error
		c, ties, err = idx.resolver.ResolveKey(query, tags...)
		if err != nil {
			return Result{}, err
		}
		if idx.cache != nil {
			idx.cache.Add(cacheKey(query, tags), cached{candidate: c, ties: ties})
		}
	}
	m, err := idx.resolver.Pick(c.Key)
	if err != nil {
		return Result{}, err
	}
	m.Score, m.TieSize = c.Score, ties
	return Result{Match: m, Method: MethodFuzzy}, nil
}

// Search answers query by exact lookup, then by Resolve, then by
// subsequence matching. Tags restrict every stage.
func (idx *Index) Search(ctx context.Context, query string, tags ...record.Tag) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if r, ok := idx.TryGet(query); ok && (len(tags) == 0 || slices.Contains(tags, r.Tag())) {
		idx.logger.LogLookup(ctx, query, true)
		return Result{
			Match:  fuzzy.Match{Key: query, Score: 100, Record: r, TieSize: 1, Choices: 1},
			Method: MethodExact,
		}, nil
	}
	idx.logger.LogLookup(ctx, query, false)

	start := time.Now()
	res, err := idx.Resolve(query, tags...)
	if errors.Is(err, fuzzy.ErrNoMatch) {
		var m fuzzy.Match
		if m, err = idx.fallback.Resolve(query, tags...); err == nil {
			res = Result{Match: m, Method: MethodSubsequence}
		}
	}
	d := time.Since(start)

	idx.metrics.RecordResolve(res.Method, d, err)
	idx.logger.LogResolve(ctx, query, res, d, err)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (idx *Index) cachedKey(query string, tags []record.Tag) (fuzzy.Candidate, int, bool) {
	if idx.cache == nil {
		return fuzzy.Candidate{}, 0, false
	}
	c, ok := idx.cache.Get(cacheKey(query, tags))
	return c.candidate, c.ties, ok
}

func cacheKey(query string, tags []record.Tag) string {
	var b strings.Builder
	b.WriteString(fuzzy.Normalize(query))
	for _, t := range tags {
		b.WriteByte(0)
		b.WriteByte(byte(t))
	}
	return b.String()
}
