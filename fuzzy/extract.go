package fuzzy

import (
	"iter"
	"sort"
)

// Candidate is a key scored against a query.
type Candidate struct {
	Key   string
	Score int
}

// ExtractTop scores query against every key and returns at most limit
// candidates scoring at least cutoff, best first. Candidates with equal
// scores keep the order of keys. A limit of zero or less keeps them all.
func ExtractTop(query string, keys iter.Seq[string], limit, cutoff int, scorer Scorer) []Candidate {
	if scorer == nil {
		scorer = WeightedRatio
	}
	q := Normalize(query)
	var out []Candidate
	for k := range keys {
		if s := scorer(q, Normalize(k)); s >= cutoff {
			out = append(out, Candidate{Key: k, Score: s})
		}
	}
	return top(out, limit)
}

func top(c []Candidate, limit int) []Candidate {
	sort.SliceStable(c, func(i, j int) bool { return c[i].Score > c[j].Score })
	if limit > 0 && len(c) > limit {
		c = c[:limit]
	}
	return c
}

// Best returns the leading candidates that share the top score.
func Best(c []Candidate) []Candidate {
	if len(c) == 0 {
		return nil
	}
	n := 1
	for n < len(c) && c[n].Score == c[0].Score {
		n++
	}
	return c[:n]
}
