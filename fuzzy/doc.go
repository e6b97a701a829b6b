// Package fuzzy resolves free-text queries against the keys of a lookup.
//
// Scorers rate two normalized strings from 0 to 100. The Resolver keeps the
// best candidates at or above a cutoff, narrows them to those sharing the
// top score, takes the first such key and picks one of its records with an
// injected random source. When nothing passes the cutoff it returns
// ErrNoMatch so callers can try another strategy, such as Subsequence.
//
//	r := fuzzy.NewResolver(lk, fuzzy.WithRand(rng))
//	m, err := r.Resolve("p example")
package fuzzy
