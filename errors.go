package wikidex

import (
	"errors"
	"fmt"

	"github.com/hupe1980/wikidex/fuzzy"
)

var (
	// ErrNoSources is returned when a build is started without any source.
	ErrNoSources = errors.New("wikidex: no sources")

	// ErrNotBuilt is returned by a Shared accessor whose build failed or
	// produced nothing.
	ErrNotBuilt = errors.New("wikidex: index not built")

	// ErrNoStore is returned by Dump when no store is configured.
	ErrNoStore = errors.New("wikidex: no store configured")

	// ErrNoMatch is returned when neither an exact nor an approximate match
	// exists for a query.
	ErrNoMatch = fuzzy.ErrNoMatch
)

// SourceError reports a source that failed while the index was built.
//
// The underlying error can be accessed via errors.Unwrap.
type SourceError struct {
	Source string
	cause  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q: %v", e.Source, e.cause)
}

func (e *SourceError) Unwrap() error { return e.cause }
