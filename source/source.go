package source

import (
	"context"
	"iter"

	"github.com/hupe1980/wikidex/record"
)

// Source produces pairs in a stable order.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// All yields every pair. On failure it yields a single error and stops.
	All(ctx context.Context) iter.Seq2[record.Pair, error]
}

type funcSource struct {
	name string
	all  func(ctx context.Context) ([]record.Pair, error)
}

func (s *funcSource) Name() string { return s.name }

func (s *funcSource) All(ctx context.Context) iter.Seq2[record.Pair, error] {
	return func(yield func(record.Pair, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(record.Pair{}, err)
			return
		}
		pairs, err := s.all(ctx)
		if err != nil {
			yield(record.Pair{}, err)
			return
		}
		for _, p := range pairs {
			if !yield(p, nil) {
				return
			}
		}
	}
}

// Func adapts a loader to a Source.
func Func(name string, fn func(ctx context.Context) ([]record.Pair, error)) Source {
	return &funcSource{name: name, all: fn}
}

// Slice is a Source over fixed pairs.
func Slice(name string, pairs ...record.Pair) Source {
	return Func(name, func(context.Context) ([]record.Pair, error) { return pairs, nil })
}

// Collect drains s.
func Collect(ctx context.Context, s Source) ([]record.Pair, error) {
	var out []record.Pair
	for p, err := range s.All(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
