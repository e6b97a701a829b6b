package wikidex

import (
	"fmt"
	"sync"
)

// Shared returns an accessor that runs build on first use and hands every
// caller the same Index. Concurrent first callers wait for the one build.
// A failed build is not retried.
//
// Example:
//
//	var index = wikidex.Shared(func() (*wikidex.Index, error) {
//	    return wikidex.New().Sources(src...).Build(context.Background())
//	})
func Shared(build func() (*Index, error)) func() (*Index, error) {
	get := sync.OnceValues(build)
	return func() (*Index, error) {
		idx, err := get()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotBuilt, err)
		}
		if idx == nil {
			return nil, ErrNotBuilt
		}
		return idx, nil
	}
}
