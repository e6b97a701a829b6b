package wikidex

import "context"

// Close saves the query count. The index stays readable afterwards.
func (idx *Index) Close(ctx context.Context) error {
	if idx == nil {
		return nil
	}
	return idx.counter.Flush(ctx)
}
