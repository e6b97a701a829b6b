package counter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/wikidex/blobstore"
)

func stored(t *testing.T, s blobstore.Store) string {
	t.Helper()
	data, err := blobstore.ReadAll(context.Background(), s, DefaultBlob)
	require.NoError(t, err)
	return string(data)
}

func TestCounterMilestones(t *testing.T) {
	c := New(nil, WithMilestones(3, 1, 3))
	ctx := context.Background()

	n, ok := c.Record(ctx)
	assert.Equal(t, uint64(1), n)
	assert.True(t, ok)

	n, ok = c.Record(ctx)
	assert.Equal(t, uint64(2), n)
	assert.False(t, ok)

	n, ok = c.Record(ctx)
	assert.Equal(t, uint64(3), n)
	assert.True(t, ok)

	n, ok = c.TryMilestone()
	assert.Equal(t, uint64(3), n)
	assert.True(t, ok)
	assert.Equal(t, []uint64{1, 3}, c.Milestones())
}

func TestDefaultMilestones(t *testing.T) {
	c := New(nil)
	assert.True(t, c.IsMilestone(100))
	assert.True(t, c.IsMilestone(1000000))
	assert.False(t, c.IsMilestone(101))
	assert.Len(t, c.Milestones(), 10)
}

func TestCounterLoadAndFlush(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, DefaultBlob, []byte("41\n")))

	c := New(NewBlobPersister(store, ""), WithFlushInterval(time.Hour))
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, uint64(41), c.Count())

	n, _ := c.Record(ctx)
	assert.Equal(t, uint64(42), n)
	assert.Equal(t, "42", stored(t, store))

	c.Record(ctx)
	assert.Equal(t, "42", stored(t, store))

	require.NoError(t, c.Flush(ctx))
	assert.Equal(t, "43", stored(t, store))
}

func TestCounterSavesEveryQuery(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	c := New(NewBlobPersister(store, ""), WithFlushInterval(0))
	require.NoError(t, c.Load(ctx))
	assert.Zero(t, c.Count())

	for range 3 {
		c.Record(ctx)
	}
	assert.Equal(t, "3", stored(t, store))
}

func TestCounterResetsBadCount(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, DefaultBlob, []byte("lots")))

	c := New(NewBlobPersister(store, ""))
	require.NoError(t, c.Load(ctx))
	assert.Zero(t, c.Count())
	assert.Equal(t, "0", stored(t, store))
}

type failingPersister struct{ err error }

func (f failingPersister) Load(context.Context) (uint64, error) { return 0, nil }
func (f failingPersister) Save(context.Context, uint64) error    { return f.err }

func TestCounterReportsSaveErrors(t *testing.T) {
	boom := errors.New("boom")
	var mu sync.Mutex
	var got []error

	c := New(failingPersister{err: boom}, WithFlushInterval(0), WithOnError(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, err)
	}))

	n, _ := c.Record(context.Background())
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, []error{boom}, got)
	assert.ErrorIs(t, c.Flush(context.Background()), boom)
}

func TestCounterConcurrent(t *testing.T) {
	c := New(NewBlobPersister(blobstore.NewMemoryStore(), "count"), WithFlushInterval(time.Millisecond))
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.Record(context.Background())
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(800), c.Count())
}
