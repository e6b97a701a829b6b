package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachingStore(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	require.NoError(t, inner.Put(ctx, "functions.txt", []byte("v1")))

	store, err := NewCachingStore(inner, 2)
	require.NoError(t, err)

	for range 3 {
		data, err := ReadAll(ctx, store, "functions.txt")
		require.NoError(t, err)
		assert.Equal(t, "v1", string(data))
	}
	assert.Equal(t, 1, inner.Opens())
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Put(ctx, "functions.txt", []byte("v2")))
	data, err := ReadAll(ctx, store, "functions.txt")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
	assert.Equal(t, 2, inner.Opens())

	require.NoError(t, store.Delete(ctx, "functions.txt"))
	_, err = store.Open(ctx, "functions.txt")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestCachingStore_Evicts(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, inner.Put(ctx, n, []byte(n)))
	}

	store, err := NewCachingStore(inner, 2)
	require.NoError(t, err)
	for _, n := range []string{"a", "b", "c"} {
		_, err := ReadAll(ctx, store, n)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, store.Len())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	store.Purge()
	assert.Equal(t, 0, store.Len())
}
