package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStoreLifecycle(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Open(ctx, "missing.yaml")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "wiki/functions.txt", []byte("first")))
	require.NoError(t, store.Put(ctx, "wiki/functions.txt", []byte("second")))
	require.NoError(t, store.Put(ctx, "wiki/structs/mobj_t.txt", []byte("mobj")))
	require.NoError(t, store.Put(ctx, "dumps/abc.wdx", []byte{0, 1, 2}))

	data, err := ReadAll(ctx, store, "wiki/functions.txt")
	require.NoError(t, err)
	require.Equal(t, "second", string(data))

	names, err := store.List(ctx, "wiki/")
	require.NoError(t, err)
	require.Equal(t, []string{"wiki/functions.txt", "wiki/structs/mobj_t.txt"}, names)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	require.NoError(t, store.Delete(ctx, "dumps/abc.wdx"))
	require.NoError(t, store.Delete(ctx, "dumps/abc.wdx"))
	_, err = store.Open(ctx, "dumps/abc.wdx")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	testStoreLifecycle(t, store)

	_, err := os.Stat(filepath.Join(tmpDir, "wiki", "structs", "mobj_t.txt"))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(tmpDir, "wiki"))
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestLocalStore_Canceled(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Put(ctx, "a", []byte("x")), context.Canceled)
	_, err := store.Open(ctx, "a")
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	testStoreLifecycle(t, NewMemoryStore())
}

func TestMemoryStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "a", data))
	data[0] = 'z'

	got, err := ReadAll(ctx, store, "a")
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
}
