package blobstore

import (
	"bytes"
	"context"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachingStore wraps a Store and keeps recently read blobs in memory.
// Writes and deletes go straight through and invalidate the cached copy.
type CachingStore struct {
	inner Store
	cache *lru.Cache[string, []byte]
}

// NewCachingStore creates a new CachingStore holding up to size blobs.
// size defaults to 64 if <= 0.
func NewCachingStore(inner Store, size int) (*CachingStore, error) {
	if size <= 0 {
		size = 64
	}
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &CachingStore{inner: inner, cache: c}, nil
}

// Open serves name from the cache, reading it from the inner store on a miss.
func (s *CachingStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if data, ok := s.cache.Get(name); ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	data, err := ReadAll(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}
	s.cache.Add(name, data)
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Remove(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Remove(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Len returns the number of cached blobs.
func (s *CachingStore) Len() int { return s.cache.Len() }

// Purge drops every cached blob.
func (s *CachingStore) Purge() { s.cache.Purge() }
