// Package blobstore provides storage abstraction for wikidex source files and
// dictionary dumps.
//
// Store is the interface for reading and writing named blobs. Implementations
// must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with atomic writes
//   - MemoryStore: In-memory, for tests
//   - CachingStore: LRU read cache in front of another Store
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
//	type Store interface {
//	    Open(ctx, name) (io.ReadCloser, error)
//	    Put(ctx, name, data) error   // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
