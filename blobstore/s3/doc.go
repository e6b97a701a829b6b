// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", "wikidex/")
//	idx, err := wikidex.New().Store(store).Sources(...).Build(ctx)
//
// # Features
//
//   - CRC32C checksums on every upload
//   - Multipart uploads for large dumps
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
