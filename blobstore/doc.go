// Package blobstore provides storage for graph snapshots.
//
// A Store holds immutable named blobs. Snapshots are small enough to be read and
// written whole, so the interface is Get/Put rather than streaming.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local file system
//   - MemoryStore: an in-memory map, for tests
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
//	type Store interface {
//	    Get(ctx, name) ([]byte, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
