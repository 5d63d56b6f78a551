// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("maps/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	g, err := grid.LoadSnapshot(ctx, store, "level1.wpg")
//
// # Features
//
//   - Uploads through the S3 transfer manager (multipart for large snapshots)
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
