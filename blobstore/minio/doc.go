// Package minio provides a blobstore.Store implementation using the MinIO client.
//
// MinIO is an S3-compatible object storage system. This package uses the official
// MinIO Go client and works with other S3-compatible servers such as Ceph,
// SeaweedFS and Garage.
//
// # Basic Usage
//
//	store, err := minio.Connect(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "maps",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	g, err := grid.LoadSnapshot(ctx, store, "level1.wpg")
package minio
