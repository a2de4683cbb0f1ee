// Package storage provides the object storage client used by the bucket facade.
//
// It wraps the MinIO Go client, which speaks the S3 protocol against AWS S3 and
// any S3-compatible service (MinIO, Ceph, DigitalOcean Spaces, ...).
//
// # Client Interface
//
// The Client interface is the narrow set of SDK calls the facade forwards to.
// *minio.Client satisfies it directly, and core/storage/mocks provides a testify
// mock plus an in-memory stand-in for tests.
//
// # Usage
//
//	client, err := storage.NewClient(storage.Config{
//	    Endpoint:  "https://s3.eu-west-1.amazonaws.com",
//	    Region:    "eu-west-1",
//	    AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
//	    SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//	})
//	buckets, err := client.ListBuckets(ctx)
package storage
