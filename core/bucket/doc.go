// Package bucket is a facade over an S3-compatible object storage service.
//
// A Bucket holds the connection configuration (endpoint, region, credentials)
// and builds the storage client the first time an operation needs it. Each
// operation is a single forwarded SDK call followed by light reshaping of the
// result:
//
//   - CreateBucket, DeleteBucket
//   - ListBuckets, BucketNames
//   - ListObjects, ObjectKeys
//   - PresignedURL
//   - Upload, Download, Delete
//
// Errors from the SDK are returned unchanged to the caller. The package adds no
// retries, caching or classification; inspect SDK errors with
// minio.ToErrorResponse.
//
// # Usage
//
//	b := bucket.New(storage.Config{
//	    Endpoint:  os.Getenv("STORAGE_ENDPOINT"),
//	    Region:    os.Getenv("STORAGE_REGION"),
//	    AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
//	    SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
//	})
//	if err := b.Upload(ctx, "my-bucket", "report.pdf", bucket.UploadOptions{}); err != nil {
//	    return err
//	}
//	url, err := b.PresignedURL(ctx, "my-bucket", "report.pdf", 0)
package bucket
