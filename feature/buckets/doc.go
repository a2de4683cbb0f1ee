// Package buckets exposes the bucket facade as a small REST API.
//
// Routes:
//
//	GET    /buckets[?names=true]
//	PUT    /buckets/:bucket[?acl=public-read]
//	DELETE /buckets/:bucket
//	GET    /buckets/:bucket/objects[?keys=true]
//	DELETE /buckets/:bucket/objects?key=path/to/object
//	GET    /buckets/:bucket/presign?key=path/to/object[&expires=600]
//
// Errors from the storage service are returned with their original message,
// HTTP status and S3 error code.
package buckets
