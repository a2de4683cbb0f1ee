package bucket

import "time"

// BucketDescriptor describes a bucket returned by ListBuckets.
type BucketDescriptor struct {
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creation_date"`
}

// ObjectDescriptor describes an object returned by ListObjects.
type ObjectDescriptor struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// UploadOptions tunes a single Upload call.
type UploadOptions struct {
	// Key is the remote object key. Defaults to the base name of the local file.
	Key string
	// ExtraArgs are forwarded with the upload request. Recognised names are
	// ContentType, ContentEncoding, ContentDisposition, ContentLanguage,
	// CacheControl, StorageClass and ACL (a canned object ACL); any other entry
	// is sent as user metadata.
	ExtraArgs map[string]string
	// FileSize is the expected size used for progress reporting. When zero the
	// size is read from the file.
	FileSize int64
}
