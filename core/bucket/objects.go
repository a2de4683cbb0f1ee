package bucket

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// DefaultExpiration is the validity of a presigned URL when none is given.
const DefaultExpiration = time.Hour

// ListObjects returns every object in bucket, in the order the service
// reports them. The listing is flat: keys under "folders" are included.
func (b *Bucket) ListObjects(ctx context.Context, bucket string) ([]ObjectDescriptor, error) {
	client, err := b.prepare(bucket)
	if err != nil {
		return nil, err
	}

	// Cancel so the SDK stops listing if we return on an error entry.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := []ObjectDescriptor{}
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		objects = append(objects, ObjectDescriptor{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

// ObjectKeys is ListObjects reduced to object keys.
func (b *Bucket) ObjectKeys(ctx context.Context, bucket string) ([]string, error) {
	objects, err := b.ListObjects(ctx, bucket)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// PresignedURL returns a URL granting GET access to the object for expiration.
// A zero expiration means DefaultExpiration.
func (b *Bucket) PresignedURL(ctx context.Context, bucket, key string, expiration time.Duration) (string, error) {
	client, err := b.prepare(bucket)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrEmptyKey
	}
	if expiration == 0 {
		expiration = DefaultExpiration
	}

	u, err := client.PresignedGetObject(ctx, bucket, key, expiration, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Upload stores the local file fileName in bucket. Without opts.Key the object
// is named after the base name of fileName.
func (b *Bucket) Upload(ctx context.Context, bucket, fileName string, opts UploadOptions) error {
	client, err := b.prepare(bucket)
	if err != nil {
		return err
	}
	if fileName == "" {
		return ErrEmptyFileName
	}

	key := opts.Key
	if key == "" {
		key = filepath.Base(fileName)
	}
	size := opts.FileSize
	if size <= 0 {
		// The SDK reports a missing file itself.
		if fi, err := os.Stat(fileName); err == nil {
			size = fi.Size()
		}
	}

	l := b.log("upload", bucket).With(zap.String("key", key), zap.String("file", fileName))
	putOpts := putObjectOptions(opts.ExtraArgs)
	putOpts.Progress = newProgress(l, size)

	info, err := client.FPutObject(ctx, bucket, key, fileName, putOpts)
	if err != nil {
		return err
	}
	l.Debug("Object uploaded", zap.Int64("size", info.Size), zap.String("etag", info.ETag))
	return nil
}

// Download writes the object to localDir, named after the base name of key,
// and returns the written path. An empty localDir means the current directory;
// a missing directory is created.
func (b *Bucket) Download(ctx context.Context, bucket, key, localDir string) (string, error) {
	client, err := b.prepare(bucket)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrEmptyKey
	}
	if localDir == "" {
		localDir = "."
	}
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return "", err
	}

	localFile := filepath.Join(localDir, path.Base(key))
	if err := client.FGetObject(ctx, bucket, key, localFile, minio.GetObjectOptions{}); err != nil {
		return "", err
	}
	b.log("download", bucket).Debug("Object downloaded",
		zap.String("key", key),
		zap.String("file", localFile),
	)
	return localFile, nil
}

// Delete removes the object from bucket.
func (b *Bucket) Delete(ctx context.Context, bucket, key string) error {
	client, err := b.prepare(bucket)
	if err != nil {
		return err
	}
	if key == "" {
		return ErrEmptyKey
	}
	if err := client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return err
	}
	b.log("delete", bucket).Debug("Object deleted", zap.String("key", key))
	return nil
}

// putObjectOptions translates upload extra arguments into SDK options.
func putObjectOptions(extra map[string]string) minio.PutObjectOptions {
	var opts minio.PutObjectOptions
	for name, value := range extra {
		switch name {
		case "ContentType":
			opts.ContentType = value
		case "ContentEncoding":
			opts.ContentEncoding = value
		case "ContentDisposition":
			opts.ContentDisposition = value
		case "ContentLanguage":
			opts.ContentLanguage = value
		case "CacheControl":
			opts.CacheControl = value
		case "StorageClass":
			opts.StorageClass = value
		case "ACL":
			if opts.UserMetadata == nil {
				opts.UserMetadata = make(map[string]string)
			}
			opts.UserMetadata["x-amz-acl"] = value
		default:
			if opts.UserMetadata == nil {
				opts.UserMetadata = make(map[string]string)
			}
			opts.UserMetadata[name] = value
		}
	}
	return opts
}
