package bucket

import (
	"context"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// CreateBucket creates bucket in the configured region with the given canned
// ACL. An empty acl means private. Public ACLs are applied as an anonymous
// bucket policy once the bucket exists.
func (b *Bucket) CreateBucket(ctx context.Context, bucket, acl string) error {
	client, err := b.prepare(bucket)
	if err != nil {
		return err
	}
	doc, err := bucketPolicy(bucket, acl)
	if err != nil {
		return err
	}

	l := b.log("create_bucket", bucket)
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: b.cfg.Region}); err != nil {
		return err
	}
	if doc != "" {
		if err := client.SetBucketPolicy(ctx, bucket, doc); err != nil {
			return err
		}
	}
	l.Debug("Bucket created", zap.String("acl", acl))
	return nil
}

// DeleteBucket deletes an empty bucket.
func (b *Bucket) DeleteBucket(ctx context.Context, bucket string) error {
	client, err := b.prepare(bucket)
	if err != nil {
		return err
	}
	if err := client.RemoveBucket(ctx, bucket); err != nil {
		return err
	}
	b.log("delete_bucket", bucket).Debug("Bucket deleted")
	return nil
}

// ListBuckets returns the buckets visible to the credentials, in the order the
// service reports them.
func (b *Bucket) ListBuckets(ctx context.Context) ([]BucketDescriptor, error) {
	client, err := b.getClient()
	if err != nil {
		return nil, err
	}
	infos, err := client.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make([]BucketDescriptor, 0, len(infos))
	for _, info := range infos {
		buckets = append(buckets, BucketDescriptor{
			Name:         info.Name,
			CreationDate: info.CreationDate,
		})
	}
	return buckets, nil
}

// BucketNames is ListBuckets reduced to bucket names.
func (b *Bucket) BucketNames(ctx context.Context) ([]string, error) {
	buckets, err := b.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(buckets))
	for _, bd := range buckets {
		names = append(names, bd.Name)
	}
	return names, nil
}
