package bucket_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"s3hive/core/bucket"
	"s3hive/core/storage"
	"s3hive/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testConfig = storage.Config{
	Endpoint:  "localhost:9000",
	Region:    "eu-west-1",
	AccessKey: "testkey",
	SecretKey: "testsecret",
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestClientIsBuiltLazilyOnce(t *testing.T) {
	calls := 0
	mem := mocks.NewMemory()
	b := bucket.New(testConfig, bucket.WithClientFactory(func(cfg storage.Config) (storage.Client, error) {
		calls++
		assert.Equal(t, testConfig, cfg)
		return mem, nil
	}))
	assert.Equal(t, 0, calls)
	assert.Equal(t, testConfig, b.Config())

	_, err := b.ListBuckets(context.Background())
	require.NoError(t, err)
	_, err = b.BucketNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestClientFactoryErrorIsReturnedEveryCall(t *testing.T) {
	factoryErr := errors.New("bad endpoint")
	b := bucket.New(testConfig, bucket.WithClientFactory(func(storage.Config) (storage.Client, error) {
		return nil, factoryErr
	}))

	_, err := b.ListBuckets(context.Background())
	assert.ErrorIs(t, err, factoryErr)
	err = b.DeleteBucket(context.Background(), "x")
	assert.ErrorIs(t, err, factoryErr)
}

func TestCreateBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("PrivateByDefault", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("MakeBucket", mock.Anything, "logs", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil).Once()

		b := bucket.New(testConfig, bucket.WithClient(mockClient))
		require.NoError(t, b.CreateBucket(ctx, "logs", ""))

		mockClient.AssertNumberOfCalls(t, "MakeBucket", 1)
		mockClient.AssertNotCalled(t, "SetBucketPolicy", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PublicReadAppliesPolicy", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("MakeBucket", mock.Anything, "public", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil).Once()
		mockClient.On("SetBucketPolicy", mock.Anything, "public", mock.MatchedBy(func(doc string) bool {
			return strings.Contains(doc, "s3:GetObject") && !strings.Contains(doc, "s3:PutObject")
		})).Return(nil).Once()

		b := bucket.New(testConfig, bucket.WithClient(mockClient))
		require.NoError(t, b.CreateBucket(ctx, "public", "public-read"))

		mockClient.AssertExpectations(t)
	})

	t.Run("UnsupportedACL", func(t *testing.T) {
		mockClient := new(mocks.Client)

		b := bucket.New(testConfig, bucket.WithClient(mockClient))
		err := b.CreateBucket(ctx, "logs", "authenticated-read")
		assert.ErrorIs(t, err, bucket.ErrUnsupportedACL)

		mockClient.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptyName", func(t *testing.T) {
		mockClient := new(mocks.Client)

		b := bucket.New(testConfig, bucket.WithClient(mockClient))
		assert.ErrorIs(t, b.CreateBucket(ctx, "", ""), bucket.ErrEmptyBucket)
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		mem := mocks.NewMemory()
		b := bucket.New(testConfig, bucket.WithClient(mem))
		require.NoError(t, b.CreateBucket(ctx, "logs", ""))

		err := b.CreateBucket(ctx, "logs", "")
		require.Error(t, err)
		assert.Equal(t, "BucketAlreadyOwnedByYou", minio.ToErrorResponse(err).Code)
	})
}

func TestDeleteBucket(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemory()
	b := bucket.New(testConfig, bucket.WithClient(mem))
	require.NoError(t, b.CreateBucket(ctx, "data", ""))
	require.NoError(t, b.Upload(ctx, "data", writeFile(t, t.TempDir(), "a.txt", "a"), bucket.UploadOptions{}))

	err := b.DeleteBucket(ctx, "data")
	assert.Equal(t, "BucketNotEmpty", minio.ToErrorResponse(err).Code)

	require.NoError(t, b.Delete(ctx, "data", "a.txt"))
	require.NoError(t, b.DeleteBucket(ctx, "data"))

	names, err := b.BucketNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListBuckets(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemory()
	b := bucket.New(testConfig, bucket.WithClient(mem))
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, b.CreateBucket(ctx, name, ""))
	}

	names, err := b.BucketNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)

	buckets, err := b.ListBuckets(ctx)
	require.NoError(t, err)
	infos, err := mem.ListBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, len(infos))
	for i, info := range infos {
		assert.Equal(t, bucket.BucketDescriptor{Name: info.Name, CreationDate: info.CreationDate}, buckets[i])
	}
}

func TestListObjects(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mem := mocks.NewMemory()
	b := bucket.New(testConfig, bucket.WithClient(mem))
	require.NoError(t, b.CreateBucket(ctx, "data", ""))

	require.NoError(t, b.Upload(ctx, "data", writeFile(t, dir, "one.txt", "1"), bucket.UploadOptions{}))
	require.NoError(t, b.Upload(ctx, "data", writeFile(t, dir, "two.txt", "22"), bucket.UploadOptions{Key: "nested/two.txt"}))

	objects, err := b.ListObjects(ctx, "data")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	for _, obj := range objects {
		info, ok := mem.ObjectInfo("data", obj.Key)
		require.True(t, ok)
		assert.Equal(t, bucket.ObjectDescriptor{Key: info.Key, Size: info.Size, LastModified: info.LastModified}, obj)
	}

	keys, err := b.ObjectKeys(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/two.txt", "one.txt"}, keys)
}

func TestListObjectsEmptyBucket(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemory()
	b := bucket.New(testConfig, bucket.WithClient(mem))
	require.NoError(t, b.CreateBucket(ctx, "empty", ""))

	objects, err := b.ListObjects(ctx, "empty")
	require.NoError(t, err)
	assert.NotNil(t, objects)
	assert.Empty(t, objects)
}

func TestListObjectsForwardsRecursive(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("ListObjects", mock.Anything, "data", minio.ListObjectsOptions{Recursive: true}).
		Return(mocks.ObjectChannel(minio.ObjectInfo{Key: "a", Size: 3}))

	b := bucket.New(testConfig, bucket.WithClient(mockClient))
	keys, err := b.ObjectKeys(context.Background(), "data")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys)
	mockClient.AssertExpectations(t)
}

func TestPresignedURL(t *testing.T) {
	ctx := context.Background()
	signed, _ := url.Parse("https://s3.local/data/report.pdf?X-Amz-Signature=abc")

	t.Run("DefaultExpiration", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("PresignedGetObject", mock.Anything, "data", "report.pdf", time.Hour, url.Values(nil)).Return(signed, nil).Once()

		b := bucket.New(testConfig, bucket.WithClient(mockClient))
		got, err := b.PresignedURL(ctx, "data", "report.pdf", 0)
		require.NoError(t, err)
		assert.Equal(t, signed.String(), got)
		mockClient.AssertExpectations(t)
	})

	t.Run("CustomExpiration", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("PresignedGetObject", mock.Anything, "data", "report.pdf", 5*time.Minute, url.Values(nil)).Return(signed, nil).Once()

		b := bucket.New(testConfig, bucket.WithClient(mockClient))
		_, err := b.PresignedURL(ctx, "data", "report.pdf", 5*time.Minute)
		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		b := bucket.New(testConfig, bucket.WithClient(new(mocks.Client)))
		_, err := b.PresignedURL(ctx, "data", "", 0)
		assert.ErrorIs(t, err, bucket.ErrEmptyKey)
	})
}

func TestUpload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	local := writeFile(t, dir, "report.pdf", "pdf-bytes")

	t.Run("DefaultsKeyToBaseName", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("FPutObject", mock.Anything, "data", "report.pdf", local, mock.Anything).
			Return(minio.UploadInfo{Key: "report.pdf", Size: 9}, nil).Once()

		b := bucket.New(testConfig, bucket.WithClient(mockClient))
		require.NoError(t, b.Upload(ctx, "data", local, bucket.UploadOptions{}))
		mockClient.AssertExpectations(t)
	})

	t.Run("ExplicitKeyAndExtraArgs", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("FPutObject", mock.Anything, "data", "docs/r.pdf", local, mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "application/pdf" &&
				opts.CacheControl == "no-cache" &&
				opts.UserMetadata["x-amz-acl"] == "public-read" &&
				opts.UserMetadata["owner"] == "ops" &&
				opts.Progress != nil
		})).Return(minio.UploadInfo{}, nil).Once()

		b := bucket.New(testConfig, bucket.WithClient(mockClient))
		err := b.Upload(ctx, "data", local, bucket.UploadOptions{
			Key: "docs/r.pdf",
			ExtraArgs: map[string]string{
				"ContentType":  "application/pdf",
				"CacheControl": "no-cache",
				"ACL":          "public-read",
				"owner":        "ops",
			},
		})
		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("MissingFileReportedBySDK", func(t *testing.T) {
		mem := mocks.NewMemory()
		b := bucket.New(testConfig, bucket.WithClient(mem))
		require.NoError(t, b.CreateBucket(ctx, "data", ""))

		err := b.Upload(ctx, "data", filepath.Join(dir, "missing.bin"), bucket.UploadOptions{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("EmptyFileName", func(t *testing.T) {
		b := bucket.New(testConfig, bucket.WithClient(new(mocks.Client)))
		assert.ErrorIs(t, b.Upload(ctx, "data", "", bucket.UploadOptions{}), bucket.ErrEmptyFileName)
	})
}

func TestDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("WritesToBaseNameInDir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "not", "yet")
		mockClient := new(mocks.Client)
		mockClient.On("FGetObject", mock.Anything, "data", "a/b/c.txt", filepath.Join(dir, "c.txt"), minio.GetObjectOptions{}).
			Return(nil).Once()

		b := bucket.New(testConfig, bucket.WithClient(mockClient))
		got, err := b.Download(ctx, "data", "a/b/c.txt", dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "c.txt"), got)
		assert.DirExists(t, dir)
		mockClient.AssertExpectations(t)
	})

	t.Run("DefaultsToCurrentDir", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("FGetObject", mock.Anything, "data", "c.txt", "c.txt", minio.GetObjectOptions{}).Return(nil).Once()

		b := bucket.New(testConfig, bucket.WithClient(mockClient))
		got, err := b.Download(ctx, "data", "c.txt", "")
		require.NoError(t, err)
		assert.Equal(t, "c.txt", got)
	})

	t.Run("MissingKey", func(t *testing.T) {
		mem := mocks.NewMemory()
		b := bucket.New(testConfig, bucket.WithClient(mem))
		require.NoError(t, b.CreateBucket(ctx, "data", ""))

		_, err := b.Download(ctx, "data", "nope", t.TempDir())
		assert.Equal(t, http.StatusNotFound, minio.ToErrorResponse(err).StatusCode)
	})
}

func TestDownloadThenUploadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemory()
	b := bucket.New(testConfig, bucket.WithClient(mem))
	require.NoError(t, b.CreateBucket(ctx, "data", ""))
	src := writeFile(t, t.TempDir(), "blob.bin", "\x00\x01payload\xff")
	require.NoError(t, b.Upload(ctx, "data", src, bucket.UploadOptions{Key: "dir/blob.bin"}))
	before, ok := mem.Object("data", "dir/blob.bin")
	require.True(t, ok)

	local, err := b.Download(ctx, "data", "dir/blob.bin", t.TempDir())
	require.NoError(t, err)
	require.NoError(t, b.Upload(ctx, "data", local, bucket.UploadOptions{Key: "dir/blob.bin"}))

	after, ok := mem.Object("data", "dir/blob.bin")
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	mockClient := new(mocks.Client)
	mockClient.On("RemoveObject", mock.Anything, "data", "old.log", minio.RemoveObjectOptions{}).Return(nil).Once()

	b := bucket.New(testConfig, bucket.WithClient(mockClient))
	require.NoError(t, b.Delete(ctx, "data", "old.log"))
	assert.ErrorIs(t, b.Delete(ctx, "data", ""), bucket.ErrEmptyKey)
	mockClient.AssertExpectations(t)
}

func TestErrorsPropagateUnchanged(t *testing.T) {
	ctx := context.Background()
	local := writeFile(t, t.TempDir(), "f.txt", "x")
	sdkErr := minio.ErrorResponse{StatusCode: http.StatusForbidden, Code: "AccessDenied", Message: "Access Denied."}

	tests := []struct {
		operation string
		call      func(b *bucket.Bucket) error
	}{
		{"MakeBucket", func(b *bucket.Bucket) error { return b.CreateBucket(ctx, "new", "") }},
		{"SetBucketPolicy", func(b *bucket.Bucket) error { return b.CreateBucket(ctx, "new", "public-read") }},
		{"RemoveBucket", func(b *bucket.Bucket) error { return b.DeleteBucket(ctx, "data") }},
		{"ListBuckets", func(b *bucket.Bucket) error { _, err := b.BucketNames(ctx); return err }},
		{"ListObjects", func(b *bucket.Bucket) error { _, err := b.ListObjects(ctx, "data"); return err }},
		{"PresignedGetObject", func(b *bucket.Bucket) error { _, err := b.PresignedURL(ctx, "data", "k", 0); return err }},
		{"FPutObject", func(b *bucket.Bucket) error { return b.Upload(ctx, "data", local, bucket.UploadOptions{}) }},
		{"FGetObject", func(b *bucket.Bucket) error { _, err := b.Download(ctx, "data", "f.txt", t.TempDir()); return err }},
		{"RemoveObject", func(b *bucket.Bucket) error { return b.Delete(ctx, "data", "f.txt") }},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			mem := mocks.NewMemory()
			require.NoError(t, mem.MakeBucket(ctx, "data", minio.MakeBucketOptions{}))
			mem.FailWith(tt.operation, sdkErr)

			err := tt.call(bucket.New(testConfig, bucket.WithClient(mem)))
			assert.Equal(t, sdkErr, err)
		})
	}
}
