package mocks

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

// Memory is an in-memory stand-in for the remote storage service. It keeps
// buckets in creation order and objects in key order, and can be told to fail
// any operation with a given error.
type Memory struct {
	mu       sync.Mutex
	buckets  []memoryBucket
	policies map[string]string
	failures map[string]error
	now      func() time.Time
}

type memoryBucket struct {
	info    minio.BucketInfo
	objects map[string]memoryObject
}

type memoryObject struct {
	info minio.ObjectInfo
	data []byte
}

// NewMemory creates an empty stand-in service.
func NewMemory() *Memory {
	return &Memory{
		policies: make(map[string]string),
		failures: make(map[string]error),
		now:      time.Now,
	}
}

// FailWith makes every subsequent call to the named operation (e.g.
// "ListBuckets") return err.
func (m *Memory) FailWith(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[operation] = err
}

// Object returns the stored content of an object.
func (m *Memory) Object(bucketName, objectName string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucket(bucketName)
	if b == nil {
		return nil, false
	}
	obj, ok := b.objects[objectName]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.data...), true
}

// ObjectInfo returns the stored metadata of an object.
func (m *Memory) ObjectInfo(bucketName, objectName string) (minio.ObjectInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucket(bucketName)
	if b == nil {
		return minio.ObjectInfo{}, false
	}
	obj, ok := b.objects[objectName]
	return obj.info, ok
}

// Policy returns the access policy last set on a bucket.
func (m *Memory) Policy(bucketName string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.policies[bucketName]
}

func (m *Memory) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["MakeBucket"]; err != nil {
		return err
	}
	if m.bucket(bucketName) != nil {
		return errorResponse(http.StatusConflict, "BucketAlreadyOwnedByYou", bucketName, "")
	}
	m.buckets = append(m.buckets, memoryBucket{
		info: minio.BucketInfo{
			Name:         bucketName,
			CreationDate: m.now().UTC(),
			BucketRegion: opts.Region,
		},
		objects: make(map[string]memoryObject),
	})
	return nil
}

func (m *Memory) RemoveBucket(ctx context.Context, bucketName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["RemoveBucket"]; err != nil {
		return err
	}
	for i, b := range m.buckets {
		if b.info.Name != bucketName {
			continue
		}
		if len(b.objects) > 0 {
			return errorResponse(http.StatusConflict, "BucketNotEmpty", bucketName, "")
		}
		m.buckets = append(m.buckets[:i], m.buckets[i+1:]...)
		delete(m.policies, bucketName)
		return nil
	}
	return errorResponse(http.StatusNotFound, "NoSuchBucket", bucketName, "")
}

func (m *Memory) SetBucketPolicy(ctx context.Context, bucketName, policy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["SetBucketPolicy"]; err != nil {
		return err
	}
	if m.bucket(bucketName) == nil {
		return errorResponse(http.StatusNotFound, "NoSuchBucket", bucketName, "")
	}
	m.policies[bucketName] = policy
	return nil
}

func (m *Memory) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["ListBuckets"]; err != nil {
		return nil, err
	}
	infos := make([]minio.BucketInfo, 0, len(m.buckets))
	for _, b := range m.buckets {
		infos = append(infos, b.info)
	}
	return infos, nil
}

func (m *Memory) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["ListObjects"]; err != nil {
		return ObjectChannel(minio.ObjectInfo{Err: err})
	}
	b := m.bucket(bucketName)
	if b == nil {
		return ObjectChannel(minio.ObjectInfo{Err: errorResponse(http.StatusNotFound, "NoSuchBucket", bucketName, "")})
	}
	keys := make([]string, 0, len(b.objects))
	for key := range b.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	infos := make([]minio.ObjectInfo, 0, len(keys))
	for _, key := range keys {
		infos = append(infos, b.objects[key].info)
	}
	return ObjectChannel(infos...)
}

func (m *Memory) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["PresignedGetObject"]; err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("X-Amz-Expires", strconv.Itoa(int(expires.Seconds())))
	return &url.URL{
		Scheme:   "http",
		Host:     "stand-in.local",
		Path:     "/" + bucketName + "/" + objectName,
		RawQuery: q.Encode(),
	}, nil
}

func (m *Memory) FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return minio.UploadInfo{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["FPutObject"]; err != nil {
		return minio.UploadInfo{}, err
	}
	b := m.bucket(bucketName)
	if b == nil {
		return minio.UploadInfo{}, errorResponse(http.StatusNotFound, "NoSuchBucket", bucketName, objectName)
	}
	if opts.Progress != nil {
		if _, err := opts.Progress.Read(data); err != nil {
			return minio.UploadInfo{}, err
		}
	}
	sum := md5.Sum(data)
	info := minio.ObjectInfo{
		Key:          objectName,
		Size:         int64(len(data)),
		LastModified: m.now().UTC(),
		ETag:         hex.EncodeToString(sum[:]),
		ContentType:  opts.ContentType,
		UserMetadata: opts.UserMetadata,
	}
	b.objects[objectName] = memoryObject{info: info, data: data}
	return minio.UploadInfo{
		Bucket:       bucketName,
		Key:          objectName,
		ETag:         info.ETag,
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

func (m *Memory) FGetObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.GetObjectOptions) error {
	m.mu.Lock()
	if err := m.failures["FGetObject"]; err != nil {
		m.mu.Unlock()
		return err
	}
	b := m.bucket(bucketName)
	if b == nil {
		m.mu.Unlock()
		return errorResponse(http.StatusNotFound, "NoSuchBucket", bucketName, objectName)
	}
	obj, ok := b.objects[objectName]
	m.mu.Unlock()
	if !ok {
		return errorResponse(http.StatusNotFound, "NoSuchKey", bucketName, objectName)
	}
	return os.WriteFile(filePath, bytes.Clone(obj.data), 0o644)
}

func (m *Memory) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["RemoveObject"]; err != nil {
		return err
	}
	b := m.bucket(bucketName)
	if b == nil {
		return errorResponse(http.StatusNotFound, "NoSuchBucket", bucketName, objectName)
	}
	// S3 reports success for keys that do not exist.
	delete(b.objects, objectName)
	return nil
}

func (m *Memory) bucket(name string) *memoryBucket {
	for i := range m.buckets {
		if m.buckets[i].info.Name == name {
			return &m.buckets[i]
		}
	}
	return nil
}

func errorResponse(status int, code, bucketName, key string) minio.ErrorResponse {
	return minio.ErrorResponse{
		StatusCode: status,
		Code:       code,
		Message:    fmt.Sprintf("%s: %s/%s", code, bucketName, key),
		BucketName: bucketName,
		Key:        key,
	}
}
