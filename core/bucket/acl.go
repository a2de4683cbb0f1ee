package bucket

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/minio/minio-go/v7/pkg/policy"
)

// ACLPrivate is the default canned ACL for new buckets.
const ACLPrivate = "private"

// ErrUnsupportedACL is returned for canned ACLs that cannot be applied.
var ErrUnsupportedACL = errors.New("unsupported canned acl")

// cannedPolicies maps the canned bucket ACLs onto anonymous bucket policies.
// A none policy means nothing is applied after creation.
var cannedPolicies = map[string]policy.BucketPolicy{
	ACLPrivate:                  policy.BucketPolicyNone,
	"bucket-owner-read":         policy.BucketPolicyNone,
	"bucket-owner-full-control": policy.BucketPolicyNone,
	"public-read":               policy.BucketPolicyReadOnly,
	"public-read-write":         policy.BucketPolicyReadWrite,
}

// ValidACL reports whether CreateBucket accepts acl.
func ValidACL(acl string) bool {
	_, ok := cannedPolicies[acl]
	return acl == "" || ok
}

// bucketPolicy returns the policy document granting the anonymous access
// described by acl, or "" when the bucket stays owner-only.
func bucketPolicy(bucket, acl string) (string, error) {
	if acl == "" {
		acl = ACLPrivate
	}
	bp, ok := cannedPolicies[acl]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedACL, acl)
	}
	if bp == policy.BucketPolicyNone {
		return "", nil
	}

	doc := policy.BucketAccessPolicy{
		Version:    "2012-10-17",
		Statements: policy.SetPolicy(nil, bp, bucket, ""),
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
