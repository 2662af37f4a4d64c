// Package testutil provides a builder for creating mock S3 clients.
package testutil

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MockBuilder provides a fluent interface for building MockS3Client instances.
type MockBuilder struct {
	client *MockS3Client
}

// NewMockBuilder creates a new MockBuilder.
func NewMockBuilder() *MockBuilder {
	return &MockBuilder{
		client: &MockS3Client{},
	}
}

// Build returns the configured MockS3Client.
func (b *MockBuilder) Build() *MockS3Client {
	return b.client
}

// WithListBuckets configures the ListBuckets behavior.
func (b *MockBuilder) WithListBuckets(
	fn func(context.Context, *s3.ListBucketsInput) (*s3.ListBucketsOutput, error),
) *MockBuilder {
	b.client.ListBucketsFunc = func(ctx context.Context, params *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
		return fn(ctx, params)
	}
	return b
}

// WithListObjectsV2 configures the ListObjectsV2 behavior.
func (b *MockBuilder) WithListObjectsV2(
	fn func(context.Context, *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error),
) *MockBuilder {
	b.client.ListObjectsV2Func = func(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
		return fn(ctx, params)
	}
	return b
}

// WithDeleteObjects configures the DeleteObjects behavior.
func (b *MockBuilder) WithDeleteObjects(
	fn func(context.Context, *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error),
) *MockBuilder {
	b.client.DeleteObjectsFunc = func(ctx context.Context, params *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
		return fn(ctx, params)
	}
	return b
}

// WithDeleteBucket configures the DeleteBucket behavior.
func (b *MockBuilder) WithDeleteBucket(
	fn func(context.Context, *s3.DeleteBucketInput) (*s3.DeleteBucketOutput, error),
) *MockBuilder {
	b.client.DeleteBucketFunc = func(ctx context.Context, params *s3.DeleteBucketInput, _ ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
		return fn(ctx, params)
	}
	return b
}

// WithAccountBuckets configures ListBuckets to return the given bucket names.
func (b *MockBuilder) WithAccountBuckets(names ...string) *MockBuilder {
	buckets := make([]types.Bucket, 0, len(names))
	now := time.Now()
	for _, name := range names {
		buckets = append(buckets, types.Bucket{
			Name:         aws.String(name),
			CreationDate: &now,
		})
	}
	b.client.ListBucketsFunc = func(_ context.Context, _ *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
		return &s3.ListBucketsOutput{Buckets: buckets}, nil
	}
	return b
}

// WithPagedObjects configures ListObjectsV2 to serve the given per-bucket key
// lists in pages. Continuation tokens encode the next offset, so the fake is
// stateless and safe for concurrent listings of different buckets.
func (b *MockBuilder) WithPagedObjects(keysByBucket map[string][]string) *MockBuilder {
	b.client.ListObjectsV2Func = func(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
		keys := keysByBucket[aws.ToString(params.Bucket)]

		offset := 0
		if params.ContinuationToken != nil {
			offset, _ = strconv.Atoi(aws.ToString(params.ContinuationToken))
		}

		pageSize := 1000
		if params.MaxKeys != nil && *params.MaxKeys > 0 {
			pageSize = int(*params.MaxKeys)
		}

		end := offset + pageSize
		if end > len(keys) {
			end = len(keys)
		}

		contents := make([]types.Object, 0, end-offset)
		for _, key := range keys[offset:end] {
			contents = append(contents, types.Object{
				Key:  aws.String(key),
				Size: aws.Int64(int64(len(key))),
			})
		}

		output := &s3.ListObjectsV2Output{
			Contents:    contents,
			KeyCount:    aws.Int32(int32(len(contents))),
			IsTruncated: aws.Bool(end < len(keys)),
		}
		if end < len(keys) {
			output.NextContinuationToken = aws.String(strconv.Itoa(end))
		}
		return output, nil
	}
	return b
}

// WithDeleteAllSucceeding configures DeleteObjects to report no failures.
// With a quiet delete request this means every key in the batch was removed.
func (b *MockBuilder) WithDeleteAllSucceeding() *MockBuilder {
	b.client.DeleteObjectsFunc = func(_ context.Context, _ *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
		return &s3.DeleteObjectsOutput{}, nil
	}
	return b
}

// WithFailingKeys configures DeleteObjects to report the given keys as failed
// with the supplied error code. All other keys in a batch succeed.
func (b *MockBuilder) WithFailingKeys(code string, keys ...string) *MockBuilder {
	failing := make(map[string]bool, len(keys))
	for _, key := range keys {
		failing[key] = true
	}
	b.client.DeleteObjectsFunc = func(_ context.Context, params *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
		output := &s3.DeleteObjectsOutput{}
		for _, obj := range params.Delete.Objects {
			if failing[aws.ToString(obj.Key)] {
				output.Errors = append(output.Errors, types.Error{
					Key:     obj.Key,
					Code:    aws.String(code),
					Message: aws.String(code),
				})
			}
		}
		return output, nil
	}
	return b
}

// WithBucketDeleteSucceeding configures DeleteBucket to always succeed.
func (b *MockBuilder) WithBucketDeleteSucceeding() *MockBuilder {
	b.client.DeleteBucketFunc = func(_ context.Context, _ *s3.DeleteBucketInput, _ ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
		return &s3.DeleteBucketOutput{}, nil
	}
	return b
}
