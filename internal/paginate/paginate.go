// Package paginate provides lazy object-key listing for a single bucket.
//
// Listings ride the storage service's native continuation tokens: pages are
// fetched on demand and discarded as the caller drains them, so a bucket of
// any size is walked in constant memory.
package paginate

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sweeperrors "github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/s3api"
)

// maxPageSize is the largest page the ListObjectsV2 API will serve.
const maxPageSize = 1000

// KeyResult wraps an object key or a pagination error.
// A KeyResult with a non-nil Err is always the final value delivered.
type KeyResult struct {
	Key string
	Err error
}

// Paginator walks one bucket's object keys page by page.
// A Paginator is single-use: create a fresh one per bucket.
type Paginator struct {
	client            s3api.S3API
	bucket            string
	pageSize          int32
	continuationToken *string
	started           bool
	done              bool
}

// New creates a Paginator for the given bucket. pageSize is clamped to
// the service maximum of 1000; zero or negative means the maximum.
func New(client s3api.S3API, bucket string, pageSize int32) *Paginator {
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return &Paginator{
		client:   client,
		bucket:   bucket,
		pageSize: pageSize,
	}
}

// HasMorePages returns true if there are more pages to fetch.
func (p *Paginator) HasMorePages() bool {
	return !p.started || !p.done
}

// NextPage fetches the next page of object keys.
func (p *Paginator) NextPage(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(p.bucket),
		MaxKeys: aws.Int32(p.pageSize),
	}
	if p.continuationToken != nil {
		input.ContinuationToken = p.continuationToken
	}

	output, err := p.client.ListObjectsV2(ctx, input)
	if err != nil {
		p.done = true
		// Keep the cause in the chain so service error codes stay inspectable.
		return nil, sweeperrors.NewBucketError("paginate", p.bucket,
			fmt.Errorf("%w: %w", sweeperrors.ErrPagination, err))
	}

	p.started = true
	p.done = !aws.ToBool(output.IsTruncated)
	p.continuationToken = output.NextContinuationToken

	keys := make([]string, 0, len(output.Contents))
	for _, obj := range output.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}

	return keys, nil
}

// Keys streams every object key in the bucket through a channel.
// The channel is closed once the listing is exhausted; if a page fetch
// fails mid-listing the final value carries the error, and keys already
// delivered stand as partial progress.
//
// Always drain the channel or cancel the context to avoid a goroutine leak.
func (p *Paginator) Keys(ctx context.Context) <-chan KeyResult {
	results := make(chan KeyResult, p.pageSize)

	go func() {
		defer close(results)
		defer func() {
			// A panic below must not take down the whole process; surface
			// it as a terminal listing error instead.
			if r := recover(); r != nil {
				select {
				case results <- KeyResult{
					Err: sweeperrors.NewBucketError("paginate", p.bucket,
						fmt.Errorf("panic while listing: %v", r)),
				}:
				case <-ctx.Done():
				}
			}
		}()

		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				select {
				case results <- KeyResult{Err: err}:
				case <-ctx.Done():
				}
				return
			}

			for _, key := range page {
				select {
				case results <- KeyResult{Key: key}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return results
}
