// Package deleter issues bounded multi-object delete calls.
package deleter

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	sweeperrors "github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/sweeptypes"
)

// BatchDeleter deletes object keys in single bulk calls.
//
// Each DeleteBatch invocation maps to exactly one DeleteObjects request,
// never one request per object, which bounds the request count for a
// bucket of N objects to ceil(N / batchSize).
type BatchDeleter struct {
	client s3api.S3API
}

// New creates a new BatchDeleter.
func New(client s3api.S3API) *BatchDeleter {
	return &BatchDeleter{
		client: client,
	}
}

// DeleteBatch deletes one batch of keys from the bucket.
//
// In dry-run mode no network call is made and every key is reported as
// deleted. Otherwise the request is issued in quiet mode: the service
// enumerates only failures, and any key absent from the error list is
// treated as deleted; removing an already-absent key is a success, not
// an error.
//
// The returned error covers whole-call failures only; per-key failures
// land in the result's Errors and leave the rest of the batch intact.
func (d *BatchDeleter) DeleteBatch(
	ctx context.Context,
	bucket string,
	keys []string,
	dryRun bool,
) (*sweeptypes.DeleteResult, error) {
	if len(keys) == 0 {
		return nil, sweeperrors.NewBucketError("deleteBatch", bucket, sweeperrors.ErrInvalidInput).
			WithMessage("batch cannot be empty")
	}
	if len(keys) > sweeptypes.MaxBatchSize {
		return nil, sweeperrors.NewBucketError("deleteBatch", bucket, sweeperrors.ErrInvalidInput).
			WithMessage("batch exceeds the service limit of 1000 keys")
	}

	startTime := time.Now()

	if dryRun {
		return &sweeptypes.DeleteResult{
			Deleted:  append([]string(nil), keys...),
			Duration: time.Since(startTime),
		}, nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{
			Key: aws.String(key),
		})
	}

	input := &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true), // Only failures come back
		},
	}

	output, err := d.client.DeleteObjects(ctx, input)
	if err != nil {
		return nil, sweeperrors.NewBucketError("deleteBatch", bucket, err)
	}

	return convertOutput(keys, output, startTime), nil
}

// convertOutput derives the per-key outcome from a quiet delete response:
// deleted is the batch minus the explicitly failed keys.
func convertOutput(
	keys []string,
	output *s3.DeleteObjectsOutput,
	startTime time.Time,
) *sweeptypes.DeleteResult {
	result := &sweeptypes.DeleteResult{}

	failed := make(map[string]bool, len(output.Errors))
	for _, e := range output.Errors {
		key := aws.ToString(e.Key)
		failed[key] = true
		result.Errors = append(result.Errors, sweeptypes.KeyError{
			Key:     key,
			Code:    aws.ToString(e.Code),
			Message: aws.ToString(e.Message),
		})
	}

	result.Deleted = make([]string, 0, len(keys)-len(failed))
	for _, key := range keys {
		if !failed[key] {
			result.Deleted = append(result.Deleted, key)
		}
	}

	result.Duration = time.Since(startTime)
	return result
}
