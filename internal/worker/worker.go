// Package worker processes a single bucket end to end: paginate its
// contents, delete them in bounded batches, and optionally remove the
// emptied bucket.
package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	sweeperrors "github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/deleter"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/paginate"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/sweeptypes"
)

// batchErrorCode marks keys whose whole batch call failed, as opposed to
// keys the service rejected individually.
const batchErrorCode = "BatchError"

// Worker empties buckets one at a time. A single Worker is safe for
// concurrent use: all per-bucket state lives in Process.
type Worker struct {
	client  s3api.S3API
	cfg     *sweeptypes.Config
	deleter *deleter.BatchDeleter
}

// New creates a Worker bound to a client and a validated configuration.
func New(client s3api.S3API, cfg *sweeptypes.Config) *Worker {
	return &Worker{
		client:  client,
		cfg:     cfg,
		deleter: deleter.New(client),
	}
}

// Process runs one bucket through the full pipeline and always returns an
// outcome, never an error: unrecoverable faults (permission denied,
// bucket not found, a panic in processing) are folded into a failed
// outcome so that one bucket can never abort the rest of the run.
func (w *Worker) Process(ctx context.Context, bucket string) (outcome sweeptypes.BucketOutcome) {
	outcome.Bucket = bucket

	defer func() {
		if r := recover(); r != nil {
			outcome.Failed = true
			outcome.Err = sweeperrors.NewBucketError("process", bucket,
				fmt.Errorf("panic while processing bucket: %v", r))
		}
	}()

	if err := validation.ValidateBucketName(bucket); err != nil {
		outcome.Failed = true
		outcome.Err = err
		return outcome
	}

	if err := w.emptyBucket(ctx, bucket, &outcome); err != nil {
		outcome.Failed = true
		outcome.Err = classifyServiceError(err)
		return outcome
	}

	if w.cfg.DeleteBucket && !w.cfg.DryRun {
		w.removeBucket(ctx, bucket, &outcome)
	}

	return outcome
}

// emptyBucket drains the bucket's key listing into batches and deletes
// them. A failed batch is recorded per key and processing continues with
// the next batch; only pagination failures and cancellation stop the loop.
func (w *Worker) emptyBucket(ctx context.Context, bucket string, outcome *sweeptypes.BucketOutcome) error {
	paginator := paginate.New(w.client, bucket, 0)
	batch := make([]string, 0, w.cfg.BatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		w.deleteBatch(ctx, bucket, batch, outcome)
		batch = batch[:0]
	}

	for result := range paginator.Keys(ctx) {
		if result.Err != nil {
			// Keys already yielded keep partial credit.
			flush()
			return result.Err
		}

		batch = append(batch, result.Key)
		if len(batch) >= w.cfg.BatchSize {
			if err := ctx.Err(); err != nil {
				return sweeperrors.NewBucketError("emptyBucket", bucket, err)
			}
			flush()
		}
	}

	if err := ctx.Err(); err != nil {
		return sweeperrors.NewBucketError("emptyBucket", bucket, err)
	}

	flush()
	return nil
}

// deleteBatch issues one bulk delete and accumulates its result. A
// whole-call failure marks every key in the batch failed instead of
// aborting the bucket.
func (w *Worker) deleteBatch(ctx context.Context, bucket string, batch []string, outcome *sweeptypes.BucketOutcome) {
	// A dispatched call runs to completion even during shutdown;
	// cancellation is honored between batches, not inside one.
	result, err := w.deleter.DeleteBatch(context.WithoutCancel(ctx), bucket, batch, w.cfg.DryRun)
	if err != nil {
		for _, key := range batch {
			outcome.Errors = append(outcome.Errors, sweeptypes.KeyError{
				Key:     key,
				Code:    batchErrorCode,
				Message: err.Error(),
			})
		}
		return
	}

	outcome.ObjectsDeleted += len(result.Deleted)
	outcome.Errors = append(outcome.Errors, result.Errors...)
}

// removeBucket deletes the now-empty bucket. It only runs when every
// object deletion succeeded: a bucket with recorded errors is left in
// place. A concurrent external writer can still make the call fail with
// BucketNotEmpty; that is recorded as a bucket-level error, not retried.
func (w *Worker) removeBucket(ctx context.Context, bucket string, outcome *sweeptypes.BucketOutcome) {
	if len(outcome.Errors) > 0 {
		return
	}

	_, err := w.client.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		err = classifyServiceError(err)
		// A bucket that vanished underneath us is as gone as one we deleted.
		if errors.Is(err, sweeperrors.ErrBucketNotFound) {
			outcome.BucketDeleted = true
			return
		}
		outcome.Errors = append(outcome.Errors, sweeptypes.KeyError{
			Code:    errorCode(err),
			Message: fmt.Sprintf("delete bucket: %v", err),
		})
		return
	}

	outcome.BucketDeleted = true
}

// classifyServiceError wraps err with the sentinel matching its service
// error code so callers can branch with errors.Is instead of comparing
// code strings. Unrecognized codes pass through unchanged.
func classifyServiceError(err error) error {
	switch errorCode(err) {
	case "NoSuchBucket":
		return fmt.Errorf("%w: %w", sweeperrors.ErrBucketNotFound, err)
	case "BucketNotEmpty":
		return fmt.Errorf("%w: %w", sweeperrors.ErrBucketNotEmpty, err)
	case "AccessDenied":
		return fmt.Errorf("%w: %w", sweeperrors.ErrAccessDenied, err)
	}
	return err
}

// errorCode extracts the service error code from an AWS SDK error chain.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
