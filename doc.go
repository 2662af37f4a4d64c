// Package s3sweep bulk-deletes the contents of S3 buckets, optionally
// removing the emptied buckets themselves. It wraps AWS SDK v2 to sweep
// many buckets in parallel while keeping each bucket's deletion bounded
// to batched multi-object delete calls.
//
// Target buckets come either from the account listing, narrowed by a
// name prefix and an exclude pattern, or from an explicit buckets file.
// Each bucket is processed independently: one bucket failing never
// stops the rest, and the run summary records every bucket's outcome.
//
// Key features:
//   - Batched deletion, at most 1000 keys per request
//   - Bounded parallelism across buckets with configurable workers
//   - Dry-run mode that previews deletions without touching anything
//   - Partial-failure tolerance with per-key error reporting
//
// Example usage:
//
//	client, err := s3sweep.New(s3sweep.WithRegion("us-east-1"))
//	if err != nil {
//	    return err
//	}
//
//	cfg := &sweeptypes.Config{IncludePrefix: "tmp-", DeleteBucket: true}
//	sweeper, err := s3sweep.NewSweeper(client, cfg, logger)
//	if err != nil {
//	    return err
//	}
//
//	summary, err := sweeper.Run(ctx)
package s3sweep
