package pool

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/sweeptypes"
)

// Processor handles a single bucket end to end. It must always return an
// outcome; unrecoverable faults are expected to be folded into it.
type Processor interface {
	Process(ctx context.Context, bucket string) sweeptypes.BucketOutcome
}

// Coordinator fans buckets out across a bounded worker pool.
type Coordinator struct {
	processor  Processor
	maxWorkers int

	// OnOutcome, when set, is invoked once per completed bucket, serially,
	// in completion order. Useful for progress reporting.
	OnOutcome func(sweeptypes.BucketOutcome)
}

// New creates a Coordinator that runs at most maxWorkers buckets
// concurrently. maxWorkers below 1 is treated as 1.
func New(processor Processor, maxWorkers int) *Coordinator {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Coordinator{
		processor:  processor,
		maxWorkers: maxWorkers,
	}
}

// Run processes every bucket and returns one outcome per processed
// bucket, in completion order. Dispatch follows the given order with
// backpressure: a queued bucket waits for a free worker slot. When the
// context is cancelled no further buckets are dispatched; buckets already
// in flight run to their next cancellation point.
func (c *Coordinator) Run(ctx context.Context, buckets []string) []sweeptypes.BucketOutcome {
	results := make(chan sweeptypes.BucketOutcome, len(buckets))

	collected := make(chan []sweeptypes.BucketOutcome, 1)
	go func() {
		outcomes := make([]sweeptypes.BucketOutcome, 0, len(buckets))
		for outcome := range results {
			if c.OnOutcome != nil {
				c.OnOutcome(outcome)
			}
			outcomes = append(outcomes, outcome)
		}
		collected <- outcomes
	}()

	g := &errgroup.Group{}
	g.SetLimit(c.maxWorkers)

	for _, bucket := range buckets {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results <- c.processor.Process(ctx, bucket)
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	return <-collected
}

// Summarize folds per-bucket outcomes into the final run summary.
func Summarize(outcomes []sweeptypes.BucketOutcome, dryRun bool, duration time.Duration) *sweeptypes.Summary {
	summary := &sweeptypes.Summary{
		Buckets:  len(outcomes),
		DryRun:   dryRun,
		Duration: duration,
		Outcomes: outcomes,
	}

	for i := range outcomes {
		outcome := &outcomes[i]
		summary.ObjectsDeleted += outcome.ObjectsDeleted
		if outcome.BucketDeleted {
			summary.BucketsDeleted++
		}
		if !outcome.Ok() {
			summary.BucketsFailed++
		}
	}

	return summary
}
