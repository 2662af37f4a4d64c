package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/sweeptypes"
)

// trackingProcessor records the peak number of concurrent Process calls.
type trackingProcessor struct {
	mu      sync.Mutex
	active  int
	peak    int
	delay   time.Duration
	process func(ctx context.Context, bucket string) sweeptypes.BucketOutcome
}

func (p *trackingProcessor) Process(ctx context.Context, bucket string) sweeptypes.BucketOutcome {
	p.mu.Lock()
	p.active++
	if p.active > p.peak {
		p.peak = p.active
	}
	p.mu.Unlock()

	if p.delay > 0 {
		time.Sleep(p.delay)
	}

	p.mu.Lock()
	p.active--
	p.mu.Unlock()

	if p.process != nil {
		return p.process(ctx, bucket)
	}
	return sweeptypes.BucketOutcome{Bucket: bucket}
}

func TestCoordinator_Run(t *testing.T) {
	t.Run("returns one outcome per bucket", func(t *testing.T) {
		proc := &trackingProcessor{}
		coord := New(proc, 4)

		buckets := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
		outcomes := coord.Run(context.Background(), buckets)

		require.Len(t, outcomes, len(buckets))
		seen := make(map[string]bool, len(outcomes))
		for _, outcome := range outcomes {
			seen[outcome.Bucket] = true
		}
		for _, bucket := range buckets {
			assert.True(t, seen[bucket], "missing outcome for %s", bucket)
		}
	})

	t.Run("respects worker limit", func(t *testing.T) {
		proc := &trackingProcessor{delay: 20 * time.Millisecond}
		coord := New(proc, 2)

		buckets := []string{"a", "b", "c", "d", "e", "f"}
		outcomes := coord.Run(context.Background(), buckets)

		require.Len(t, outcomes, len(buckets))
		proc.mu.Lock()
		peak := proc.peak
		proc.mu.Unlock()
		assert.LessOrEqual(t, peak, 2)
	})

	t.Run("empty bucket list", func(t *testing.T) {
		proc := &trackingProcessor{}
		coord := New(proc, 4)

		outcomes := coord.Run(context.Background(), nil)

		assert.Empty(t, outcomes)
	})

	t.Run("normalizes worker count below one", func(t *testing.T) {
		proc := &trackingProcessor{delay: 5 * time.Millisecond}
		coord := New(proc, 0)

		outcomes := coord.Run(context.Background(), []string{"a", "b", "c"})

		require.Len(t, outcomes, 3)
		proc.mu.Lock()
		peak := proc.peak
		proc.mu.Unlock()
		assert.Equal(t, 1, peak)
	})

	t.Run("cancellation stops new dispatch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		var processed atomic.Int32
		proc := &trackingProcessor{
			delay: 10 * time.Millisecond,
			process: func(_ context.Context, bucket string) sweeptypes.BucketOutcome {
				processed.Add(1)
				cancel()
				return sweeptypes.BucketOutcome{Bucket: bucket}
			},
		}
		coord := New(proc, 1)

		buckets := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
		outcomes := coord.Run(ctx, buckets)

		assert.Less(t, len(outcomes), len(buckets))
		assert.Equal(t, int(processed.Load()), len(outcomes))
	})

	t.Run("invokes outcome callback per bucket", func(t *testing.T) {
		proc := &trackingProcessor{}
		coord := New(proc, 3)

		var mu sync.Mutex
		var observed []string
		coord.OnOutcome = func(outcome sweeptypes.BucketOutcome) {
			mu.Lock()
			observed = append(observed, outcome.Bucket)
			mu.Unlock()
		}

		outcomes := coord.Run(context.Background(), []string{"x", "y", "z"})

		require.Len(t, outcomes, 3)
		mu.Lock()
		defer mu.Unlock()
		assert.Len(t, observed, 3)
	})
}

func TestSummarize(t *testing.T) {
	outcomes := []sweeptypes.BucketOutcome{
		{Bucket: "clean", ObjectsDeleted: 120, BucketDeleted: true},
		{Bucket: "partial", ObjectsDeleted: 40, Errors: []sweeptypes.KeyError{{Key: "k", Code: "AccessDenied"}}},
		{Bucket: "broken", ObjectsDeleted: 7, Failed: true},
	}

	summary := Summarize(outcomes, false, 3*time.Second)

	assert.Equal(t, 3, summary.Buckets)
	assert.Equal(t, 167, summary.ObjectsDeleted)
	assert.Equal(t, 1, summary.BucketsDeleted)
	assert.Equal(t, 2, summary.BucketsFailed)
	assert.False(t, summary.DryRun)
	assert.Equal(t, 3*time.Second, summary.Duration)
	assert.False(t, summary.Ok())
	assert.Len(t, summary.Outcomes, 3)
}

func TestSummarize_AllClean(t *testing.T) {
	outcomes := []sweeptypes.BucketOutcome{
		{Bucket: "a", ObjectsDeleted: 10},
		{Bucket: "b", ObjectsDeleted: 0},
	}

	summary := Summarize(outcomes, true, time.Second)

	assert.Equal(t, 10, summary.ObjectsDeleted)
	assert.Zero(t, summary.BucketsFailed)
	assert.True(t, summary.DryRun)
	assert.True(t, summary.Ok())
}
