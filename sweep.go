package s3sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/pool"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/targets"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/worker"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/sweeptypes"
)

// Sweeper runs a full sweep: resolve target buckets, empty each one in
// bounded batches across a worker pool, and optionally remove the
// emptied buckets.
//
// A Sweeper is safe for concurrent use; each Run carries its own state.
type Sweeper struct {
	client *Client
	cfg    *sweeptypes.Config
	logger zerolog.Logger
}

// NewSweeper creates a Sweeper from a client and a run configuration.
// The configuration is validated here; a Sweeper never holds an invalid
// one. When a buckets file is configured together with name filters the
// filters are ignored, with a warning, since the file is authoritative.
func NewSweeper(client *Client, cfg *sweeptypes.Config, logger zerolog.Logger) (*Sweeper, error) {
	if client == nil {
		return nil, errors.NewError("sweeper", errors.ErrInvalidConfig).
			WithMessage("client cannot be nil")
	}
	if cfg == nil {
		return nil, errors.NewError("sweeper", errors.ErrInvalidConfig).
			WithMessage("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.BucketsFile != "" && (cfg.IncludePrefix != "" || cfg.ExcludeRegex != "") {
		logger.Warn().
			Str("buckets_file", cfg.BucketsFile).
			Msg("buckets file is authoritative; include/exclude filters are ignored")
	}

	return &Sweeper{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Targets resolves the buckets this run would process, without touching
// any of them. Use it to preview a run before committing to it.
func (s *Sweeper) Targets(ctx context.Context) ([]string, error) {
	return targets.New(s.client.s3Client, s.client.fs).List(ctx, s.cfg)
}

// Sweep processes the given buckets and returns the aggregated summary.
// Individual bucket failures are folded into the summary rather than
// aborting the run; inspect Summary.Ok or the per-bucket outcomes.
func (s *Sweeper) Sweep(ctx context.Context, buckets []string) *sweeptypes.Summary {
	start := time.Now()

	coordinator := pool.New(worker.New(s.client.s3Client, s.cfg), s.cfg.MaxWorkers)
	coordinator.OnOutcome = s.logOutcome

	outcomes := coordinator.Run(ctx, buckets)
	summary := pool.Summarize(outcomes, s.cfg.DryRun, time.Since(start))

	s.logger.Info().
		Int("buckets", summary.Buckets).
		Int("objects_deleted", summary.ObjectsDeleted).
		Int("buckets_deleted", summary.BucketsDeleted).
		Int("buckets_failed", summary.BucketsFailed).
		Bool("dry_run", summary.DryRun).
		Dur("duration", summary.Duration).
		Msg("sweep finished")

	return summary
}

// Run resolves targets and sweeps them in one call.
func (s *Sweeper) Run(ctx context.Context) (*sweeptypes.Summary, error) {
	buckets, err := s.Targets(ctx)
	if err != nil {
		return nil, err
	}
	return s.Sweep(ctx, buckets), nil
}

// logOutcome reports one bucket's result as it completes.
func (s *Sweeper) logOutcome(outcome sweeptypes.BucketOutcome) {
	event := s.logger.Info()
	switch {
	case outcome.Failed:
		event = s.logger.Error().Err(outcome.Err)
	case len(outcome.Errors) > 0:
		event = s.logger.Warn().Int("errors", len(outcome.Errors))
	}

	event.
		Str("bucket", outcome.Bucket).
		Int("objects_deleted", outcome.ObjectsDeleted).
		Bool("bucket_deleted", outcome.BucketDeleted).
		Bool("dry_run", s.cfg.DryRun).
		Msg("bucket processed")
}
