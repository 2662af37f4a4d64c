// Command s3sweep bulk-deletes objects from S3 buckets, optionally
// removing the emptied buckets.
//
// Exit codes: 0 on success, 1 when no buckets matched or the run could
// not start, 2 when one or more buckets failed.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	s3sweep "github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/sweeptypes"
)

func main() {
	// A missing .env file is fine; explicit environment always wins.
	_ = godotenv.Load(".env")

	app := &cli.App{
		Name:  "s3sweep",
		Usage: "Bulk-delete objects from S3 buckets, optionally removing the buckets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "profile",
				Usage:   "AWS shared-config profile to use",
				EnvVars: []string{"S3SWEEP_PROFILE", "AWS_PROFILE"},
			},
			&cli.StringFlag{
				Name:    "region",
				Usage:   "AWS region",
				EnvVars: []string{"S3SWEEP_REGION", "AWS_REGION"},
			},
			&cli.StringFlag{
				Name:    "include-prefix",
				Usage:   "Only sweep buckets whose name starts with this prefix",
				EnvVars: []string{"S3SWEEP_INCLUDE_PREFIX"},
			},
			&cli.StringFlag{
				Name:    "exclude-regex",
				Usage:   "Skip buckets whose name matches this pattern",
				EnvVars: []string{"S3SWEEP_EXCLUDE_REGEX"},
			},
			&cli.StringFlag{
				Name:    "buckets-file",
				Usage:   "Sweep exactly the buckets listed in this file, one per line",
				EnvVars: []string{"S3SWEEP_BUCKETS_FILE"},
			},
			&cli.IntFlag{
				Name:    "max-workers",
				Usage:   "Number of buckets processed in parallel",
				Value:   sweeptypes.DefaultMaxWorkers,
				EnvVars: []string{"S3SWEEP_MAX_WORKERS"},
			},
			&cli.IntFlag{
				Name:    "batch-size",
				Usage:   "Object keys per delete request (1-1000)",
				Value:   sweeptypes.DefaultBatchSize,
				EnvVars: []string{"S3SWEEP_BATCH_SIZE"},
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Usage:   "Preview what would be deleted without deleting anything",
				EnvVars: []string{"S3SWEEP_DRY_RUN"},
			},
			&cli.BoolFlag{
				Name:    "delete-bucket",
				Usage:   "Remove each bucket after emptying it",
				EnvVars: []string{"S3SWEEP_DELETE_BUCKET"},
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "Custom S3 endpoint URL, for S3-compatible services",
				EnvVars: []string{"S3SWEEP_ENDPOINT"},
			},
			&cli.BoolFlag{
				Name:    "path-style",
				Usage:   "Use path-style addressing (required by most S3-compatible services)",
				EnvVars: []string{"S3SWEEP_PATH_STYLE"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable debug logging",
				EnvVars: []string{"S3SWEEP_VERBOSE"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := newLogger(c.Bool("verbose"))

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []sweeptypes.Option{
		s3sweep.WithForcePathStyle(c.Bool("path-style")),
	}
	if profile := c.String("profile"); profile != "" {
		opts = append(opts, s3sweep.WithProfile(profile))
	}
	if region := c.String("region"); region != "" {
		opts = append(opts, s3sweep.WithRegion(region))
	}
	if endpoint := c.String("endpoint"); endpoint != "" {
		opts = append(opts, s3sweep.WithEndpoint(endpoint))
	}

	client, err := s3sweep.New(opts...)
	if err != nil {
		return cli.Exit(fmt.Sprintf("s3sweep: %v", err), 1)
	}

	bucketsFile, err := resolveBucketsFile(c.String("buckets-file"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("s3sweep: %v", err), 1)
	}

	cfg := &sweeptypes.Config{
		Profile:       c.String("profile"),
		Region:        c.String("region"),
		IncludePrefix: c.String("include-prefix"),
		ExcludeRegex:  c.String("exclude-regex"),
		BucketsFile:   bucketsFile,
		MaxWorkers:    c.Int("max-workers"),
		BatchSize:     c.Int("batch-size"),
		DryRun:        c.Bool("dry-run"),
		DeleteBucket:  c.Bool("delete-bucket"),
	}

	sweeper, err := s3sweep.NewSweeper(client, cfg, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("s3sweep: %v", err), 1)
	}

	buckets, err := sweeper.Targets(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("s3sweep: %v", err), 1)
	}
	if len(buckets) == 0 {
		return cli.Exit("s3sweep: no buckets matched", 1)
	}

	logger.Info().Int("count", len(buckets)).Msg("target buckets")
	for _, bucket := range buckets {
		logger.Info().Str("bucket", bucket).Msg("target")
	}

	summary := sweeper.Sweep(ctx, buckets)

	if err := ctx.Err(); err != nil {
		return cli.Exit("s3sweep: interrupted", 2)
	}
	if !summary.Ok() {
		return cli.Exit(fmt.Sprintf("s3sweep: %d of %d buckets failed", summary.BucketsFailed, summary.Buckets), 2)
	}
	return nil
}

// resolveBucketsFile makes a buckets-file path absolute so it is read
// relative to the working directory, not to the filesystem root the
// client is anchored at.
func resolveBucketsFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve buckets file %s: %w", path, err)
	}
	return abs, nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}
