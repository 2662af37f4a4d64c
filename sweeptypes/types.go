// Package sweeptypes provides shared type definitions for the sweep module.
package sweeptypes

import (
	"fmt"
	"regexp"
	"time"

	sweeperrors "github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/errors"
)

const (
	// DefaultMaxWorkers is the default number of buckets processed in parallel.
	DefaultMaxWorkers = 16

	// DefaultBatchSize is the default number of objects per delete call.
	DefaultBatchSize = 1000

	// MaxBatchSize is the hard protocol limit for a single DeleteObjects call.
	MaxBatchSize = 1000
)

// Config is the immutable snapshot of resolved run options.
// It is built once by the CLI layer, validated with Validate, and shared
// read-only by every component; nothing mutates it after construction.
type Config struct {
	// Profile is the AWS shared-config credential profile to use.
	Profile string

	// Region is the target AWS region.
	Region string

	// IncludePrefix keeps only bucket names with this prefix.
	// An empty prefix matches every bucket.
	IncludePrefix string

	// ExcludeRegex drops bucket names matching this pattern.
	// An empty pattern excludes nothing.
	ExcludeRegex string

	// BucketsFile is an explicit target list, one bucket name per line.
	// When set, account listing and name filters are not used.
	BucketsFile string

	// MaxWorkers bounds the number of buckets processed concurrently.
	MaxWorkers int

	// BatchSize is the number of object keys per delete call (1..1000).
	BatchSize int

	// DryRun previews the run without performing any deletion.
	DryRun bool

	// DeleteBucket removes each bucket after it has been emptied.
	DeleteBucket bool

	// excludeRE is the compiled form of ExcludeRegex, set by Validate.
	excludeRE *regexp.Regexp
}

// Validate normalizes defaults and checks the configuration bounds.
// It must be called once before the config is handed to any component;
// a non-nil result is a fatal pre-flight ConfigurationError.
func (c *Config) Validate() error {
	if c.MaxWorkers == 0 {
		c.MaxWorkers = DefaultMaxWorkers
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}

	if c.MaxWorkers < 1 {
		return sweeperrors.NewError("config", sweeperrors.ErrInvalidConfig).
			WithMessage(fmt.Sprintf("max workers must be at least 1, got %d", c.MaxWorkers))
	}
	if c.BatchSize < 1 || c.BatchSize > MaxBatchSize {
		return sweeperrors.NewError("config", sweeperrors.ErrInvalidConfig).
			WithMessage(fmt.Sprintf("batch size must be between 1 and %d, got %d", MaxBatchSize, c.BatchSize))
	}

	if c.ExcludeRegex != "" {
		re, err := regexp.Compile(c.ExcludeRegex)
		if err != nil {
			return sweeperrors.NewError("config", sweeperrors.ErrInvalidConfig).
				WithMessage(fmt.Sprintf("invalid exclude regex %q: %v", c.ExcludeRegex, err))
		}
		c.excludeRE = re
	}

	return nil
}

// ExcludeMatcher returns the compiled exclude regex, or nil when no
// exclude pattern is configured. Only valid after Validate.
func (c *Config) ExcludeMatcher() *regexp.Regexp {
	return c.excludeRE
}

// KeyError records a single object key that could not be deleted.
type KeyError struct {
	// Key is the S3 object key that failed
	Key string

	// Code is the S3 error code (e.g., "AccessDenied")
	Code string

	// Message is the human-readable failure reason
	Message string
}

// DeleteResult contains the outcome of one batch delete call.
type DeleteResult struct {
	// Deleted holds the keys confirmed (or assumed, in dry-run) deleted
	Deleted []string

	// Errors holds the per-key failures, in the order reported
	Errors []KeyError

	// Duration is how long the call took
	Duration time.Duration
}

// BucketOutcome is the result of processing a single bucket end-to-end.
// Invariant for non-failed outcomes: ObjectsDeleted plus len(Errors)
// equals the number of objects observed in the bucket.
type BucketOutcome struct {
	// Bucket is the bucket name
	Bucket string

	// ObjectsDeleted counts objects removed (or would-be-removed in dry-run)
	ObjectsDeleted int

	// Errors holds every recorded object- and bucket-level failure
	Errors []KeyError

	// BucketDeleted reports whether the bucket itself was removed
	BucketDeleted bool

	// Failed marks the outcome of a bucket that hit an unrecoverable error;
	// counts above keep whatever partial progress was made
	Failed bool

	// Err is the unrecoverable error behind a Failed outcome, if any
	Err error
}

// Ok reports whether the bucket was processed without any recorded error.
func (o *BucketOutcome) Ok() bool {
	return !o.Failed && len(o.Errors) == 0
}

// Summary aggregates every bucket outcome for final reporting.
type Summary struct {
	// Buckets is the number of buckets processed
	Buckets int

	// ObjectsDeleted is the total objects removed across all buckets
	ObjectsDeleted int

	// BucketsDeleted is the number of buckets removed after emptying
	BucketsDeleted int

	// BucketsFailed is the number of buckets that ended failed or with errors
	BucketsFailed int

	// DryRun reports whether the run was a preview only
	DryRun bool

	// Duration is the wall-clock time of the whole run
	Duration time.Duration

	// Outcomes holds every per-bucket result, in completion order
	Outcomes []BucketOutcome
}

// Ok reports whether the whole run completed without bucket-level errors.
func (s *Summary) Ok() bool {
	return s.BucketsFailed == 0
}
