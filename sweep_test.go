package s3sweep

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sweeperrors "github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/sweeptypes"
)

func newTestSweeper(t *testing.T, mock *testutil.MockS3Client, cfg *sweeptypes.Config) *Sweeper {
	t.Helper()
	sweeper, err := NewSweeper(NewWithClient(mock), cfg, zerolog.Nop())
	require.NoError(t, err)
	return sweeper
}

func TestNewSweeper(t *testing.T) {
	t.Run("nil client", func(t *testing.T) {
		sweeper, err := NewSweeper(nil, &sweeptypes.Config{}, zerolog.Nop())
		require.Error(t, err)
		assert.Nil(t, sweeper)
	})

	t.Run("nil config", func(t *testing.T) {
		sweeper, err := NewSweeper(NewWithClient(testutil.NewMockBuilder().Build()), nil, zerolog.Nop())
		require.Error(t, err)
		assert.Nil(t, sweeper)
	})

	t.Run("invalid exclude regex", func(t *testing.T) {
		cfg := &sweeptypes.Config{ExcludeRegex: "["}
		sweeper, err := NewSweeper(NewWithClient(testutil.NewMockBuilder().Build()), cfg, zerolog.Nop())
		require.Error(t, err)
		assert.True(t, sweeperrors.IsInvalidConfig(err))
		assert.Nil(t, sweeper)
	})

	t.Run("defaults applied", func(t *testing.T) {
		cfg := &sweeptypes.Config{}
		_, err := NewSweeper(NewWithClient(testutil.NewMockBuilder().Build()), cfg, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, sweeptypes.DefaultMaxWorkers, cfg.MaxWorkers)
		assert.Equal(t, sweeptypes.DefaultBatchSize, cfg.BatchSize)
	})
}

func TestSweeper_Run(t *testing.T) {
	t.Run("empties filtered buckets in bounded batches", func(t *testing.T) {
		keys := testutil.GenerateKeys("", 2500)

		var mu sync.Mutex
		var batchSizes []int
		mock := testutil.NewMockBuilder().
			WithAccountBuckets("logs-a", "logs-a-archive", "data-b").
			WithPagedObjects(map[string][]string{"logs-a": keys}).
			WithDeleteObjects(func(_ context.Context, params *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
				mu.Lock()
				batchSizes = append(batchSizes, len(params.Delete.Objects))
				mu.Unlock()
				return &s3.DeleteObjectsOutput{}, nil
			}).
			Build()

		cfg := &sweeptypes.Config{IncludePrefix: "logs-", ExcludeRegex: "archive"}
		summary, err := newTestSweeper(t, mock, cfg).Run(context.Background())

		require.NoError(t, err)
		assert.True(t, summary.Ok())
		assert.Equal(t, 1, summary.Buckets)
		assert.Equal(t, 2500, summary.ObjectsDeleted)
		assert.Zero(t, summary.BucketsFailed)
		assert.Equal(t, []int{1000, 1000, 500}, batchSizes)
	})

	t.Run("dry run counts without deleting", func(t *testing.T) {
		mock := testutil.NewMockBuilder().
			WithAccountBuckets("bucket-a").
			WithPagedObjects(map[string][]string{"bucket-a": testutil.GenerateKeys("", 42)}).
			WithDeleteObjects(func(_ context.Context, _ *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
				t.Fatal("dry run must not delete objects")
				return nil, nil
			}).
			WithDeleteBucket(func(_ context.Context, _ *s3.DeleteBucketInput) (*s3.DeleteBucketOutput, error) {
				t.Fatal("dry run must not delete buckets")
				return nil, nil
			}).
			Build()

		cfg := &sweeptypes.Config{DryRun: true, DeleteBucket: true}
		summary, err := newTestSweeper(t, mock, cfg).Run(context.Background())

		require.NoError(t, err)
		assert.True(t, summary.DryRun)
		assert.Equal(t, 42, summary.ObjectsDeleted)
		assert.Zero(t, summary.BucketsDeleted)
	})

	t.Run("removes emptied buckets when asked", func(t *testing.T) {
		mock := testutil.NewMockBuilder().
			WithAccountBuckets("bucket-a", "bucket-b").
			WithPagedObjects(map[string][]string{
				"bucket-a": testutil.GenerateKeys("a/", 10),
				"bucket-b": testutil.GenerateKeys("b/", 5),
			}).
			WithDeleteAllSucceeding().
			WithBucketDeleteSucceeding().
			Build()

		cfg := &sweeptypes.Config{DeleteBucket: true}
		summary, err := newTestSweeper(t, mock, cfg).Run(context.Background())

		require.NoError(t, err)
		assert.True(t, summary.Ok())
		assert.Equal(t, 2, summary.Buckets)
		assert.Equal(t, 15, summary.ObjectsDeleted)
		assert.Equal(t, 2, summary.BucketsDeleted)
	})

	t.Run("one failing bucket does not stop the others", func(t *testing.T) {
		mock := testutil.NewMockBuilder().
			WithAccountBuckets("bucket-ok", "bucket-bad").
			WithListObjectsV2(func(_ context.Context, params *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
				if *params.Bucket == "bucket-bad" {
					return nil, errors.New("access denied")
				}
				return &s3.ListObjectsV2Output{}, nil
			}).
			Build()

		summary, err := newTestSweeper(t, mock, &sweeptypes.Config{}).Run(context.Background())

		require.NoError(t, err)
		assert.False(t, summary.Ok())
		assert.Equal(t, 2, summary.Buckets)
		assert.Equal(t, 1, summary.BucketsFailed)
	})

	t.Run("listing failure aborts the run", func(t *testing.T) {
		mock := testutil.NewMockBuilder().
			WithListBuckets(func(_ context.Context, _ *s3.ListBucketsInput) (*s3.ListBucketsOutput, error) {
				return nil, errors.New("credentials expired")
			}).
			Build()

		summary, err := newTestSweeper(t, mock, &sweeptypes.Config{}).Run(context.Background())

		require.Error(t, err)
		assert.True(t, sweeperrors.IsListing(err))
		assert.Nil(t, summary)
	})

	t.Run("no matching buckets gives an empty summary", func(t *testing.T) {
		mock := testutil.NewMockBuilder().
			WithAccountBuckets("data-a").
			Build()

		cfg := &sweeptypes.Config{IncludePrefix: "logs-"}
		summary, err := newTestSweeper(t, mock, cfg).Run(context.Background())

		require.NoError(t, err)
		assert.Zero(t, summary.Buckets)
		assert.True(t, summary.Ok())
	})
}

func TestSweeper_Targets_FromFile(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("buckets.txt", []byte("from-file-a\nfrom-file-b\n"), 0o644))

	mock := testutil.NewMockBuilder().
		WithAccountBuckets("account-bucket").
		Build()
	client := NewWithClient(mock)
	client.SetFilesystem(fsys)

	cfg := &sweeptypes.Config{
		BucketsFile:   "buckets.txt",
		IncludePrefix: "account-", // ignored: the file is authoritative
	}
	sweeper, err := NewSweeper(client, cfg, zerolog.Nop())
	require.NoError(t, err)

	buckets, err := sweeper.Targets(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"from-file-a", "from-file-b"}, buckets)
}

func TestSweeper_Sweep_ReportsEachBucket(t *testing.T) {
	mock := testutil.NewMockBuilder().
		WithPagedObjects(map[string][]string{
			"bucket-a": testutil.GenerateKeys("", 3),
			"bucket-b": nil,
		}).
		WithDeleteAllSucceeding().
		Build()

	sweeper := newTestSweeper(t, mock, &sweeptypes.Config{})
	summary := sweeper.Sweep(context.Background(), []string{"bucket-a", "bucket-b"})

	require.Len(t, summary.Outcomes, 2)
	byName := make(map[string]sweeptypes.BucketOutcome, 2)
	for _, outcome := range summary.Outcomes {
		byName[outcome.Bucket] = outcome
	}
	assert.Equal(t, 3, byName["bucket-a"].ObjectsDeleted)
	assert.Zero(t, byName["bucket-b"].ObjectsDeleted)
}
