package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3sweep "github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/sweeptypes"
)

func TestResolveBucketsFile(t *testing.T) {
	t.Run("empty path stays empty", func(t *testing.T) {
		path, err := resolveBucketsFile("")
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("relative path resolves against the working directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		path, err := resolveBucketsFile("buckets.txt")

		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(path))
		assert.Equal(t, "buckets.txt", filepath.Base(path))
	})

	t.Run("absolute path passes through", func(t *testing.T) {
		path, err := resolveBucketsFile("/etc/sweep/buckets.txt")
		require.NoError(t, err)
		assert.Equal(t, "/etc/sweep/buckets.txt", path)
	})
}

// A buckets file named relative to the working directory must be found by
// a sweeper built the way the CLI builds one.
func TestRelativeBucketsFileReachesSweeper(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "buckets.txt"), []byte("bucket-one\nbucket-two\n"), 0o644))

	bucketsFile, err := resolveBucketsFile("buckets.txt")
	require.NoError(t, err)

	client := s3sweep.NewWithClient(testutil.NewMockBuilder().Build())
	cfg := &sweeptypes.Config{BucketsFile: bucketsFile}
	sweeper, err := s3sweep.NewSweeper(client, cfg, zerolog.Nop())
	require.NoError(t, err)

	buckets, err := sweeper.Targets(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"bucket-one", "bucket-two"}, buckets)
}
