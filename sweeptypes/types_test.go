package sweeptypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sweeperrors "github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/errors"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "zero values get defaults",
			cfg:  Config{},
		},
		{
			name: "explicit values kept",
			cfg:  Config{MaxWorkers: 4, BatchSize: 500},
		},
		{
			name:    "negative workers rejected",
			cfg:     Config{MaxWorkers: -1},
			wantErr: true,
		},
		{
			name:    "negative batch size rejected",
			cfg:     Config{BatchSize: -5},
			wantErr: true,
		},
		{
			name:    "batch size above the service limit rejected",
			cfg:     Config{BatchSize: MaxBatchSize + 1},
			wantErr: true,
		},
		{
			name: "batch size at the limit accepted",
			cfg:  Config{BatchSize: MaxBatchSize},
		},
		{
			name: "valid exclude regex",
			cfg:  Config{ExcludeRegex: "^tmp-.*"},
		},
		{
			name:    "invalid exclude regex rejected",
			cfg:     Config{ExcludeRegex: "["},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, sweeperrors.IsInvalidConfig(err))
				return
			}
			require.NoError(t, err)
			assert.GreaterOrEqual(t, tt.cfg.MaxWorkers, 1)
			assert.GreaterOrEqual(t, tt.cfg.BatchSize, 1)
		})
	}
}

func TestConfig_ExcludeMatcher(t *testing.T) {
	t.Run("nil without pattern", func(t *testing.T) {
		cfg := Config{}
		require.NoError(t, cfg.Validate())
		assert.Nil(t, cfg.ExcludeMatcher())
	})

	t.Run("compiled after validation", func(t *testing.T) {
		cfg := Config{ExcludeRegex: "archive"}
		require.NoError(t, cfg.Validate())

		re := cfg.ExcludeMatcher()
		require.NotNil(t, re)
		assert.True(t, re.MatchString("logs-archive-2024"))
		assert.False(t, re.MatchString("logs-live"))
	})
}

func TestBucketOutcome_Ok(t *testing.T) {
	clean := BucketOutcome{Bucket: "clean"}
	failed := BucketOutcome{Failed: true}
	withErrors := BucketOutcome{Errors: []KeyError{{Key: "k"}}}

	assert.True(t, clean.Ok())
	assert.False(t, failed.Ok())
	assert.False(t, withErrors.Ok())
}

func TestSummary_Ok(t *testing.T) {
	clean := Summary{Buckets: 3}
	failed := Summary{Buckets: 3, BucketsFailed: 1}

	assert.True(t, clean.Ok())
	assert.False(t, failed.Ok())
}
