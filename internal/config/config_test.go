package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 1000, cfg.BulkJobChunkSize)
	assert.Equal(t, 8, cfg.BulkJobChunkParallelism)
	assert.True(t, cfg.RateLimitEnabled)
}

func TestLoadHonorsEnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("BULK_JOB_CHUNK_SIZE", "500")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 500, cfg.BulkJobChunkSize)
	assert.False(t, cfg.RateLimitEnabled)
}

func TestLoadRejectsInvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
}

func TestValidateRejectsNonPositiveChunkSize(t *testing.T) {
	cfg := &Config{BulkJobChunkSize: 0, BulkJobChunkParallelism: 1}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroRateWhenEnabled(t *testing.T) {
	cfg := &Config{BulkJobChunkSize: 1, BulkJobChunkParallelism: 1, RateLimitEnabled: true, RateLimitPerSecond: 0}
	assert.Error(t, cfg.Validate())
}
