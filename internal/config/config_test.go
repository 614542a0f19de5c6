package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Pipeline.WorkerMin)
	assert.Equal(t, 8, cfg.Pipeline.WorkerMax)
	assert.Equal(t, 3, cfg.Pipeline.MaxAttempts)
	assert.False(t, cfg.S3Enabled())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AMHARIC_HTTP_ADDR", ":9090")
	t.Setenv("AMHARIC_REDIS_ADDR", "redis:6380")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoadInitialWorkersClamped(t *testing.T) {
	t.Setenv("AMHARIC_PIPELINE_INITIAL_WORKER_COUNT", "100")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, cfg.Pipeline.WorkerMax, cfg.Pipeline.InitialWorkerCount)
}
