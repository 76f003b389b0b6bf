package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	loader := NewLoader("", nil)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.True(t, cfg.Scoring.StrictValidation)
	assert.Equal(t, 100, cfg.Scoring.HistoryLimit)
	assert.Equal(t, 15.0, cfg.Scoring.SpikeThreshold)
	assert.Equal(t, "pslrisk.risk-alerts", cfg.Kafka.AlertTopic)
	assert.Same(t, cfg, loader.Current())
}

func TestLoadFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9090
cache:
  backend: redis
  ttl: 1h
scoring:
  strict_validation: false
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("PSLRISK_SCORING_HISTORY_LIMIT", "25")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.False(t, cfg.Scoring.StrictValidation)
	assert.Equal(t, 25, cfg.Scoring.HistoryLimit)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := NewLoader("", nil).Load()
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Cache.Backend = "memcached"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Kafka.Enabled = true
	cfg.Kafka.Brokers = nil
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Scoring.SpikeThreshold = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}
