package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SCRAPER_MIN_TEXT_LENGTH", "80")
	t.Setenv("SCRAPER_DELAY", "2s")
	t.Setenv("SCRAPER_USER_AGENT", "TestBot/1.0")
	t.Setenv("SCRAPER_OUTPUT_DIR", "out")
	t.Setenv("SCRAPER_KEYWORD", "ニュース")
	t.Setenv("SCRAPER_RESPECT_ROBOTS", "false")
	t.Setenv("SCRAPER_CONCURRENCY", "3")
	t.Setenv("SCRAPER_TIMEOUT", "30s")
	t.Setenv("SCRAPER_MAX_RETRIES", "2")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.MinTextLength)
	assert.Equal(t, 2*time.Second, cfg.Delay)
	assert.Equal(t, "TestBot/1.0", cfg.UserAgent)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "ニュース", cfg.Keyword)
	assert.False(t, cfg.RespectRobots)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, uint64(2), cfg.MaxRetries)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.MinTextLength)
	assert.Equal(t, time.Second, cfg.Delay)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, "data", cfg.OutputDir)
	assert.Empty(t, cfg.Keyword)
	assert.True(t, cfg.RespectRobots)
	assert.Equal(t, 6, cfg.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, uint64(5), cfg.MaxRetries)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("SCRAPER_DELAY", "soon")

	_, err := Load()
	assert.Error(t, err)
}
