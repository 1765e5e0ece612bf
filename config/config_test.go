package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "BASE_URL", "DATABASE_URL", "LOG_BASE_URL", "LOG_TOKEN", "LOG_STDOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, ":8000", cfg.Addr())
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, "./db.sqlite", cfg.DatabaseURL)
	assert.Equal(t, defaultLogBaseURL, cfg.LogBaseURL)
	assert.Empty(t, cfg.LogToken)
	assert.True(t, cfg.LogStdout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_URL", "https://sho.rt/")
	t.Setenv("DATABASE_URL", "postgres://app@db/short")
	t.Setenv("LOG_BASE_URL", "https://logs.example")
	t.Setenv("LOG_TOKEN", "tok")
	t.Setenv("LOG_STDOUT", "false")

	cfg := Load()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "https://sho.rt", cfg.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, "postgres://app@db/short", cfg.DatabaseURL)
	assert.Equal(t, "https://logs.example", cfg.LogBaseURL)
	assert.Equal(t, "tok", cfg.LogToken)
	assert.False(t, cfg.LogStdout)
}
