package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, int64(10<<20), cfg.Fetch.MaxBodyBytes)
	assert.Equal(t, "en-US,en;q=0.9", cfg.Fetch.AcceptLanguage)
	assert.False(t, cfg.Browser.Enabled)
	assert.Equal(t, []string{"Image", "Stylesheet", "Font", "Media"}, cfg.Browser.BlockedResourceTypes)
	assert.True(t, cfg.Scrape.Validate)
	assert.False(t, cfg.Scrape.AllowPrivateHosts)
	assert.Empty(t, cfg.Auth.APIKeys)
	assert.Zero(t, cfg.RateLimit.RequestsPerSecond)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RECIPE_HOST", "127.0.0.1")
	t.Setenv("RECIPE_PORT", "9090")
	t.Setenv("RECIPE_FETCH_TIMEOUT", "5s")
	t.Setenv("RECIPE_BROWSER_ENABLED", "true")
	t.Setenv("RECIPE_VALIDATE", "false")
	t.Setenv("RECIPE_API_KEYS", "a, b,,c")
	t.Setenv("RECIPE_RATE_RPS", "2.5")
	t.Setenv("RECIPE_ACCEPT_LANGUAGE", "de-DE")

	cfg := Load()

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Browser.Enabled)
	assert.False(t, cfg.Scrape.Validate)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Auth.APIKeys)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, "de-DE", cfg.Fetch.AcceptLanguage)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("RECIPE_PORT", "not-a-port")
	t.Setenv("RECIPE_FETCH_TIMEOUT", "soon")
	t.Setenv("RECIPE_VALIDATE", "maybe")

	cfg := Load()

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Scrape.Validate)
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "text"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "url", "https://example.com")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "url=https://example.com")

	buf.Reset()
	LogConfig{Level: "debug"}.NewLogger(&buf).Debug("json line")
	assert.Contains(t, buf.String(), `"msg":"json line"`)
}
