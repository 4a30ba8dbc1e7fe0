package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lookupFrom builds a LookupFunc over a map.
func lookupFrom(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// validConfig returns finalized defaults.
func validConfig() *Config {
	cfg := Defaults()
	cfg.finalize()
	return cfg
}

// TestDefaults_Valid verifies the defaults pass validation
func TestDefaults_Valid(t *testing.T) {
	cfg := validConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Fetch.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "seen_links.txt", cfg.Store.Path)
	assert.False(t, cfg.Store.Mirror.Enabled())
	assert.Equal(t, "@every 30m", cfg.Schedule)
}

// TestValidate_Errors verifies each validation rule
func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad strategy", func(c *Config) { c.Listing.Strategy = "xpath" }, "listing"},
		{"relative listing url", func(c *Config) { c.Listing.URL = "news/" }, "absolute URL"},
		{"zero attempts", func(c *Config) { c.Fetch.MaxAttempts = 0 }, "max_attempts"},
		{"zero timeout", func(c *Config) { c.Fetch.Timeout = 0 }, "timeout"},
		{"negative backoff", func(c *Config) { c.Fetch.InitialBackoff = -time.Second }, "backoff"},
		{"unknown store", func(c *Config) { c.Store.Type = "s3" }, "store"},
		{"empty store path", func(c *Config) { c.Store.Path = "" }, "path is required"},
		{"redis without addr", func(c *Config) { c.Store.Mirror.Type = MirrorRedis }, "redis_addr"},
		{"dropbox without token", func(c *Config) { c.Store.Mirror.Type = MirrorDropbox }, "dropbox_token"},
		{"unknown mirror", func(c *Config) { c.Store.Mirror.Type = "ftp" }, "unknown type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// TestValidateMail verifies mail requirements
func TestValidateMail(t *testing.T) {
	cfg := validConfig()
	assert.Error(t, cfg.ValidateMail(), "recipient is missing")

	cfg.Mail.To = "team@example.com"
	assert.Error(t, cfg.ValidateMail(), "sender is missing")

	cfg.Mail.From = "bot@example.com"
	assert.NoError(t, cfg.ValidateMail())

	cfg.Mail.Port = 0
	assert.Error(t, cfg.ValidateMail())
}

// TestApplyEnv_AllVariables verifies every recognized variable
func TestApplyEnv_AllVariables(t *testing.T) {
	cfg := Defaults()

	err := ApplyEnv(cfg, lookupFrom(map[string]string{
		"EMAIL_USER":              "bot@example.com",
		"EMAIL_PASSWORD":          "secret",
		"TO_EMAIL":                "team@example.com",
		"DROPBOX_ACCESS_TOKEN":    "tok",
		"NEWSWATCH_BASE_URL":      "https://example.com/",
		"NEWSWATCH_LISTING_URL":   "https://example.com/list",
		"NEWSWATCH_RETRY_COUNT":   "5",
		"NEWSWATCH_RETRY_BACKOFF": "250ms",
		"NEWSWATCH_TIMEOUT":       "9s",
		"NEWSWATCH_STORE_PATH":    "/tmp/seen.txt",
		"NEWSWATCH_REDIS_ADDR":    "redis:6379",
		"NEWSWATCH_SCHEDULE":      "@daily",
		"NEWSWATCH_LOG_LEVEL":     "warn",
	}))
	require.NoError(t, err)

	assert.Equal(t, "bot@example.com", cfg.Mail.Username)
	assert.Equal(t, "secret", cfg.Mail.Password)
	assert.Equal(t, "team@example.com", cfg.Mail.To)
	assert.Equal(t, "tok", cfg.Store.Mirror.DropboxToken)
	assert.Equal(t, "https://example.com/", cfg.Listing.BaseURL)
	assert.Equal(t, "https://example.com/list", cfg.Listing.URL)
	assert.Equal(t, 5, cfg.Fetch.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Fetch.InitialBackoff)
	assert.Equal(t, 9*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "/tmp/seen.txt", cfg.Store.Path)
	assert.Equal(t, "redis:6379", cfg.Store.Mirror.RedisAddr)
	assert.Equal(t, "@daily", cfg.Schedule)
	assert.Equal(t, "warn", cfg.Log.Level)
}

// TestApplyEnv_EmptyValuesIgnored verifies empty variables keep defaults
func TestApplyEnv_EmptyValuesIgnored(t *testing.T) {
	cfg := Defaults()

	require.NoError(t, ApplyEnv(cfg, lookupFrom(map[string]string{"TO_EMAIL": "", "NEWSWATCH_TIMEOUT": ""})))

	assert.Empty(t, cfg.Mail.To)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
}

// TestApplyEnv_InvalidNumbers verifies malformed values are rejected
func TestApplyEnv_InvalidNumbers(t *testing.T) {
	assert.Error(t, ApplyEnv(Defaults(), lookupFrom(map[string]string{"NEWSWATCH_RETRY_COUNT": "many"})))
	assert.Error(t, ApplyEnv(Defaults(), lookupFrom(map[string]string{"NEWSWATCH_TIMEOUT": "soon"})))
}

// TestFinalize_MirrorPath verifies the derived remote path
func TestFinalize_MirrorPath(t *testing.T) {
	cfg := Defaults()
	cfg.Store.Path = "data/seen_links_pgrp.db"
	cfg.Store.Mirror.Type = MirrorDropbox
	cfg.finalize()

	assert.Equal(t, "/seen_links_pgrp.db", cfg.Store.Mirror.Path)
}
