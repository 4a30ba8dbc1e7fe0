package config

import (
	"fmt"
	"strconv"
	"time"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg with environment variables. The mail and Dropbox
// variable names are the ones the deployment already uses.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("EMAIL_USER", &cfg.Mail.Username)
	str("EMAIL_PASSWORD", &cfg.Mail.Password)
	str("TO_EMAIL", &cfg.Mail.To)
	str("DROPBOX_ACCESS_TOKEN", &cfg.Store.Mirror.DropboxToken)
	str("NEWSWATCH_BASE_URL", &cfg.Listing.BaseURL)
	str("NEWSWATCH_LISTING_URL", &cfg.Listing.URL)
	str("NEWSWATCH_STORE_PATH", &cfg.Store.Path)
	str("NEWSWATCH_REDIS_ADDR", &cfg.Store.Mirror.RedisAddr)
	str("NEWSWATCH_SCHEDULE", &cfg.Schedule)
	str("NEWSWATCH_LOG_LEVEL", &cfg.Log.Level)

	if v, ok := lookup("NEWSWATCH_RETRY_COUNT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid NEWSWATCH_RETRY_COUNT %q: %w", v, err)
		}
		cfg.Fetch.MaxAttempts = n
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"NEWSWATCH_RETRY_BACKOFF", &cfg.Fetch.InitialBackoff},
		{"NEWSWATCH_TIMEOUT", &cfg.Fetch.Timeout},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.key, v, err)
		}
		*d.dst = parsed
	}

	return nil
}
