// Package config holds the watcher's configuration: defaults, the YAML file,
// environment overrides and validation.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/pevans/newswatch/scraper"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Remote mirror backends.
const (
	MirrorNone    = "none"
	MirrorRedis   = "redis"
	MirrorDropbox = "dropbox"
)

// Config represents the complete watcher configuration.
type Config struct {
	Listing  ListingConfig         `yaml:"listing"`
	Article  scraper.ArticleConfig `yaml:"article"`
	Fetch    FetchConfig           `yaml:"fetch"`
	Store    StoreConfig           `yaml:"store"`
	Mail     MailConfig            `yaml:"mail"`
	Schedule string                `yaml:"schedule"`
	Log      LogConfig             `yaml:"log"`
}

// ListingConfig says which page to watch and how to read it.
type ListingConfig struct {
	scraper.ListConfig `yaml:",inline"`

	// URL is the page fetched each run. Defaults to BaseURL.
	URL string `yaml:"url"`
}

// FetchConfig configures the HTTP fetcher and its retry policy.
type FetchConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	MaxAttempts       int           `yaml:"max_attempts"`
	InitialBackoff    time.Duration `yaml:"initial_backoff"`
	MaxBackoff        time.Duration `yaml:"max_backoff"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
	// InsecureSkipVerify turns off TLS certificate validation.
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	UserAgent          string `yaml:"user_agent"`
	AcceptLanguage     string `yaml:"accept_language"`
	MaxBodyBytes       int64  `yaml:"max_body_bytes"`
}

// StoreConfig selects where seen identifiers are kept.
type StoreConfig struct {
	Type   string       `yaml:"type"`
	Path   string       `yaml:"path"`
	Table  string       `yaml:"table,omitempty"`
	Mirror MirrorConfig `yaml:"mirror"`
}

// MirrorConfig configures the optional remote copy of the store file.
type MirrorConfig struct {
	Type string `yaml:"type"`
	// Path is the remote key/path. Defaults to "/" + the store file name.
	Path              string `yaml:"path"`
	RedisAddr         string `yaml:"redis_addr"`
	RedisPassword     string `yaml:"redis_password"`
	RedisDB           int    `yaml:"redis_db"`
	DropboxToken      string `yaml:"dropbox_token"`
	DropboxContentURL string `yaml:"dropbox_content_url"`
}

// Enabled reports whether a remote mirror is configured.
func (m MirrorConfig) Enabled() bool {
	return m.Type != "" && m.Type != MirrorNone
}

// MailConfig configures the SMTP relay and the notification envelope.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// From defaults to Username.
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Subject string `yaml:"subject"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Defaults returns a Config with all default values set.
func Defaults() *Config {
	return &Config{
		Listing: ListingConfig{
			ListConfig: scraper.NewListConfig(),
		},
		Article: scraper.NewArticleConfig(),
		Fetch: FetchConfig{
			Timeout:           30 * time.Second,
			MaxAttempts:       3,
			InitialBackoff:    2 * time.Second,
			MaxBackoff:        30 * time.Second,
			BackoffMultiplier: 2.0,
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36",
			AcceptLanguage:    "en-US,en;q=0.9",
			MaxBodyBytes:      5 << 20,
		},
		Store: StoreConfig{
			Type: StoreFile,
			Path: "seen_links.txt",
			Mirror: MirrorConfig{
				Type: MirrorNone,
			},
		},
		Mail: MailConfig{
			Host:    "smtp.gmail.com",
			Port:    587,
			Subject: "Novo comunicado da PGRP!",
		},
		Schedule: "@every 30m",
		Log: LogConfig{
			Level: "info",
		},
	}
}

// finalize fills values derived from other fields.
func (c *Config) finalize() {
	if c.Listing.URL == "" {
		c.Listing.URL = c.Listing.BaseURL
	}
	if c.Mail.From == "" {
		c.Mail.From = c.Mail.Username
	}
	if c.Store.Mirror.Enabled() && c.Store.Mirror.Path == "" {
		c.Store.Mirror.Path = "/" + filepath.Base(c.Store.Path)
	}
}

// Validate checks everything a run needs except the mail settings, which are
// checked separately by ValidateMail because dry runs don't send mail.
func (c *Config) Validate() error {
	if err := c.Listing.ListConfig.Validate(); err != nil {
		return fmt.Errorf("listing: %w", err)
	}
	if u, err := url.Parse(c.Listing.URL); err != nil || !u.IsAbs() {
		return fmt.Errorf("listing: url must be an absolute URL, got %q", c.Listing.URL)
	}

	if c.Fetch.MaxAttempts < 1 {
		return fmt.Errorf("fetch: max_attempts must be at least 1")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch: timeout must be positive")
	}
	if c.Fetch.InitialBackoff < 0 || c.Fetch.MaxBackoff < 0 {
		return fmt.Errorf("fetch: backoff must not be negative")
	}

	switch c.Store.Type {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("store: unknown type %q (want file or sqlite)", c.Store.Type)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store: path is required")
	}

	switch c.Store.Mirror.Type {
	case "", MirrorNone:
	case MirrorRedis:
		if c.Store.Mirror.RedisAddr == "" {
			return fmt.Errorf("store.mirror: redis_addr is required for the redis mirror")
		}
	case MirrorDropbox:
		if c.Store.Mirror.DropboxToken == "" {
			return fmt.Errorf("store.mirror: dropbox_token is required for the dropbox mirror")
		}
	default:
		return fmt.Errorf("store.mirror: unknown type %q (want none, redis or dropbox)", c.Store.Mirror.Type)
	}

	return nil
}

// ValidateMail checks the settings needed to send notifications.
func (c *Config) ValidateMail() error {
	if c.Mail.Host == "" || c.Mail.Port <= 0 {
		return fmt.Errorf("mail: host and port are required")
	}
	if c.Mail.To == "" {
		return fmt.Errorf("mail: to is required (TO_EMAIL)")
	}
	if c.Mail.From == "" {
		return fmt.Errorf("mail: from or username is required (EMAIL_USER)")
	}
	return nil
}
