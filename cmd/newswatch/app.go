package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pevans/newswatch/config"
	"github.com/pevans/newswatch/fetch"
	"github.com/pevans/newswatch/logging"
	"github.com/pevans/newswatch/monitor"
	"github.com/pevans/newswatch/notify"
	"github.com/pevans/newswatch/seen"
)

// app holds what every command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

// newApp loads the configuration and builds the logger.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if debug {
		cfg.Log.Development = true
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger}, nil
}

// close flushes the logger.
func (a *app) close() {
	_ = a.logger.Sync()
}

// store opens the configured seen store.
func (a *app) store() (seen.Store, error) {
	store, err := seen.Open(a.cfg.Store, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open seen store: %w", err)
	}
	return store, nil
}

// sender returns the mail sender, or a LogSender for dry runs.
func (a *app) sender(dryRun bool) (notify.Sender, error) {
	if dryRun {
		return notify.NewLogSender(a.logger), nil
	}
	if err := a.cfg.ValidateMail(); err != nil {
		return nil, err
	}

	m := a.cfg.Mail
	return notify.NewSMTPSender(m.Host, m.Port, m.Username, m.Password, m.From), nil
}

// fetcher builds the HTTP fetcher from the fetch settings.
func (a *app) fetcher() *fetch.Fetcher {
	fc := a.cfg.Fetch
	if fc.InsecureSkipVerify {
		a.logger.Warn("TLS certificate verification is disabled for all fetches")
	}

	policy := fetch.DefaultPolicy()
	policy.MaxAttempts = fc.MaxAttempts
	policy.InitialDelay = fc.InitialBackoff
	policy.MaxDelay = fc.MaxBackoff
	policy.Multiplier = fc.BackoffMultiplier

	return fetch.New(fetch.Config{
		Timeout:            fc.Timeout,
		Policy:             policy,
		InsecureSkipVerify: fc.InsecureSkipVerify,
		UserAgent:          fc.UserAgent,
		AcceptLanguage:     fc.AcceptLanguage,
		MaxBodyBytes:       fc.MaxBodyBytes,
	}, a.logger)
}

// monitor wires the full pipeline.
func (a *app) monitor(dryRun bool) (*monitor.Monitor, error) {
	store, err := a.store()
	if err != nil {
		return nil, err
	}

	sender, err := a.sender(dryRun)
	if err != nil {
		return nil, err
	}

	notifier := notify.New(sender, a.cfg.Mail.To, a.cfg.Mail.Subject)

	return monitor.New(a.fetcher(), store, notifier, monitor.Config{
		ListingURL: a.cfg.Listing.URL,
		List:       a.cfg.Listing.ListConfig,
		Article:    a.cfg.Article,
		DryRun:     dryRun,
	}, a.logger), nil
}
