// Package monitor runs the change-detection cycle: read the listing, diff it
// against the seen store, notify each new item and persist what was sent.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pevans/newswatch"
	"github.com/pevans/newswatch/discovery"
	"github.com/pevans/newswatch/scraper"
	"github.com/pevans/newswatch/seen"
)

// Fetcher retrieves a page body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Notifier sends the notification for one item.
type Notifier interface {
	Notify(ctx context.Context, id string, article newswatch.Article) error
}

// Config says which page to watch and how to read it.
type Config struct {
	ListingURL string
	List       scraper.ListConfig
	Article    scraper.ArticleConfig
	// DryRun leaves the seen store untouched: it is read but never saved.
	DryRun bool
}

// Monitor runs one detection cycle at a time. Runs against the same store
// must not overlap; Watch guarantees that for its own schedule.
type Monitor struct {
	fetcher  Fetcher
	store    seen.Store
	notifier Notifier
	config   Config
	logger   *zap.Logger
	newRunID func() string
}

// New creates a Monitor.
func New(fetcher Fetcher, store seen.Store, notifier Notifier, config Config, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.ListingURL == "" {
		config.ListingURL = config.List.BaseURL
	}
	return &Monitor{
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		config:   config,
		logger:   logger,
		newRunID: uuid.NewString,
	}
}

// ItemError records a new item that could not be processed.
type ItemError struct {
	Identifier string
	Err        error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Identifier, e.Err)
}

// RunResult summarizes one run.
type RunResult struct {
	RunID string
	// Candidates are all identifiers found on the listing page.
	Candidates []string
	// New are the candidates that were not seen before, in processing order.
	New []string
	// Notified are the new items whose notification was sent.
	Notified []string
	Failed   []ItemError

	ListingErr error
	LoadErr    error
	SaveErr    error
	// Persisted is true when the seen set was written locally, even if a
	// remote mirror push then failed (see SaveErr).
	Persisted bool
	Duration  time.Duration
}

// Err returns every failure of the run joined together, or nil.
func (r *RunResult) Err() error {
	errs := []error{r.ListingErr, r.LoadErr}
	for _, f := range r.Failed {
		errs = append(errs, f)
	}
	errs = append(errs, r.SaveErr)
	return errors.Join(errs...)
}

// RunOnce performs one cycle. It never panics and never returns a hard
// error; failures are recorded in the result.
//
// Items are marked seen only after their notification was sent, so a crash
// between send and save re-notifies on the next run (at-least-once). The seen
// set is written only when something was notified, and never when it could
// not be loaded, so unreadable state is never overwritten.
func (m *Monitor) RunOnce(ctx context.Context) *RunResult {
	start := time.Now()
	result := &RunResult{RunID: m.newRunID()}
	logger := m.logger.With(zap.String("run_id", result.RunID))

	defer func() {
		result.Duration = time.Since(start)
		logger.Info("run finished",
			zap.Int("candidates", len(result.Candidates)),
			zap.Int("new", len(result.New)),
			zap.Int("notified", len(result.Notified)),
			zap.Int("failed", len(result.Failed)),
			zap.Bool("persisted", result.Persisted),
			zap.Duration("duration", result.Duration))
	}()

	known, err := m.store.Load(ctx)
	if err != nil {
		result.LoadErr = err
		logger.Warn("failed to load seen set, continuing with an empty set; it will not be saved this run",
			zap.Error(err))
		known = newswatch.NewSet()
	}

	candidates, err := m.candidates(ctx)
	if err != nil {
		result.ListingErr = err
		logger.Warn("failed to read listing page", zap.String("url", m.config.ListingURL), zap.Error(err))
		return result
	}
	result.Candidates = candidates.Sorted()

	fresh := candidates.Difference(known)
	result.New = fresh.Sorted()
	if len(result.New) == 0 {
		logger.Debug("no new items", zap.Int("candidates", len(result.Candidates)))
		return result
	}

	logger.Info("found new items", zap.Int("count", len(result.New)))

	notified := newswatch.NewSet()
	for _, id := range result.New {
		if ctx.Err() != nil {
			logger.Warn("run canceled, leaving remaining items for the next run", zap.Error(ctx.Err()))
			break
		}

		if err := m.processItem(ctx, id); err != nil {
			result.Failed = append(result.Failed, ItemError{Identifier: id, Err: err})
			logger.Warn("failed to process item, it will be retried next run",
				zap.String("id", id), zap.Error(err))
			continue
		}

		notified.Add(id)
		result.Notified = append(result.Notified, id)
		logger.Info("notified item", zap.String("id", id))
	}

	if notified.Len() == 0 || result.LoadErr != nil {
		return result
	}
	if m.config.DryRun {
		logger.Info("dry run: seen set not saved", zap.Int("would_add", notified.Len()))
		return result
	}

	// Whatever was sent must be recorded even if the run was canceled.
	if err := m.store.Save(context.WithoutCancel(ctx), known.Union(notified)); err != nil {
		result.SaveErr = err
		// Only the remote push failed; the local copy was written.
		var mirrorErr *seen.MirrorError
		result.Persisted = errors.As(err, &mirrorErr)
		logger.Error("failed to save seen set", zap.Error(err), zap.Bool("local_saved", result.Persisted))
		return result
	}
	result.Persisted = true

	return result
}

// candidates fetches the listing and extracts its item identifiers.
func (m *Monitor) candidates(ctx context.Context) (*newswatch.Set, error) {
	page, err := m.fetcher.Fetch(ctx, m.config.ListingURL)
	if err != nil {
		return nil, err
	}
	return discovery.ExtractLinks(page, m.config.List)
}

// processItem fetches, extracts and notifies one item. A panic anywhere in
// between is turned into an error for that item only.
func (m *Monitor) processItem(ctx context.Context, id string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing item: %v", r)
		}
	}()

	page, err := m.fetcher.Fetch(ctx, id)
	if err != nil {
		return err
	}

	article := discovery.ExtractArticle(page, m.config.Article)
	return m.notifier.Notify(ctx, id, article)
}
