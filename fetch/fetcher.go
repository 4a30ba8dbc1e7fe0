// Package fetch performs the HTTP GETs for listing and detail pages with a
// per-attempt timeout and a shared retry policy.
package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Request header defaults. The monitored site serves browsers, so the
// defaults look like one.
const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"
	DefaultAcceptLanguage = "en-US,en;q=0.9"
	DefaultTimeout        = 30 * time.Second
	DefaultMaxBodyBytes   = 5 << 20
)

// ErrBodyTooLarge is returned when a response exceeds Config.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %s", e.Status)
}

// FetchError is the typed failure of a fetch after all attempts.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s (%d attempts): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status of the last attempt, or 0 when no
// response was received.
func (e *FetchError) StatusCode() int {
	var statusErr *StatusError
	if errors.As(e.Err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// IsRetryable is the default retry predicate: network errors, timeouts and
// non-2xx responses are retried; cancellation and oversized bodies are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrBodyTooLarge) {
		return false
	}
	return true
}

// Config holds the Fetcher settings.
type Config struct {
	// Timeout bounds each attempt, not the whole retry sequence.
	Timeout time.Duration
	Policy  Policy
	// InsecureSkipVerify disables TLS certificate validation. Off unless the
	// target's certificate chain is known to be broken.
	InsecureSkipVerify bool
	UserAgent          string
	AcceptLanguage     string
	MaxBodyBytes       int64
}

// DefaultConfig returns verification-on settings with the default retry
// policy.
func DefaultConfig() Config {
	return Config{
		Timeout:        DefaultTimeout,
		Policy:         DefaultPolicy(),
		UserAgent:      DefaultUserAgent,
		AcceptLanguage: DefaultAcceptLanguage,
		MaxBodyBytes:   DefaultMaxBodyBytes,
	}
}

// Fetcher downloads pages.
type Fetcher struct {
	client *http.Client
	config Config
	logger *zap.Logger
}

// New creates a Fetcher with its own HTTP client.
func New(config Config, logger *zap.Logger) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return NewWithClient(&http.Client{Transport: transport}, config, logger)
}

// NewWithClient creates a Fetcher around an existing client. The client's own
// Timeout is replaced by config.Timeout.
func NewWithClient(client *http.Client, config Config, logger *zap.Logger) *Fetcher {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := *client
	c.Timeout = config.Timeout

	return &Fetcher{
		client: &c,
		config: config,
		logger: logger,
	}
}

// Fetch GETs url and returns the body. Failures after the last attempt are
// returned as *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	attempts, err := f.config.Policy.Do(ctx, func(attempt int) error {
		b, err := f.get(ctx, url)
		if err != nil {
			f.logger.Debug("fetch attempt failed",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, &FetchError{URL: url, Attempts: attempts, Err: err}
	}

	return body, nil
}

// get performs one attempt.
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.config.UserAgent)
	if f.config.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", f.config.AcceptLanguage)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused by the next attempt.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodyBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.config.MaxBodyBytes)
	}

	return body, nil
}
