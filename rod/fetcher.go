// Package rod provides a Fetcher that renders pages in headless Chrome.
package rod

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/readurl"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements readurl.Fetcher at compile time.
var _ readurl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Pages whose body is filled in by JavaScript come back complete.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager   *BrowserManager
	timeout   time.Duration
	userAgent string
	maxPages  int
	logger    *slog.Logger
	closed    atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
// Defaults to DefaultFetchTimeout if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser User-Agent for every page.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithBrowserMaxPages sets how many pages are rendered before the browser
// is recycled. Defaults to DefaultMaxPages.
func WithBrowserMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// WithLogger sets the logger that records browser recycles.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	mopts := []ManagerOption{WithMaxPages(f.maxPages)}
	if f.logger != nil {
		mopts = append(mopts, WithManagerLogger(f.logger))
	}
	manager, err := NewBrowserManager(mopts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
// Navigation failures are returned as *readurl.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", readurl.Errorf(readurl.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", &readurl.FetchError{URL: url, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, release, err := f.manager.NewPage(ctx)
	if err != nil {
		var e *readurl.Error
		if errors.As(err, &e) {
			return "", err
		}
		return "", &readurl.FetchError{URL: url, Err: err}
	}
	defer release()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", &readurl.FetchError{URL: url, Err: err}
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", &readurl.FetchError{URL: url, Err: contextErr(ctx, err)}
	}

	if err := page.WaitLoad(); err != nil {
		return "", &readurl.FetchError{URL: url, Err: contextErr(ctx, err)}
	}

	html, err := page.HTML()
	if err != nil {
		return "", &readurl.FetchError{URL: url, Err: contextErr(ctx, err)}
	}

	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the current browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Recycles returns how many times the browser has been replaced.
func (f *Fetcher) Recycles() int {
	return f.manager.Recycles()
}

// contextErr prefers the context error so callers can match it with
// errors.Is.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return errors.Join(ctxErr, err)
	}
	return err
}
