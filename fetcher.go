package readurl

import "context"

// Fetcher retrieves the HTML of a page.
// Implementations decide how the page is loaded (plain HTTP, headless browser).
type Fetcher interface {
	// Fetch returns the HTML body for url. A failed fetch returns an error
	// whose ErrorCode is EFETCH; extraction is never attempted on it.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
