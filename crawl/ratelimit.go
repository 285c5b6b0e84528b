package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/readurl"
	"golang.org/x/time/rate"
)

var _ readurl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Each host gets its own limiter, so a batch spread over many sites runs
// in parallel while any single site sees at most rps requests per second.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithBurst allows n requests to a domain back to back before limiting
// starts. Defaults to 1.
func WithBurst(n int) LimiterOption {
	return func(d *DomainLimiter) {
		if n > 0 {
			d.burst = n
		}
	}
}

// NewDomainLimiter creates a new DomainLimiter with the specified requests
// per second limit. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64, opts ...LimiterOption) *DomainLimiter {
	d := &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    1,
	}
	if rps <= 0 {
		d.limit = rate.Inf
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until the rate limit allows a request to the domain.
// Domains are compared case-insensitively.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	key := strings.ToLower(domain)

	d.mu.Lock()
	limiter, ok := d.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(d.limit, d.burst)
		d.limiters[key] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
