// Package crawl reads batches of article URLs.
// It coordinates rate-limited fetching, extraction, and duplicate
// suppression across many pages.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/readurl"
	"github.com/fwojciec/readurl/bloom"
	"golang.org/x/sync/errgroup"
)

// Batch defaults.
const (
	DefaultConcurrency = 4

	// dedupeFalsePositiveRate is the acceptable false positive rate for
	// URL deduplication.
	dedupeFalsePositiveRate = 0.001
)

// Reader fetches and extracts many URLs concurrently.
type Reader struct {
	Fetcher     readurl.Fetcher
	Extractor   readurl.Extractor
	RateLimiter readurl.DomainLimiter
	Logger      *slog.Logger
	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome of reading a single URL.
type Result struct {
	URL         string
	Article     *readurl.Article
	ContentHash string
	Err         error
}

// Batch holds the outcome of a Read call. Results are in input order with
// duplicate URLs removed.
type Batch struct {
	Results    []Result
	Succeeded  int
	Failed     int
	Duplicates int
	Bytes      int
}

// UniqueContent counts successful results with distinct content. Short
// links and canonical links to the same article collapse to one.
func (b *Batch) UniqueContent() int {
	seen := make(map[string]struct{})
	for _, r := range b.Results {
		if r.Err != nil {
			continue
		}
		seen[r.ContentHash] = struct{}{}
	}
	return len(seen)
}

// ProgressEvent reports progress during a batch read.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
// It is never called concurrently.
type ProgressFunc func(event ProgressEvent)

// readResult holds the outcome of processing a single URL.
type readResult struct {
	position int
	result   Result
}

// Read fetches and extracts every URL. Duplicate URLs are read once.
// A failed URL does not stop the batch; its error is kept on its Result.
// The progress callback, if provided, receives events as reading proceeds.
func (r *Reader) Read(ctx context.Context, urls []string, progress ProgressFunc) *Batch {
	filter := bloom.NewFilter(uint(len(urls)), dedupeFalsePositiveRate)
	seen := make(map[string]struct{}, len(urls))
	var unique []string
	batch := &Batch{}
	for _, u := range urls {
		key := bloom.Key(u)
		// Bloom hits can be false positives; the exact set confirms them.
		if filter.Seen(u) {
			if _, ok := seen[key]; ok {
				batch.Duplicates++
				continue
			}
		}
		seen[key] = struct{}{}
		unique = append(unique, u)
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan readResult, len(unique))
	var completed atomic.Int64
	total := len(unique)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range unique {
			g.Go(func() error {
				resultCh <- readResult{position: i, result: r.readURL(gctx, u)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	batch.Results = make([]Result, len(unique))
	for rr := range resultCh {
		n := int(completed.Add(1))
		batch.Results[rr.position] = rr.result

		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: n,
			Total:     total,
			URL:       rr.result.URL,
		}
		if rr.result.Err != nil {
			batch.Failed++
			event.Type = ProgressFailed
			event.Error = rr.result.Err
		} else {
			batch.Succeeded++
			batch.Bytes += len(rr.result.Article.Content)
		}
		if progress != nil {
			progress(event)
		}
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return batch
}

// readURL fetches and extracts a single URL.
func (r *Reader) readURL(ctx context.Context, rawURL string) Result {
	result := Result{URL: rawURL}

	if r.RateLimiter != nil {
		if err := r.RateLimiter.Wait(ctx, host(rawURL)); err != nil {
			result.Err = err
			return result
		}
	}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, rawURL, r.Fetcher.Fetch, r.Logger, delays)
	if err != nil {
		result.Err = err
		return result
	}

	result.Article = r.Extractor.Extract(readurl.RawDocument{URL: rawURL, HTML: html})
	result.ContentHash = ContentHash(result.Article.Content)
	return result
}

// host returns the rate-limiting key for a URL.
func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
