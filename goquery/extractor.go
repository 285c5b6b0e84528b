// Package goquery implements the article extraction engine on top of
// github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readurl"
)

// Ensure Extractor implements readurl.Extractor at compile time.
var _ readurl.Extractor = (*Extractor)(nil)

// Extractor turns HTML pages into articles. It strips noise, resolves the
// title, runs the platform extractor when the page belongs to a known
// platform, and falls back to the generic chain otherwise.
// Extractor is safe for concurrent use by multiple goroutines.
type Extractor struct {
	policy   *readurl.Policy
	registry *Registry
	generic  *GenericChain
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPolicy sets the tuning table.
// Defaults to readurl.DefaultPolicy() if not specified.
func WithPolicy(policy *readurl.Policy) Option {
	return func(e *Extractor) {
		e.policy = policy
	}
}

// WithRegistry sets the platform registry.
// Defaults to NewDefaultRegistry built from the policy.
func WithRegistry(registry *Registry) Option {
	return func(e *Extractor) {
		e.registry = registry
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.policy == nil {
		e.policy = readurl.DefaultPolicy()
	}
	if e.registry == nil {
		e.registry = NewDefaultRegistry(e.policy)
	}
	e.generic = NewGenericChain(e.policy.Generic)
	return e
}

// Extract parses the document and returns its article.
// Blank input yields an article with every field but URL empty.
func (e *Extractor) Extract(raw readurl.RawDocument) (article *readurl.Article) {
	if raw.IsEmpty() {
		return readurl.EmptyArticle(raw.URL)
	}

	// A panic in the selector engine yields an empty article.
	defer func() {
		if r := recover(); r != nil {
			article = readurl.NewArticle(raw.URL, "", nil, readurl.TierNone)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw.HTML))
	if err != nil {
		return readurl.NewArticle(raw.URL, "", nil, readurl.TierNone)
	}

	StripNoise(doc)
	title := ResolveTitle(doc, e.registry.TitleSelectors())

	var texts []string
	tier := readurl.TierNone
	if platform := e.registry.Lookup(raw.URL, doc); platform != nil {
		if texts = platform.ExtractParagraphs(doc); len(texts) > 0 {
			tier = readurl.TierPlatform
		}
	}
	if len(texts) == 0 {
		texts, tier = e.generic.Extract(doc)
	}

	return readurl.NewArticle(raw.URL, title, readurl.NewParagraphs(texts), tier)
}
