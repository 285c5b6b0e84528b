// Package trafilatura adapts go-trafilatura to readurl.Extractor.
package trafilatura

import (
	"net/url"
	"strings"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readurl"
	"github.com/fwojciec/readurl/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements readurl.Extractor at compile time.
var _ readurl.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main content of a page.
type Extractor struct {
	fallback bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFallback enables trafilatura's readability and dom-distiller
// fallbacks. Enabled by default.
func WithFallback(enabled bool) Option {
	return func(e *Extractor) {
		e.fallback = enabled
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{fallback: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs go-trafilatura over the document. Extraction failures yield
// an article with empty content.
func (e *Extractor) Extract(doc readurl.RawDocument) *readurl.Article {
	if doc.IsEmpty() {
		return readurl.EmptyArticle(doc.URL)
	}

	opts := trafilatura.Options{
		EnableFallback: e.fallback,
	}
	if u, err := url.Parse(doc.URL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(doc.HTML), opts)
	if err != nil || result == nil {
		return readurl.NewArticle(doc.URL, "", nil, readurl.TierNone)
	}

	texts := nodeTexts(result.ContentNode)
	if len(texts) == 1 {
		texts = splitMerged(doc.HTML, texts[0])
	}
	if len(texts) == 0 {
		texts = goquery.SplitLines(result.ContentText)
		for i, t := range texts {
			texts[i] = goquery.CollapseWhitespace(t)
		}
	}

	tier := readurl.TierExternal
	if len(texts) == 0 {
		tier = readurl.TierNone
	}
	title := strings.TrimSpace(result.Metadata.Title)
	return readurl.NewArticle(doc.URL, title, readurl.NewParagraphs(texts), tier)
}

func nodeTexts(n *html.Node) []string {
	if n == nil {
		return nil
	}
	return goquery.BlockTexts(gq.NewDocumentFromNode(n).Selection)
}

// splitMerged recovers paragraph breaks when trafilatura returns its content
// as one block with the source blocks glued together. Source blocks found
// in merged are returned in document order; with fewer than two matches
// merged is returned unchanged.
func splitMerged(source, merged string) []string {
	d, err := gq.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return []string{merged}
	}
	var texts []string
	for _, t := range goquery.BlockTexts(d.Find("body")) {
		if t == merged {
			return []string{merged}
		}
		if strings.Contains(merged, t) {
			texts = append(texts, t)
		}
	}
	if len(texts) < 2 {
		return []string{merged}
	}
	return texts
}
