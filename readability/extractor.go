// Package readability adapts go-readability to readurl.Extractor.
package readability

import (
	"net/url"
	"strings"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readurl"
	"github.com/fwojciec/readurl/goquery"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements readurl.Extractor at compile time.
var _ readurl.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main content of a page.
// Its output follows the same Article model as the built-in engine.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs go-readability over the document. Parse failures yield an
// article with empty content.
func (e *Extractor) Extract(doc readurl.RawDocument) *readurl.Article {
	if doc.IsEmpty() {
		return readurl.EmptyArticle(doc.URL)
	}

	pageURL, err := url.Parse(doc.URL)
	if err != nil {
		pageURL = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(doc.HTML), pageURL)
	if err != nil {
		return readurl.NewArticle(doc.URL, "", nil, readurl.TierNone)
	}

	texts := paragraphs(article.Content)
	if len(texts) == 0 {
		texts = goquery.SplitLines(article.TextContent)
		for i, t := range texts {
			texts[i] = goquery.CollapseWhitespace(t)
		}
	}

	tier := readurl.TierExternal
	if len(texts) == 0 {
		tier = readurl.TierNone
	}
	title := strings.TrimSpace(article.Title)
	return readurl.NewArticle(doc.URL, title, readurl.NewParagraphs(texts), tier)
}

func paragraphs(contentHTML string) []string {
	if contentHTML == "" {
		return nil
	}
	d, err := gq.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return nil
	}
	return goquery.BlockTexts(d.Selection)
}
