package readurl

import (
	"strings"
	"unicode/utf8"
)

// SummaryLength is the number of characters of content kept in a summary.
const SummaryLength = 200

// Ellipsis is appended to every summary, even a short or empty one.
const Ellipsis = "..."

// ParagraphSeparator joins paragraphs into article content.
const ParagraphSeparator = "\n\n"

// RawDocument is a fetched page handed to an Extractor.
type RawDocument struct {
	URL  string
	HTML string
}

// IsEmpty reports whether the document carries no usable HTML.
func (d RawDocument) IsEmpty() bool {
	return strings.TrimSpace(d.HTML) == ""
}

// Paragraph is one block of article text. Order is its position within the
// tier that produced it.
type Paragraph struct {
	Text  string
	Order int
}

// NewParagraphs numbers texts in the order given.
func NewParagraphs(texts []string) []Paragraph {
	if len(texts) == 0 {
		return nil
	}
	ps := make([]Paragraph, len(texts))
	for i, t := range texts {
		ps[i] = Paragraph{Text: t, Order: i}
	}
	return ps
}

// Tier names the extraction strategy that produced an article's paragraphs.
type Tier string

// Extraction tiers, in the order they are attempted.
const (
	TierNone     Tier = "none"
	TierPlatform Tier = "platform"
	TierArticle  Tier = "article"
	TierMain     Tier = "main"
	TierDensity  Tier = "density"
	TierBody     Tier = "body"

	// TierExternal marks paragraphs produced by a third-party engine.
	TierExternal Tier = "external"
)

// Article is the result of extracting a page.
type Article struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`

	// Tier is the strategy that produced Content. Not part of the wire format.
	Tier Tier `json:"-"`
}

// NewArticle joins paragraphs into content and derives the summary.
func NewArticle(url, title string, paragraphs []Paragraph, tier Tier) *Article {
	content := JoinParagraphs(paragraphs)
	return &Article{
		URL:     url,
		Title:   title,
		Content: content,
		Summary: Summarize(content),
		Tier:    tier,
	}
}

// EmptyArticle is returned for documents without usable HTML.
func EmptyArticle(url string) *Article {
	return &Article{URL: url, Tier: TierNone}
}

// JoinParagraphs joins paragraph texts with a blank line.
func JoinParagraphs(paragraphs []Paragraph) string {
	texts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		texts[i] = p.Text
	}
	return strings.Join(texts, ParagraphSeparator)
}

// Summarize returns the first SummaryLength characters of content followed by
// Ellipsis. The cut ignores word boundaries.
func Summarize(content string) string {
	if utf8.RuneCountInString(content) <= SummaryLength {
		return content + Ellipsis
	}
	n := 0
	for i := range content {
		if n == SummaryLength {
			return content[:i] + Ellipsis
		}
		n++
	}
	return content + Ellipsis
}

// Extractor turns a fetched page into an Article.
type Extractor interface {
	// Extract never fails: markup it cannot interpret yields an Article with
	// empty content. Implementations are safe for concurrent use.
	Extract(doc RawDocument) *Article
}
