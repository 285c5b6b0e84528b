package slog

import (
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/readurl"
)

// Ensure LoggingExtractor implements readurl.Extractor.
var _ readurl.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   readurl.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next readurl.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs which tier produced
// the article.
func (e *LoggingExtractor) Extract(doc readurl.RawDocument) (article *readurl.Article) {
	defer func(begin time.Time) {
		var tier readurl.Tier
		var chars int
		if article != nil {
			tier = article.Tier
			chars = utf8.RuneCountInString(article.Content)
		}
		e.logger.Debug("extract",
			"url", doc.URL,
			"bytes", len(doc.HTML),
			"tier", tier,
			"chars", chars,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.Extract(doc)
}
