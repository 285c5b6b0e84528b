package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ResolveTitle returns the first non-empty candidate among the platform
// title selectors (in order), the first h1, and head > title.
// Returns "" when every candidate is empty.
func ResolveTitle(doc *goquery.Document, platformSelectors []string) string {
	for _, selector := range platformSelectors {
		if title := strings.TrimSpace(doc.Find(selector).Text()); title != "" {
			return title
		}
	}
	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("head > title").Text())
}
