package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readurl"
)

// GenericChain extracts paragraphs from pages of unknown platforms.
// Tiers run in order and the first one producing paragraphs wins:
// article, main, content density, whole body.
type GenericChain struct {
	policy readurl.GenericPolicy
}

// NewGenericChain creates a new GenericChain with the given thresholds.
func NewGenericChain(policy readurl.GenericPolicy) *GenericChain {
	return &GenericChain{policy: policy}
}

// Extract returns the paragraphs of the first successful tier and its name.
// Returns (nil, readurl.TierNone) if every tier comes up empty.
func (c *GenericChain) Extract(doc *goquery.Document) ([]string, readurl.Tier) {
	if ps := paragraphTexts(doc.Find("article").First(), c.policy.MinParagraphLength); len(ps) > 0 {
		return ps, readurl.TierArticle
	}
	if ps := paragraphTexts(doc.Find("main").First(), c.policy.MinParagraphLength); len(ps) > 0 {
		return ps, readurl.TierMain
	}
	if ps := c.densest(doc); len(ps) > 0 {
		return ps, readurl.TierDensity
	}
	if ps := c.body(doc); len(ps) > 0 {
		return ps, readurl.TierBody
	}
	return nil, readurl.TierNone
}

// densest picks the div or section with the most trimmed text among those
// scoring above MinDensityScore with fewer than MaxDensityChildren direct
// children. The first element wins ties.
func (c *GenericChain) densest(doc *goquery.Document) []string {
	var best *goquery.Selection
	maxScore := 0
	doc.Find("div, section").Each(func(_ int, s *goquery.Selection) {
		score := CharCount(strings.TrimSpace(s.Text()))
		if score <= maxScore || score <= c.policy.MinDensityScore {
			return
		}
		if s.Children().Length() >= c.policy.MaxDensityChildren {
			return
		}
		maxScore = score
		best = s
	})
	if best == nil {
		return nil
	}

	if ps := paragraphTexts(best, c.policy.MinParagraphLength); len(ps) > 0 {
		return ps
	}
	if text := CollapseWhitespace(best.Text()); text != "" {
		return []string{text}
	}
	return nil
}

// body splits the whole body text into lines.
func (c *GenericChain) body(doc *goquery.Document) []string {
	var lines []string
	for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
		lines = append(lines, CollapseWhitespace(line))
	}
	return FilterMinLength(lines, c.policy.MinParagraphLength)
}
