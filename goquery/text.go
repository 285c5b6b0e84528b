package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readurl"
)

// CollapseWhitespace replaces runs of Unicode whitespace (including
// non-breaking and ideographic spaces) with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CharCount returns the length of s as compared against policy thresholds.
// See readurl.TextLength.
func CharCount(s string) int {
	return readurl.TextLength(s)
}

// SplitLines splits s on newlines, trims every line and drops empty ones.
func SplitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// FilterMinLength keeps texts with at least min characters, in order.
func FilterMinLength(texts []string, min int) []string {
	var out []string
	for _, t := range texts {
		if CharCount(t) >= min {
			out = append(out, t)
		}
	}
	return out
}

// paragraphTexts collects the collapsed text of every p descendant of sel
// that has at least min characters.
func paragraphTexts(sel *goquery.Selection, min int) []string {
	var texts []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		texts = append(texts, CollapseWhitespace(p.Text()))
	})
	return FilterMinLength(texts, min)
}

// BlockSelector matches the elements BlockTexts reads as paragraphs.
const BlockSelector = "h1, h2, h3, h4, h5, h6, p, li, pre, blockquote"

// BlockTexts returns the collapsed, non-empty text of every innermost block
// element under sel, in document order. It reads content trees already
// cleaned by another engine, so no length threshold is applied.
func BlockTexts(sel *goquery.Selection) []string {
	var texts []string
	sel.Find(BlockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Find(BlockSelector).Length() > 0 {
			return
		}
		if t := CollapseWhitespace(s.Text()); t != "" {
			texts = append(texts, t)
		}
	})
	return texts
}
