package goquery

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IsLeafParagraph reports whether n contains no nested p, section or div
// element, so its text cannot be collected twice through a descendant.
func IsLeafParagraph(n *html.Node) bool {
	if n == nil {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.DataAtom {
			case atom.P, atom.Section, atom.Div:
				return false
			}
		}
		if !IsLeafParagraph(c) {
			return false
		}
	}
	return true
}
