package goquery

import "github.com/PuerkitoBio/goquery"

// NoiseSelector matches elements that never carry article text.
const NoiseSelector = "script, style, nav, footer, iframe"

// StripNoise removes every NoiseSelector element from doc in place.
// Running it twice has no further effect.
func StripNoise(doc *goquery.Document) {
	doc.Find(NoiseSelector).Remove()
}
