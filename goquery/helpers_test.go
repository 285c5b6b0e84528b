package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// parse builds a document from html, failing the test on error.
func parse(t *testing.T, html string) *gq.Document {
	t.Helper()

	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// wechatPage renders a minimal WeChat article with one p per paragraph.
func wechatPage(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head><title>Head Title</title></head>
<body>
<h1 class="rich_media_title" id="activity-name"> WeChat Title </h1>
<div class="rich_media_content" id="js_content">
`)
	for _, p := range paragraphs {
		b.WriteString("<p>")
		b.WriteString(p)
		b.WriteString("</p>\n")
	}
	b.WriteString(`</div>
</body>
</html>`)
	return b.String()
}
