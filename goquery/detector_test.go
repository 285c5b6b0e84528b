package goquery_test

import (
	"testing"

	"github.com/fwojciec/readurl"
	"github.com/fwojciec/readurl/goquery"
	"github.com/stretchr/testify/assert"
)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	t.Run("detects WeChat from the article host", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body><p>Anything</p></body></html>`)

		d := goquery.NewDetector()
		platform := d.Detect("https://mp.weixin.qq.com/s/AbCdEf123", doc)

		assert.Equal(t, readurl.PlatformWeChat, platform)
	})

	t.Run("matches the host case-insensitively", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewDetector()

		assert.Equal(t, readurl.PlatformWeChat, d.Detect("HTTP://MP.WEIXIN.QQ.COM/s?__biz=1", nil))
	})

	t.Run("ignores the host appearing in the query string", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body><p>Anything</p></body></html>`)

		d := goquery.NewDetector()
		platform := d.Detect("https://example.com/share?from=mp.weixin.qq.com", doc)

		assert.Equal(t, readurl.PlatformUnknown, platform)
	})

	t.Run("detects saved WeChat page from content root and title node", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body>
<h1 id="activity-name">Title</h1>
<div id="js_content"><p>Body</p></div>
</body></html>`)

		d := goquery.NewDetector()
		platform := d.Detect("file:///tmp/saved.html", doc)

		assert.Equal(t, readurl.PlatformWeChat, platform)
	})

	t.Run("detects saved WeChat page from og:site_name", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><head><meta property="og:site_name" content="微信公众平台"></head>
<body><div id="js_content"><p>Body</p></div></body></html>`)

		d := goquery.NewDetector()
		platform := d.Detect("", doc)

		assert.Equal(t, readurl.PlatformWeChat, platform)
	})

	t.Run("content root alone is not enough", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body><div id="js_content"><p>Body</p></div></body></html>`)

		d := goquery.NewDetector()
		platform := d.Detect("https://example.com/post", doc)

		assert.Equal(t, readurl.PlatformUnknown, platform)
	})

	t.Run("returns unknown for malformed URL without document", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewDetector()

		assert.Equal(t, readurl.PlatformUnknown, d.Detect("://bad url", nil))
	})
}
