package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readurl"
)

// WeChatHost serves WeChat official-account articles.
const WeChatHost = "mp.weixin.qq.com"

// Ensure Detector implements PlatformDetector at compile time.
var _ PlatformDetector = (*Detector)(nil)

// Detector identifies content platforms from the page URL and markup.
// The URL host is checked first; markup fingerprints catch mirrored or
// saved copies of platform pages.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the platform of the page at rawURL with the parsed doc.
// Returns PlatformUnknown if the platform cannot be determined.
func (d *Detector) Detect(rawURL string, doc *goquery.Document) readurl.Platform {
	if d.hostIs(rawURL, WeChatHost) {
		return readurl.PlatformWeChat
	}

	if doc == nil {
		return readurl.PlatformUnknown
	}

	// #js_content alone is too generic; require the title node or the
	// platform's og:site_name as well.
	if d.hasSelector(doc, WeChatContentRoot) &&
		(d.hasSelector(doc, WeChatTitleSelector) ||
			d.hasSelector(doc, "meta[property='og:site_name'][content='微信公众平台']")) {
		return readurl.PlatformWeChat
	}

	return readurl.PlatformUnknown
}

// hostIs reports whether rawURL parses to an absolute URL on host.
func (d *Detector) hostIs(rawURL, host string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), host)
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
