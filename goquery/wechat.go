package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readurl"
	"golang.org/x/net/html"
)

// WeChat official-account article markup.
const (
	WeChatContentRoot   = "#js_content"
	WeChatTitleSelector = "#activity-name"

	wechatRootNoise = "script, style, iframe, .js_audio_frame"
)

// Ensure WeChatExtractor implements PlatformExtractor at compile time.
var _ PlatformExtractor = (*WeChatExtractor)(nil)

// WeChatExtractor extracts article paragraphs from mp.weixin.qq.com pages.
type WeChatExtractor struct {
	policy readurl.PlatformPolicy
}

// NewWeChatExtractor creates a new WeChatExtractor using the given rules.
func NewWeChatExtractor(policy readurl.PlatformPolicy) *WeChatExtractor {
	return &WeChatExtractor{policy: policy}
}

// Platform returns readurl.PlatformWeChat.
func (e *WeChatExtractor) Platform() readurl.Platform {
	return readurl.PlatformWeChat
}

// TitleSelector returns the selector of the article title node.
func (e *WeChatExtractor) TitleSelector() string {
	return WeChatTitleSelector
}

// ExtractParagraphs returns the article paragraphs under #js_content with
// introduction, boilerplate and footer removed. Returns nil when the page
// has no content root.
func (e *WeChatExtractor) ExtractParagraphs(doc *goquery.Document) []string {
	root := doc.Find(WeChatContentRoot).First()
	if root.Length() == 0 {
		return nil
	}
	root.Find(wechatRootNoise).Remove()

	collection := CollectParagraphs(root, e.policy.MinCandidates)

	paragraphs := TrimStart(collection.Paragraphs, e.policy)
	paragraphs = FilterNoise(paragraphs, e.policy)
	return TruncateEnd(paragraphs, e.policy)
}

// Strategy identifies how a Collection was gathered.
type Strategy int

// Collection strategies.
const (
	// StrategyCandidates takes the text of every leaf p/section element.
	StrategyCandidates Strategy = iota + 1
	// StrategyLines splits the root text on line breaks.
	StrategyLines
)

func (s Strategy) String() string {
	switch s {
	case StrategyCandidates:
		return "candidates"
	case StrategyLines:
		return "lines"
	}
	return "unknown"
}

// Collection is the raw paragraph list of a content root together with the
// strategy that produced it.
type Collection struct {
	Strategy   Strategy
	Paragraphs []string
}

// CollectParagraphs gathers paragraphs from root. Leaf p/section elements
// are used when there are at least minCandidates of them; otherwise br
// elements become line breaks and the root text is split into lines.
// Short candidates are kept since they may be in-body headings.
func CollectParagraphs(root *goquery.Selection, minCandidates int) Collection {
	candidates := leafCandidates(root)
	if len(candidates) >= minCandidates {
		return Collection{Strategy: StrategyCandidates, Paragraphs: candidates}
	}
	return Collection{Strategy: StrategyLines, Paragraphs: rootLines(root)}
}

func leafCandidates(root *goquery.Selection) []string {
	var texts []string
	root.Find("p, section").Each(func(_ int, s *goquery.Selection) {
		if !IsLeafParagraph(s.Get(0)) {
			return
		}
		if text := CollapseWhitespace(s.Text()); text != "" {
			texts = append(texts, text)
		}
	})
	return texts
}

func rootLines(root *goquery.Selection) []string {
	root.Find("br").Each(func(_ int, br *goquery.Selection) {
		br.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: "\n"})
	})
	return SplitLines(root.Text())
}
