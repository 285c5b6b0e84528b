package readurl

import (
	"strings"
	"unicode/utf16"
)

// MatchRule decides how a Marker phrase is compared with a paragraph.
type MatchRule string

// Match rules.
const (
	// MatchContains matches the phrase anywhere in the paragraph.
	MatchContains MatchRule = "contains"
	// MatchPrefix matches paragraphs starting with the phrase.
	MatchPrefix MatchRule = "prefix"
	// MatchPrefixOrShort matches paragraphs starting with the phrase, or
	// shorter than the table's short length and containing it anywhere.
	MatchPrefixOrShort MatchRule = "prefix_or_short"
)

// MarkerAction is what happens to the paragraph list when a Marker matches.
type MarkerAction string

// Marker actions. Start tables use StartAt/StartAfter, noise tables use
// Drop/DropShort, end tables use Truncate.
const (
	ActionStartAt    MarkerAction = "start_at"
	ActionStartAfter MarkerAction = "start_after"
	ActionDrop       MarkerAction = "drop"
	ActionDropShort  MarkerAction = "drop_short"
	ActionTruncate   MarkerAction = "truncate"
)

// Marker is one row of a phrase table.
type Marker struct {
	Phrase string       `yaml:"phrase"`
	Match  MatchRule    `yaml:"match"`
	Action MarkerAction `yaml:"action"`

	// MaxLength rejects paragraphs longer than this many characters even if
	// the phrase matches. Zero disables the check.
	MaxLength int `yaml:"maxLength,omitempty"`

	// Priority ends a start-marker scan at the first paragraph it matches.
	Priority bool `yaml:"priority,omitempty"`
}

// TextLength measures text for the policy thresholds in UTF-16 code units,
// so a character outside the Basic Multilingual Plane, such as most emoji,
// counts as two.
func TextLength(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// Matches reports whether text matches the marker phrase under its rule.
// shortLength is the bound used by MatchPrefixOrShort.
func (m Marker) Matches(text string, shortLength int) bool {
	switch m.Match {
	case MatchPrefix:
		return strings.HasPrefix(text, m.Phrase)
	case MatchPrefixOrShort:
		if strings.HasPrefix(text, m.Phrase) {
			return true
		}
		return TextLength(text) < shortLength && strings.Contains(text, m.Phrase)
	default:
		return strings.Contains(text, m.Phrase)
	}
}

// GenericPolicy holds the thresholds of the generic extraction chain.
type GenericPolicy struct {
	MinParagraphLength int `yaml:"minParagraphLength"`
	MinDensityScore    int `yaml:"minDensityScore"`
	MaxDensityChildren int `yaml:"maxDensityChildren"`
}

// PlatformPolicy holds the thresholds and phrase tables of one platform
// extractor.
type PlatformPolicy struct {
	MinCandidates        int `yaml:"minCandidates"`
	MinTailLength        int `yaml:"minTailLength"`
	ShortNoiseLength     int `yaml:"shortNoiseLength"`
	ShortEndMarkerLength int `yaml:"shortEndMarkerLength"`

	StartMarkers []Marker `yaml:"startMarkers"`
	NoiseRules   []Marker `yaml:"noiseRules"`
	EndMarkers   []Marker `yaml:"endMarkers"`
}

// Policy is the tuning table shared by all extractors.
type Policy struct {
	Generic   GenericPolicy               `yaml:"generic"`
	Platforms map[Platform]PlatformPolicy `yaml:"platforms"`
}

// Platform returns the policy for p, if one is configured.
func (p *Policy) Platform(platform Platform) (PlatformPolicy, bool) {
	pp, ok := p.Platforms[platform]
	return pp, ok
}

// Validate returns an error if the policy contains invalid fields.
func (p *Policy) Validate() error {
	g := p.Generic
	if g.MinParagraphLength < 0 || g.MinDensityScore < 0 || g.MaxDensityChildren < 0 {
		return Errorf(EINVALID, "generic policy thresholds must not be negative")
	}
	for name, pp := range p.Platforms {
		if pp.MinCandidates < 0 || pp.MinTailLength < 0 || pp.ShortNoiseLength < 0 || pp.ShortEndMarkerLength < 0 {
			return Errorf(EINVALID, "platform %q thresholds must not be negative", name)
		}
		if err := validateMarkers(name, "start", pp.StartMarkers, ActionStartAt, ActionStartAfter); err != nil {
			return err
		}
		if err := validateMarkers(name, "noise", pp.NoiseRules, ActionDrop, ActionDropShort); err != nil {
			return err
		}
		if err := validateMarkers(name, "end", pp.EndMarkers, ActionTruncate); err != nil {
			return err
		}
	}
	return nil
}

func validateMarkers(platform Platform, table string, markers []Marker, actions ...MarkerAction) error {
	for i, m := range markers {
		if m.Phrase == "" {
			return Errorf(EINVALID, "platform %q %s marker %d: phrase required", platform, table, i)
		}
		switch m.Match {
		case MatchContains, MatchPrefix, MatchPrefixOrShort:
		default:
			return Errorf(EINVALID, "platform %q %s marker %q: unknown match rule %q", platform, table, m.Phrase, m.Match)
		}
		allowed := false
		for _, a := range actions {
			if m.Action == a {
				allowed = true
				break
			}
		}
		if !allowed {
			return Errorf(EINVALID, "platform %q %s marker %q: action %q not allowed", platform, table, m.Phrase, m.Action)
		}
		if m.MaxLength < 0 {
			return Errorf(EINVALID, "platform %q %s marker %q: negative max length", platform, table, m.Phrase)
		}
	}
	return nil
}

// DefaultPolicy returns the built-in tuning table.
// The WeChat values were tuned against mp.weixin.qq.com English-learning
// articles and are not validated elsewhere.
func DefaultPolicy() *Policy {
	return &Policy{
		Generic: GenericPolicy{
			MinParagraphLength: 10,
			MinDensityScore:    100,
			MaxDensityChildren: 20,
		},
		Platforms: map[Platform]PlatformPolicy{
			PlatformWeChat: DefaultWeChatPolicy(),
		},
	}
}

// DefaultWeChatPolicy returns the rules for WeChat official-account articles.
func DefaultWeChatPolicy() PlatformPolicy {
	return PlatformPolicy{
		MinCandidates:        5,
		MinTailLength:        50,
		ShortNoiseLength:     50,
		ShortEndMarkerLength: 20,
		StartMarkers: []Marker{
			{Phrase: "无注释原文", Match: MatchContains, Action: ActionStartAfter, Priority: true},
			{Phrase: "无注释译文", Match: MatchContains, Action: ActionStartAfter},
			{Phrase: "From:", Match: MatchContains, Action: ActionStartAt, MaxLength: 100},
			{Phrase: "Source:", Match: MatchContains, Action: ActionStartAt},
			{Phrase: "By ", Match: MatchContains, Action: ActionStartAt},
			{Phrase: "导读", Match: MatchContains, Action: ActionStartAt},
			{Phrase: "Introduction", Match: MatchContains, Action: ActionStartAt},
		},
		NoiseRules: append(
			phraseTable(MatchContains, ActionDropShort,
				"微信号", "功能介绍", "收录于合集", "点击上方", "关注我们",
				"预览时标签不可点", "轻触阅读原文", "喜欢作者", "文章已于",
				"Modified on", "People who liked this content also liked",
				"今天你练听力了吗", "小作业：",
			),
			phraseTable(MatchContains, ActionDrop, "小作业：", "小作业:")...,
		),
		EndMarkers: append(
			phraseTable(MatchContains, ActionTruncate, "- ◆ -"),
			phraseTable(MatchPrefixOrShort, ActionTruncate,
				"预览时标签不可点", "喜欢作者", "Reads", "Wow", "轻触阅读原文",
				"Scan to follow", "Swipe for more", "微信扫一扫", "To view the profile",
				"Switch to dark mode", "注：", "中文文本", "参考译文", "含注释全文", "词汇：",
			)...,
		),
	}
}

func phraseTable(match MatchRule, action MarkerAction, phrases ...string) []Marker {
	markers := make([]Marker, len(phrases))
	for i, p := range phrases {
		markers[i] = Marker{Phrase: p, Match: match, Action: action}
	}
	return markers
}
