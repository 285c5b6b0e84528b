package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readurl"
)

// PlatformDetector identifies the content platform of a parsed page.
type PlatformDetector interface {
	// Detect returns PlatformUnknown if the platform cannot be determined.
	Detect(rawURL string, doc *goquery.Document) readurl.Platform
}

// DetectorFunc adapts a function to PlatformDetector.
type DetectorFunc func(rawURL string, doc *goquery.Document) readurl.Platform

// Detect calls f.
func (f DetectorFunc) Detect(rawURL string, doc *goquery.Document) readurl.Platform {
	return f(rawURL, doc)
}

// PlatformExtractor holds the extraction rules of one content platform.
type PlatformExtractor interface {
	// Platform returns the platform the rules apply to.
	Platform() readurl.Platform

	// TitleSelector returns the selector of the platform's title element.
	TitleSelector() string

	// ExtractParagraphs returns the article paragraphs in document order,
	// or nil when the platform content root is absent. It may modify doc.
	ExtractParagraphs(doc *goquery.Document) []string
}

// Registry manages platform-specific extractors and picks one for a page
// using a PlatformDetector. Pages of unknown or unregistered platforms get
// no platform extractor and go straight to the generic chain.
type Registry struct {
	detector   PlatformDetector
	extractors map[readurl.Platform]PlatformExtractor
	order      []readurl.Platform
}

// NewRegistry creates a new, empty Registry with the given detector.
func NewRegistry(detector PlatformDetector) *Registry {
	return &Registry{
		detector:   detector,
		extractors: make(map[readurl.Platform]PlatformExtractor),
	}
}

// NewDefaultRegistry returns a Registry with every built-in platform
// extractor that policy has rules for.
func NewDefaultRegistry(policy *readurl.Policy) *Registry {
	r := NewRegistry(NewDetector())
	if pp, ok := policy.Platform(readurl.PlatformWeChat); ok {
		r.Register(NewWeChatExtractor(pp))
	}
	return r
}

// Get returns the extractor for a specific platform.
// Returns nil if no extractor is registered for the platform.
func (r *Registry) Get(platform readurl.Platform) PlatformExtractor {
	return r.extractors[platform]
}

// Lookup detects the platform of the page and returns its extractor.
// Returns nil if the platform is unknown or has no registered extractor.
func (r *Registry) Lookup(rawURL string, doc *goquery.Document) PlatformExtractor {
	return r.extractors[r.detector.Detect(rawURL, doc)]
}

// Register adds an extractor under its platform.
// If an extractor is already registered for the platform, it is replaced
// and keeps its original position.
func (r *Registry) Register(extractor PlatformExtractor) {
	platform := extractor.Platform()
	if _, ok := r.extractors[platform]; !ok {
		r.order = append(r.order, platform)
	}
	r.extractors[platform] = extractor
}

// List returns all registered platforms in registration order.
func (r *Registry) List() []readurl.Platform {
	platforms := make([]readurl.Platform, len(r.order))
	copy(platforms, r.order)
	return platforms
}

// TitleSelectors returns the title selectors of all registered extractors
// in registration order.
func (r *Registry) TitleSelectors() []string {
	selectors := make([]string, 0, len(r.order))
	for _, p := range r.order {
		if s := r.extractors[p].TitleSelector(); s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}
