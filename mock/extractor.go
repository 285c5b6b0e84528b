package mock

import "github.com/fwojciec/readurl"

var _ readurl.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of readurl.Extractor.
type Extractor struct {
	ExtractFn func(doc readurl.RawDocument) *readurl.Article
}

func (e *Extractor) Extract(doc readurl.RawDocument) *readurl.Article {
	return e.ExtractFn(doc)
}
