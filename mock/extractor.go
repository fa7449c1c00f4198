package mock

import "github.com/distillhq/distill"

var _ distill.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of distill.Extractor.
type Extractor struct {
	ExtractFn func(rawHTML string, pageURL string, opts distill.Options) (*distill.ArticleResult, error)
}

func (e *Extractor) Extract(rawHTML string, pageURL string, opts distill.Options) (*distill.ArticleResult, error) {
	return e.ExtractFn(rawHTML, pageURL, opts)
}
