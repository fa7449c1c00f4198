package cache

import "github.com/distillhq/distill"

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*Extractor)(nil)

// Extractor decorates another Extractor with fingerprint-keyed memoization.
// Byte-identical HTML with the same base URL and options shares one cache
// entry and, under concurrency, one computation.
type Extractor struct {
	next  distill.Extractor
	cache distill.Cache
}

// NewExtractor wraps next with the given cache.
func NewExtractor(next distill.Extractor, cache distill.Cache) *Extractor {
	return &Extractor{next: next, cache: cache}
}

// Extract returns the memoized result for the request, computing it through
// the wrapped extractor on a miss.
func (e *Extractor) Extract(rawHTML string, pageURL string, opts distill.Options) (*distill.ArticleResult, error) {
	fp := distill.ComputeFingerprint(rawHTML, pageURL, opts)
	return e.cache.GetOrCompute(fp, func() (*distill.ArticleResult, error) {
		return e.next.Extract(rawHTML, pageURL, opts)
	})
}
