package mock

import "github.com/distillhq/distill"

var _ distill.Cache = (*Cache)(nil)

// Cache is a mock implementation of distill.Cache.
type Cache struct {
	GetOrComputeFn func(fp distill.Fingerprint, compute func() (*distill.ArticleResult, error)) (*distill.ArticleResult, error)
	LenFn          func() int
	SeenFn         func(fp distill.Fingerprint) bool
}

func (c *Cache) GetOrCompute(fp distill.Fingerprint, compute func() (*distill.ArticleResult, error)) (*distill.ArticleResult, error) {
	return c.GetOrComputeFn(fp, compute)
}

func (c *Cache) Len() int {
	return c.LenFn()
}

func (c *Cache) Seen(fp distill.Fingerprint) bool {
	return c.SeenFn(fp)
}
