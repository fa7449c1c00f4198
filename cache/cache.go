// Package cache provides a bounded, fingerprint-keyed memoization layer for
// extraction results.
//
// The cache is purely an optimization: disabling it (capacity 0) changes
// latency, never results. Results are immutable, so eviction simply drops a
// reference and never blocks callers still holding an entry.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"golang.org/x/sync/singleflight"

	"github.com/distillhq/distill"
)

// Ensure LRU implements distill.Cache at compile time.
var _ distill.Cache = (*LRU)(nil)

// Sizing for the seen-fingerprint Bloom filter.
const (
	seenExpectedItems     = 100000
	seenFalsePositiveRate = 0.01
)

// Entry owns one cached result plus bookkeeping metadata.
type Entry struct {
	Fingerprint distill.Fingerprint
	Result      *distill.ArticleResult
	CreatedAt   time.Time
	Hits        int64
}

// LRU is a bounded least-recently-used result cache, safe for concurrent
// use. In-flight computations are shared per fingerprint: a second caller
// requesting a fingerprint that is being computed awaits the first
// computation instead of recomputing.
type LRU struct {
	capacity int
	group    singleflight.Group

	mu    sync.Mutex // guards ll and items only; never held during compute
	ll    *list.List // front = most recently used
	items map[distill.Fingerprint]*list.Element

	seen *bloom.BloomFilter

	now func() time.Time // test hook
}

// New creates an LRU with the given capacity. Capacity 0 disables storage:
// every call computes, though concurrent same-fingerprint calls still share
// one computation.
func New(capacity int) *LRU {
	if capacity < 0 {
		capacity = 0
	}
	return &LRU{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[distill.Fingerprint]*list.Element),
		seen:     bloom.NewWithEstimates(seenExpectedItems, seenFalsePositiveRate),
		now:      time.Now,
	}
}

// GetOrCompute returns the cached result for fp, computing and storing it on
// a miss. Errors from compute are returned to all waiting callers and never
// cached.
func (c *LRU) GetOrCompute(fp distill.Fingerprint, compute func() (*distill.ArticleResult, error)) (*distill.ArticleResult, error) {
	if r, ok := c.get(fp); ok {
		return r, nil
	}

	v, err, _ := c.group.Do(fp.String(), func() (any, error) {
		// Re-check under singleflight: a previous flight may have stored
		// the entry between our miss and this call.
		if r, ok := c.get(fp); ok {
			return r, nil
		}
		r, err := compute()
		if err != nil {
			return nil, err
		}
		c.add(fp, r)
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*distill.ArticleResult), nil
}

// Len reports the number of entries currently cached.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Seen reports whether fp was ever computed through this cache, including
// fingerprints whose entries have since been evicted. False positives are
// possible; false negatives are not. Useful for ingestion dedup; purely
// advisory.
func (c *LRU) Seen(fp distill.Fingerprint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seen.TestString(fp.String())
}

// Purge drops every cached entry. The seen filter is retained.
func (c *LRU) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	clear(c.items)
}

func (c *LRU) get(fp distill.Fingerprint) (*distill.ArticleResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[fp]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	entry := el.Value.(*Entry)
	entry.Hits++
	return entry.Result, true
}

func (c *LRU) add(fp distill.Fingerprint, r *distill.ArticleResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seen.AddString(fp.String())
	if c.capacity == 0 {
		return
	}
	if el, ok := c.items[fp]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*Entry).Result = r
		return
	}

	el := c.ll.PushFront(&Entry{
		Fingerprint: fp,
		Result:      r,
		CreatedAt:   c.now(),
	})
	c.items[fp] = el

	for c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*Entry).Fingerprint)
	}
}
