package distill

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies a (document, base URL, options) triple for caching.
// Two requests with byte-identical HTML, the same base URL and equal options
// produce the same fingerprint and therefore share a cache entry.
type Fingerprint uint64

// String renders the fingerprint as a fixed-width hex string.
func (fp Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(fp))
}

// ComputeFingerprint hashes the raw HTML together with the request parameters
// that influence output. The base URL participates because relative link
// resolution depends on it.
func ComputeFingerprint(rawHTML string, pageURL string, opts Options) Fingerprint {
	d := xxhash.New()
	_, _ = d.WriteString(rawHTML)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(pageURL)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(opts.canonical())
	return Fingerprint(d.Sum64())
}

// canonical serializes options into a stable form for hashing. Field order
// is fixed; changing it invalidates every cache entry.
func (o Options) canonical() string {
	return fmt.Sprintf("mw=%d;mc=%d;img=%t;code=%t;max=%d;exc=%d;lang=%s",
		o.MinWordCount, o.MinCharThreshold, o.IncludeImages, o.IncludeCode,
		o.MaxOutputBytes, o.ExcerptLength, o.LanguageHint)
}
