package distill

import (
	"golang.org/x/net/html"
)

// ArticleResult is the outcome of a single extraction. It is immutable once
// produced: cached results are shared between callers and must never be
// modified.
//
// Malformed-but-parseable input never produces an error from an Extractor;
// degraded output is reported through Success, Error and Warnings instead.
type ArticleResult struct {
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Markdown      string   `json:"markdown"`
	Excerpt       string   `json:"excerpt"`
	WordCount     int      `json:"word_count"`
	Success       bool     `json:"success"`
	Error         string   `json:"error,omitempty"`
	Author        string   `json:"author,omitempty"`
	DatePublished string   `json:"date_published,omitempty"`
	Language      string   `json:"language,omitempty"`
	Warnings      []string `json:"warnings"`
}

// Options configures a single extraction. It is a value type constructed once
// per request and never mutated.
type Options struct {
	// MinWordCount is the minimum number of words the winning candidate must
	// contain before selection falls back to <body> and, failing that,
	// attaches a low-content warning.
	MinWordCount int

	// MinCharThreshold is the minimum visible text length for non-semantic
	// containers (div, section, td) to be considered candidates at all.
	MinCharThreshold int

	// IncludeImages keeps img/picture/video elements in the output.
	IncludeImages bool

	// IncludeCode keeps pre/code blocks in the output.
	IncludeCode bool

	// MaxOutputBytes truncates Content and Markdown when positive.
	// Zero means unlimited.
	MaxOutputBytes int

	// ExcerptLength is the maximum excerpt size in bytes, truncated at a
	// word boundary.
	ExcerptLength int

	// LanguageHint overrides language detection when set (e.g. "en").
	LanguageHint string
}

// DefaultOptions returns the options used when the caller has no opinion.
func DefaultOptions() Options {
	return Options{
		MinWordCount:     150,
		MinCharThreshold: 500,
		IncludeImages:    true,
		IncludeCode:      true,
		ExcerptLength:    200,
	}
}

// Validate returns an error if the options contain invalid fields.
func (o Options) Validate() error {
	if o.MinWordCount < 0 {
		return Errorf(EINVALID, "minimum word count must not be negative")
	}
	if o.MinCharThreshold < 0 {
		return Errorf(EINVALID, "minimum character threshold must not be negative")
	}
	if o.MaxOutputBytes < 0 {
		return Errorf(EINVALID, "maximum output size must not be negative")
	}
	if o.ExcerptLength < 0 {
		return Errorf(EINVALID, "excerpt length must not be negative")
	}
	return nil
}

// Metadata holds document metadata extracted from meta tags, structured data
// and fallback heuristics. Missing fields stay empty; they are reported as
// warnings, never errors.
type Metadata struct {
	Title         string
	Author        string
	DatePublished string // RFC 3339 when a date could be parsed
	Language      string
}

// Extractor extracts the primary readable content from an HTML document.
type Extractor interface {
	// Extract processes raw HTML and returns the extraction result.
	// pageURL, when non-empty, is used to resolve relative links and is
	// echoed back in the result. Malformed input is reported through the
	// result's Success/Error/Warnings fields; an error return indicates
	// invalid arguments or an internal invariant violation only.
	Extract(rawHTML string, pageURL string, opts Options) (*ArticleResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., from an Extractor).
	// Returns the Markdown representation of the content.
	Convert(html string) (string, error)
}

// MetadataExtractor extracts document metadata from a parsed tree.
type MetadataExtractor interface {
	// ExtractMetadata walks the full document tree (not just the winning
	// content region) and returns whatever metadata it can find, plus one
	// warning per missing or unparseable field.
	ExtractMetadata(root *html.Node) (*Metadata, []string)
}

// Cache memoizes extraction results keyed by fingerprint. Implementations
// must be safe for concurrent use and guarantee at-most-one in-flight
// computation per fingerprint.
type Cache interface {
	// GetOrCompute returns the cached result for fp, computing and storing
	// it on a miss. Concurrent callers with the same fingerprint share a
	// single computation. Errors from compute are returned without being
	// cached.
	GetOrCompute(fp Fingerprint, compute func() (*ArticleResult, error)) (*ArticleResult, error)

	// Len reports the number of entries currently cached.
	Len() int

	// Seen reports whether fp was ever computed through this cache, even if
	// its entry has since been evicted. False positives are allowed; false
	// negatives are not. Advisory, for ingestion dedup.
	Seen(fp Fingerprint) bool
}
