// Package html implements the native content extraction and scoring engine
// on top of golang.org/x/net/html trees. The pipeline normalizes the tree,
// scores candidate containers, selects a winner, cleans it and serializes it
// deterministically: the same HTML and options always produce byte-identical
// output.
package html

import (
	"strings"
	"unicode/utf8"

	"github.com/RadhiFadlillah/whatlanggo"
	"golang.org/x/net/html"

	"github.com/distillhq/distill"
)

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*Extractor)(nil)

// maxTreeDepth bounds tree recursion. The parser caps its open-element stack
// at 512, so every tree it produces stays below this limit; exceeding it
// means a hand-built or cyclic tree and fails loudly.
const maxTreeDepth = 1024

// minDetectionChars is the minimum text length for language detection to be
// attempted.
const minDetectionChars = 40

// Extractor runs the scoring pipeline. The pipeline itself is single
// threaded and side-effect-free per call; an Extractor is safe for
// concurrent use.
type Extractor struct {
	converter distill.Converter
	metadata  distill.MetadataExtractor
}

// NewExtractor creates an Extractor with the given markdown converter and
// metadata extractor. metadata may be nil, in which case only the in-content
// heading fallback populates the title.
func NewExtractor(converter distill.Converter, metadata distill.MetadataExtractor) *Extractor {
	return &Extractor{converter: converter, metadata: metadata}
}

// Extract parses raw HTML and runs the pipeline. Malformed markup never
// produces an error: all degradation is reported through the result's
// warnings.
func (e *Extractor) Extract(rawHTML string, pageURL string, opts distill.Options) (*distill.ArticleResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, distill.Errorf(distill.EINVALID, "empty HTML input")
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		// x/net/html recovers from virtually anything; a hard parse error
		// is a structural failure reported in-band.
		return &distill.ArticleResult{
			URL:      pageURL,
			Error:    err.Error(),
			Warnings: []string{"document could not be parsed"},
		}, nil
	}

	return e.ExtractNode(doc, pageURL, opts)
}

// ExtractNode runs the pipeline on a pre-parsed tree. The tree is mutated in
// place and must not be reused afterwards.
func (e *Extractor) ExtractNode(doc *html.Node, pageURL string, opts distill.Options) (*distill.ArticleResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkTree(doc, 0); err != nil {
		return nil, err
	}

	result := &distill.ArticleResult{
		URL:     pageURL,
		Success: true,
	}

	// Metadata comes off the intact tree, before the normalizer starts
	// pruning.
	meta := &distill.Metadata{}
	if e.metadata != nil {
		var mw []string
		meta, mw = e.metadata.ExtractMetadata(doc)
		result.Warnings = append(result.Warnings, mw...)
	}

	Normalize(doc)
	cands := ScoreCandidates(doc, opts.MinCharThreshold)
	sel := SelectWinner(cands, FindBody(doc), opts)
	if sel == nil {
		result.Warnings = append(result.Warnings, WarnLowContent)
		result.Title = meta.Title
		result.Author = meta.Author
		result.DatePublished = meta.DatePublished
		result.Language = firstNonEmpty(opts.LanguageHint, meta.Language)
		return result, nil
	}
	result.Warnings = append(result.Warnings, sel.Warnings...)

	cleaned, cleanWarnings := Clean(sel.Node, pageURL, opts)
	result.Warnings = append(result.Warnings, cleanWarnings...)

	content := RenderHTML(cleaned)
	markdown := ""
	if e.converter != nil {
		md, err := e.converter.Convert(content)
		if err != nil {
			result.Warnings = append(result.Warnings, "markdown conversion failed: "+distill.ErrorMessage(err))
		} else {
			markdown = md
		}
	}

	if opts.MaxOutputBytes > 0 {
		if len(content) > opts.MaxOutputBytes {
			content = truncateRunes(content, opts.MaxOutputBytes)
			result.Warnings = append(result.Warnings, "content truncated to maximum output size")
		}
		if len(markdown) > opts.MaxOutputBytes {
			markdown = truncateRunes(markdown, opts.MaxOutputBytes)
			result.Warnings = append(result.Warnings, "markdown truncated to maximum output size")
		}
	}

	// Counted from the visible text, so markdown syntax tokens (#, **,
	// bullets) never inflate the number.
	text := visibleText(cleaned)
	result.Content = content
	result.Markdown = markdown
	result.WordCount = distill.WordCount(text)
	result.Excerpt = distill.Excerpt(text, opts.ExcerptLength)

	result.Title = meta.Title
	if result.Title == "" {
		result.Title = topHeading(cleaned)
	}
	if result.Title == "" {
		result.Warnings = append(result.Warnings, "title not found")
	}
	result.Author = meta.Author
	result.DatePublished = meta.DatePublished

	result.Language = firstNonEmpty(opts.LanguageHint, meta.Language, detectLanguage(text))
	if result.Language == "" {
		result.Warnings = append(result.Warnings, "language could not be detected")
	}

	return result, nil
}

// checkTree validates the parser contract. A tree deeper than maxTreeDepth
// is treated as cyclic and reported as an internal invariant violation.
func checkTree(n *html.Node, depth int) error {
	if depth > maxTreeDepth {
		return distill.Errorf(distill.EINTERNAL, "document tree exceeds maximum depth %d; possible cycle", maxTreeDepth)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Parent != n {
			return distill.Errorf(distill.EINTERNAL, "document tree has inconsistent parent links")
		}
		if err := checkTree(c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// topHeading returns the visible text of the first heading in the subtree.
func topHeading(n *html.Node) string {
	if headingLevel(n) > 0 {
		return visibleText(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if h := topHeading(c); h != "" {
			return h
		}
	}
	return ""
}

// detectLanguage guesses the text language, returning an ISO 639-3 code or
// empty when detection is unreliable.
func detectLanguage(text string) string {
	if len(text) < minDetectionChars {
		return ""
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return whatlanggo.LangToString(info.Lang)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
