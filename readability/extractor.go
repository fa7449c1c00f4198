// Package readability implements an alternative extraction engine backed by
// go-readability (Mozilla's Readability algorithm). It trades the native
// engine's tunable scoring for Readability's battle-tested heuristics.
package readability

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/distillhq/distill"
)

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	converter distill.Converter
}

// NewExtractor creates a new Extractor using converter for markdown output.
func NewExtractor(converter distill.Converter) *Extractor {
	return &Extractor{converter: converter}
}

// Extract processes raw HTML and returns the extraction result. Readability
// failures are reported in-band through Success and Error, never as a
// returned error.
func (e *Extractor) Extract(rawHTML string, pageURL string, opts distill.Options) (*distill.ArticleResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, distill.Errorf(distill.EINVALID, "empty HTML input")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &distill.ArticleResult{URL: pageURL, Success: true}

	var base *url.URL
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil {
			result.Warnings = append(result.Warnings, "page URL could not be parsed; relative links left unresolved")
		} else {
			base = u
		}
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		return result, nil
	}

	content := article.Content
	if !opts.IncludeImages || !opts.IncludeCode {
		content = applyToggles(content, opts)
	}

	markdown := ""
	if e.converter != nil && strings.TrimSpace(content) != "" {
		if md, err := e.converter.Convert(content); err == nil {
			markdown = md
		} else {
			result.Warnings = append(result.Warnings, "markdown conversion failed: "+distill.ErrorMessage(err))
		}
	}

	text := distill.CollapseWhitespace(article.TextContent)
	result.Content = content
	result.Markdown = markdown
	result.WordCount = distill.WordCount(text)
	result.Excerpt = distill.Excerpt(text, opts.ExcerptLength)
	result.Title = article.Title
	result.Author = article.Byline
	result.Language = article.Language
	if article.PublishedTime != nil {
		result.DatePublished = article.PublishedTime.Format(time.RFC3339)
	}

	if distill.WordCount(text) < opts.MinWordCount {
		result.Warnings = append(result.Warnings, "low content: extracted text is below the minimum word count")
	}

	return result, nil
}

// applyToggles strips images and code blocks from extracted content when
// the options exclude them.
func applyToggles(content string, opts distill.Options) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}

	var drop []string
	if !opts.IncludeImages {
		drop = append(drop, "img", "picture", "video", "figure")
	}
	if !opts.IncludeCode {
		drop = append(drop, "pre", "code")
	}
	removeTags(doc, drop)

	body := findBody(doc)
	if body == nil {
		return content
	}
	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return content
		}
	}
	return buf.String()
}

func removeTags(n *html.Node, tags []string) {
	drop := make(map[string]bool, len(tags))
	for _, t := range tags {
		drop[t] = true
	}
	var walk func(m *html.Node)
	walk = func(m *html.Node) {
		for c := m.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type == html.ElementNode && drop[c.Data] {
				m.RemoveChild(c)
			} else {
				walk(c)
			}
			c = next
		}
	}
	walk(n)
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}
