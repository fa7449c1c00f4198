// Package trafilatura implements an alternative extraction engine backed by
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"github.com/distillhq/distill"
)

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	converter distill.Converter
}

// NewExtractor creates a new Extractor using converter for markdown output.
func NewExtractor(converter distill.Converter) *Extractor {
	return &Extractor{converter: converter}
}

// Extract processes raw HTML and returns the extraction result.
func (e *Extractor) Extract(rawHTML string, pageURL string, opts distill.Options) (*distill.ArticleResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, distill.Errorf(distill.EINVALID, "empty HTML input")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &distill.ArticleResult{URL: pageURL, Success: true}

	tOpts := trafilatura.Options{
		EnableFallback: true,
		IncludeImages:  opts.IncludeImages,
	}
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			tOpts.OriginalURL = u
		} else {
			result.Warnings = append(result.Warnings, "page URL could not be parsed; relative links left unresolved")
		}
	}

	extract, err := trafilatura.Extract(strings.NewReader(rawHTML), tOpts)
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		return result, nil
	}

	var content string
	if extract.ContentNode != nil {
		if !opts.IncludeImages {
			removeTags(extract.ContentNode, []string{"img", "picture", "video", "figure"})
		}
		if !opts.IncludeCode {
			removeTags(extract.ContentNode, []string{"pre", "code"})
		}
		content, err = renderNode(extract.ContentNode)
		if err != nil {
			result.Success = false
			result.Error = err.Error()
			return result, nil
		}
	}

	markdown := ""
	if e.converter != nil && strings.TrimSpace(content) != "" {
		if md, err := e.converter.Convert(content); err == nil {
			markdown = md
		} else {
			result.Warnings = append(result.Warnings, "markdown conversion failed: "+distill.ErrorMessage(err))
		}
	}

	text := distill.CollapseWhitespace(extract.ContentText)
	result.Content = content
	result.Markdown = markdown
	result.WordCount = distill.WordCount(text)
	result.Excerpt = distill.Excerpt(text, opts.ExcerptLength)
	result.Title = extract.Metadata.Title
	result.Author = extract.Metadata.Author
	result.Language = extract.Metadata.Language
	if !extract.Metadata.Date.IsZero() {
		result.DatePublished = extract.Metadata.Date.Format(time.RFC3339)
	}

	if distill.WordCount(text) < opts.MinWordCount {
		result.Warnings = append(result.Warnings, "low content: extracted text is below the minimum word count")
	}

	return result, nil
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

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
