// Package goquery implements metadata extraction using CSS selectors.
//
// Each metadata field is resolved by an ordered list of extractor strategies
// tried in sequence; the first strategy returning a value wins. Missing
// fields produce warnings, never errors.
package goquery

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"golang.org/x/net/html"

	"github.com/distillhq/distill"
)

// Ensure MetadataExtractor implements distill.MetadataExtractor at compile time.
var _ distill.MetadataExtractor = (*MetadataExtractor)(nil)

// maxAuthorLen guards against byline selectors matching whole paragraphs.
const maxAuthorLen = 100

// strategy resolves one metadata field from a document, returning "" when it
// has nothing.
type strategy func(doc *goquery.Document) string

// Title resolution order: document <title>, then OpenGraph, then Twitter
// cards. The in-content heading fallback lives with the caller, which knows
// the winning region.
var titleStrategies = []strategy{
	firstText("title"),
	metaContent(`meta[property="og:title"]`),
	metaContent(`meta[name="twitter:title"]`),
}

var authorStrategies = []strategy{
	metaContent(`meta[name="author"]`),
	metaContent(`meta[property="article:author"]`),
	metaContent(`meta[name="twitter:creator"]`),
	bylineText(`[rel="author"]`),
	bylineText(`[itemprop="author"]`),
	bylineText(`.byline, .author, .post-author`),
}

var dateStrategies = []strategy{
	metaContent(`meta[property="article:published_time"]`),
	metaContent(`meta[itemprop="datePublished"]`),
	metaContent(`meta[name="date"]`),
	metaContent(`meta[name="dc.date"]`),
	attrText("time[datetime]", "datetime"),
	metaContent(`meta[property="og:updated_time"]`),
}

var languageStrategies = []strategy{
	attrText("html[lang]", "lang"),
	attrText("body[lang]", "lang"),
	metaContent(`meta[property="og:locale"]`),
	metaContent(`meta[http-equiv="content-language"]`),
}

// MetadataExtractor extracts title, author, publication date and language
// from the full document tree.
type MetadataExtractor struct{}

// NewMetadataExtractor creates a new MetadataExtractor.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{}
}

// ExtractMetadata resolves each field through its strategy chain. Author and
// date warnings are reported here; title and language fallbacks live with
// the caller, which can consult the extracted content.
func (m *MetadataExtractor) ExtractMetadata(root *html.Node) (*distill.Metadata, []string) {
	doc := goquery.NewDocumentFromNode(root)

	meta := &distill.Metadata{
		Title:    firstOf(doc, titleStrategies),
		Author:   firstOf(doc, authorStrategies),
		Language: normalizeLang(firstOf(doc, languageStrategies)),
	}

	var warnings []string
	if meta.Author == "" {
		warnings = append(warnings, "author not found")
	}

	if raw := firstOf(doc, dateStrategies); raw != "" {
		if t, err := dateparse.ParseAny(raw); err == nil {
			meta.DatePublished = t.Format(time.RFC3339)
		} else {
			warnings = append(warnings, "publication date "+raw+" could not be parsed")
		}
	} else {
		warnings = append(warnings, "publication date not found")
	}

	return meta, warnings
}

func firstOf(doc *goquery.Document, strategies []strategy) string {
	for _, s := range strategies {
		if v := s(doc); v != "" {
			return v
		}
	}
	return ""
}

func metaContent(selector string) strategy {
	return func(doc *goquery.Document) string {
		content, _ := doc.Find(selector).First().Attr("content")
		return strings.TrimSpace(content)
	}
}

func firstText(selector string) strategy {
	return func(doc *goquery.Document) string {
		return distill.CollapseWhitespace(doc.Find(selector).First().Text())
	}
}

func attrText(selector, attr string) strategy {
	return func(doc *goquery.Document) string {
		val, _ := doc.Find(selector).First().Attr(attr)
		return strings.TrimSpace(val)
	}
}

func bylineText(selector string) strategy {
	return func(doc *goquery.Document) string {
		text := distill.CollapseWhitespace(doc.Find(selector).First().Text())
		if len(text) > maxAuthorLen {
			return ""
		}
		return strings.TrimPrefix(text, "By ")
	}
}

// normalizeLang reduces locale values such as "en_US" or "en-US" to the
// bare language subtag.
func normalizeLang(lang string) string {
	lang = strings.TrimSpace(lang)
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return strings.ToLower(lang)
}
