package html

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/distillhq/distill"
)

// trackingPixelPaths are exact filename fragments of common tracking pixels
// and spacers.
var trackingPixelPaths = []string{
	"/pixel.gif", "/pixel.png",
	"/1x1.gif", "/1x1.png",
	"/spacer.gif", "/spacer.png",
	"/blank.gif", "/blank.png",
}

var trackingDomainPrefixes = []string{"tracking.", "analytics.", "metrics."}

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
	"svg": true, "bmp": true, "avif": true, "apng": true, "tiff": true,
	"jfif": true,
}

// urlAttrs lists the attributes resolved against the base URL, per tag.
var urlAttrs = map[string][]string{
	"a":      {"href"},
	"img":    {"src"},
	"source": {"src", "srcset"},
	"video":  {"src", "poster"},
	"audio":  {"src"},
}

// Clean strips residual noise inside the winning subtree and normalizes it
// for serialization. It operates on a deep, detached copy so the scored tree
// stays inspectable. Each step is independently driven by options. Returned
// warnings cover unresolvable URLs; nothing here can fail the pipeline.
func Clean(winner *html.Node, baseURL string, opts distill.Options) (*html.Node, []string) {
	clone := CloneTree(winner)
	var warnings []string

	stripNestedNoise(clone)

	if !opts.IncludeImages {
		removeTags(clone, "img", "picture", "video", "figure")
	}
	if !opts.IncludeCode {
		removeTags(clone, "pre", "code")
	}

	warnings = append(warnings, resolveURLs(clone, baseURL)...)

	removeEmptyLinks(clone)
	if opts.IncludeImages {
		removeTrackingImages(clone)
	}
	removeEmptyBlocks(clone)
	normalizeHeadings(clone)

	return clone, warnings
}

// CloneTree deep-copies a subtree. The copy has its own parent links and is
// fully detached from the source document.
func CloneTree(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:     n.Type,
		DataAtom: n.DataAtom,
		Data:     n.Data,
	}
	if len(n.Attr) > 0 {
		clone.Attr = make([]html.Attribute, len(n.Attr))
		copy(clone.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(CloneTree(c))
	}
	return clone
}

// stripNestedNoise removes elements inside the winner whose class/id matched
// noise patterns but survived selection because the winner as a whole scored
// well. The winner itself is never removed.
func stripNestedNoise(root *html.Node) {
	for c := root.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			if noiseDelta(c) < 0 {
				root.RemoveChild(c)
			} else {
				stripNestedNoise(c)
			}
		}
		c = next
	}
}

// noiseDelta sums the class/id rule deltas for an element.
func noiseDelta(n *html.Node) float64 {
	classID := strings.ToLower(attrValue(n, "class") + " " + attrValue(n, "id"))
	if classID == " " {
		return 0
	}
	var delta float64
	for _, rule := range classIDRules {
		if rule.pattern.MatchString(classID) {
			delta += rule.delta
		}
	}
	return delta
}

func removeTags(root *html.Node, tags ...string) {
	drop := make(map[string]bool, len(tags))
	for _, t := range tags {
		drop[t] = true
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type == html.ElementNode && drop[c.Data] {
				n.RemoveChild(c)
			} else {
				walk(c)
			}
			c = next
		}
	}
	walk(root)
}

// resolveURLs rewrites relative href/src values into absolute URLs against
// the base URL. Malformed URLs are left untouched and reported as warnings.
func resolveURLs(root *html.Node, baseURL string) []string {
	if baseURL == "" {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return []string{fmt.Sprintf("base URL %q could not be parsed; relative links left unresolved", baseURL)}
	}

	var warnings []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attrs, ok := urlAttrs[n.Data]; ok {
				for _, key := range attrs {
					val := attrValue(n, key)
					if val == "" || key == "srcset" || skipResolution(val) {
						continue
					}
					ref, err := url.Parse(val)
					if err != nil {
						warnings = append(warnings, fmt.Sprintf("could not resolve %s=%q: %v", key, val, err))
						continue
					}
					setAttr(n, key, base.ResolveReference(ref).String())
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return warnings
}

// skipResolution reports whether a URL value should be left as-is.
func skipResolution(val string) bool {
	v := strings.ToLower(strings.TrimSpace(val))
	return strings.HasPrefix(v, "data:") ||
		strings.HasPrefix(v, "mailto:") ||
		strings.HasPrefix(v, "tel:") ||
		strings.HasPrefix(v, "javascript:") ||
		strings.HasPrefix(v, "#")
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// removeEmptyLinks drops anchors that would render as empty markdown links.
func removeEmptyLinks(root *html.Node) {
	removeWhere(root, func(n *html.Node) bool {
		return n.Data == "a" && !hasVisibleContent(n)
	})
}

// removeTrackingImages drops images without a usable src attribute, plus
// common tracking pixels and spacer images.
func removeTrackingImages(root *html.Node) {
	removeWhere(root, func(n *html.Node) bool {
		return n.Data == "img" && !validImageSrc(attrValue(n, "src"))
	})
}

// removeEmptyBlocks strips block nodes that no longer carry content after
// the earlier passes.
func removeEmptyBlocks(root *html.Node) {
	removeWhere(root, func(n *html.Node) bool {
		switch n.Data {
		case "p", "li", "div", "ul", "ol", "blockquote":
			return !hasVisibleContent(n)
		}
		return false
	})
}

// removeWhere removes descendant elements matching the predicate, deepest
// first so emptied parents cascade. The root itself is kept.
func removeWhere(root *html.Node, match func(*html.Node) bool) {
	for c := root.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			removeWhere(c, match)
			if match(c) {
				root.RemoveChild(c)
			}
		}
		c = next
	}
}

func hasVisibleContent(n *html.Node) bool {
	if strings.TrimSpace(visibleText(n)) != "" {
		return true
	}
	found := false
	var walk func(m *html.Node)
	walk = func(m *html.Node) {
		if found {
			return
		}
		if m.Type == html.ElementNode && m.Data == "img" && validImageSrc(attrValue(m, "src")) {
			found = true
			return
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

// validImageSrc reports whether src points at a real image rather than a
// tracking pixel or placeholder.
func validImageSrc(src string) bool {
	src = strings.TrimSpace(src)
	if src == "" {
		return false
	}
	lower := strings.ToLower(src)

	for _, p := range trackingPixelPaths {
		if strings.Contains(lower, p) {
			return false
		}
	}

	if i := strings.Index(src, "://"); i >= 0 {
		domain := lower[i+3:]
		if j := strings.IndexByte(domain, '/'); j >= 0 {
			domain = domain[:j]
		}
		for _, prefix := range trackingDomainPrefixes {
			if strings.HasPrefix(domain, prefix) {
				return false
			}
		}
	}

	if strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "http") ||
		strings.HasPrefix(src, "//") || strings.HasPrefix(src, "/") ||
		strings.HasPrefix(src, "./") || strings.HasPrefix(src, "../") {
		return true
	}

	// Bare filenames count only when they look like real image files; this
	// rejects tiny trackers such as "t.gif".
	name := lower
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || !imageExtensions[name[dot+1:]] {
		return false
	}
	return len(strings.TrimSpace(name[:dot])) >= 2
}

// normalizeHeadings shifts heading levels so the highest heading present
// becomes h1 and relative nesting is preserved. A page starting at <h3> would
// otherwise produce markdown with missing # levels.
func normalizeHeadings(root *html.Node) {
	minLevel := 7
	var scan func(n *html.Node)
	scan = func(n *html.Node) {
		if lvl := headingLevel(n); lvl > 0 && lvl < minLevel {
			minLevel = lvl
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			scan(c)
		}
	}
	scan(root)
	if minLevel == 7 || minLevel == 1 {
		return
	}

	shift := minLevel - 1
	var apply func(n *html.Node)
	apply = func(n *html.Node) {
		if lvl := headingLevel(n); lvl > 0 {
			newLvl := lvl - shift
			if newLvl < 1 {
				newLvl = 1
			}
			n.Data = fmt.Sprintf("h%d", newLvl)
			n.DataAtom = 0
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			apply(c)
		}
	}
	apply(root)
}

func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode || len(n.Data) != 2 || n.Data[0] != 'h' {
		return 0
	}
	if n.Data[1] < '1' || n.Data[1] > '6' {
		return 0
	}
	return int(n.Data[1] - '0')
}
