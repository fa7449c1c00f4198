package html

import (
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/distillhq/distill"
)

// allowedAttrs is the attribute allowlist for serialized output. Inline
// event handlers never render; javascript: URLs are dropped with their
// attribute.
var allowedAttrs = map[string]bool{
	"href":     true,
	"src":      true,
	"srcset":   true,
	"alt":      true,
	"title":    true,
	"poster":   true,
	"datetime": true,
	"colspan":  true,
	"rowspan":  true,
	"lang":     true,
	"start":    true,
}

// classAllowedTags may keep their class attribute: syntax highlighters carry
// the code fence language there (class="language-go").
var classAllowedTags = map[string]bool{
	"pre":  true,
	"code": true,
}

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// RenderHTML serializes the cleaned subtree to sanitized HTML. It is a pure
// function of the tree: attributes render in sorted order and the same tree
// always yields the same bytes. Winners that are <body> or <html> render as
// a <div> wrapper.
func RenderHTML(n *html.Node) string {
	var b strings.Builder
	renderNode(&b, n, true)
	return b.String()
}

func renderNode(b *strings.Builder, n *html.Node, isRoot bool) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
		return
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderNode(b, c, false)
		}
		return
	case html.ElementNode:
		// fallthrough below
	default:
		return
	}

	tag := n.Data
	if isRoot && (tag == "body" || tag == "html") {
		tag = "div"
	}

	b.WriteByte('<')
	b.WriteString(tag)
	writeAttrs(b, n)
	b.WriteByte('>')

	if voidTags[tag] {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c, false)
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

func writeAttrs(b *strings.Builder, n *html.Node) {
	attrs := make([]html.Attribute, 0, len(n.Attr))
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if key == "class" && classAllowedTags[n.Data] {
			attrs = append(attrs, html.Attribute{Key: key, Val: a.Val})
			continue
		}
		if !allowedAttrs[key] {
			continue
		}
		if (key == "href" || key == "src" || key == "poster") && unsafeURL(a.Val) {
			continue
		}
		attrs = append(attrs, html.Attribute{Key: key, Val: a.Val})
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
}

// unsafeURL reports whether a URL value must not appear in sanitized output.
func unsafeURL(val string) bool {
	v := strings.ToLower(strings.TrimSpace(val))
	v = strings.ReplaceAll(v, "\n", "")
	v = strings.ReplaceAll(v, "\t", "")
	return strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "vbscript:")
}

// textBlockTags are elements whose edges separate words in visible text.
// Inline elements (a, b, em, span, code...) are absent: a word split by an
// inline tag reads as one word.
var textBlockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "dl": true, "dt": true, "dd": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true,
	"tr": true, "td": true, "th": true, "caption": true,
	"blockquote": true, "pre": true, "figure": true, "figcaption": true,
	"header": true, "footer": true, "aside": true, "nav": true,
	"br": true, "hr": true,
}

// visibleText returns the collapsed visible text of a subtree. Block element
// boundaries become single spaces; inline elements do not split words.
// Excerpts and low-content checks both use this form, which makes the
// excerpt a guaranteed prefix of the content's visible text.
func visibleText(n *html.Node) string {
	var b strings.Builder
	var walk func(m *html.Node)
	walk = func(m *html.Node) {
		if m.Type == html.TextNode {
			b.WriteString(m.Data)
			return
		}
		boundary := m.Type == html.ElementNode && textBlockTags[m.Data]
		if boundary {
			b.WriteByte(' ')
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if boundary {
			b.WriteByte(' ')
		}
	}
	walk(n)
	return distill.CollapseWhitespace(b.String())
}

// VisibleText exposes visibleText for callers outside the package.
func VisibleText(n *html.Node) string {
	return visibleText(n)
}
