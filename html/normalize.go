package html

import (
	"strings"

	"golang.org/x/net/html"
)

// stripTags are elements removed wholesale during normalization, children
// included. form is deliberately absent: ASP.NET WebForms sites wrap the
// entire page in a <form>, so forms are unwrapped instead (children hoisted).
var stripTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"nav":      true,
	"aside":    true,
	"template": true,
	"object":   true,
	"embed":    true,
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
	"map":      true,
}

// unwrapTags are elements removed while keeping their children in place.
var unwrapTags = map[string]bool{
	"form":     true,
	"fieldset": true,
}

// unlikelyRoles mark elements that never contain article content.
var unlikelyRoles = map[string]bool{
	"navigation":    true,
	"banner":        true,
	"complementary": true,
	"dialog":        true,
	"alertdialog":   true,
	"menu":          true,
	"menubar":       true,
	"toolbar":       true,
	"search":        true,
}

// mediaTags are allowed to be empty leaves.
var mediaTags = map[string]bool{
	"img":     true,
	"picture": true,
	"video":   true,
	"audio":   true,
	"source":  true,
	"track":   true,
	"svg":     true,
	"canvas":  true,
	"br":      true,
	"hr":      true,
}

// blockContainers are elements where inter-child whitespace is not
// significant, so whitespace-only text nodes between their children can be
// dropped safely.
var blockContainers = map[string]bool{
	"html": true, "head": true, "body": true,
	"div": true, "section": true, "article": true, "main": true,
	"ul": true, "ol": true, "table": true, "thead": true, "tbody": true,
	"tfoot": true, "tr": true, "figure": true, "blockquote": true,
	"header": true, "footer": true, "dl": true,
}

// Normalize prunes non-content elements and canonicalizes the tree in place.
// It cannot fail: nodes that cannot be classified are kept, since
// under-removal is preferable to losing content.
func Normalize(root *html.Node) {
	stripUnwanted(root)
	mergeTextNodes(root)
	unwrapWrappers(root)
	dropEmpty(root)
}

func stripUnwanted(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.CommentNode, html.DoctypeNode:
			n.RemoveChild(c)
		case html.ElementNode:
			switch {
			case stripTags[c.Data], unlikelyRoles[strings.ToLower(attrValue(c, "role"))]:
				n.RemoveChild(c)
			case unwrapTags[c.Data]:
				first := c.FirstChild
				unwrapNode(n, c)
				if first != nil {
					// Hoisted children now occupy c's position.
					next = first
				}
			default:
				stripUnwanted(c)
			}
		}
		c = next
	}
}

// unwrapNode replaces child with its own children, preserving order.
func unwrapNode(parent, child *html.Node) {
	for gc := child.FirstChild; gc != nil; {
		next := gc.NextSibling
		child.RemoveChild(gc)
		parent.InsertBefore(gc, child)
		gc = next
	}
	parent.RemoveChild(child)
}

func mergeTextNodes(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode && next != nil && next.Type == html.TextNode {
			c.Data += next.Data
			n.RemoveChild(next)
			continue // re-check c against its new successor
		}
		if c.Type == html.ElementNode {
			mergeTextNodes(c)
		}
		c = next
	}
}

// unwrapWrappers collapses attribute-less single-child div/span wrappers.
// Wrappers carrying class or id are kept because those attributes feed the
// scorer's pattern rules.
func unwrapWrappers(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isBareWrapper(c) {
			only := soleElementChild(c)
			unwrapNode(n, c)
			// Re-examine the hoisted child in the wrapper's position so
			// nested wrappers collapse fully.
			next = only
		} else if c.Type == html.ElementNode {
			unwrapWrappers(c)
		}
		c = next
	}
}

func isBareWrapper(n *html.Node) bool {
	if n.Type != html.ElementNode || (n.Data != "div" && n.Data != "span") {
		return false
	}
	if len(n.Attr) != 0 {
		return false
	}
	return soleElementChild(n) != nil
}

// soleElementChild returns the single element child of n, or nil if n has
// text content or more than one child element.
func soleElementChild(n *html.Node) *html.Node {
	var found *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil
			}
		case html.ElementNode:
			if found != nil {
				return nil
			}
			found = c
		}
	}
	return found
}

// dropEmpty removes elements with no text and no meaningful children.
// Returns whether n should be kept. Runs post-order so that emptied parents
// cascade.
func dropEmpty(n *html.Node) bool {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !dropEmpty(c) {
			n.RemoveChild(c)
		}
		c = next
	}

	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			return true
		}
		// Whitespace between inline elements is significant; between block
		// children it is not.
		if n.Parent != nil && n.Parent.Type == html.ElementNode {
			if preserveWhitespace(n.Parent) {
				return true
			}
			return !blockContainers[n.Parent.Data]
		}
		return false
	case html.ElementNode:
		if mediaTags[n.Data] || n.Data == "head" || n.Data == "body" ||
			n.Data == "html" || n.Data == "title" || n.Data == "meta" ||
			n.Data == "link" || n.Data == "base" {
			return true
		}
		if preserveWhitespace(n) {
			return n.FirstChild != nil
		}
		// Kept whitespace-only text children mark inline boundaries but do
		// not make an element non-empty on their own.
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				return true
			}
			if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// preserveWhitespace reports whether n or an ancestor treats whitespace as
// significant.
func preserveWhitespace(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && (p.Data == "pre" || p.Data == "code" || p.Data == "textarea") {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
