package html

import (
	"regexp"
	"strings"

	"github.com/distillhq/distill"
	"golang.org/x/net/html"
)

// Scoring constants. The exact values are tuned against a corpus of sample
// pages; only the qualitative behavior (reward density, penalize link ratio,
// propagate to ancestors, deterministic tie-break) is contractual.
const (
	semanticBonus     = 25.0 // article, main, [role=main]
	sectionBonus      = 8.0
	paragraphBonus    = 3.0  // per <p> descendant with > minParagraphLen chars
	commaBonus        = 0.5  // per comma in visible text
	densityWeight     = 2.0  // multiplier on text-per-node density
	linkDensityCutoff = 0.33 // above this the node is scored down sharply
	linkDensityFactor = 0.2  // sharp penalty multiplier past the cutoff
	minParagraphLen   = 25
	damping           = 0.5  // score share given to the parent candidate
	damping2          = 0.25 // score share given to the grandparent
)

// patternRule maps a class/id substring pattern to a score delta. Keeping
// the heuristics in a table makes the rule set independently testable and
// extensible.
type patternRule struct {
	pattern *regexp.Regexp
	delta   float64
}

var classIDRules = []patternRule{
	{regexp.MustCompile(`(?i)article|blog|body|content|entry|hentry|main|post|story|text`), 15},
	{regexp.MustCompile(`(?i)comment|community|disqus|remark`), -25},
	{regexp.MustCompile(`(?i)sidebar|side-bar|rail|widget`), -25},
	{regexp.MustCompile(`(?i)footer|footnote|masthead|header(?:$|[^l])`), -20},
	{regexp.MustCompile(`(?i)\bad\b|advert|sponsor|promo|banner|shopping`), -25},
	{regexp.MustCompile(`(?i)menu|nav|breadcrumb|pag(?:er|ination)|tab-|tabs`), -20},
	{regexp.MustCompile(`(?i)social|share|related|recommend|popup|modal|cookie|newsletter|signup|subscribe`), -15},
}

// candidateTags are elements that can plausibly contain the article.
// Headings and inline elements are never candidates but contribute to their
// container's text.
var candidateTags = map[string]bool{
	"div":        true,
	"p":          true,
	"section":    true,
	"article":    true,
	"main":       true,
	"td":         true,
	"blockquote": true,
	"pre":        true,
}

var tagBaseWeight = map[string]float64{
	"article":    semanticBonus,
	"main":       semanticBonus,
	"section":    sectionBonus,
	"blockquote": 3,
	"pre":        3,
	"div":        0,
	"td":         0,
	"p":          0,
}

// Candidate is an element scored as a possible article container. Sub-scores
// are kept for debuggability and are read-only after scoring.
type Candidate struct {
	Node *html.Node

	// Score is the final content score after ancestor propagation and the
	// link density penalty.
	Score float64

	// Component sub-scores.
	TextLen     int
	TextDensity float64
	LinkDensity float64
	TagBonus    float64

	// Order is the candidate's position in document order, used as the
	// final tie-break.
	Order int
}

// subtreeStats aggregates per-subtree counts in a single post-order pass.
type subtreeStats struct {
	textLen    int
	anchorText int
	nodeCount  int
	commas     int
	longParas  int
}

// ScoreCandidates walks the normalized tree and returns every plausible
// content container with its score, in document order. It never fails:
// text-free nodes are simply poor candidates.
func ScoreCandidates(root *html.Node, minCharThreshold int) []*Candidate {
	stats := make(map[*html.Node]subtreeStats)
	collectStats(root, false, stats)

	var cands []*Candidate
	byNode := make(map[*html.Node]*Candidate)
	order := 0

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			order++
			if candidateTags[n.Data] {
				c := scoreNode(n, stats[n], order, minCharThreshold)
				if c != nil {
					cands = append(cands, c)
					byNode[n] = c
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	propagate(cands, byNode)
	applyLinkPenalty(cands)
	return cands
}

// collectStats fills stats for every element node in one pass.
func collectStats(n *html.Node, inAnchor bool, stats map[*html.Node]subtreeStats) subtreeStats {
	var s subtreeStats
	switch n.Type {
	case html.TextNode:
		text := distill.CollapseWhitespace(n.Data)
		s.textLen = len(text)
		s.commas = strings.Count(text, ",")
		if inAnchor {
			s.anchorText = s.textLen
		}
		return s
	case html.ElementNode:
		s.nodeCount = 1
		if n.Data == "a" {
			inAnchor = true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cs := collectStats(c, inAnchor, stats)
		s.textLen += cs.textLen
		s.anchorText += cs.anchorText
		s.nodeCount += cs.nodeCount
		s.commas += cs.commas
		s.longParas += cs.longParas
	}
	if n.Type == html.ElementNode {
		if n.Data == "p" && s.textLen > minParagraphLen {
			s.longParas++
		}
		stats[n] = s
	}
	return s
}

// scoreNode computes the standalone score for one element. Returns nil when
// the element is below the character threshold for non-semantic containers.
func scoreNode(n *html.Node, s subtreeStats, order, minCharThreshold int) *Candidate {
	// Semantic containers and paragraphs bypass the character threshold;
	// generic containers below it are not worth considering.
	semantic := n.Data == "article" || n.Data == "main" ||
		strings.EqualFold(attrValue(n, "role"), "main")
	if !semantic && n.Data != "p" && minCharThreshold > 0 && s.textLen < minCharThreshold {
		return nil
	}

	bonus := tagBaseWeight[n.Data]
	if strings.EqualFold(attrValue(n, "role"), "main") {
		bonus += semanticBonus
	}
	classID := strings.ToLower(attrValue(n, "class") + " " + attrValue(n, "id"))
	for _, rule := range classIDRules {
		if rule.pattern.MatchString(classID) {
			bonus += rule.delta
		}
	}

	density := float64(s.textLen) / float64(max(1, s.nodeCount))
	linkDensity := float64(s.anchorText) / float64(max(1, s.textLen))

	score := bonus +
		density*densityWeight +
		float64(s.longParas)*paragraphBonus +
		float64(s.commas)*commaBonus

	return &Candidate{
		Node:        n,
		Score:       score,
		TextLen:     s.textLen,
		TextDensity: density,
		LinkDensity: linkDensity,
		TagBonus:    bonus,
		Order:       order,
	}
}

// propagate shares each candidate's own score with its nearest scored
// ancestors at a damping factor, so the right container tends to win even
// when individual paragraphs hold the actual text.
func propagate(cands []*Candidate, byNode map[*html.Node]*Candidate) {
	base := make([]float64, len(cands))
	for i, c := range cands {
		base[i] = c.Score
	}
	for i, c := range cands {
		level := 0
		for p := c.Node.Parent; p != nil && level < 2; p = p.Parent {
			anc, ok := byNode[p]
			if !ok {
				continue
			}
			factor := damping
			if level == 1 {
				factor = damping2
			}
			anc.Score += base[i] * factor
			level++
		}
	}
}

// applyLinkPenalty scales scores by link density; link farms score down
// sharply past the cutoff. Applied after propagation so navigation blocks
// cannot launder their score through child paragraphs.
func applyLinkPenalty(cands []*Candidate) {
	for _, c := range cands {
		c.Score *= 1 - c.LinkDensity
		if c.LinkDensity > linkDensityCutoff {
			c.Score *= linkDensityFactor
		}
	}
}
