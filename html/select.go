package html

import (
	"github.com/distillhq/distill"
	"golang.org/x/net/html"
)

// minScoreFloor is the absolute score a winner must reach before the
// selector trusts it without falling back to <body>.
const minScoreFloor = 10.0

// WarnLowContent is the warning attached when no candidate meets the
// minimum word or score floor and extraction proceeds best-effort.
const WarnLowContent = "low content: no candidate met the minimum score or word count floor"

// WarnBodyFallback is the warning attached when selection fell back to the
// document body.
const WarnBodyFallback = "content selected from document body fallback"

// Selection is the outcome of picking the article root.
type Selection struct {
	Node     *html.Node
	Score    *Candidate
	Warnings []string
}

// SelectWinner picks the single best candidate as the article root.
//
// Tie-break order: higher score, then higher raw text length, then earlier
// document order, which keeps selection deterministic for degenerate and
// symmetric inputs. When no candidate reaches the score floor or the minimum
// word count, selection retries once against <body>; if that also fails the
// best-effort winner is kept and a low-content warning is attached rather
// than failing outright.
func SelectWinner(cands []*Candidate, body *html.Node, opts distill.Options) *Selection {
	best := bestCandidate(cands)

	if best != nil && meetsFloor(best, opts) {
		return &Selection{Node: best.Node, Score: best}
	}

	// Retry against <body> treated as a single fallback candidate.
	if body != nil {
		stats := make(map[*html.Node]subtreeStats)
		s := collectStats(body, false, stats)
		bodyCand := &Candidate{
			Node:        body,
			TextLen:     s.textLen,
			TextDensity: float64(s.textLen) / float64(max(1, s.nodeCount)),
			LinkDensity: float64(s.anchorText) / float64(max(1, s.textLen)),
		}
		if distill.WordCount(visibleText(body)) >= opts.MinWordCount {
			return &Selection{
				Node:     body,
				Score:    bodyCand,
				Warnings: []string{WarnBodyFallback},
			}
		}
		if best == nil {
			return &Selection{
				Node:     body,
				Score:    bodyCand,
				Warnings: []string{WarnBodyFallback, WarnLowContent},
			}
		}
	}

	if best == nil {
		return nil
	}
	return &Selection{
		Node:     best.Node,
		Score:    best,
		Warnings: []string{WarnLowContent},
	}
}

func bestCandidate(cands []*Candidate) *Candidate {
	var best *Candidate
	for _, c := range cands {
		if best == nil || better(c, best) {
			best = c
		}
	}
	return best
}

// better reports whether a should win over b under the deterministic
// tie-break rules. Candidates arrive in document order, so strict comparison
// keeps the earlier node on full ties.
func better(a, b *Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.TextLen != b.TextLen {
		return a.TextLen > b.TextLen
	}
	return a.Order < b.Order
}

func meetsFloor(c *Candidate, opts distill.Options) bool {
	if c.Score < minScoreFloor {
		return false
	}
	return distill.WordCount(visibleText(c.Node)) >= opts.MinWordCount
}

// FindBody returns the <body> element under root, or nil.
func FindBody(root *html.Node) *html.Node {
	if root == nil {
		return nil
	}
	if root.Type == html.ElementNode && root.Data == "body" {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := FindBody(c); found != nil {
			return found
		}
	}
	return nil
}
