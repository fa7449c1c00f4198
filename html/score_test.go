package html

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// prose builds n sentences of plain filler text.
func prose(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("The committee published its long awaited findings on river management, ")
		b.WriteString("noting that sediment flow had changed measurably over the decade. ")
	}
	return b.String()
}

func candidateFor(cands []*Candidate, n *html.Node) *Candidate {
	for _, c := range cands {
		if c.Node == n {
			return c
		}
	}
	return nil
}

func TestScoreCandidatesPrefersProseOverLinkFarm(t *testing.T) {
	t.Parallel()

	var links strings.Builder
	for i := 0; i < 50; i++ {
		links.WriteString(`<li><a href="/story">read the full story here</a></li>`)
	}
	doc := parseDoc(t, `<body>
		<div id="alpha"><p>`+prose(4)+`</p><p>`+prose(4)+`</p><p>`+prose(4)+`</p></div>
		<div id="beta"><ul>`+links.String()+`</ul></div>
	</body>`)

	cands := ScoreCandidates(doc, 100)
	require.NotEmpty(t, cands)

	proseDiv := findByID(doc, "alpha")
	linkDiv := findByID(doc, "beta")
	require.NotNil(t, proseDiv)
	require.NotNil(t, linkDiv)

	pc := candidateFor(cands, proseDiv)
	lc := candidateFor(cands, linkDiv)
	require.NotNil(t, pc)
	require.NotNil(t, lc)

	require.Greater(t, lc.LinkDensity, linkDensityCutoff)
	require.Greater(t, pc.Score, lc.Score)
}

func TestScoreCandidatesCharacterThreshold(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><div id="tiny">short text here</div></body>`)
	tiny := findByID(doc, "tiny")

	require.Nil(t, candidateFor(ScoreCandidates(doc, 500), tiny),
		"generic container below the threshold must not be a candidate")
	require.NotNil(t, candidateFor(ScoreCandidates(doc, 0), tiny))
}

func TestScoreCandidatesSemanticBypassesThreshold(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><article>tiny</article><p>also tiny</p></body>`)
	cands := ScoreCandidates(doc, 500)

	require.NotNil(t, candidateFor(cands, findFirst(doc, "article")))
	require.NotNil(t, candidateFor(cands, findFirst(doc, "p")))
}

func TestScoreCandidatesSemanticBonus(t *testing.T) {
	t.Parallel()

	text := prose(2)
	doc := parseDoc(t, `<body><div id="plain">`+text+`</div><article id="sem">`+text+`</article></body>`)
	cands := ScoreCandidates(doc, 50)

	plain := candidateFor(cands, findByID(doc, "plain"))
	sem := candidateFor(cands, findByID(doc, "sem"))
	require.NotNil(t, plain)
	require.NotNil(t, sem)
	require.Greater(t, sem.Score, plain.Score)
	require.InDelta(t, semanticBonus, sem.Score-plain.Score, 0.001)
}

func TestScoreCandidatesClassRules(t *testing.T) {
	t.Parallel()

	text := prose(2)
	doc := parseDoc(t, `<body>
		<div id="x1" class="post-content">`+text+`</div>
		<div id="x2" class="sidebar">`+text+`</div>
		<div id="x3" class="zzz">`+text+`</div>
	</body>`)
	cands := ScoreCandidates(doc, 50)

	boosted := candidateFor(cands, findByID(doc, "x1"))
	penalized := candidateFor(cands, findByID(doc, "x2"))
	neutral := candidateFor(cands, findByID(doc, "x3"))
	require.NotNil(t, boosted)
	require.NotNil(t, penalized)
	require.NotNil(t, neutral)

	require.Greater(t, boosted.Score, neutral.Score)
	require.Less(t, penalized.Score, neutral.Score)
}

func TestScoreCandidatesPropagation(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><div id="wrap" class="zzz">
		<p>`+prose(3)+`</p>
		<p>`+prose(3)+`</p>
		<p>`+prose(3)+`</p>
	</div></body>`)
	cands := ScoreCandidates(doc, 50)

	wrap := candidateFor(cands, findByID(doc, "wrap"))
	require.NotNil(t, wrap)
	for _, c := range cands {
		if c != wrap {
			require.Greater(t, wrap.Score, c.Score,
				"container must outscore its child paragraphs via propagation")
		}
	}
}

func TestScoreCandidatesDocumentOrder(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body>
		<div id="a">`+prose(2)+`</div>
		<div id="b">`+prose(2)+`</div>
	</body>`)
	cands := ScoreCandidates(doc, 50)
	require.Len(t, cands, 2)
	require.Equal(t, "a", attrValue(cands[0].Node, "id"))
	require.Equal(t, "b", attrValue(cands[1].Node, "id"))
	require.Less(t, cands[0].Order, cands[1].Order)
}

func findByID(root *html.Node, id string) *html.Node {
	if root.Type == html.ElementNode && attrValue(root, "id") == id {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
