package html

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/distillhq/distill"
)

func TestSelectWinnerPicksBestCandidate(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body>
		<div id="main" class="zzz">`+prose(6)+`</div>
		<div id="small" class="zzz">`+prose(1)+`</div>
	</body>`)
	opts := distill.DefaultOptions()
	opts.MinWordCount = 20
	opts.MinCharThreshold = 50

	cands := ScoreCandidates(doc, opts.MinCharThreshold)
	sel := SelectWinner(cands, FindBody(doc), opts)

	require.NotNil(t, sel)
	require.Empty(t, sel.Warnings)
	require.Equal(t, "main", attrValue(sel.Node, "id"))
}

func TestSelectWinnerTieBreaksByDocumentOrder(t *testing.T) {
	t.Parallel()

	text := prose(3)
	doc := parseDoc(t, `<body><div id="first">`+text+`</div><div id="second">`+text+`</div></body>`)
	opts := distill.DefaultOptions()
	opts.MinWordCount = 10
	opts.MinCharThreshold = 50

	cands := ScoreCandidates(doc, opts.MinCharThreshold)
	sel := SelectWinner(cands, FindBody(doc), opts)

	require.NotNil(t, sel)
	require.Equal(t, "first", attrValue(sel.Node, "id"))
}

func TestSelectWinnerBodyFallback(t *testing.T) {
	t.Parallel()

	// All the text lives in list items, which are never candidates.
	doc := parseDoc(t, `<body><ul><li>`+prose(4)+`</li></ul></body>`)
	opts := distill.DefaultOptions()
	opts.MinWordCount = 20
	opts.MinCharThreshold = 50

	cands := ScoreCandidates(doc, opts.MinCharThreshold)
	require.Empty(t, cands)

	sel := SelectWinner(cands, FindBody(doc), opts)
	require.NotNil(t, sel)
	require.Equal(t, "body", sel.Node.Data)
	require.Contains(t, sel.Warnings, WarnBodyFallback)
}

func TestSelectWinnerLowContent(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><p>just a few words</p></body>`)
	opts := distill.DefaultOptions() // MinWordCount 150

	cands := ScoreCandidates(doc, opts.MinCharThreshold)
	sel := SelectWinner(cands, FindBody(doc), opts)

	require.NotNil(t, sel, "low content degrades, it does not fail")
	require.Contains(t, sel.Warnings, WarnLowContent)
	require.NotEmpty(t, visibleText(sel.Node))
}

func TestSelectWinnerNoCandidatesNoBody(t *testing.T) {
	t.Parallel()

	sel := SelectWinner(nil, nil, distill.DefaultOptions())
	require.Nil(t, sel)
}

func TestFindBody(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><head></head><body><p>x</p></body></html>`)
	body := FindBody(doc)
	require.NotNil(t, body)
	require.Equal(t, "body", body.Data)

	require.Nil(t, FindBody(nil))
}
