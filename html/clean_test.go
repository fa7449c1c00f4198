package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/distillhq/distill"
)

func TestCloneTree(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><div id="w"><p>hello</p></div></body>`)
	orig := findByID(doc, "w")

	clone := CloneTree(orig)
	require.Nil(t, clone.Parent, "clone must be detached")
	require.Equal(t, visibleText(orig), visibleText(clone))

	// Mutating the clone must not touch the source tree.
	clone.RemoveChild(clone.FirstChild)
	require.NotNil(t, orig.FirstChild)
}

func TestCleanStripsNestedNoise(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><div id="w">
		<p>article text</p>
		<div class="sidebar"><a href="/x">junk</a></div>
		<div class="related-posts">more junk</div>
	</div></body>`)

	clone, warnings := Clean(findByID(doc, "w"), "", distill.DefaultOptions())
	require.Empty(t, warnings)
	assert.Equal(t, 0, countTag(clone, "a"))
	assert.Equal(t, "article text", visibleText(clone))
}

func TestCleanKeepsWinnerItself(t *testing.T) {
	t.Parallel()

	// A winner whose own class matches a noise rule is never removed.
	doc := parseDoc(t, `<body><div id="w" class="sidebar"><p>still here</p></div></body>`)
	clone, _ := Clean(findByID(doc, "w"), "", distill.DefaultOptions())
	assert.Equal(t, "still here", visibleText(clone))
}

func TestCleanImageToggle(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><div id="w">
		<p>text</p>
		<figure><img src="photo.jpg"><figcaption>cap</figcaption></figure>
		<video src="clip.mp4"></video>
	</div></body>`)

	opts := distill.DefaultOptions()
	opts.IncludeImages = false
	clone, _ := Clean(findByID(doc, "w"), "", opts)

	assert.Equal(t, 0, countTag(clone, "img"))
	assert.Equal(t, 0, countTag(clone, "figure"))
	assert.Equal(t, 0, countTag(clone, "video"))
	assert.Equal(t, "text", visibleText(clone))
}

func TestCleanCodeToggle(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><div id="w"><p>text</p><pre><code>x := 1</code></pre></div></body>`)

	opts := distill.DefaultOptions()
	opts.IncludeCode = false
	clone, _ := Clean(findByID(doc, "w"), "", opts)

	assert.Equal(t, 0, countTag(clone, "pre"))
	assert.Equal(t, 0, countTag(clone, "code"))
}

func TestCleanResolvesURLs(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><div id="w">
		<p><a href="/about">about</a></p>
		<p><a href="relative/page">rel</a></p>
		<p><a href="#section">anchor</a></p>
		<p><a href="mailto:a@b.c">mail</a></p>
		<img alt="x" src="images/pic.jpg">
	</div></body>`)

	clone, warnings := Clean(findByID(doc, "w"), "https://example.com/blog/post", distill.DefaultOptions())
	require.Empty(t, warnings)

	var hrefs []string
	collectAttrs(clone, "a", "href", &hrefs)
	assert.Equal(t, []string{
		"https://example.com/about",
		"https://example.com/blog/relative/page",
		"#section",
		"mailto:a@b.c",
	}, hrefs)

	var srcs []string
	collectAttrs(clone, "img", "src", &srcs)
	assert.Equal(t, []string{"https://example.com/blog/images/pic.jpg"}, srcs)
}

func TestCleanWarnsOnMalformedURL(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><div id="w"><p><a href="/bad/%zz">broken</a></p></div></body>`)
	clone, warnings := Clean(findByID(doc, "w"), "https://example.com", distill.DefaultOptions())

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "/bad/%zz")

	var hrefs []string
	collectAttrs(clone, "a", "href", &hrefs)
	assert.Equal(t, []string{"/bad/%zz"}, hrefs, "malformed values stay untouched")
}

func TestCleanRemovesTrackingImages(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><div id="w">
		<p>text</p>
		<img src="https://cdn.example.com/photo.jpg">
		<img src="https://ads.example.com/pixel.gif">
		<img src="https://tracking.example.com/img.png">
		<img src="">
		<img src="t.gif">
	</div></body>`)

	clone, _ := Clean(findByID(doc, "w"), "", distill.DefaultOptions())
	var srcs []string
	collectAttrs(clone, "img", "src", &srcs)
	assert.Equal(t, []string{"https://cdn.example.com/photo.jpg"}, srcs)
}

func TestCleanRemovesEmptyLinksAndBlocks(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><div id="w">
		<p><a href="/x"></a></p>
		<p><a href="/y">kept</a></p>
		<p><a href="/z"><img src="photo.jpg"></a></p>
		<div class="zzz"><ul><li></li></ul></div>
	</div></body>`)

	clone, _ := Clean(findByID(doc, "w"), "", distill.DefaultOptions())
	assert.Equal(t, 2, countTag(clone, "a"))
	assert.Equal(t, 0, countTag(clone, "ul"), "emptied blocks cascade upwards")
	assert.Equal(t, 2, countTag(clone, "p"))
}

func TestCleanNormalizesHeadings(t *testing.T) {
	t.Parallel()

	t.Run("shifts so the top level becomes h1", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<body><div id="w"><h3>Title</h3><p>text</p><h4>Sub</h4></div></body>`)
		clone, _ := Clean(findByID(doc, "w"), "", distill.DefaultOptions())

		assert.Equal(t, 1, countTag(clone, "h1"))
		assert.Equal(t, 1, countTag(clone, "h2"))
		assert.Equal(t, 0, countTag(clone, "h3"))
		assert.Equal(t, 0, countTag(clone, "h4"))
	})

	t.Run("no shift when h1 already present", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<body><div id="w"><h1>Title</h1><h3>Sub</h3><p>text</p></div></body>`)
		clone, _ := Clean(findByID(doc, "w"), "", distill.DefaultOptions())

		assert.Equal(t, 1, countTag(clone, "h1"))
		assert.Equal(t, 1, countTag(clone, "h3"))
	})
}

// collectAttrs appends the value of key for every tag element, in document
// order.
func collectAttrs(root *html.Node, tag, key string, out *[]string) {
	if root.Type == html.ElementNode && root.Data == tag {
		*out = append(*out, attrValue(root, key))
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		collectAttrs(c, tag, key, out)
	}
}
