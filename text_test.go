package distill_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/distillhq/distill"
)

func TestWordCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, distill.WordCount(""))
	assert.Equal(t, 0, distill.WordCount("   \n\t  "))
	assert.Equal(t, 3, distill.WordCount("one two three"))
	assert.Equal(t, 3, distill.WordCount("  one\n two\tthree  "))
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", distill.CollapseWhitespace("  \n "))
	assert.Equal(t, "a b c", distill.CollapseWhitespace(" a\n\nb\t c "))
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	t.Run("short text returned whole", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "hello world", distill.Excerpt("hello world", 50))
	})

	t.Run("truncates at word boundary", func(t *testing.T) {
		t.Parallel()

		got := distill.Excerpt("alpha beta gamma delta", 12)
		assert.Equal(t, "alpha beta", got)
	})

	t.Run("never splits a word", func(t *testing.T) {
		t.Parallel()

		got := distill.Excerpt("supercalifragilistic", 10)
		assert.Equal(t, "", got)
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		t.Parallel()

		got := distill.Excerpt("one\n\n  two\tthree", 100)
		assert.Equal(t, "one two three", got)
	})

	t.Run("is a prefix of the collapsed input", func(t *testing.T) {
		t.Parallel()

		in := "the quick brown fox jumps over the lazy dog"
		for n := 0; n <= len(in)+5; n++ {
			got := distill.Excerpt(in, n)
			assert.True(t, strings.HasPrefix(in, got), "n=%d got=%q", n, got)
			assert.LessOrEqual(t, len(got), n)
		}
	})
}
