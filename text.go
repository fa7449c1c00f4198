package distill

import "strings"

// WordCount counts whitespace-delimited tokens in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// CollapseWhitespace normalizes all runs of whitespace in s to single spaces
// and trims the ends. Visible text comparisons throughout the module use this
// form so that excerpts are guaranteed to be prefixes of content text.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Excerpt returns a prefix of the collapsed visible text of s, at most n
// bytes long, truncated at a word boundary. Words are never split: if the
// first word alone exceeds n the excerpt is empty.
func Excerpt(s string, n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for _, w := range strings.Fields(s) {
		sep := 0
		if b.Len() > 0 {
			sep = 1
		}
		if b.Len()+sep+len(w) > n {
			break
		}
		if sep == 1 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	return b.String()
}
