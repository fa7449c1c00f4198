// Package fs writes extraction results to disk as markdown files.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/distillhq/distill"
)

// FormatArticle renders a result as a markdown document with YAML
// frontmatter. Empty metadata fields are omitted.
func FormatArticle(result *distill.ArticleResult) string {
	var b strings.Builder
	b.WriteString("---\n")
	writeField(&b, "source", result.URL)
	writeField(&b, "title", result.Title)
	writeField(&b, "author", result.Author)
	writeField(&b, "date", result.DatePublished)
	writeField(&b, "language", result.Language)
	fmt.Fprintf(&b, "words: %d\n", result.WordCount)
	b.WriteString("---\n\n")
	b.WriteString(result.Markdown)
	if !strings.HasSuffix(result.Markdown, "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}

func writeField(b *strings.Builder, key, val string) {
	if val == "" {
		return
	}
	// Plain YAML scalars cannot contain ": ", "#" or quotes.
	if strings.Contains(val, ": ") || strings.ContainsAny(val, "#\n\"") {
		val = fmt.Sprintf("%q", strings.ReplaceAll(val, "\n", " "))
	}
	fmt.Fprintf(b, "%s: %s\n", key, val)
}

// WriteArticle writes the formatted result to path, creating parent
// directories as needed.
func WriteArticle(path string, result *distill.ArticleResult) error {
	return Write(path, []byte(FormatArticle(result)))
}

// Write writes data to path atomically: the write goes through a temporary
// file in the same directory and a rename, so readers never observe a
// partial file. Parent directories are created as needed.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
