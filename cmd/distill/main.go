// Command distill extracts the primary readable content from an HTML
// document and prints it as JSON, Markdown, HTML, or plain text. It reads
// local files or stdin only; fetching pages is a job for a crawler.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/distillhq/distill"
	"github.com/distillhq/distill/fs"
	"github.com/distillhq/distill/goquery"
	extracthtml "github.com/distillhq/distill/html"
	"github.com/distillhq/distill/htmltomarkdown"
	"github.com/distillhq/distill/readability"
	distillslog "github.com/distillhq/distill/slog"
	"github.com/distillhq/distill/trafilatura"
)

func main() {
	m := NewMain()
	if err := m.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("distill"),
		kong.Description("Extract readable article content from HTML."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	rawHTML, err := readInput(cli.File, stdin)
	if err != nil {
		return err
	}

	extractor, err := buildExtractor(cli, stderr)
	if err != nil {
		return err
	}

	opts := distill.DefaultOptions()
	opts.MinWordCount = cli.MinWords
	opts.IncludeImages = !cli.NoImages
	opts.IncludeCode = !cli.NoCode
	opts.MaxOutputBytes = cli.MaxBytes
	opts.LanguageHint = cli.Lang

	result, err := extractor.Extract(rawHTML, cli.URL, opts)
	if err != nil {
		return err
	}

	if cli.Output != "" {
		if cli.Format == "markdown" {
			return fs.WriteArticle(cli.Output, result)
		}
		var buf bytes.Buffer
		if err := render(&buf, result, cli.Format); err != nil {
			return err
		}
		return fs.Write(cli.Output, buf.Bytes())
	}
	return render(stdout, result, cli.Format)
}

func readInput(file string, stdin io.Reader) (string, error) {
	if file == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", file, err)
	}
	return string(data), nil
}

func buildExtractor(cli *CLI, stderr io.Writer) (distill.Extractor, error) {
	converter := htmltomarkdown.NewConverter()

	var extractor distill.Extractor
	switch cli.Engine {
	case "native":
		extractor = extracthtml.NewExtractor(converter, goquery.NewMetadataExtractor())
	case "readability":
		extractor = readability.NewExtractor(converter)
	case "trafilatura":
		extractor = trafilatura.NewExtractor(converter)
	default:
		return nil, fmt.Errorf("unknown engine %q", cli.Engine)
	}

	if cli.Verbose {
		logger := stdlog.New(stdlog.NewTextHandler(stderr, nil))
		extractor = distillslog.NewLoggingExtractor(extractor, logger)
	}
	return extractor, nil
}

func render(w io.Writer, result *distill.ArticleResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "markdown":
		_, err := fmt.Fprintln(w, result.Markdown)
		return err
	case "html":
		_, err := fmt.Fprintln(w, result.Content)
		return err
	case "text":
		return renderText(w, result)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func renderText(w io.Writer, result *distill.ArticleResult) error {
	if result.Title != "" {
		fmt.Fprintln(w, result.Title)
		fmt.Fprintln(w)
	}
	if result.Author != "" {
		fmt.Fprintf(w, "Author: %s\n", result.Author)
	}
	if result.DatePublished != "" {
		fmt.Fprintf(w, "Published: %s\n", result.DatePublished)
	}
	if result.Language != "" {
		fmt.Fprintf(w, "Language: %s\n", result.Language)
	}
	fmt.Fprintf(w, "Words: %d\n\n", result.WordCount)
	fmt.Fprintln(w, result.Excerpt)
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}
