package main

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	File string `arg:"" optional:"" help:"HTML file to extract (reads stdin when omitted)"`

	URL      string `short:"u" help:"Base URL for resolving relative links"`
	Output   string `short:"o" help:"Write to this file instead of stdout (markdown output gains frontmatter)"`
	Format   string `short:"f" default:"markdown" enum:"json,markdown,html,text" help:"Output format"`
	Engine   string `default:"native" enum:"native,readability,trafilatura" help:"Extraction engine"`
	MinWords int    `default:"150" help:"Minimum word count before a low-content warning"`
	NoImages bool   `help:"Strip images from output"`
	NoCode   bool   `help:"Strip code blocks from output"`
	MaxBytes int    `help:"Truncate output to this many bytes (0 = unlimited)"`
	Lang     string `help:"Language hint (e.g. en); skips detection"`
	Verbose  bool   `short:"v" help:"Log extraction details to stderr"`
}
