// Command cmarkview is a terminal AST previewer: it parses a Markdown
// file and lets you walk the resulting tree interactively.
package main

import (
	"fmt"
	"os"

	commonmark "github.com/ttencate/commonmark-gfm"
	"github.com/ttencate/commonmark-gfm/internal/preview"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: cmarkview <file.md>")
		os.Exit(2)
	}
	path := os.Args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	opts := commonmark.NewOptions(commonmark.WithGFM(), commonmark.WithFootnotes())
	root := commonmark.ParseDocument(data, opts)
	if err := preview.Run(path, root); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
