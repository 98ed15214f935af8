package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	commonmark "github.com/ttencate/commonmark-gfm"
	cmxml "github.com/ttencate/commonmark-gfm/render/xml"
)

type astFlags struct {
	format string
	gfm    bool
}

func newASTCmd(fs afero.Fs) *cobra.Command {
	flags := &astFlags{format: "xml", gfm: true}
	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Dump the parsed AST of a Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAST(cmd, fs, flags, args[0])
		},
	}
	cmd.Flags().StringVar(&flags.format, "format", flags.format, "output format: xml, text")
	cmd.Flags().BoolVar(&flags.gfm, "gfm", true, "enable GitHub Flavored Markdown extensions")
	return cmd
}

func runAST(cmd *cobra.Command, fs afero.Fs, flags *astFlags, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var opts []commonmark.Option
	if flags.gfm {
		opts = append(opts, commonmark.WithGFM())
	}
	root := commonmark.ParseDocument(data, commonmark.NewOptions(opts...))

	w := cmd.OutOrStdout()
	switch flags.format {
	case "", "xml":
		return cmxml.Render(w, root, commonmark.NewOptions(opts...))
	case "text":
		return writeASTText(w, root)
	default:
		return fmt.Errorf("unknown --format %q (want xml or text)", flags.format)
	}
}

// writeASTText prints one indented line per node, the plain-text
// counterpart to the bubbletea tree browser's row rendering.
func writeASTText(w io.Writer, root *commonmark.Node) error {
	var err error
	root.Traverse(func(n *commonmark.Node, edge commonmark.TraverseEdge) bool {
		if edge != commonmark.Enter || err != nil {
			return true
		}
		depth := -1
		for a := n; a != nil; a = a.Parent() {
			depth++
		}
		line := fmt.Sprintf("%s%s", strings.Repeat("  ", depth), n.Kind().String())
		if lit := n.Literal(); lit != "" {
			line += fmt.Sprintf(" %q", lit)
		}
		_, err = fmt.Fprintln(w, line)
		return true
	})
	return err
}
