package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	commonmark "github.com/ttencate/commonmark-gfm"
	"github.com/ttencate/commonmark-gfm/internal/preview"
	cmrendercm "github.com/ttencate/commonmark-gfm/render/commonmark"
	cmhtml "github.com/ttencate/commonmark-gfm/render/html"
	cmxml "github.com/ttencate/commonmark-gfm/render/xml"
)

type renderFlags struct {
	to         string
	out        string
	watch      bool
	gfm        bool
	footnotes  bool
	math       bool
	wikilinks  bool
	alerts     bool
	smart      bool
	unsafeHTML bool
	headerIDs  string
}

func newRenderCmd(fs afero.Fs) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a Markdown file to HTML, CommonMark, or XML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, fs, flags, args[0])
		},
	}
	cmd.Flags().StringVar(&flags.to, "to", flags.to, "output format: html, commonmark, xml")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "re-render whenever the input file changes")
	cmd.Flags().BoolVar(&flags.gfm, "gfm", true, "enable GitHub Flavored Markdown extensions")
	cmd.Flags().BoolVar(&flags.footnotes, "footnotes", true, "enable footnotes")
	cmd.Flags().BoolVar(&flags.math, "math", false, "enable dollar-math")
	cmd.Flags().BoolVar(&flags.wikilinks, "wikilinks", false, "enable [[wikilink]] syntax")
	cmd.Flags().BoolVar(&flags.alerts, "alerts", false, "enable GitHub-style alert block quotes")
	cmd.Flags().BoolVar(&flags.smart, "smart", false, "enable smart punctuation")
	cmd.Flags().BoolVar(&flags.unsafeHTML, "unsafe-html", false, "pass through raw HTML instead of escaping it")
	cmd.Flags().StringVar(&flags.headerIDs, "header-id-prefix", "", "generate heading ids with this prefix (empty disables)")
	return cmd
}

func (f *renderFlags) options() commonmark.Options {
	var opts []commonmark.Option
	if f.gfm {
		opts = append(opts, commonmark.WithGFM())
	}
	if f.footnotes {
		opts = append(opts, commonmark.WithFootnotes())
	}
	if f.math {
		opts = append(opts, commonmark.WithMathDollars())
	}
	if f.wikilinks {
		opts = append(opts, commonmark.WithWikilinksTitleAfterPipe())
	}
	if f.alerts {
		opts = append(opts, commonmark.WithAlerts())
	}
	if f.smart {
		opts = append(opts, commonmark.WithSmart())
	}
	if f.unsafeHTML {
		opts = append(opts, commonmark.WithUnsafeHTML())
	}
	if f.headerIDs != "" {
		opts = append(opts, commonmark.WithHeaderIDs(f.headerIDs))
	}
	return commonmark.NewOptions(opts...)
}

func runRender(cmd *cobra.Command, fs afero.Fs, flags *renderFlags, path string) error {
	if flags.watch {
		return watchRender(cmd, fs, flags, path)
	}
	return renderOnce(cmd, fs, flags, path)
}

func renderOnce(cmd *cobra.Command, fs afero.Fs, flags *renderFlags, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	opts := flags.options()
	root := commonmark.ParseDocument(data, opts)

	if flags.out == "" && flags.to == "" && isatty.IsTerminal(os.Stdout.Fd()) {
		return preview.Run(path, root)
	}

	var w io.Writer = cmd.OutOrStdout()
	var closer io.Closer
	if flags.out != "" {
		f, err := fs.Create(flags.out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flags.out, err)
		}
		w = f
		closer = f
	}
	if err := renderTo(w, root, opts, flags.to); err != nil {
		return err
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}

func renderTo(w io.Writer, root *commonmark.Node, opts commonmark.Options, to string) error {
	switch to {
	case "", "html":
		return cmhtml.Render(w, root, opts)
	case "commonmark":
		return cmrendercm.Render(w, root, opts)
	case "xml":
		return cmxml.Render(w, root, opts)
	default:
		return fmt.Errorf("unknown --to format %q (want html, commonmark, or xml)", to)
	}
}

// watchRender re-renders path to flags.out on every fsnotify write or
// create event for it, until the process is interrupted. Events are not
// debounced: each one triggers its own render.
func watchRender(cmd *cobra.Command, fs afero.Fs, flags *renderFlags, path string) error {
	if flags.out == "" {
		return fmt.Errorf("--watch requires --out")
	}
	if err := renderOnce(cmd, fs, flags, path); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s for changes (ctrl-c to stop)\n", path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := renderOnce(cmd, fs, flags, path); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				continue
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "re-rendered %s\n", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}
}
