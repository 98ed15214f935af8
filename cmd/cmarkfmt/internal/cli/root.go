// Package cli implements the cmarkfmt CLI commands.
package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cmarkfmt command with all subcommands
// registered, reading and writing through the OS filesystem.
// newRootCmdWithFs takes any afero filesystem so tests can exercise every
// command against an in-memory tree instead of the real disk.
func NewRootCmd() *cobra.Command {
	return newRootCmdWithFs(afero.NewOsFs())
}

func newRootCmdWithFs(fs afero.Fs) *cobra.Command {
	root := &cobra.Command{
		Use:           "cmarkfmt",
		Short:         "cmarkfmt - render and inspect CommonMark/GFM documents",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.AddCommand(newRenderCmd(fs))
	root.AddCommand(newASTCmd(fs))
	return root
}
