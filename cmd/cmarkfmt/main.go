// Package main is the entry point for the cmarkfmt CLI.
package main

import (
	"fmt"
	"os"

	"github.com/ttencate/commonmark-gfm/cmd/cmarkfmt/internal/cli"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd()
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
