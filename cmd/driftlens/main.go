// Command driftlens is the CLI entry point: scan a change-set for
// cross-layer drift, explain the correlation strategies in play, and
// validate a .driftlens.yml configuration file.
//
// Generalized from stricture's hand-rolled flag/switch dispatcher
// (cmd/stricture/main.go) into a small Cobra command tree, the shape
// yairfalse-vaino and Gizzahub-gzh-cli both use for their CLIs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "driftlens",
		Short:         "Detect cross-layer configuration drift between two revisions",
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       version,
	}
	root.PersistentFlags().String("config", ".driftlens.yml", "path to configuration file")

	root.AddCommand(newScanCmd())
	root.AddCommand(newExplainCmd())
	root.AddCommand(newValidateConfigCmd())
	root.AddCommand(newVersionCmd())
	return root
}
