// Command morphlex is the CLI front end for the morphlex library: morphing
// markup files against each other, diffing a source file across two git
// revisions, serving diagnostics metrics, and validating configuration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/morphlex/morphlex/cmd/morphlex/commands"
	"github.com/morphlex/morphlex/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "morphlex",
		Short: "Morphlex markup and source-tree diffing toolkit",
		Long: `Morphlex morphs an existing tree of nodes in place to match a reference
tree, preserving node identity and issuing a minimal set of structural edits.

Commands:
  morph            Morph a current HTML document to match a reference document
  gitdiff          Morph a source file's parsed tree between two git revisions
  serve            Run the diagnostics HTTP server
  validate-config  Validate a morphlex configuration file
  version          Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewMorphCommand())
	rootCmd.AddCommand(commands.NewGitDiffCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewValidateConfigCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
