// Package commands holds the cobra subcommands of the morphlex CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/morphlex/morphlex/pkg/version"
)

// NewVersionCommand reports the build version of the running binary.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "morphlex %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
