// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the rlib release
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "rlib version %s\n", Version)
		fmt.Fprintln(out, "Shared R library manager")
		fmt.Fprintln(out, "https://github.com/arc-language/rlib")
	},
}
