// internal/cli/env.go
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arc-language/rlib/pkg/searchpath"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the search path as a shell export",
	Long: `Print the session search path as an R_LIBS export.

Example:
  eval "$(rlib env)"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPath(func(sp *searchpath.SearchPath) error {
			fmt.Fprintf(cmd.OutOrStdout(), "export R_LIBS=%s\n", strconv.Quote(sp.String()))
			return nil
		})
	},
}
