// internal/cli/list.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/rlib/pkg/libpath"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packages",
	Long:  `List every package installed on the search path, grouped by library.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	return withManager(cmd.Context(), func(mgr *libpath.Manager) error {
		pkgs, err := mgr.List()
		if err != nil {
			return err
		}

		lib := ""
		shadowed := false
		for _, pkg := range pkgs {
			if pkg.LibPath != lib {
				lib = pkg.LibPath
				fmt.Fprintf(out, "\n%s:\n", lib)
			}
			marker := " "
			if pkg.Shadowed {
				marker = "-"
				shadowed = true
			}
			fmt.Fprintf(out, "  %s %-30s %s\n", marker, pkg.Name, pkg.Version)
		}

		if len(pkgs) == 0 {
			fmt.Fprintln(out, "No packages installed")
		}
		if shadowed {
			fmt.Fprintf(out, "\n- = shadowed by an earlier library\n")
		}
		return nil
	})
}
