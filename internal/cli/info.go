// internal/cli/info.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/rlib/pkg/libpath"
)

var infoCmd = &cobra.Command{
	Use:     "find [package]",
	Aliases: []string{"info"},
	Short:   "Show which library a package resolves to",
	Long:    `Display the installed package a lookup by name resolves to: the first library on the search path holding it.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	return withManager(cmd.Context(), func(mgr *libpath.Manager) error {
		pkg, err := mgr.Find(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Package: %s\n", pkg.Name)
		fmt.Fprintf(out, "Version: %s\n", pkg.Version)
		fmt.Fprintf(out, "Library: %s\n", pkg.LibPath)
		if pkg.Built != "" {
			fmt.Fprintf(out, "Built:   %s\n", pkg.Built)
		}
		return nil
	})
}
