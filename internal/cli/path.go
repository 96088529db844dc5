// internal/cli/path.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/rlib/pkg/libpath"
	"github.com/arc-language/rlib/pkg/searchpath"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the library search path",
	Long:  `Show the session library search path, highest priority first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPath(func(sp *searchpath.SearchPath) error {
			printEntries(cmd, sp.Entries())
			return nil
		})
	},
}

var pathSetCmd = &cobra.Command{
	Use:   "set [root]",
	Short: "Put <root>/<R version> first on the search path",
	Long: `Create <root>/<R version> when missing and move it to the front of the
search path. Without an argument the canonical library root is used.

Examples:
  rlib path set
  rlib path set /dbfs/mnt/team/rlib`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := ""
		if len(args) == 1 {
			root = args[0]
		}
		return withManager(cmd.Context(), func(mgr *libpath.Manager) error {
			p, err := mgr.SetUserLibPath(root)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		})
	},
}

var pathRemoveCmd = &cobra.Command{
	Use:   "remove [dir]",
	Short: "Remove a directory from the search path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd.Context(), func(mgr *libpath.Manager) error {
			if !mgr.Path().Contains(args[0]) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s is not on the search path\n", args[0])
			}
			printEntries(cmd, mgr.RemoveUserLibPath(args[0]))
			return nil
		})
	},
}

var pathGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the canonical version-qualified library path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd.Context(), func(mgr *libpath.Manager) error {
			fmt.Fprintln(cmd.OutOrStdout(), mgr.GetUserLibPath())
			return nil
		})
	},
}

var pathResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the saved search path and start again from R_LIBS",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := searchpath.NewStore(config.StateDir)
		if err := store.Reset(); err != nil {
			return fmt.Errorf("resetting %s: %w", store.Path(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", store.Path())
		return nil
	},
}

func init() {
	pathCmd.AddCommand(pathSetCmd)
	pathCmd.AddCommand(pathRemoveCmd)
	pathCmd.AddCommand(pathGetCmd)
	pathCmd.AddCommand(pathResetCmd)
}

func printEntries(cmd *cobra.Command, entries []string) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "(empty)")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(out, "[%d] %s\n", i+1, e)
	}
}
