// internal/cli/sync.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/rlib/pkg/libpath"
	"github.com/arc-language/rlib/pkg/registry"
)

var manifestFile string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Install every package listed in a manifest",
	Long: `Install the packages listed in an rlib.toml manifest, in order, stopping
at the first failure.

Example manifest:
  [[package]]
  name = "jsonlite"

  [[package]]
  name = "ggplot2"
  version = "3.4.4"

  [[package]]
  source = "r-lib/cli@main"`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&manifestFile, "file", "f", registry.DefaultManifest, "manifest file")
}

func runSync(cmd *cobra.Command, args []string) error {
	m, err := registry.Load(manifestFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Syncing %d packages from %s\n", len(m.Packages), manifestFile)

	return withManager(cmd.Context(), func(mgr *libpath.Manager) error {
		results, err := registry.Apply(cmd.Context(), mgr, m)
		for _, r := range results {
			fmt.Fprintf(out, "✓ %s\n", r.Entry.String())
		}
		return err
	})
}
