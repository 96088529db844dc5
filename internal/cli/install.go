// internal/cli/install.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/rlib/pkg/libpath"
)

var (
	installRepo        string
	installVersionRepo string
)

var installCmd = &cobra.Command{
	Use:   "install [package...]",
	Short: "Install one or more packages into the shared library",
	Long: `Install packages and their dependencies from a CRAN-like repository into
a staging directory, then copy them into the canonical library.

Examples:
  rlib install jsonlite
  rlib install data.table ggplot2 --repo=https://cran.rstudio.com`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

var installGithubCmd = &cobra.Command{
	Use:   "install-github [ref]",
	Short: "Install a package from a git repository",
	Long: `Install a package from a git repository. The reference is
owner/repo[/subdir][@ref] for GitHub or a full git URL with an optional @ref.

Examples:
  rlib install-github r-lib/cli
  rlib install-github owner/monorepo/pkgs/core@v1.2.0`,
	Args: cobra.ExactArgs(1),
	RunE: runInstallGithub,
}

var installVersionCmd = &cobra.Command{
	Use:   "install-version [package] [version]",
	Short: "Install a specific version of a package",
	Long: `Install exactly the given version of a package. Helper packages are
installed into the canonical library first when missing.

Example:
  rlib install-version ggplot2 3.4.4`,
	Args: cobra.ExactArgs(2),
	RunE: runInstallVersion,
}

func init() {
	installCmd.Flags().StringVar(&installRepo, "repo", "", "CRAN-like repository (default from config)")
	installVersionCmd.Flags().StringVar(&installVersionRepo, "repo", "", "CRAN-like repository (default from config version_repo)")
}

func runInstall(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	return withManager(cmd.Context(), func(mgr *libpath.Manager) error {
		var failed []string

		for _, pkg := range args {
			fmt.Fprintf(out, "\nInstalling %s...\n", pkg)

			stage, err := mgr.InstallPackage(cmd.Context(), pkg, installRepo)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ Failed to install %s: %v\n", pkg, err)
				failed = append(failed, pkg)
				continue
			}

			fmt.Fprintf(out, "✓ Successfully installed %s (staged in %s)\n", pkg, stage)
		}

		if len(failed) > 0 {
			return fmt.Errorf("%d of %d packages failed: %v", len(failed), len(args), failed)
		}
		return nil
	})
}

func runInstallGithub(cmd *cobra.Command, args []string) error {
	return withManager(cmd.Context(), func(mgr *libpath.Manager) error {
		stage, err := mgr.InstallFromSourceRepo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Successfully installed %s (staged in %s)\n", args[0], stage)
		return nil
	})
}

func runInstallVersion(cmd *cobra.Command, args []string) error {
	name, version := args[0], args[1]

	return withManager(cmd.Context(), func(mgr *libpath.Manager) error {
		stage, err := mgr.InstallSpecificVersion(cmd.Context(), name, version, installVersionRepo)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Successfully installed %s %s (staged in %s)\n", name, version, stage)
		return nil
	})
}
