// internal/cli/generate.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/rlib/pkg/scripts"
)

var (
	generateOverwrite bool
	generateDryRun    bool
	generateUsername  string
	generateHome      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the R helper script, session profile and cluster init scripts",
	Long: `Render libs_install.r, config.r, rstudio_init_script.sh and
rprofilesite_init_script.sh and write them through the local mount.

Add the printed init script location to the cluster configuration.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateOverwrite, "overwrite", true, "replace existing files")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "print the scripts instead of writing them")
	generateCmd.Flags().StringVar(&generateUsername, "username", "", "cluster user (default from config, then $USER)")
	generateCmd.Flags().StringVar(&generateHome, "home", "", "mount home folder (default from config)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := scripts.OptionsFromConfig(config)
	if generateHome != "" {
		opts.HomePath = generateHome
	}
	if generateUsername != "" {
		opts.Username = generateUsername
	}
	if opts.Username == "" {
		opts.Username = os.Getenv("USER")
	}

	gen, err := scripts.NewGenerator(opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if generateDryRun {
		artifacts, err := gen.Artifacts()
		if err != nil {
			return err
		}
		for _, a := range artifacts {
			fmt.Fprintf(out, "### %s\n%s\n", a.Location, a.Content)
		}
		return nil
	}

	written, err := gen.WriteAll(scripts.NewFSWriter(opts.MountPrefix), generateOverwrite)
	for _, loc := range written {
		fmt.Fprintf(out, "✓ Wrote %s\n", loc)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nInit script locations:\n  %s\n  %s\n",
		gen.InitLocation(scripts.RStudioInit), gen.InitLocation(scripts.RProfileSiteInit))
	return nil
}
