// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/rlib/pkg/core"
)

var (
	cfgFile string
	debug   bool
	libRoot string
	config  *core.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rlib",
	Short: "Shared R library manager",
	Long: `rlib - Shared R library manager

Keeps a version-qualified R package library on a shared mount first on the
library search path, installs packages through isolated staging directories
and generates the scripts that wire the library into every R session.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/rlib/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&libRoot, "root", "", "canonical library root (default from config)")

	// Add commands
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(installGithubCmd)
	rootCmd.AddCommand(installVersionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	if err := config.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
	}

	// Override config with flags
	if libRoot != "" {
		config.LibraryRoot = libRoot
	}
	if debug {
		config.Debug = true
	}
}
