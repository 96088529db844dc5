// rlib.go
package rlib

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/arc-language/rlib/pkg/copytree"
	"github.com/arc-language/rlib/pkg/core"
	"github.com/arc-language/rlib/pkg/cran"
	"github.com/arc-language/rlib/pkg/github"
	"github.com/arc-language/rlib/pkg/libpath"
	"github.com/arc-language/rlib/pkg/platform"
	"github.com/arc-language/rlib/pkg/rcmd"
	"github.com/arc-language/rlib/pkg/searchpath"
	"github.com/arc-language/rlib/pkg/staging"
)

// Re-export types for convenience
type (
	Config         = core.Config
	Package        = core.Package
	Installer      = core.Installer
	InstallRequest = core.InstallRequest
	SearchPath     = searchpath.SearchPath
	Manager        = libpath.Manager
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// New wires a library manager from cfg. sp is the session search path the
// manager mutates; nil starts from R_LIBS and R_LIBS_USER. When
// cfg.RVersion is empty the version is read from Rscript.
func New(ctx context.Context, cfg *Config, sp *SearchPath) (*Manager, error) {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	if sp == nil {
		sp = searchpath.FromEnv()
	}

	version, err := RuntimeVersion(ctx, cfg)
	if err != nil {
		return nil, err
	}

	policy, err := copytree.ParsePolicy(cfg.CollisionPolicy)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	copier, err := copytree.New(policy, cfg.Exclude, logger)
	if err != nil {
		return nil, err
	}

	return libpath.NewManager(&libpath.Config{
		Root:        cfg.LibraryRoot,
		RVersion:    version,
		Repo:        cfg.Repo,
		VersionRepo: cfg.VersionRepo,
		Helpers:     cfg.VersionHelpers,
		Installer:   NewInstaller(cfg),
		Copier:      copier,
		Staging:     staging.NewFactory(cfg.StagingDir, core.DefaultStagingPrefix),
		Debug:       cfg.Debug,
		Logger:      logger,
	}, sp)
}

// NewInstaller routes name installs to a CRAN-like repository and source
// installs to git. Missing dependencies of source packages come from CRAN.
func NewInstaller(cfg *Config) Installer {
	pm := cran.NewPackageManager(&cran.Config{
		Repo:    cfg.Repo,
		Timeout: cfg.Timeout,
		Debug:   cfg.Debug,
		Logger:  cfg.Logger,
	})
	gh := github.NewInstaller(&github.Config{
		WorkDir: cfg.StagingDir,
		Deps:    pm,
		Debug:   cfg.Debug,
		Logger:  cfg.Logger,
	})
	return &core.Dispatcher{Registry: pm, Source: gh}
}

// RuntimeVersion returns cfg.RVersion, or asks Rscript when it is empty
func RuntimeVersion(ctx context.Context, cfg *Config) (string, error) {
	if cfg.RVersion != "" {
		return platform.ParseVersion(cfg.RVersion)
	}

	if _, err := platform.Detect(); err != nil {
		return "", fmt.Errorf("detecting R (set r_version or RLIB_R_VERSION to skip): %w", err)
	}
	return platform.RVersion(ctx, rcmd.NewExecRunner(cfg.Logger))
}

// newLogger returns cfg.Logger, or the debug-aware default the manager and
// copier share
func newLogger(cfg *Config) *log.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	if cfg.Debug {
		return log.New(os.Stdout, "[RLIB] ", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}
