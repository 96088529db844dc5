// pkg/github/installer.go
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/arc-language/rlib/pkg/core"
	"github.com/arc-language/rlib/pkg/cran"
	"github.com/arc-language/rlib/pkg/rcmd"
)

// CloneFunc clones a repository into dir
type CloneFunc func(ctx context.Context, dir string, opts *git.CloneOptions) error

// Config configures the source installer
type Config struct {
	WorkDir string         // Parent of temporary clones; os.TempDir() when empty
	Depth   int            // Clone depth; 0 means 1, negative means full history
	Token   string         // Personal access token; $GITHUB_PAT when empty
	Deps    core.Installer // Installs missing dependencies from a CRAN-like repo
	Runner  rcmd.Runner    // Runs R CMD INSTALL; exec-based when nil
	Clone   CloneFunc      // Defaults to git.PlainCloneContext
	Debug   bool
	Logger  *log.Logger
}

// Installer installs R packages from git repositories
type Installer struct {
	config *Config
	logger *log.Logger
	runner rcmd.Runner
	clone  CloneFunc
}

// NewInstaller creates a source installer
func NewInstaller(cfg *Config) *Installer {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Depth == 0 {
		cfg.Depth = 1
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv("GITHUB_PAT")
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[GIT] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	runner := cfg.Runner
	if runner == nil {
		runner = rcmd.NewExecRunner(logger)
	}

	clone := cfg.Clone
	if clone == nil {
		clone = func(ctx context.Context, dir string, opts *git.CloneOptions) error {
			_, err := git.PlainCloneContext(ctx, dir, false, opts)
			return err
		}
	}

	return &Installer{config: cfg, logger: logger, runner: runner, clone: clone}
}

// Name returns the installer name
func (i *Installer) Name() string {
	return "github"
}

// Install clones req.Source and installs the package it contains into
// req.Destination
func (i *Installer) Install(ctx context.Context, req *core.InstallRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Source == "" {
		return fmt.Errorf("%w: github installer needs a source reference", core.ErrInvalidPackage)
	}

	ref, err := ParseRef(req.Source)
	if err != nil {
		return err
	}

	i.logger.Printf("Starting source install for %s", ref)

	// 1. Clone
	i.logger.Printf("Step 1: Cloning %s...", ref.URL)
	dir, err := os.MkdirTemp(i.config.WorkDir, "rlib-src-*")
	if err != nil {
		return fmt.Errorf("creating clone directory: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := i.cloneRef(ctx, dir, ref); err != nil {
		return &core.Error{Op: "clone", Package: ref.String(), Err: err}
	}
	i.logger.Printf("  ✓ Clone complete")

	// 2. Read the package description
	pkgDir := filepath.Join(dir, filepath.FromSlash(ref.Subdir))
	desc, err := cran.ReadDescription(filepath.Join(pkgDir, "DESCRIPTION"))
	if err != nil {
		return &core.Error{Op: "install", Package: ref.String(), Err: fmt.Errorf("%w: no R package at %s: %v", core.ErrInvalidPackage, ref, err)}
	}
	i.logger.Printf("Step 2: Found package %s %s", desc.Package, desc.Version)

	// 3. Dependencies
	if req.Dependencies {
		i.logger.Printf("Step 3: Installing missing dependencies...")
		if err := i.installDeps(ctx, desc, req); err != nil {
			return &core.Error{Op: "install", Package: desc.Package, Err: err}
		}
	} else {
		i.logger.Printf("Step 3: Skipping dependencies")
	}

	// 4. Build and install
	i.logger.Printf("Step 4: Installing %s into %s...", desc.Package, req.Destination)
	if err := rcmd.Install(ctx, i.runner, req.Destination, pkgDir, req.LibPaths); err != nil {
		return &core.Error{Op: "install", Package: desc.Package, Err: err}
	}

	i.logger.Printf("✓ Package %s installed from %s", desc.Package, ref)
	return nil
}

// cloneRef clones ref.Ref as a branch and falls back to a tag
func (i *Installer) cloneRef(ctx context.Context, dir string, ref *Ref) error {
	opts := i.cloneOptions(ref)
	if ref.Ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref.Ref)
	}

	err := i.clone(ctx, dir, opts)
	if err == nil || ref.Ref == "" || !isMissingRef(err) {
		return err
	}

	i.logger.Printf("  Branch %s not found, trying tag", ref.Ref)
	if err := resetDir(dir); err != nil {
		return err
	}
	opts = i.cloneOptions(ref)
	opts.ReferenceName = plumbing.NewTagReferenceName(ref.Ref)
	return i.clone(ctx, dir, opts)
}

func (i *Installer) cloneOptions(ref *Ref) *git.CloneOptions {
	opts := &git.CloneOptions{
		URL:          ref.URL,
		SingleBranch: true,
		Tags:         git.NoTags,
	}
	if i.config.Depth > 0 {
		opts.Depth = i.config.Depth
	}
	if i.config.Token != "" {
		opts.Auth = &githttp.BasicAuth{Username: "rlib", Password: i.config.Token}
	}
	if i.config.Debug {
		opts.Progress = os.Stdout
	}
	return opts
}

func (i *Installer) installDeps(ctx context.Context, desc *cran.PackageInfo, req *core.InstallRequest) error {
	libs := append([]string{req.Destination}, req.LibPaths...)

	for _, dep := range desc.Requirements() {
		if cran.IsBundled(dep) {
			continue
		}
		if _, ok := cran.FindInstalled(libs, dep); ok {
			continue
		}
		if i.config.Deps == nil {
			return fmt.Errorf("%w: dependency %s is missing and no dependency installer is configured", core.ErrPackageNotFound, dep)
		}

		i.logger.Printf("  Installing dependency %s", dep)
		err := i.config.Deps.Install(ctx, &core.InstallRequest{
			Name:         dep,
			Repo:         req.Repo,
			Destination:  req.Destination,
			Dependencies: true,
			LibPaths:     req.LibPaths,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func isMissingRef(err error) bool {
	return errors.Is(err, plumbing.ErrReferenceNotFound) || errors.Is(err, git.NoMatchingRefSpecError{})
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
