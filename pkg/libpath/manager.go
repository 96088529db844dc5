// pkg/libpath/manager.go
package libpath

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/arc-language/rlib/pkg/copytree"
	"github.com/arc-language/rlib/pkg/core"
	"github.com/arc-language/rlib/pkg/searchpath"
	"github.com/arc-language/rlib/pkg/staging"
)

// NewManager creates a Manager operating on path. The path is shared, not
// copied: every operation mutates it in place.
func NewManager(cfg *Config, path *searchpath.SearchPath) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.RVersion == "" {
		return nil, fmt.Errorf("%w: runtime version is unknown", core.ErrRNotAvailable)
	}
	if cfg.Root == "" {
		cfg.Root = core.DefaultLibraryRoot
	}
	if cfg.Repo == "" {
		cfg.Repo = core.DefaultRepo
	}
	if cfg.VersionRepo == "" {
		cfg.VersionRepo = core.DefaultVersionRepo
	}
	if path == nil {
		path = searchpath.New()
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[RLIB] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	copier := cfg.Copier
	if copier == nil {
		var err error
		copier, err = copytree.New(copytree.Overwrite, nil, logger)
		if err != nil {
			return nil, err
		}
	}

	factory := cfg.Staging
	if factory == nil {
		factory = staging.NewFactory("", core.DefaultStagingPrefix)
	}

	return &Manager{
		config:    cfg,
		path:      path,
		installer: cfg.Installer,
		copier:    copier,
		staging:   factory,
		logger:    logger,
	}, nil
}

// Path returns the session search path
func (m *Manager) Path() *searchpath.SearchPath {
	return m.path
}

// RVersion returns the runtime version qualifying every library path
func (m *Manager) RVersion() string {
	return m.config.RVersion
}

// SetUserLibPath makes <root>/<version> the highest-priority library,
// creating it when absent. An empty root means the canonical root.
// Repeated calls never duplicate the entry.
func (m *Manager) SetUserLibPath(root string) (string, error) {
	if root == "" {
		root = m.config.Root
	}
	qualified := filepath.Join(root, m.config.RVersion)

	if err := os.MkdirAll(qualified, 0755); err != nil {
		return "", &core.Error{Op: "set-lib-path", Err: fmt.Errorf("creating %s: %w", qualified, err)}
	}

	m.path.Prepend(qualified)
	m.logger.Printf("Library path set to %s", qualified)
	return qualified, nil
}

// RemoveUserLibPath drops p from the search path and returns the resulting
// entries. Removing an absent path changes nothing.
func (m *Manager) RemoveUserLibPath(p string) []string {
	if m.path.Remove(p) {
		m.logger.Printf("Removed %s from library path", p)
	}
	return m.path.Entries()
}

// GetUserLibPath returns the canonical version-qualified library path
// without touching the search path or the filesystem.
func (m *Manager) GetUserLibPath() string {
	return filepath.Join(m.config.Root, m.config.RVersion)
}

// relocate merges a finished install into dst
func (m *Manager) relocate(src, dst string) error {
	stats, err := m.copier.Copy(src, dst)
	if err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	m.logger.Printf("  ✓ Copied %d files, %d directories (%d skipped, %d excluded)",
		stats.Files, stats.Dirs, stats.Skipped, stats.Excluded)
	return nil
}

func (m *Manager) requireInstaller() error {
	if m.installer == nil {
		return fmt.Errorf("no installer configured")
	}
	return nil
}
