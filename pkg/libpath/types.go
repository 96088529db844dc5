// pkg/libpath/types.go
package libpath

import (
	"log"

	"github.com/arc-language/rlib/pkg/copytree"
	"github.com/arc-language/rlib/pkg/core"
	"github.com/arc-language/rlib/pkg/searchpath"
	"github.com/arc-language/rlib/pkg/staging"
)

// Config configures a Manager
type Config struct {
	Root        string         // Canonical library root; version-qualified on use
	RVersion    string         // Runtime version used as the last path element
	Repo        string         // Repository for plain installs
	VersionRepo string         // Repository for version-pinned installs
	Helpers     []string       // Packages required before a version-pinned install
	Installer   core.Installer // Installs one package into a directory
	Copier      *copytree.Copier
	Staging     *staging.Factory

	// Debug enables verbose logging
	Debug bool

	// Logger for custom logging
	Logger *log.Logger
}

// Manager keeps the session search path and moves installs from isolated
// staging directories into the shared canonical root.
type Manager struct {
	config    *Config
	path      *searchpath.SearchPath
	installer core.Installer
	copier    *copytree.Copier
	staging   *staging.Factory
	logger    *log.Logger
}
