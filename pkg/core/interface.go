// pkg/core/interface.go
package core

import (
	"context"
	"fmt"
)

// Installer is the external package-installer capability. Implementations
// install a single package (and optionally its dependencies) into
// Destination and must not touch any other library directory.
type Installer interface {
	// Name returns the installer name (e.g., "cran", "github")
	Name() string

	// Install installs the requested package into req.Destination
	Install(ctx context.Context, req *InstallRequest) error
}

// InstallRequest describes one install into a library directory
type InstallRequest struct {
	Name         string   // Package name (registry installs)
	Version      string   // Pinned version; empty means latest
	Repo         string   // CRAN-like repository URL
	Source       string   // Source repository reference (e.g., "owner/repo@ref")
	Destination  string   // Library directory that receives the package
	Dependencies bool     // Whether to resolve and install dependencies
	LibPaths     []string // Current search path, consulted for already-installed packages
}

// Validate checks that the request names exactly one package source
func (r *InstallRequest) Validate() error {
	if r.Destination == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidPackage)
	}
	if r.Name == "" && r.Source == "" {
		return fmt.Errorf("%w: name or source is required", ErrInvalidPackage)
	}
	if r.Name != "" && r.Source != "" {
		return fmt.Errorf("%w: name and source are mutually exclusive", ErrInvalidPackage)
	}
	return nil
}

// Label returns a human readable identifier for log lines
func (r *InstallRequest) Label() string {
	if r.Source != "" {
		return r.Source
	}
	if r.Version != "" {
		return r.Name + "@" + r.Version
	}
	return r.Name
}

// InstallerFunc adapts a function to the Installer interface
type InstallerFunc func(ctx context.Context, req *InstallRequest) error

// Name returns "func"
func (f InstallerFunc) Name() string { return "func" }

// Install calls f
func (f InstallerFunc) Install(ctx context.Context, req *InstallRequest) error {
	return f(ctx, req)
}

// Dispatcher routes requests with a Source to the source installer and
// everything else to the registry installer.
type Dispatcher struct {
	Registry Installer
	Source   Installer
}

// Name returns the backend names joined
func (d *Dispatcher) Name() string {
	return fmt.Sprintf("%s+%s", nameOf(d.Registry), nameOf(d.Source))
}

// Install forwards to the matching installer
func (d *Dispatcher) Install(ctx context.Context, req *InstallRequest) error {
	if req.Source != "" {
		if d.Source == nil {
			return fmt.Errorf("no source installer configured")
		}
		return d.Source.Install(ctx, req)
	}
	if d.Registry == nil {
		return fmt.Errorf("no registry installer configured")
	}
	return d.Registry.Install(ctx, req)
}

func nameOf(i Installer) string {
	if i == nil {
		return "none"
	}
	return i.Name()
}
