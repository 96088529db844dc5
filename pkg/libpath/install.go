// pkg/libpath/install.go
package libpath

import (
	"context"

	"github.com/arc-language/rlib/pkg/core"
)

// InstallPackage installs name (and its dependencies) from repo into a fresh
// staging directory, copies the result into the canonical root and returns
// the staging directory. The staging directory is on the search path only
// while the installer runs. Failures are not rolled back.
func (m *Manager) InstallPackage(ctx context.Context, name, repo string) (string, error) {
	if err := m.requireInstaller(); err != nil {
		return "", err
	}
	if repo == "" {
		repo = m.config.Repo
	}

	m.logger.Printf("Installing %s from %s", name, repo)

	// 1. Canonical path
	m.logger.Printf("Step 1: Setting canonical library path...")
	canonical, err := m.SetUserLibPath("")
	if err != nil {
		return "", err
	}

	// 2. Staging
	m.logger.Printf("Step 2: Creating staging directory...")
	stage, err := m.staging.Create()
	if err != nil {
		return "", &core.Error{Op: "install", Package: name, Err: err}
	}
	m.path.Prepend(stage)
	m.logger.Printf("  ✓ Staging at %s", stage)

	// 3. Install
	m.logger.Printf("Step 3: Installing %s...", name)
	err = m.installer.Install(ctx, &core.InstallRequest{
		Name:         name,
		Repo:         repo,
		Destination:  stage,
		Dependencies: true,
		LibPaths:     m.path.Entries(),
	})
	if err != nil {
		return "", &core.Error{Op: "install", Package: name, Err: err}
	}

	// 4. Relocate
	m.logger.Printf("Step 4: Copying %s into %s...", stage, canonical)
	if err := m.relocate(stage, canonical); err != nil {
		return "", &core.Error{Op: "install", Package: name, Err: err}
	}

	m.path.Remove(stage)
	m.logger.Printf("✓ Installed %s", name)
	return stage, nil
}

// InstallFromSourceRepo installs the package at ref (owner/repo[/subdir][@ref]
// or a git URL) through a version-qualified directory inside a fresh staging
// directory, copies it into the canonical root and returns the staging
// directory.
func (m *Manager) InstallFromSourceRepo(ctx context.Context, ref string) (string, error) {
	if err := m.requireInstaller(); err != nil {
		return "", err
	}

	m.logger.Printf("Installing from source %s", ref)

	// 1. Staging, qualified by version
	m.logger.Printf("Step 1: Creating staging directory...")
	stage, err := m.staging.Create()
	if err != nil {
		return "", &core.Error{Op: "install-source", Package: ref, Err: err}
	}
	target, err := m.SetUserLibPath(stage)
	if err != nil {
		return "", err
	}

	// 2. Install
	m.logger.Printf("Step 2: Installing %s into %s...", ref, target)
	err = m.installer.Install(ctx, &core.InstallRequest{
		Source:       ref,
		Destination:  target,
		Dependencies: true,
		LibPaths:     m.path.Entries(),
	})
	if err != nil {
		return "", &core.Error{Op: "install-source", Package: ref, Err: err}
	}

	// 3. Canonical path
	m.logger.Printf("Step 3: Setting canonical library path...")
	canonical, err := m.SetUserLibPath("")
	if err != nil {
		return "", err
	}

	// 4. Relocate
	m.logger.Printf("Step 4: Copying %s into %s...", target, canonical)
	if err := m.relocate(target, canonical); err != nil {
		return "", &core.Error{Op: "install-source", Package: ref, Err: err}
	}

	m.path.Remove(target)
	m.logger.Printf("✓ Installed %s", ref)
	return stage, nil
}

// InstallSpecificVersion installs name at exactly version. The helper
// packages are installed into the canonical root first when missing. The
// pinned install runs with the search path temporarily replaced by the
// staging directory alone; the previous path is restored afterwards, even on
// failure. Unlike the other installs this one does not remove the staging
// entry itself.
func (m *Manager) InstallSpecificVersion(ctx context.Context, name, version, repo string) (string, error) {
	if err := m.requireInstaller(); err != nil {
		return "", err
	}
	if repo == "" {
		repo = m.config.VersionRepo
	}

	m.logger.Printf("Installing %s %s from %s", name, version, repo)

	// 1. Helpers
	m.logger.Printf("Step 1: Checking helper packages...")
	if err := m.ensureHelpers(ctx, repo); err != nil {
		return "", err
	}

	// 2. Canonical path
	m.logger.Printf("Step 2: Setting canonical library path...")
	canonical, err := m.SetUserLibPath("")
	if err != nil {
		return "", err
	}

	// 3. Staging
	m.logger.Printf("Step 3: Creating staging directory...")
	stage, err := m.staging.Create()
	if err != nil {
		return "", &core.Error{Op: "install-version", Package: name, Err: err}
	}

	// 4. Pinned install under a scoped path
	m.logger.Printf("Step 4: Installing %s %s into %s...", name, version, stage)
	err = m.path.With([]string{stage}, func() error {
		return m.installer.Install(ctx, &core.InstallRequest{
			Name:         name,
			Version:      version,
			Repo:         repo,
			Destination:  stage,
			Dependencies: true,
			LibPaths:     m.path.Entries(),
		})
	})
	if err != nil {
		return "", &core.Error{Op: "install-version", Package: name, Err: err}
	}

	// 5. Relocate
	m.logger.Printf("Step 5: Copying %s into %s...", stage, canonical)
	if err := m.relocate(stage, canonical); err != nil {
		return "", &core.Error{Op: "install-version", Package: name, Err: err}
	}

	m.logger.Printf("✓ Installed %s %s", name, version)
	return stage, nil
}

// ensureHelpers installs every configured helper package not found on the
// search path from repo
func (m *Manager) ensureHelpers(ctx context.Context, repo string) error {
	for _, helper := range m.config.Helpers {
		if _, err := m.Find(helper); err == nil {
			m.logger.Printf("  ✓ %s present", helper)
			continue
		}

		m.logger.Printf("  ⚠️  %s missing, installing", helper)
		if _, err := m.InstallPackage(ctx, helper, repo); err != nil {
			return err
		}
	}
	return nil
}
