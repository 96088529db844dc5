// pkg/libpath/library.go
package libpath

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arc-language/rlib/pkg/core"
	"github.com/arc-language/rlib/pkg/cran"
)

// Find returns the package that a lookup by name resolves to: the first
// search-path entry holding <entry>/<name>/DESCRIPTION.
func (m *Manager) Find(name string) (*core.Package, error) {
	for _, lib := range m.path.Entries() {
		pkg, err := readPackage(lib, name)
		if err != nil {
			continue
		}
		return pkg, nil
	}
	return nil, &core.Error{Op: "find", Package: name, Err: core.ErrPackageNotFound}
}

// List returns every installed package across the search path in path
// order. Packages hidden by an earlier entry are marked Shadowed.
func (m *Manager) List() ([]*core.Package, error) {
	var pkgs []*core.Package
	seen := make(map[string]bool)

	for _, lib := range m.path.Entries() {
		entries, err := os.ReadDir(lib)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", lib, err)
		}

		var found []*core.Package
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			pkg, err := readPackage(lib, e.Name())
			if err != nil {
				continue
			}
			found = append(found, pkg)
		}
		sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })

		for _, pkg := range found {
			pkg.Shadowed = seen[pkg.Name]
			seen[pkg.Name] = true
			pkgs = append(pkgs, pkg)
		}
	}

	return pkgs, nil
}

func readPackage(lib, name string) (*core.Package, error) {
	desc, err := cran.ReadDescription(filepath.Join(lib, name, "DESCRIPTION"))
	if err != nil {
		return nil, err
	}
	if desc.Package == "" {
		desc.Package = name
	}
	return &core.Package{
		Name:    desc.Package,
		Version: desc.Version,
		LibPath: lib,
		Built:   desc.Built,
	}, nil
}
