// pkg/cran/resolve.go
package cran

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arc-language/rlib/pkg/core"
)

// Resolve returns the missing hard dependencies of target in install order
// (every package after its own dependencies). target itself is excluded.
// Bundled packages and names for which installed returns true are skipped.
func Resolve(idx *Index, target *PackageInfo, installed func(string) bool) ([]*PackageInfo, error) {
	var plan []*PackageInfo
	state := make(map[string]int) // 0 unseen, 1 visiting, 2 done
	state[target.Package] = 1

	var visit func(name string) error
	visit = func(name string) error {
		if IsBundled(name) || state[name] != 0 {
			// Cycles through LinkingTo happen in practice; the first visit wins
			return nil
		}
		if installed != nil && installed(name) {
			state[name] = 2
			return nil
		}

		info, ok := idx.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: dependency %s not in %s", core.ErrPackageNotFound, name, idx.Repo)
		}

		state[name] = 1
		for _, dep := range info.Requirements() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = 2
		plan = append(plan, info)
		return nil
	}

	for _, dep := range target.Requirements() {
		if err := visit(dep); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// installedIn returns a predicate reporting whether a package directory
// with a DESCRIPTION exists in any of libs
func installedIn(libs []string) func(string) bool {
	return func(name string) bool {
		_, ok := FindInstalled(libs, name)
		return ok
	}
}

// FindInstalled returns the first library in libs that holds name
func FindInstalled(libs []string, name string) (string, bool) {
	for _, lib := range libs {
		if lib == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(lib, name, "DESCRIPTION")); err == nil {
			return lib, true
		}
	}
	return "", false
}
