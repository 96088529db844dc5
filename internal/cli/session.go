// internal/cli/session.go
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/arc-language/rlib"
	"github.com/arc-language/rlib/pkg/libpath"
	"github.com/arc-language/rlib/pkg/searchpath"
)

// withPath loads the session search path, runs fn and saves the path again,
// also when fn fails: installs are not rolled back.
func withPath(fn func(sp *searchpath.SearchPath) error) error {
	store := searchpath.NewStore(config.StateDir)
	sp, err := store.Load()
	if err != nil {
		return err
	}

	runErr := fn(sp)
	if err := store.Save(sp); err != nil {
		return errors.Join(runErr, fmt.Errorf("saving search path: %w", err))
	}
	return runErr
}

// withManager is withPath with a library manager wired from the config
func withManager(ctx context.Context, fn func(mgr *libpath.Manager) error) error {
	return withPath(func(sp *searchpath.SearchPath) error {
		mgr, err := rlib.New(ctx, config, sp)
		if err != nil {
			return err
		}
		if config.Debug {
			fmt.Printf("R version: %s\n", mgr.RVersion())
		}
		return fn(mgr)
	})
}
