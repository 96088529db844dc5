package rlib

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/rlib/pkg/searchpath"
)

func TestNew(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LibraryRoot = t.TempDir()
	cfg.RVersion = "4.3.1"
	cfg.StagingDir = t.TempDir()

	sp := searchpath.New("/opt/site-library")
	mgr, err := New(context.Background(), cfg, sp)
	require.NoError(t, err)

	assert.Equal(t, "4.3.1", mgr.RVersion())
	assert.Equal(t, filepath.Join(cfg.LibraryRoot, "4.3.1"), mgr.GetUserLibPath())
	assert.Same(t, sp, mgr.Path())
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RVersion = "four"
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.RVersion = "4.3.1"
	cfg.CollisionPolicy = "merge"
	_, err = New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "collision policy")

	cfg = DefaultConfig()
	cfg.RVersion = "4.3.1"
	cfg.Exclude = []string{"[unclosed"}
	_, err = New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "exclude pattern")
}

func TestNewInstallerRoutes(t *testing.T) {
	inst := NewInstaller(DefaultConfig())
	assert.Equal(t, "cran+github", inst.Name())
}

func TestErrorsAlias(t *testing.T) {
	err := &Error{Op: "install", Package: "foo", Err: ErrPackageNotFound}
	assert.ErrorIs(t, err, ErrPackageNotFound)
	assert.Equal(t, "install foo: package not found", err.Error())
}

func TestNewLoggerFollowsDebug(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, io.Discard, newLogger(cfg).Writer())

	cfg.Debug = true
	assert.Equal(t, os.Stdout, newLogger(cfg).Writer())

	custom := log.New(io.Discard, "[X] ", 0)
	cfg.Logger = custom
	assert.Same(t, custom, newLogger(cfg))
}
