package libpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/rlib/pkg/core"
)

func TestFindFirstEntryWins(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	require.NoError(t, writePackage(a, "cli", "3.6.2"))
	require.NoError(t, writePackage(b, "cli", "3.4.0"))

	f := newFixture(t, b, a)
	pkg, err := f.mgr.Find("cli")
	require.NoError(t, err)
	assert.Equal(t, "3.4.0", pkg.Version)
	assert.Equal(t, b, pkg.LibPath)
	assert.NotEmpty(t, pkg.Built)
}

func TestFindMissing(t *testing.T) {
	f := newFixture(t, t.TempDir())
	_, err := f.mgr.Find("ghost")
	assert.ErrorIs(t, err, core.ErrPackageNotFound)
}

func TestList(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	require.NoError(t, writePackage(a, "rlang", "1.1.0"))
	require.NoError(t, writePackage(a, "cli", "3.6.2"))
	require.NoError(t, writePackage(b, "cli", "3.4.0"))
	require.NoError(t, os.MkdirAll(filepath.Join(b, "00LOCK-cli"), 0755))

	f := newFixture(t, a, b, filepath.Join(t.TempDir(), "missing"))
	pkgs, err := f.mgr.List()
	require.NoError(t, err)
	require.Len(t, pkgs, 3)

	assert.Equal(t, "cli", pkgs[0].Name)
	assert.False(t, pkgs[0].Shadowed)
	assert.Equal(t, "rlang", pkgs[1].Name)
	assert.Equal(t, "cli", pkgs[2].Name)
	assert.Equal(t, b, pkgs[2].LibPath)
	assert.True(t, pkgs[2].Shadowed)
}
