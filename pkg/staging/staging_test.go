package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUniqueDirectories(t *testing.T) {
	root := t.TempDir()
	f := NewFactory(root, "rlib")

	a, err := f.Create()
	require.NoError(t, err)
	b, err := f.Create()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.DirExists(t, a)
	assert.DirExists(t, b)
	assert.Equal(t, root, filepath.Dir(a))
	assert.True(t, strings.HasPrefix(filepath.Base(a), "rlib"))
}

func TestCreateMakesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "staging")
	dir, err := (&Factory{Root: root}).Create()
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestCreateFailsOnUnwritableRoot(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := t.TempDir()
	require.NoError(t, os.Chmod(root, 0500))
	t.Cleanup(func() { _ = os.Chmod(root, 0755) })

	_, err := NewFactory(root, "").Create()
	assert.Error(t, err)
}
