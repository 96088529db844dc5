package copytree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": Overwrite, "overwrite": Overwrite, "skip": Skip, "error": Fail} {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParsePolicy("merge")
	assert.Error(t, err)
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New(Overwrite, []string{"[unclosed"}, nil)
	assert.Error(t, err)
}

func TestCopyMergesTrees(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "foo", "DESCRIPTION"), "Package: foo\n")
	writeFile(t, filepath.Join(src, "foo", "R", "foo"), "code")
	writeFile(t, filepath.Join(dst, "bar", "DESCRIPTION"), "Package: bar\n")

	c, err := New(Overwrite, nil, nil)
	require.NoError(t, err)

	stats, err := c.Copy(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 2, stats.Dirs)

	assert.Equal(t, "Package: foo\n", readFile(t, filepath.Join(dst, "foo", "DESCRIPTION")))
	assert.Equal(t, "code", readFile(t, filepath.Join(dst, "foo", "R", "foo")))
	assert.Equal(t, "Package: bar\n", readFile(t, filepath.Join(dst, "bar", "DESCRIPTION")))
}

func TestCopyCreatesDestination(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "a", "b")
	writeFile(t, filepath.Join(src, "pkg", "file"), "x")

	c := &Copier{}
	_, err := c.Copy(src, dst)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dst, "pkg", "file"))
}

func TestCopyCollisionPolicies(t *testing.T) {
	tests := []struct {
		policy  Policy
		want    string
		wantErr bool
	}{
		{Overwrite, "new", false},
		{Skip, "old", false},
		{Fail, "old", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			src, dst := t.TempDir(), t.TempDir()
			writeFile(t, filepath.Join(src, "pkg", "file"), "new")
			writeFile(t, filepath.Join(dst, "pkg", "file"), "old")

			c, err := New(tt.policy, nil, nil)
			require.NoError(t, err)

			_, err = c.Copy(src, dst)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConflict)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, readFile(t, filepath.Join(dst, "pkg", "file")))
		})
	}
}

func TestCopyReplacesFileWithDirectory(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "pkg", "inner"), "x")
	writeFile(t, filepath.Join(dst, "pkg"), "stale file")

	c, err := New(Overwrite, nil, nil)
	require.NoError(t, err)

	_, err = c.Copy(src, dst)
	require.NoError(t, err)
	assert.Equal(t, "x", readFile(t, filepath.Join(dst, "pkg", "inner")))
}

func TestCopyExcludes(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "00LOCK-foo", "foo", "DESCRIPTION"), "lock")
	writeFile(t, filepath.Join(src, "foo", "DESCRIPTION"), "Package: foo\n")

	c, err := New(Overwrite, []string{"**/00LOCK*"}, nil)
	require.NoError(t, err)

	stats, err := c.Copy(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Excluded)
	assert.NoDirExists(t, filepath.Join(dst, "00LOCK-foo"))
	assert.FileExists(t, filepath.Join(dst, "foo", "DESCRIPTION"))
}

func TestCopyPreservesSymlinksAndModes(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "pkg", "bin", "tool"), "#!/bin/sh\n")
	require.NoError(t, os.Chmod(filepath.Join(src, "pkg", "bin", "tool"), 0755))
	require.NoError(t, os.Symlink("tool", filepath.Join(src, "pkg", "bin", "alias")))

	c, err := New(Overwrite, nil, nil)
	require.NoError(t, err)

	stats, err := c.Copy(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Symlinks)

	link, err := os.Readlink(filepath.Join(dst, "pkg", "bin", "alias"))
	require.NoError(t, err)
	assert.Equal(t, "tool", link)

	info, err := os.Stat(filepath.Join(dst, "pkg", "bin", "tool"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestCopyMissingSource(t *testing.T) {
	c, err := New(Overwrite, nil, nil)
	require.NoError(t, err)

	_, err = c.Copy(filepath.Join(t.TempDir(), "missing"), t.TempDir())
	assert.Error(t, err)
}

func TestCopyEmptySource(t *testing.T) {
	c, err := New(Overwrite, nil, nil)
	require.NoError(t, err)

	stats, err := c.Copy(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, *stats)
}

func TestCopyNeverReplacesDirectoryWithFile(t *testing.T) {
	for _, policy := range []Policy{Overwrite, Fail} {
		t.Run(string(policy), func(t *testing.T) {
			src, dst := t.TempDir(), t.TempDir()
			writeFile(t, filepath.Join(src, "foo"), "stray file")
			writeFile(t, filepath.Join(dst, "foo", "DESCRIPTION"), "Package: foo\n")
			require.NoError(t, os.MkdirAll(filepath.Join(dst, "foo", "R"), 0755))

			c, err := New(policy, nil, nil)
			require.NoError(t, err)

			_, err = c.Copy(src, dst)
			assert.ErrorIs(t, err, ErrConflict)
			assert.Equal(t, "Package: foo\n", readFile(t, filepath.Join(dst, "foo", "DESCRIPTION")))
			assert.DirExists(t, filepath.Join(dst, "foo", "R"))
		})
	}
}

func TestCopySkipKeepsDirectoryOverFile(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "foo"), "stray file")
	writeFile(t, filepath.Join(dst, "foo", "DESCRIPTION"), "Package: foo\n")

	c, err := New(Skip, nil, nil)
	require.NoError(t, err)

	stats, err := c.Copy(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
	assert.FileExists(t, filepath.Join(dst, "foo", "DESCRIPTION"))
}
