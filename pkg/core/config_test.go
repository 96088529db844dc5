package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultLibraryRoot, cfg.LibraryRoot)
	assert.Equal(t, DefaultRepo, cfg.Repo)
	assert.Equal(t, []string{"devtools", "withr"}, cfg.VersionHelpers)
}

func TestLoadConfigKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "library_root: /mnt/shared/rlib\ntimeout: 90s\ncollision_policy: skip\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/shared/rlib", cfg.LibraryRoot)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, "skip", cfg.CollisionPolicy)
	assert.Equal(t, DefaultVersionRepo, cfg.VersionRepo)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("library_root: [unterminated"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveThenLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.RVersion = "4.3.1"
	cfg.Scripts.Username = "someone@example.com"

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "4.3.1", loaded.RVersion)
	assert.Equal(t, "someone@example.com", loaded.Scripts.Username)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("RLIB_LIBRARY_ROOT", "/tmp/shared")
	t.Setenv("RLIB_R_VERSION", "4.2.0")
	t.Setenv("RLIB_DEBUG", "true")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "/tmp/shared", cfg.LibraryRoot)
	assert.Equal(t, "4.2.0", cfg.RVersion)
	assert.True(t, cfg.Debug)
	assert.Equal(t, DefaultRepo, cfg.Repo)
}

func TestApplyEnvRejectsBadBool(t *testing.T) {
	t.Setenv("RLIB_DEBUG", "maybe")

	cfg := DefaultConfig()
	assert.Error(t, cfg.ApplyEnv())
}
