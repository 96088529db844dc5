package scripts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/rlib/pkg/core"
)

func testOptions() Options {
	return Options{
		HomePath:    "/mnt/r_files_home",
		MountPrefix: "/dbfs",
		LibDirName:  "rlib",
		Username:    "ana@example.com",
		Helpers:     []string{"devtools", "withr"},
	}
}

func TestLocations(t *testing.T) {
	g, err := NewGenerator(testOptions())
	require.NoError(t, err)

	assert.Equal(t, "dbfs:/mnt/r_files_home/helper_functions/libs_install.r", g.HelperLocation())
	assert.Equal(t, "dbfs:/mnt/r_files_home/init/config.r", g.ConfigLocation())
	assert.Equal(t, "dbfs:/tmp/ana@example.com/init/rstudio_init_script.sh", g.InitLocation(RStudioInit))
}

func TestRenderLibsInstall(t *testing.T) {
	g, err := NewGenerator(testOptions())
	require.NoError(t, err)

	a, err := g.Render(LibsInstall)
	require.NoError(t, err)
	assert.Contains(t, a.Content, `setUserLibPath <- function(usrLibPath = "/dbfs/mnt/r_files_home/rlib")`)
	assert.Contains(t, a.Content, `file.path("/dbfs/mnt/r_files_home/rlib", getRversion())`)
	assert.Contains(t, a.Content, `repo = "https://cloud.r-project.org"`)
	assert.Contains(t, a.Content, `repo = "https://cran.us.r-project.org"`)
	assert.Contains(t, a.Content, `for (helper in c("devtools", "withr"))`)
	assert.Contains(t, a.Content, `tempfile(pattern = "rlib")`)
	assert.NotContains(t, a.Content, "<no value>")
}

func TestRenderConfig(t *testing.T) {
	opts := testOptions()
	g, err := NewGenerator(opts)
	require.NoError(t, err)

	a, err := g.Render(RConfig)
	require.NoError(t, err)
	assert.Contains(t, a.Content, `setwd("/dbfs/mnt/r_files_home")`)
	assert.Contains(t, a.Content, `source('/dbfs/mnt/r_files_home/helper_functions/libs_install.r')`)
	assert.NotContains(t, a.Content, "GITHUB_PAT")

	opts.GitHubPAT = "ghp_example"
	g, err = NewGenerator(opts)
	require.NoError(t, err)
	a, err = g.Render(RConfig)
	require.NoError(t, err)
	assert.Contains(t, a.Content, `Sys.setenv("GITHUB_PAT" = "ghp_example")`)
}

func TestRenderInitScripts(t *testing.T) {
	g, err := NewGenerator(testOptions())
	require.NoError(t, err)

	a, err := g.Render(RStudioInit)
	require.NoError(t, err)
	assert.Equal(t, uint32(0755), a.Mode)
	assert.Contains(t, a.Content, "#!/bin/bash")
	assert.Contains(t, a.Content, `USER="ana@example.com"`)
	assert.Contains(t, a.Content, "cat /dbfs/mnt/r_files_home/init/config.r >> /home/$USER/.Rprofile")

	a, err = g.Render(RProfileSiteInit)
	require.NoError(t, err)
	assert.Contains(t, a.Content, "cat /dbfs/mnt/r_files_home/init/config.r >> /usr/lib/R/etc/Rprofile.site")
}

func TestRenderErrors(t *testing.T) {
	_, err := NewGenerator(Options{})
	assert.Error(t, err)

	_, err = NewGenerator(Options{HomePath: "relative"})
	assert.Error(t, err)

	opts := testOptions()
	opts.Username = ""
	g, err := NewGenerator(opts)
	require.NoError(t, err)

	_, err = g.Render(RStudioInit)
	assert.ErrorContains(t, err, "username")
	_, err = g.Render("nope.r")
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Scripts.Username = "bo"

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, "/mnt/r_files_home", opts.HomePath)
	assert.Equal(t, "bo", opts.Username)
	assert.Equal(t, []string{"devtools", "withr"}, opts.Helpers)
}

func TestWriteAll(t *testing.T) {
	mount := t.TempDir()
	g, err := NewGenerator(testOptions())
	require.NoError(t, err)
	w := NewFSWriter(mount)

	written, err := g.WriteAll(w, false)
	require.NoError(t, err)
	require.Len(t, written, 4)
	assert.Equal(t, g.HelperLocation(), written[0])

	for _, loc := range written {
		assert.FileExists(t, w.Resolve(loc))
	}
	info, err := os.Stat(filepath.Join(mount, "tmp", "ana@example.com", "init", RProfileSiteInit))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	// Refuses to clobber
	_, err = g.WriteAll(w, false)
	assert.ErrorIs(t, err, ErrExists)

	written, err = g.WriteAll(w, true)
	require.NoError(t, err)
	assert.Len(t, written, 4)
}

func TestRenderUsesConfiguredLibraryRoot(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.LibraryRoot = "/dbfs/mnt/team/shared-rlib"
	cfg.Scripts.Username = "ana"

	g, err := NewGenerator(OptionsFromConfig(cfg))
	require.NoError(t, err)

	a, err := g.Render(LibsInstall)
	require.NoError(t, err)
	assert.Contains(t, a.Content, `setUserLibPath <- function(usrLibPath = "/dbfs/mnt/team/shared-rlib")`)
	assert.Contains(t, a.Content, `file.path("/dbfs/mnt/team/shared-rlib", getRversion())`)
	assert.NotContains(t, a.Content, "/dbfs/mnt/r_files_home/rlib")
}

func TestRenderInstallFunctionNames(t *testing.T) {
	g, err := NewGenerator(testOptions())
	require.NoError(t, err)

	a, err := g.Render(LibsInstall)
	require.NoError(t, err)
	for _, fn := range []string{
		"databricks.install.packages <- function(",
		"databricks.install.github <- function(",
		"databricks.install_version <- function(",
		"rlib.install.packages <- databricks.install.packages",
	} {
		assert.Contains(t, a.Content, fn)
	}
	assert.Contains(t, a.Content, "databricks.install.packages(helper, repo = repo)")
}

func TestNewGeneratorRejectsUnsafeLiterals(t *testing.T) {
	tests := map[string]func(*Options){
		"quoted username":  func(o *Options) { o.Username = `ana"; rm -rf /; "` },
		"spaced username":  func(o *Options) { o.Username = "ana smith" },
		"quoted token":     func(o *Options) { o.GitHubPAT = `ghp_x")` },
		"quoted lib root":  func(o *Options) { o.LibraryRoot = `/dbfs/it's` },
		"newline lib root": func(o *Options) { o.LibraryRoot = "/dbfs/a\nb" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			opts := testOptions()
			mutate(&opts)
			_, err := NewGenerator(opts)
			assert.Error(t, err)
		})
	}
}
