// Package scripts renders the R helper script, the session profile and the
// cluster init scripts that put the shared library on every R session's
// search path.
package scripts

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"regexp"
	"strings"
	"text/template"

	"github.com/arc-language/rlib/pkg/core"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Values spliced into shell and R string literals
var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._@+-]+$`)
	tokenPattern    = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// Artifact names
const (
	LibsInstall         = "libs_install.r"
	RConfig             = "config.r"
	RStudioInit         = "rstudio_init_script.sh"
	RProfileSiteInit    = "rprofilesite_init_script.sh"
	DefaultRProfileSite = "/usr/lib/R/etc/Rprofile.site"
)

// Options are the values substituted into the templates
type Options struct {
	HomePath      string   // Mount home folder, e.g. /mnt/r_files_home
	MountPrefix   string   // Local fuse prefix, e.g. /dbfs
	LibDirName    string   // Library folder under the home path
	LibraryRoot   string   // Local library root; <MountPrefix><HomePath>/<LibDirName> when empty
	Username      string   // Cluster user owning the .Rprofile
	GitHubPAT     string   // Exported as GITHUB_PAT by config.r when set
	Repo          string   // Repository for plain installs
	VersionRepo   string   // Repository for version-pinned installs
	Helpers       []string // Packages required before a version-pinned install
	StagingPrefix string
	RProfileSite  string
}

// OptionsFromConfig builds Options from the rlib configuration
func OptionsFromConfig(cfg *core.Config) Options {
	return Options{
		HomePath:      cfg.Scripts.HomePath,
		MountPrefix:   cfg.Scripts.MountPrefix,
		LibDirName:    cfg.Scripts.LibDirName,
		LibraryRoot:   cfg.LibraryRoot,
		Username:      cfg.Scripts.Username,
		GitHubPAT:     cfg.Scripts.GitHubPAT,
		Repo:          cfg.Repo,
		VersionRepo:   cfg.VersionRepo,
		Helpers:       cfg.VersionHelpers,
		StagingPrefix: core.DefaultStagingPrefix,
	}
}

// Artifact is one rendered file and where it belongs
type Artifact struct {
	Name     string // Template name, e.g. "config.r"
	Location string // dbfs: URI
	Content  string
	Mode     uint32
}

// Generator renders artifacts
type Generator struct {
	opts Options
	tmpl *template.Template
}

// data is what the templates see
type data struct {
	Options
	LocalHome       string
	LibRoot         string
	LocalHelperPath string
	LocalConfigPath string
}

// NewGenerator validates opts and parses the templates
func NewGenerator(opts Options) (*Generator, error) {
	if opts.HomePath == "" {
		return nil, fmt.Errorf("scripts: home path is required")
	}
	if !strings.HasPrefix(opts.HomePath, "/") {
		return nil, fmt.Errorf("scripts: home path %q must be absolute", opts.HomePath)
	}
	if opts.Username != "" && !usernamePattern.MatchString(opts.Username) {
		return nil, fmt.Errorf("scripts: username %q has characters not allowed in a shell literal", opts.Username)
	}
	if opts.GitHubPAT != "" && !tokenPattern.MatchString(opts.GitHubPAT) {
		return nil, fmt.Errorf("scripts: github token must be letters, digits and underscores")
	}
	if opts.LibraryRoot != "" && strings.ContainsAny(opts.LibraryRoot, "\"'\n") {
		return nil, fmt.Errorf("scripts: library root %q has characters not allowed in an R literal", opts.LibraryRoot)
	}
	if opts.MountPrefix == "" {
		opts.MountPrefix = "/dbfs"
	}
	if opts.LibDirName == "" {
		opts.LibDirName = core.DefaultStagingPrefix
	}
	if opts.Repo == "" {
		opts.Repo = core.DefaultRepo
	}
	if opts.VersionRepo == "" {
		opts.VersionRepo = core.DefaultVersionRepo
	}
	if opts.StagingPrefix == "" {
		opts.StagingPrefix = core.DefaultStagingPrefix
	}
	if opts.RProfileSite == "" {
		opts.RProfileSite = DefaultRProfileSite
	}

	tmpl, err := template.New("scripts").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("scripts: parsing templates: %w", err)
	}

	return &Generator{opts: opts, tmpl: tmpl}, nil
}

// HelperLocation is where libs_install.r is stored
func (g *Generator) HelperLocation() string {
	return "dbfs:" + path.Join(g.opts.HomePath, "helper_functions", LibsInstall)
}

// ConfigLocation is where config.r is stored
func (g *Generator) ConfigLocation() string {
	return "dbfs:" + path.Join(g.opts.HomePath, "init", RConfig)
}

// InitLocation is where an init script is stored. Cluster init scripts
// must live in the root bucket, under the user's tmp folder.
func (g *Generator) InitLocation(name string) string {
	return "dbfs:" + path.Join("/tmp", g.opts.Username, "init", name)
}

func (g *Generator) data() data {
	home := path.Join(g.opts.MountPrefix, g.opts.HomePath)
	root := g.opts.LibraryRoot
	if root == "" {
		root = path.Join(home, g.opts.LibDirName)
	}
	return data{
		Options:         g.opts,
		LocalHome:       home,
		LibRoot:         root,
		LocalHelperPath: g.local(g.HelperLocation()),
		LocalConfigPath: g.local(g.ConfigLocation()),
	}
}

// local maps a dbfs: URI onto the fuse mount
func (g *Generator) local(uri string) string {
	return path.Join(g.opts.MountPrefix, strings.TrimPrefix(uri, "dbfs:"))
}

// Render renders one artifact by name
func (g *Generator) Render(name string) (*Artifact, error) {
	var location string
	var mode uint32 = 0644

	switch name {
	case LibsInstall:
		location = g.HelperLocation()
	case RConfig:
		location = g.ConfigLocation()
	case RStudioInit, RProfileSiteInit:
		if g.opts.Username == "" {
			return nil, fmt.Errorf("scripts: %s needs a username", name)
		}
		location = g.InitLocation(name)
		mode = 0755
	default:
		return nil, fmt.Errorf("scripts: unknown artifact %q", name)
	}

	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name+".tmpl", g.data()); err != nil {
		return nil, fmt.Errorf("scripts: rendering %s: %w", name, err)
	}

	return &Artifact{Name: name, Location: location, Content: buf.String(), Mode: mode}, nil
}

// Artifacts renders everything in dependency order: the helper script, the
// profile sourcing it, then the init scripts appending the profile.
func (g *Generator) Artifacts() ([]*Artifact, error) {
	var out []*Artifact
	for _, name := range []string{LibsInstall, RConfig, RStudioInit, RProfileSiteInit} {
		a, err := g.Render(name)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// WriteAll renders and writes every artifact, returning their locations
func (g *Generator) WriteAll(w Writer, overwrite bool) ([]string, error) {
	artifacts, err := g.Artifacts()
	if err != nil {
		return nil, err
	}

	var written []string
	for _, a := range artifacts {
		if err := w.Write(a.Location, a.Content, a.Mode, overwrite); err != nil {
			return written, fmt.Errorf("scripts: writing %s: %w", a.Name, err)
		}
		written = append(written, a.Location)
	}
	return written, nil
}
