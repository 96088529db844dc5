// pkg/cran/types.go
package cran

import (
	"log"
	"sync"
	"time"

	"github.com/arc-language/rlib/pkg/rcmd"
)

// Config configures the CRAN package manager
type Config struct {
	Repo          string // Default: https://cloud.r-project.org
	ContribPath   string // Default: src/contrib
	DownloadDir   string // Where tarballs are downloaded; a temp dir when empty
	CacheDuration time.Duration
	Timeout       time.Duration
	Debug         bool        // Enable debug logging
	Logger        *log.Logger // Custom logger (optional)
	Runner        rcmd.Runner // Runs R CMD INSTALL; exec-based when nil
}

// PackageManager installs packages from CRAN-like repositories
type PackageManager struct {
	client *Client
	config *Config
	logger *log.Logger
	runner rcmd.Runner

	mu      sync.Mutex
	indexes map[string]*Index // key: repo URL
}

// PackageInfo is one stanza of a PACKAGES index or a DESCRIPTION file
type PackageInfo struct {
	Package          string
	Version          string
	Title            string
	Depends          []string
	Imports          []string
	LinkingTo        []string
	Suggests         []string
	License          string
	MD5sum           string
	NeedsCompilation string
	Path             string // Subdirectory of the contrib URL (optional)
	Built            string // Present for binary builds
	RemoteURL        string // Set by source installs
}

// Requirements returns the hard dependencies (Depends, Imports, LinkingTo)
func (p *PackageInfo) Requirements() []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range [][]string{p.Depends, p.Imports, p.LinkingTo} {
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// IsBinary reports whether the package is a pre-built binary
func (p *PackageInfo) IsBinary() bool {
	return p.Built != ""
}

// Index is a parsed PACKAGES file
type Index struct {
	Repo      string
	packages  map[string]*PackageInfo
	fetchedAt time.Time
}

// NewIndex builds an index from parsed stanzas
func NewIndex(repo string, pkgs []*PackageInfo) *Index {
	idx := &Index{
		Repo:      repo,
		packages:  make(map[string]*PackageInfo, len(pkgs)),
		fetchedAt: time.Now(),
	}
	for _, p := range pkgs {
		idx.packages[p.Package] = p
	}
	return idx
}

// Lookup returns the index entry for name
func (idx *Index) Lookup(name string) (*PackageInfo, bool) {
	p, ok := idx.packages[name]
	return p, ok
}

// Len returns the number of packages in the index
func (idx *Index) Len() int {
	return len(idx.packages)
}
