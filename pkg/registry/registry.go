// pkg/registry/registry.go
package registry

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultManifest is the manifest file name looked up by "rlib sync"
const DefaultManifest = "rlib.toml"

// Kind tells how an entry is installed
type Kind string

const (
	KindRegistry Kind = "registry" // Latest version from a CRAN-like repo
	KindVersion  Kind = "version"  // Pinned version from a CRAN-like repo
	KindSource   Kind = "source"   // Git source repository
)

// Entry represents a single [[package]] table
type Entry struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Repo    string `toml:"repo"`
	Source  string `toml:"source"`
}

// Kind returns how the entry is installed
func (e *Entry) Kind() Kind {
	switch {
	case e.Source != "":
		return KindSource
	case e.Version != "":
		return KindVersion
	default:
		return KindRegistry
	}
}

// String returns the entry as shown in logs
func (e *Entry) String() string {
	switch e.Kind() {
	case KindSource:
		return e.Source
	case KindVersion:
		return e.Name + "@" + e.Version
	default:
		return e.Name
	}
}

func (e *Entry) validate() error {
	if e.Source != "" {
		if e.Version != "" {
			return fmt.Errorf("source entry %s cannot pin a version", e.Source)
		}
		return nil
	}
	if e.Name == "" {
		return fmt.Errorf("entry needs a name or a source")
	}
	return nil
}

// Manifest lists the packages a library root should hold, in install order
type Manifest struct {
	Packages []Entry `toml:"package"`
}

// Load reads and parses a manifest file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("registry: manifest %s not found", path)
		}
		return nil, fmt.Errorf("registry: reading manifest: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes manifest TOML and validates every entry
func Parse(data string) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(data, &m)
	if err != nil {
		return nil, fmt.Errorf("registry: failed to parse manifest: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("registry: unknown manifest key %q", undecoded[0].String())
	}

	for i := range m.Packages {
		if err := m.Packages[i].validate(); err != nil {
			return nil, fmt.Errorf("registry: package %d: %w", i+1, err)
		}
	}
	return &m, nil
}

// Installer is the library manager surface Apply drives
type Installer interface {
	InstallPackage(ctx context.Context, name, repo string) (string, error)
	InstallSpecificVersion(ctx context.Context, name, version, repo string) (string, error)
	InstallFromSourceRepo(ctx context.Context, ref string) (string, error)
}

// Result records where one entry was staged
type Result struct {
	Entry   Entry
	Staging string
}

// Apply installs every manifest entry in order and stops at the first
// failure. Results for the entries installed so far are returned either way.
func Apply(ctx context.Context, inst Installer, m *Manifest) ([]Result, error) {
	results := make([]Result, 0, len(m.Packages))

	for _, entry := range m.Packages {
		var (
			stage string
			err   error
		)
		switch entry.Kind() {
		case KindSource:
			stage, err = inst.InstallFromSourceRepo(ctx, entry.Source)
		case KindVersion:
			stage, err = inst.InstallSpecificVersion(ctx, entry.Name, entry.Version, entry.Repo)
		default:
			stage, err = inst.InstallPackage(ctx, entry.Name, entry.Repo)
		}
		if err != nil {
			return results, fmt.Errorf("registry: installing %s: %w", entry.String(), err)
		}
		results = append(results, Result{Entry: entry, Staging: stage})
	}

	return results, nil
}
