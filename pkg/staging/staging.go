// Package staging creates the uniquely named temporary directories that
// installs write into before their contents are relocated.
package staging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Factory creates staging directories under Root
type Factory struct {
	Root   string // Parent directory; os.TempDir() when empty
	Prefix string // Name prefix; "rlib" when empty
}

// NewFactory creates a staging factory
func NewFactory(root, prefix string) *Factory {
	return &Factory{Root: root, Prefix: prefix}
}

// Create makes a fresh staging directory and returns its path. The
// directory is created exclusively so two sessions never share one.
func (f *Factory) Create() (string, error) {
	root := f.Root
	if root == "" {
		root = os.TempDir()
	}
	prefix := f.Prefix
	if prefix == "" {
		prefix = "rlib"
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return "", fmt.Errorf("creating staging root: %w", err)
	}

	dir := filepath.Join(root, prefix+uuid.NewString())
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	return dir, nil
}
