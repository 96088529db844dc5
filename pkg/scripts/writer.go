// pkg/scripts/writer.go
package scripts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrExists is returned when a file exists and overwrite is false
var ErrExists = errors.New("file already exists")

// Writer stores rendered artifacts
type Writer interface {
	Write(location, content string, mode uint32, overwrite bool) error
}

// FSWriter writes through the local fuse mount. "dbfs:/x" maps to
// <Mount>/x; any other location is used as a local path.
type FSWriter struct {
	Mount string // Defaults to /dbfs
}

// NewFSWriter creates a writer for mount
func NewFSWriter(mount string) *FSWriter {
	return &FSWriter{Mount: mount}
}

// Resolve returns the local path for location
func (w *FSWriter) Resolve(location string) string {
	rest, ok := strings.CutPrefix(location, "dbfs:")
	if !ok {
		return filepath.FromSlash(location)
	}
	mount := w.Mount
	if mount == "" {
		mount = "/dbfs"
	}
	return filepath.Join(mount, filepath.FromSlash(rest))
}

// Write stores content at location, creating parent directories
func (w *FSWriter) Write(location, content string, mode uint32, overwrite bool) error {
	p := w.Resolve(location)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(p, flags, fs.FileMode(mode))
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, p)
		}
		return err
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Chmod(p, fs.FileMode(mode))
}
