// Package copytree merges one directory tree into another with an explicit
// collision policy. It replaces shelling out to "cp -r src/* dst".
package copytree

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Policy decides what happens when a file already exists at the destination
type Policy string

const (
	// Overwrite replaces existing files (last writer wins)
	Overwrite Policy = "overwrite"
	// Skip keeps existing destination files
	Skip Policy = "skip"
	// Fail aborts the copy on the first collision
	Fail Policy = "error"
)

// ErrConflict is returned under the Fail policy when a destination file exists
var ErrConflict = errors.New("destination already exists")

// ParsePolicy converts a config string to a Policy. Empty means Overwrite.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", Overwrite:
		return Overwrite, nil
	case Skip:
		return Skip, nil
	case Fail:
		return Fail, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q (want overwrite, skip or error)", s)
	}
}

// Stats counts what a copy did
type Stats struct {
	Files    int
	Dirs     int
	Symlinks int
	Skipped  int
	Excluded int
}

// Copier copies directory trees
type Copier struct {
	Policy  Policy
	Exclude []string // doublestar patterns on slash-separated relative paths
	Logger  *log.Logger
}

// New creates a Copier with the given policy and exclude patterns
func New(policy Policy, exclude []string, logger *log.Logger) (*Copier, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Copier{Policy: policy, Exclude: exclude, Logger: logger}, nil
}

// Copy merges the children of src into dst. dst is created when missing.
func (c *Copier) Copy(src, dst string) (*Stats, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", src)
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, fmt.Errorf("creating destination: %w", err)
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}

	c.Logger.Printf("Copying %s -> %s (policy: %s)", src, dst, c.policy())

	stats := &Stats{}
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if c.excluded(filepath.ToSlash(rel)) {
			stats.Excluded++
			c.Logger.Printf("  excluded %s", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			return c.copySymlink(path, target, stats)
		case d.IsDir():
			return c.copyDir(path, target, stats)
		case d.Type().IsRegular():
			return c.copyFile(path, target, stats)
		default:
			c.Logger.Printf("  ⚠️  skipping unsupported file type for %s", rel)
			return nil
		}
	})
	if err != nil {
		return stats, err
	}

	c.Logger.Printf("✓ Copied %d files, %d directories, %d symlinks (%d skipped, %d excluded)",
		stats.Files, stats.Dirs, stats.Symlinks, stats.Skipped, stats.Excluded)
	return stats, nil
}

func (c *Copier) copyDir(src, dst string, stats *Stats) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	existing, err := os.Lstat(dst)
	if err == nil && !existing.IsDir() {
		// A file or link sits where a directory belongs
		if err := c.resolveCollision(dst); err != nil {
			return err
		}
		if c.policy() == Skip {
			stats.Skipped++
			return filepath.SkipDir
		}
	} else if err != nil && !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(dst, info.Mode().Perm()|0700); err != nil {
		return fmt.Errorf("creating directory %s: %w", dst, err)
	}
	stats.Dirs++
	return nil
}

func (c *Copier) copyFile(src, dst string, stats *Stats) error {
	skip, err := c.collide(dst)
	if err != nil {
		return err
	}
	if skip {
		stats.Skipped++
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}

	// O_TRUNC keeps the old mode on an existing file
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", dst, err)
	}

	stats.Files++
	return nil
}

func (c *Copier) copySymlink(src, dst string, stats *Stats) error {
	skip, err := c.collide(dst)
	if err != nil {
		return err
	}
	if skip {
		stats.Skipped++
		return nil
	}

	link, err := os.Readlink(src)
	if err != nil {
		return fmt.Errorf("reading link %s: %w", src, err)
	}
	if err := os.Symlink(link, dst); err != nil {
		return fmt.Errorf("creating symlink %s -> %s: %w", dst, link, err)
	}

	stats.Symlinks++
	return nil
}

// collide handles an existing destination entry for a non-directory source.
// It reports whether the source entry should be skipped. A directory is
// never replaced by a file or link, whatever the policy.
func (c *Copier) collide(dst string) (bool, error) {
	existing, err := os.Lstat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if existing.IsDir() {
		if c.policy() == Skip {
			c.Logger.Printf("  ⚠️  keeping directory %s", dst)
			return true, nil
		}
		return false, fmt.Errorf("%w: cannot overwrite directory %s with non-directory", ErrConflict, dst)
	}

	if err := c.resolveCollision(dst); err != nil {
		return false, err
	}
	return c.policy() == Skip, nil
}

func (c *Copier) resolveCollision(dst string) error {
	switch c.policy() {
	case Skip:
		return nil
	case Fail:
		return fmt.Errorf("%w: %s", ErrConflict, dst)
	default:
		if err := os.RemoveAll(dst); err != nil {
			return fmt.Errorf("removing existing %s: %w", dst, err)
		}
		return nil
	}
}

func (c *Copier) excluded(rel string) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (c *Copier) policy() Policy {
	if c.Policy == "" {
		return Overwrite
	}
	return c.Policy
}
