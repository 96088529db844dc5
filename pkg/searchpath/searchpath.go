// Package searchpath holds the ordered, duplicate-free list of library
// directories consulted when resolving an R package by name. The first
// entry holding a package wins.
package searchpath

import (
	"os"
	"path/filepath"
	"strings"
)

// SearchPath is an ordered set of library directories. It is not safe for
// concurrent use; one session owns one SearchPath.
type SearchPath struct {
	entries []string
}

// New builds a search path from paths. Empty entries are dropped and later
// duplicates lose to the first occurrence.
func New(paths ...string) *SearchPath {
	sp := &SearchPath{}
	sp.Set(paths)
	return sp
}

// FromEnv builds the initial session path from R_LIBS followed by R_LIBS_USER
func FromEnv() *SearchPath {
	var paths []string
	for _, key := range []string{"R_LIBS", "R_LIBS_USER"} {
		paths = append(paths, filepath.SplitList(os.Getenv(key))...)
	}
	return New(paths...)
}

// Entries returns a copy of the current entries
func (sp *SearchPath) Entries() []string {
	out := make([]string, len(sp.entries))
	copy(out, sp.entries)
	return out
}

// Len returns the number of entries
func (sp *SearchPath) Len() int {
	return len(sp.entries)
}

// Front returns the highest-priority entry, or "" when empty
func (sp *SearchPath) Front() string {
	if len(sp.entries) == 0 {
		return ""
	}
	return sp.entries[0]
}

// Contains reports whether p is on the path
func (sp *SearchPath) Contains(p string) bool {
	return sp.index(clean(p)) >= 0
}

// Prepend moves p to the front, removing any existing occurrence first
func (sp *SearchPath) Prepend(p string) {
	p = clean(p)
	if p == "" {
		return
	}
	if i := sp.index(p); i >= 0 {
		sp.entries = append(sp.entries[:i], sp.entries[i+1:]...)
	}
	sp.entries = append([]string{p}, sp.entries...)
}

// Remove drops p from the path and reports whether it was present
func (sp *SearchPath) Remove(p string) bool {
	i := sp.index(clean(p))
	if i < 0 {
		return false
	}
	sp.entries = append(sp.entries[:i], sp.entries[i+1:]...)
	return true
}

// Set replaces the whole path
func (sp *SearchPath) Set(paths []string) {
	entries := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		p = clean(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		entries = append(entries, p)
	}
	sp.entries = entries
}

// With replaces the path with paths while fn runs. The previous entries are
// restored when fn returns, errors or panics.
func (sp *SearchPath) With(paths []string, fn func() error) error {
	saved := sp.entries
	defer func() { sp.entries = saved }()

	sp.Set(paths)
	return fn()
}

// String joins the entries with the OS list separator, the form R_LIBS expects
func (sp *SearchPath) String() string {
	return strings.Join(sp.entries, string(os.PathListSeparator))
}

func (sp *SearchPath) index(p string) int {
	if p == "" {
		return -1
	}
	for i, e := range sp.entries {
		if e == p {
			return i
		}
	}
	return -1
}

func clean(p string) string {
	if strings.TrimSpace(p) == "" {
		return ""
	}
	return filepath.Clean(p)
}
