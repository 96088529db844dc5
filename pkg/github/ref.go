// pkg/github/ref.go
package github

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arc-language/rlib/pkg/core"
)

// DefaultHost is used for "owner/repo" shorthand references
const DefaultHost = "https://github.com"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Ref identifies a package inside a git repository
type Ref struct {
	URL    string // Clone URL
	Owner  string // Empty for full URLs
	Repo   string
	Subdir string // Package directory inside the repository
	Ref    string // Branch or tag; default branch when empty
}

// ParseRef parses "owner/repo[/subdir][@ref]" or a full git URL with an
// optional "@ref" suffix
func ParseRef(s string) (*Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty reference", core.ErrInvalidSource)
	}

	body, at := splitRef(s)
	if strings.HasSuffix(s, "@") {
		return nil, fmt.Errorf("%w: empty ref in %s", core.ErrInvalidSource, s)
	}
	ref := &Ref{Ref: at}

	if strings.Contains(body, "://") || strings.HasPrefix(body, "git@") {
		ref.URL = body
		ref.Repo = strings.TrimSuffix(lastSegment(body), ".git")
		if ref.Repo == "" {
			return nil, fmt.Errorf("%w: %s", core.ErrInvalidSource, s)
		}
		return ref, nil
	}

	parts := strings.Split(strings.Trim(body, "/"), "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %s (want owner/repo[/subdir][@ref])", core.ErrInvalidSource, s)
	}
	for _, p := range parts {
		if !namePattern.MatchString(p) {
			return nil, fmt.Errorf("%w: %s", core.ErrInvalidSource, s)
		}
	}

	ref.Owner = parts[0]
	ref.Repo = strings.TrimSuffix(parts[1], ".git")
	ref.Subdir = strings.Join(parts[2:], "/")
	ref.URL = fmt.Sprintf("%s/%s/%s.git", DefaultHost, ref.Owner, ref.Repo)
	return ref, nil
}

// String returns the shorthand form
func (r *Ref) String() string {
	s := r.URL
	if r.Owner != "" {
		s = r.Owner + "/" + r.Repo
		if r.Subdir != "" {
			s += "/" + r.Subdir
		}
	}
	if r.Ref != "" {
		s += "@" + r.Ref
	}
	return s
}

// splitRef separates a trailing "@ref". The "@" of a URL's user part
// (https://user@host/..., git@host:...) is not a ref.
func splitRef(s string) (string, string) {
	offset := 0
	switch {
	case strings.Contains(s, "://"):
		offset = strings.Index(s, "://") + 3
		slash := strings.Index(s[offset:], "/")
		if slash < 0 {
			return s, ""
		}
		offset += slash
	case strings.HasPrefix(s, "git@"):
		colon := strings.Index(s, ":")
		if colon < 0 {
			return s, ""
		}
		offset = colon
	}

	i := strings.Index(s[offset:], "@")
	if i < 0 {
		return s, ""
	}
	return s[:offset+i], s[offset+i+1:]
}

func lastSegment(s string) string {
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		return s[i+1:]
	}
	return s
}
