// pkg/platform/detect.go
package platform

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/arc-language/rlib/pkg/core"
	"github.com/arc-language/rlib/pkg/rcmd"
)

// versionPattern matches the output of getRversion(), e.g. "4.3.1"
var versionPattern = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)

// Platform represents the detected R runtime
type Platform struct {
	OS          string // linux, darwin, windows
	Arch        string // amd64, arm64
	RPath       string // Path to the R executable
	RscriptPath string // Path to Rscript
}

// Detect finds the R executables on PATH
func Detect() (*Platform, error) {
	p := &Platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	p.RPath = lookPath("R")
	p.RscriptPath = lookPath("Rscript")

	if p.RPath == "" || p.RscriptPath == "" {
		return p, fmt.Errorf("%w: R and Rscript must be on PATH", core.ErrRNotAvailable)
	}

	return p, nil
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s (R: %s, Rscript: %s)", p.OS, p.Arch, orNone(p.RPath), orNone(p.RscriptPath))
}

// RVersion asks the runtime for its version identifier
func RVersion(ctx context.Context, runner rcmd.Runner) (string, error) {
	out, err := runner.Run(ctx, nil, "Rscript", "--vanilla", "-e", "cat(as.character(getRversion()))")
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrRNotAvailable, err)
	}

	version, err := ParseVersion(string(out))
	if err != nil {
		return "", err
	}
	return version, nil
}

// ParseVersion validates a runtime version string
func ParseVersion(s string) (string, error) {
	v := strings.TrimSpace(s)
	if !versionPattern.MatchString(v) {
		return "", fmt.Errorf("unrecognized R version %q", v)
	}
	return v, nil
}

func orNone(s string) string {
	if s == "" {
		return "not found"
	}
	return s
}
