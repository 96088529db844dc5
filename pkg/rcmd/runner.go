// Package rcmd runs R subprocesses (R CMD INSTALL, Rscript) for the
// installers.
package rcmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// maxErrorOutput limits how much subprocess output is quoted in errors
const maxErrorOutput = 2048

// Runner runs an external command
type Runner interface {
	Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	Dir    string      // Working directory (optional)
	Logger *log.Logger // Receives command lines and output
}

// NewExecRunner creates an ExecRunner
func NewExecRunner(logger *log.Logger) *ExecRunner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ExecRunner{Logger: logger}
}

// Run executes name with args. env entries are appended to os.Environ so
// they take precedence. Combined output is returned either way.
func (r *ExecRunner) Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), env...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	logger.Printf("Running: %s %s", name, strings.Join(args, " "))
	for _, e := range env {
		logger.Printf("  env %s", e)
	}

	err := cmd.Run()
	if out.Len() > 0 {
		logger.Printf("%s", out.String())
	}
	if err != nil {
		return out.Bytes(), fmt.Errorf("%s failed: %w\n%s", name, err, tail(out.String()))
	}
	return out.Bytes(), nil
}

// LibsEnv returns the R_LIBS entry for paths, highest priority first
func LibsEnv(paths []string) string {
	return "R_LIBS=" + strings.Join(paths, string(os.PathListSeparator))
}

// InstallArgs builds the arguments for "R CMD INSTALL" into lib
func InstallArgs(lib, target string) []string {
	return []string{"CMD", "INSTALL", "--no-test-load", "--library=" + lib, target}
}

// Install runs "R CMD INSTALL" for target (a tarball or package directory)
// into lib. libPaths are exported as R_LIBS so dependencies resolve.
func Install(ctx context.Context, runner Runner, lib, target string, libPaths []string) error {
	paths := append([]string{lib}, libPaths...)
	if _, err := runner.Run(ctx, []string{LibsEnv(paths)}, "R", InstallArgs(lib, target)...); err != nil {
		return fmt.Errorf("installing %s: %w", filepath.Base(target), err)
	}
	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrorOutput {
		return s
	}
	return "..." + s[len(s)-maxErrorOutput:]
}
