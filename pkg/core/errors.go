// pkg/core/errors.go
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrPackageNotFound indicates the package was not found
	ErrPackageNotFound = errors.New("package not found")

	// ErrVersionNotFound indicates the requested package version does not exist
	ErrVersionNotFound = errors.New("version not found")

	// ErrInvalidPackage indicates the package specification is invalid
	ErrInvalidPackage = errors.New("invalid package")

	// ErrInvalidSource indicates a source repository reference could not be parsed
	ErrInvalidSource = errors.New("invalid source reference")

	// ErrHashMismatch indicates a checksum verification failure
	ErrHashMismatch = errors.New("hash mismatch")

	// ErrRNotAvailable indicates no R installation was found
	ErrRNotAvailable = errors.New("R not available")
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
