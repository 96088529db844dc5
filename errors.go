// errors.go
package rlib

import "github.com/arc-language/rlib/pkg/core"

var (
	// ErrPackageNotFound indicates the package was not found
	ErrPackageNotFound = core.ErrPackageNotFound

	// ErrVersionNotFound indicates the requested version does not exist
	ErrVersionNotFound = core.ErrVersionNotFound

	// ErrInvalidPackage indicates the package specification is invalid
	ErrInvalidPackage = core.ErrInvalidPackage

	// ErrInvalidSource indicates a malformed source repository reference
	ErrInvalidSource = core.ErrInvalidSource

	// ErrHashMismatch indicates a hash verification failure
	ErrHashMismatch = core.ErrHashMismatch

	// ErrRNotAvailable indicates R could not be found
	ErrRNotAvailable = core.ErrRNotAvailable
)

// Error wraps an error with additional context
type Error = core.Error
