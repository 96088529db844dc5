// pkg/core/package.go
package core

// Package represents an R package found in a library directory
type Package struct {
	Name     string // Package name
	Version  string // Package version from DESCRIPTION
	LibPath  string // Library directory holding the package
	Built    string // "Built" field, set once R has installed the package
	Shadowed bool   // True when an earlier search-path entry holds the same package
}
