// pkg/cran/constants.go
package cran

import "time"

const (
	// DefaultRepo is the default CRAN mirror
	DefaultRepo = "https://cloud.r-project.org"

	// DefaultContribPath is where source packages live below the repo URL
	DefaultContribPath = "src/contrib"

	// DefaultCacheDuration is how long a fetched PACKAGES index is reused
	DefaultCacheDuration = 30 * time.Minute

	// TarballExt is the extension of package tarballs in a repository
	TarballExt = ".tar.gz"
)

// basePackages ship with every R installation and are never fetched
var basePackages = map[string]bool{
	"R": true, "base": true, "compiler": true, "datasets": true, "graphics": true,
	"grDevices": true, "grid": true, "methods": true, "parallel": true,
	"splines": true, "stats": true, "stats4": true, "tcltk": true,
	"tools": true, "utils": true,
}

// recommendedPackages are bundled with standard R builds
var recommendedPackages = map[string]bool{
	"KernSmooth": true, "MASS": true, "Matrix": true, "boot": true, "class": true,
	"cluster": true, "codetools": true, "foreign": true, "lattice": true,
	"mgcv": true, "nlme": true, "nnet": true, "rpart": true, "spatial": true,
	"survival": true,
}

// IsBundled reports whether name ships with R itself
func IsBundled(name string) bool {
	return basePackages[name] || recommendedPackages[name]
}
