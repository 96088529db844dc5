// pkg/cran/manager.go
package cran

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arc-language/rlib/pkg/archive"
	"github.com/arc-language/rlib/pkg/core"
	"github.com/arc-language/rlib/pkg/rcmd"
)

// NewPackageManager creates a new CRAN package manager
func NewPackageManager(cfg *Config) *PackageManager {
	if cfg == nil {
		cfg = &Config{}
	}

	// Set defaults
	if cfg.Repo == "" {
		cfg.Repo = DefaultRepo
	}
	if cfg.ContribPath == "" {
		cfg.ContribPath = DefaultContribPath
	}
	if cfg.CacheDuration == 0 {
		cfg.CacheDuration = DefaultCacheDuration
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}

	// Setup logger
	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[CRAN] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	runner := cfg.Runner
	if runner == nil {
		runner = rcmd.NewExecRunner(logger)
	}

	pm := &PackageManager{
		client:  NewClientWithTimeout(cfg.Timeout),
		config:  cfg,
		logger:  logger,
		runner:  runner,
		indexes: make(map[string]*Index),
	}

	if cfg.Debug {
		pm.logger.Printf("Initialized CRAN PackageManager")
		pm.logger.Printf("  Repo: %s", cfg.Repo)
		pm.logger.Printf("  ContribPath: %s", cfg.ContribPath)
		pm.logger.Printf("  Timeout: %s", cfg.Timeout)
	}

	return pm
}

// Name returns the installer name
func (pm *PackageManager) Name() string {
	return "cran"
}

// Install installs req.Name (and, when requested, its missing dependencies)
// into req.Destination
func (pm *PackageManager) Install(ctx context.Context, req *core.InstallRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Source != "" {
		return fmt.Errorf("%w: cran cannot install source reference %s", core.ErrInvalidPackage, req.Source)
	}

	repo := strings.TrimRight(req.Repo, "/")
	if repo == "" {
		repo = strings.TrimRight(pm.config.Repo, "/")
	}

	pm.logger.Printf("Starting install for %s from %s", req.Label(), repo)

	// 1. Load the repository index
	pm.logger.Printf("Step 1: Loading package index...")
	idx, err := pm.Index(ctx, repo)
	if err != nil {
		return &core.Error{Op: "install", Package: req.Name, Err: err}
	}

	downloadDir, cleanup, err := pm.downloadDir()
	if err != nil {
		return err
	}
	defer cleanup()

	// 2. Locate the requested package
	pm.logger.Printf("Step 2: Locating %s...", req.Label())
	target, tarball, err := pm.fetchTarget(ctx, idx, req, downloadDir)
	if err != nil {
		return &core.Error{Op: "install", Package: req.Name, Err: err}
	}
	pm.logger.Printf("  ✓ Found %s %s", target.Package, target.Version)

	// 3. Resolve dependencies
	var plan []*PackageInfo
	if req.Dependencies {
		pm.logger.Printf("Step 3: Resolving dependencies...")
		installed := installedIn(append([]string{req.Destination}, req.LibPaths...))
		plan, err = Resolve(idx, target, installed)
		if err != nil {
			return &core.Error{Op: "install", Package: req.Name, Err: err}
		}
		pm.logger.Printf("  ✓ %d dependencies to install", len(plan))
	} else {
		pm.logger.Printf("Step 3: Skipping dependency resolution")
	}

	// 4. Install dependencies first, then the target
	pm.logger.Printf("Step 4: Installing into %s...", req.Destination)
	for _, dep := range plan {
		path, err := pm.fetch(ctx, repo, dep, downloadDir)
		if err != nil {
			return &core.Error{Op: "install", Package: dep.Package, Err: err}
		}
		if err := pm.installTarball(ctx, dep, path, req); err != nil {
			return &core.Error{Op: "install", Package: dep.Package, Err: err}
		}
	}

	if err := pm.installTarball(ctx, target, tarball, req); err != nil {
		return &core.Error{Op: "install", Package: target.Package, Err: err}
	}

	pm.logger.Printf("✓ Package %s installed successfully", req.Label())
	return nil
}

// Index returns the cached PACKAGES index for repo, fetching it when stale
func (pm *PackageManager) Index(ctx context.Context, repo string) (*Index, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if idx, ok := pm.indexes[repo]; ok && time.Since(idx.fetchedAt) < pm.config.CacheDuration {
		pm.logger.Printf("  Using cached index for %s (age: %v)", repo, time.Since(idx.fetchedAt))
		return idx, nil
	}

	base := fmt.Sprintf("%s/%s", repo, pm.config.ContribPath)

	var pkgs []*PackageInfo
	reader, err := pm.client.GetGzipped(ctx, base+"/PACKAGES.gz")
	if err == nil {
		pkgs, err = ParsePackages(reader)
		reader.Close()
	}
	if err != nil {
		pm.logger.Printf("  ⚠️  PACKAGES.gz unavailable (%v), trying PACKAGES", err)
		resp, getErr := pm.client.Get(ctx, base+"/PACKAGES")
		if getErr != nil {
			return nil, fmt.Errorf("fetching package index: %w", getErr)
		}
		pkgs, err = ParsePackages(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing package index: %w", err)
		}
	}

	idx := NewIndex(repo, pkgs)
	pm.indexes[repo] = idx
	pm.logger.Printf("  ✓ Indexed %d packages from %s", idx.Len(), repo)
	return idx, nil
}

// fetchTarget finds and downloads the requested package. Pinned versions
// that are no longer current come from the repository archive.
func (pm *PackageManager) fetchTarget(ctx context.Context, idx *Index, req *core.InstallRequest, dir string) (*PackageInfo, string, error) {
	info, ok := idx.Lookup(req.Name)

	if req.Version == "" || (ok && info.Version == req.Version) {
		if !ok {
			return nil, "", fmt.Errorf("%w: %s not in %s", core.ErrPackageNotFound, req.Name, idx.Repo)
		}
		path, err := pm.fetch(ctx, idx.Repo, info, dir)
		return info, path, err
	}

	url := ArchiveURL(idx.Repo, pm.config.ContribPath, req.Name, req.Version)
	pm.logger.Printf("  Version %s is not current, fetching from archive", req.Version)

	path := filepath.Join(dir, tarballName(req.Name, req.Version))
	if err := pm.download(ctx, url, path); err != nil {
		var status *StatusError
		if errors.As(err, &status) && status.Code == http.StatusNotFound {
			return nil, "", fmt.Errorf("%w: %s %s", core.ErrVersionNotFound, req.Name, req.Version)
		}
		return nil, "", err
	}

	archived, err := DescriptionFromTarball(path)
	if err != nil {
		return nil, "", err
	}
	return archived, path, nil
}

// fetch downloads info's tarball into dir and verifies its checksum
func (pm *PackageManager) fetch(ctx context.Context, repo string, info *PackageInfo, dir string) (string, error) {
	url := TarballURL(repo, pm.config.ContribPath, info)
	path := filepath.Join(dir, tarballName(info.Package, info.Version))

	if err := pm.download(ctx, url, path); err != nil {
		return "", err
	}

	if info.MD5sum != "" {
		if err := verifyMD5(path, info.MD5sum); err != nil {
			return "", err
		}
		pm.logger.Printf("  ✓ MD5 verified for %s", filepath.Base(path))
	}

	return path, nil
}

func (pm *PackageManager) download(ctx context.Context, url, destPath string) error {
	pm.logger.Printf("  Downloading %s", url)

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	written, err := pm.client.Download(ctx, url, f)
	if err != nil {
		os.Remove(destPath)
		return fmt.Errorf("downloading: %w", err)
	}

	pm.logger.Printf("  Downloaded %d bytes to %s", written, destPath)
	return nil
}

// installTarball unpacks binary builds directly and hands source tarballs
// to R CMD INSTALL
func (pm *PackageManager) installTarball(ctx context.Context, info *PackageInfo, tarball string, req *core.InstallRequest) error {
	if info.IsBinary() {
		pm.logger.Printf("  Unpacking binary %s %s", info.Package, info.Version)
		_, err := archive.ExtractFile(tarball, req.Destination, pm.logger)
		return err
	}

	pm.logger.Printf("  Building %s %s from source", info.Package, info.Version)
	return rcmd.Install(ctx, pm.runner, req.Destination, tarball, req.LibPaths)
}

func (pm *PackageManager) downloadDir() (string, func(), error) {
	if pm.config.DownloadDir != "" {
		if err := os.MkdirAll(pm.config.DownloadDir, 0755); err != nil {
			return "", nil, fmt.Errorf("creating download directory: %w", err)
		}
		return pm.config.DownloadDir, func() {}, nil
	}

	dir, err := os.MkdirTemp("", "rlib-download-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating download directory: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

// TarballURL returns the download URL of an index entry
func TarballURL(repo, contrib string, info *PackageInfo) string {
	base := fmt.Sprintf("%s/%s", strings.TrimRight(repo, "/"), contrib)
	if info.Path != "" {
		base += "/" + strings.Trim(info.Path, "/")
	}
	return base + "/" + tarballName(info.Package, info.Version)
}

// ArchiveURL returns the URL of an archived (non-current) version
func ArchiveURL(repo, contrib, name, version string) string {
	return fmt.Sprintf("%s/%s/Archive/%s/%s", strings.TrimRight(repo, "/"), contrib, name, tarballName(name, version))
}

func tarballName(name, version string) string {
	return name + "_" + version + TarballExt
}

// verifyMD5 compares the MD5 of a downloaded file with the index checksum
func verifyMD5(filePath, expected string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	hasher := md5.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return fmt.Errorf("computing hash: %w", err)
	}

	actual := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w: %s expected %s, got %s", core.ErrHashMismatch, filepath.Base(filePath), expected, actual)
	}
	return nil
}
