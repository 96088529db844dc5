// pkg/cran/parser.go
package cran

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// ParsePackages parses a PACKAGES index (Debian control file format)
func ParsePackages(r io.Reader) ([]*PackageInfo, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // Handle long Depends lists

	var packages []*PackageInfo
	var current *PackageInfo
	var field string
	var value strings.Builder

	flushField := func() {
		if current != nil && field != "" {
			applyField(current, field, value.String())
		}
		field = ""
		value.Reset()
	}

	flushPackage := func() {
		flushField()
		if current != nil && current.Package != "" {
			packages = append(packages, current)
		}
		current = nil
	}

	for scanner.Scan() {
		line := scanner.Text()

		// Empty line indicates end of package stanza
		if strings.TrimSpace(line) == "" {
			flushPackage()
			continue
		}

		// Continuation line (starts with space or tab)
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			if field != "" {
				value.WriteString(" ")
				value.WriteString(strings.TrimSpace(line))
			}
			continue
		}

		// Parse field: value
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		flushField()
		if current == nil {
			current = &PackageInfo{}
		}
		field = strings.TrimSpace(parts[0])
		value.WriteString(strings.TrimSpace(parts[1]))
	}

	// Don't forget the last package
	flushPackage()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning packages file: %w", err)
	}

	return packages, nil
}

// ParseDescription parses a single DESCRIPTION file
func ParseDescription(r io.Reader) (*PackageInfo, error) {
	pkgs, err := ParsePackages(r)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("DESCRIPTION has no Package field")
	}
	return pkgs[0], nil
}

// ReadDescription parses the DESCRIPTION file at path
func ReadDescription(path string) (*PackageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseDescription(f)
}

// DescriptionFromTarball reads <pkg>/DESCRIPTION from a gzipped package tarball
func DescriptionFromTarball(tarball string) (*PackageInfo, error) {
	f, err := os.Open(tarball)
	if err != nil {
		return nil, fmt.Errorf("opening tarball: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}

		name := strings.TrimPrefix(header.Name, "./")
		if path.Base(name) == "DESCRIPTION" && strings.Count(name, "/") == 1 {
			return ParseDescription(tr)
		}
	}

	return nil, fmt.Errorf("no DESCRIPTION in %s", tarball)
}

func applyField(p *PackageInfo, field, value string) {
	switch field {
	case "Package":
		p.Package = value
	case "Version":
		p.Version = value
	case "Title":
		p.Title = value
	case "Depends":
		p.Depends = parsePackageList(value)
	case "Imports":
		p.Imports = parsePackageList(value)
	case "LinkingTo":
		p.LinkingTo = parsePackageList(value)
	case "Suggests":
		p.Suggests = parsePackageList(value)
	case "License":
		p.License = value
	case "MD5sum":
		p.MD5sum = value
	case "NeedsCompilation":
		p.NeedsCompilation = value
	case "Path":
		p.Path = value
	case "Built":
		p.Built = value
	case "RemoteUrl":
		p.RemoteURL = value
	}
}

// parsePackageList parses a comma-separated dependency list, dropping
// version constraints like (>= 1.0) and the R requirement itself
func parsePackageList(s string) []string {
	var result []string
	parts := strings.Split(s, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if idx := strings.Index(part, "("); idx != -1 {
			part = strings.TrimSpace(part[:idx])
		}
		if part != "" && part != "R" {
			result = append(result, part)
		}
	}
	return result
}
