// pkg/archive/archive.go
package archive

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// Stats counts extracted entries
type Stats struct {
	Files    int
	Dirs     int
	Symlinks int
}

// Extract unpacks a tarball into dest. Compression (gzip, xz or none) is
// detected from the stream's magic bytes.
func Extract(r io.Reader, dest string, logger *log.Logger) (*Stats, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	br := bufio.NewReader(r)
	head, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading archive header: %w", err)
	}

	var tarReader *tar.Reader

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		logger.Printf("  Using gzip decompression")
		gzReader, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzReader.Close()
		tarReader = tar.NewReader(gzReader)
	case bytes.HasPrefix(head, xzMagic):
		logger.Printf("  Using xz decompression")
		xzReader, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("creating xz reader: %w", err)
		}
		tarReader = tar.NewReader(xzReader)
	default:
		logger.Printf("  Using uncompressed tar")
		tarReader = tar.NewReader(br)
	}

	return extractTar(tarReader, dest, logger)
}

// ExtractFile opens path and extracts it into dest
func ExtractFile(path, dest string, logger *log.Logger) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	return Extract(f, dest, logger)
}

func extractTar(tr *tar.Reader, dest string, logger *log.Logger) (*Stats, error) {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, fmt.Errorf("creating destination: %w", err)
	}

	stats := &Stats{}
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading tar entry: %w", err)
		}

		cleanPath := strings.TrimPrefix(header.Name, "./")
		if cleanPath == "" || cleanPath == "." {
			continue
		}

		targetPath, err := safeJoin(dest, cleanPath)
		if err != nil {
			return stats, err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return stats, fmt.Errorf("creating directory %s: %w", targetPath, err)
			}
			stats.Dirs++

		case tar.TypeSymlink:
			if filepath.IsAbs(header.Linkname) {
				return stats, fmt.Errorf("refusing absolute symlink %s -> %s", cleanPath, header.Linkname)
			}
			if _, err := safeJoin(dest, filepath.Join(filepath.Dir(cleanPath), header.Linkname)); err != nil {
				return stats, err
			}
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return stats, fmt.Errorf("creating parent directory for symlink: %w", err)
			}
			os.Remove(targetPath)
			if err := os.Symlink(header.Linkname, targetPath); err != nil {
				return stats, fmt.Errorf("creating symlink %s -> %s: %w", targetPath, header.Linkname, err)
			}
			stats.Symlinks++

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return stats, fmt.Errorf("creating parent directory: %w", err)
			}

			outFile, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode).Perm())
			if err != nil {
				return stats, fmt.Errorf("creating file %s: %w", targetPath, err)
			}

			written, err := io.Copy(outFile, tr)
			outFile.Close()
			if err != nil {
				return stats, fmt.Errorf("writing file %s: %w", targetPath, err)
			}
			if written != header.Size {
				return stats, fmt.Errorf("file size mismatch for %s: expected %d, got %d", targetPath, header.Size, written)
			}
			stats.Files++

		default:
			logger.Printf("  ⚠️  Skipping unsupported file type %v for %s", header.Typeflag, cleanPath)
		}
	}

	logger.Printf("  ✓ Extracted %d files, %d directories, %d symlinks", stats.Files, stats.Dirs, stats.Symlinks)
	return stats, nil
}

// safeJoin joins name onto dest and rejects results outside dest
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return target, nil
}
