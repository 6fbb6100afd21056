// Package fsstore holds the filesystem helpers shared by the flat-file stores.
package fsstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxNameLength bounds ids and filenames used as a single path segment (common NAME_MAX).
const MaxNameLength = 255

// ErrInvalidName is returned for names that are unsafe as a path segment.
var ErrInvalidName = errors.New("invalid name")

// ValidateName rejects names that could escape the store directory when joined as a segment.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case len(name) > MaxNameLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidName, MaxNameLength)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: contains %q", ErrInvalidName, "..")
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: contains a separator", ErrInvalidName)
	}
	return nil
}

// WriteFileAtomic writes data to a temp file in the target directory and renames it into place,
// so readers never observe a half-written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
