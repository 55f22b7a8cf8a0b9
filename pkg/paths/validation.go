package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cfgtool/pkg/errors"
)

// ValidatePath performs basic validation on a user supplied path.
// It checks for:
// - Empty paths
// - Null bytes
// - Excessive path length
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}

	// Common filesystem limit
	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}

	return nil
}

// ValidateRemoteName ensures a remote name can be stored in the store's
// git config.
func ValidateRemoteName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "remote name cannot be empty")
	}

	if strings.ContainsAny(name, "/\\ \t\"[]") {
		return errors.Newf(errors.ErrInvalidInput, "remote name %q contains invalid characters", name)
	}

	if name == "." || name == ".." {
		return errors.New(errors.ErrInvalidInput, "remote name cannot be '.' or '..'")
	}

	for _, r := range name {
		if r < 32 {
			return errors.New(errors.ErrInvalidInput, "remote name contains control characters")
		}
	}

	return nil
}

// SanitizePath expands ~ and cleans the path.
func SanitizePath(path string) string {
	path = expandHome(path)

	cleaned := filepath.Clean(path)
	if cleaned == "" {
		return "."
	}

	return cleaned
}

// ContainsPath checks if child is parent or one of its descendants.
// Both paths are sanitized before comparison; symlinks are not resolved.
func ContainsPath(parent, child string) bool {
	return isWithin(SanitizePath(parent), SanitizePath(child))
}
