package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cfgtool/pkg/errors"
)

// Mapper translates between absolute paths under the home directory and
// their mirrored location inside the store. Both roots are canonical, so
// every spelling of a file (symlinks, "..", trailing slashes) maps to the
// same store path.
type Mapper struct {
	homeRoot  string
	storeRoot string
}

// NewMapper builds a mapper for the given roots. The home root must exist;
// the store root may not exist yet.
func NewMapper(homeRoot, storeRoot string) (*Mapper, error) {
	if homeRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput, "home root cannot be empty")
	}
	if storeRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput, "store root cannot be empty")
	}

	home, err := resolve(expandHome(homeRoot))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to resolve home root %s", homeRoot)
	}
	info, err := os.Stat(home)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "home root %s is not accessible", home)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, "home root %s is not a directory", home)
	}

	store, err := resolve(expandHome(storeRoot))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to resolve store root %s", storeRoot)
	}

	if store == home {
		return nil, errors.New(errors.ErrInvalidInput, "store root cannot be the home directory")
	}

	return &Mapper{homeRoot: home, storeRoot: store}, nil
}

// HomeRoot returns the canonical home directory
func (m *Mapper) HomeRoot() string {
	return m.homeRoot
}

// StoreRoot returns the canonical store directory
func (m *Mapper) StoreRoot() string {
	return m.storeRoot
}

// Canonicalize expands ~, makes the path absolute, removes "." and ".."
// elements and resolves symlinks. The path must exist.
func (m *Mapper) Canonicalize(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to get absolute path for %s", path)
	}

	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(err, errors.ErrNotFound, "%s does not exist", abs)
		}
		return "", errors.Wrapf(err, errors.ErrIO, "failed to resolve %s", abs)
	}

	return filepath.Clean(real), nil
}

// ToStorePath maps an absolute, canonical path under the home directory to
// its location inside the store.
func (m *Mapper) ToStorePath(homePath string) (string, error) {
	rel, err := m.StoreRelative(homePath)
	if err != nil {
		return "", err
	}
	return m.StoreAbsolute(rel), nil
}

// StoreRelative returns the tracked-file name (slash separated, relative to
// the store root) for an absolute, canonical path under the home directory.
func (m *Mapper) StoreRelative(homePath string) (string, error) {
	if !filepath.IsAbs(homePath) || filepath.Clean(homePath) != homePath {
		return "", errors.Newf(errors.ErrOutOfScopePath, "%s is not an absolute canonical path", homePath).
			WithDetail("path", homePath)
	}

	if isWithin(m.storeRoot, homePath) {
		return "", errors.Newf(errors.ErrOutOfScopePath, "%s is inside the store", homePath).
			WithDetail("path", homePath)
	}

	rel, ok := relativeTo(m.homeRoot, homePath)
	if !ok {
		return "", errors.Newf(errors.ErrOutOfScopePath,
			"files outside the home directory are not supported: %s", homePath).
			WithDetail("path", homePath).
			WithDetail("home", m.homeRoot)
	}

	if _, err := CleanRelative(filepath.ToSlash(rel)); err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// ToHomePath maps a store-relative tracked-file name back to its absolute
// location under the home directory.
func (m *Mapper) ToHomePath(storeRel string) (string, error) {
	rel, err := CleanRelative(storeRel)
	if err != nil {
		return "", err
	}
	return filepath.Join(m.homeRoot, rel), nil
}

// StoreToHome maps an absolute path inside the store to the home directory
func (m *Mapper) StoreToHome(storePath string) (string, error) {
	rel, ok := relativeTo(m.storeRoot, filepath.Clean(storePath))
	if !ok {
		return "", errors.Newf(errors.ErrOutOfScopePath, "%s is not inside the store", storePath).
			WithDetail("path", storePath)
	}
	return m.ToHomePath(filepath.ToSlash(rel))
}

// StoreAbsolute returns the absolute store path for a tracked-file name
func (m *Mapper) StoreAbsolute(storeRel string) string {
	return filepath.Join(m.storeRoot, filepath.FromSlash(storeRel))
}

// HomeRelative renders an absolute home path with a leading ~ for output
func (m *Mapper) HomeRelative(homePath string) string {
	rel, ok := relativeTo(m.homeRoot, homePath)
	if !ok {
		return homePath
	}
	return "~/" + filepath.ToSlash(rel)
}

// CleanRelative validates a tracked-file name and converts it to a relative
// OS path. Empty, absolute and escaping names are rejected, as are names
// with a .git element, which would land in the store's own repository.
func CleanRelative(storeRel string) (string, error) {
	if storeRel == "" {
		return "", errors.New(errors.ErrInvalidInput, "tracked path cannot be empty")
	}

	rel := filepath.Clean(filepath.FromSlash(storeRel))
	if filepath.IsAbs(rel) || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrOutOfScopePath, "%s is not a store-relative path", storeRel).
			WithDetail("path", storeRel)
	}

	for _, elem := range strings.Split(rel, string(filepath.Separator)) {
		if strings.EqualFold(elem, ".git") {
			return "", errors.Newf(errors.ErrOutOfScopePath, "%s is inside a git directory", storeRel).
				WithDetail("path", storeRel)
		}
	}

	return rel, nil
}

// relativeTo returns path relative to root when path is a strict descendant
func relativeTo(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// isWithin reports whether path is root or one of its descendants
func isWithin(root, path string) bool {
	if root == path {
		return true
	}
	_, ok := relativeTo(root, path)
	return ok
}

// resolve makes path absolute and resolves symlinks in its longest existing
// prefix, leaving the non-existent tail as-is.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	existing := abs
	var tail []string
	for {
		real, err := filepath.EvalSymlinks(existing)
		if err == nil {
			parts := append([]string{real}, tail...)
			return filepath.Clean(filepath.Join(parts...)), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		tail = append([]string{filepath.Base(existing)}, tail...)
		existing = parent
	}
}
