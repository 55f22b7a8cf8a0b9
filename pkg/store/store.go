package store

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/cfgtool/pkg/engine"
	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/filesystem"
	"github.com/arthur-debert/cfgtool/pkg/logging"
	"github.com/arthur-debert/cfgtool/pkg/paths"
	"github.com/arthur-debert/cfgtool/pkg/types"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"
)

// DefaultMessageTemplate is used when Options.MessageTemplate is empty
const DefaultMessageTemplate = "Tracked file %s"

// Options configures Open
type Options struct {
	// Mapper provides both roots. REQUIRED.
	Mapper *paths.Mapper

	// FS is the home-side filesystem. Defaults to the OS filesystem.
	FS types.FS

	// Auth resolves credentials for fetch and push
	Auth engine.AuthProvider

	// MessageTemplate renders the default commit message; one %s, the
	// tracked file name.
	MessageTemplate string
}

// Store is the versioned backing store
type Store struct {
	mapper   *paths.Mapper
	fs       types.FS
	repo     *engine.Repo
	template string
	cache    map[string]struct{}
	logger   zerolog.Logger
}

// Open opens the store at the mapper's store root, initializing a new
// repository on first use. An existing repository keeps its history.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Mapper == nil {
		return nil, errors.New(errors.ErrInvalidInput, "store requires a path mapper")
	}
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	if opts.MessageTemplate == "" {
		opts.MessageTemplate = DefaultMessageTemplate
	}

	logger := logging.GetLogger("store")
	root := opts.Mapper.StoreRoot()

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to create store directory %s", root)
	}

	repo, created, err := engine.OpenOrInit(ctx, &engine.Options{
		Path:   root,
		Branch: engine.DefaultBranch,
		Auth:   opts.Auth,
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrEngine, "failed to open store at %s", root)
	}
	if created {
		logger.Info().Str("root", root).Msg("Initialized new store")
	}

	s := &Store{
		mapper:   opts.Mapper,
		fs:       opts.FS,
		repo:     repo,
		template: opts.MessageTemplate,
		cache:    make(map[string]struct{}),
		logger:   logger,
	}

	if err := s.rebuildCache(ctx); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("root", root).
		Int("tracked", len(s.cache)).
		Msg("Store opened")

	return s, nil
}

// Repo lends the engine handle to collaborators that operate on the same
// repository. Callers must not retain it past the Store's lifetime.
func (s *Store) Repo() *engine.Repo {
	return s.repo
}

// Mapper returns the path mapper the store was opened with
func (s *Store) Mapper() *paths.Mapper {
	return s.mapper
}

// Root returns the store root
func (s *Store) Root() string {
	return s.mapper.StoreRoot()
}

func (s *Store) rebuildCache(ctx context.Context) error {
	names, err := s.repo.IndexEntries(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrEngine, "failed to read tracked files from index")
	}
	s.cache = make(map[string]struct{}, len(names))
	for _, name := range names {
		s.cache[name] = struct{}{}
	}
	return nil
}

// TrackFile copies a home file into the store, stages it and commits it.
// An empty message selects the default. Tracking content identical to the
// last commit creates no commit and reports Committed false.
func (s *Store) TrackFile(ctx context.Context, homePath, message string) (*types.TrackResult, error) {
	logger := s.logger.With().Str("path", homePath).Logger()
	done := logging.LogOperationStart(logger, "track file")
	defer done()

	info, err := s.fs.Stat(paths.ExpandHome(homePath))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotAFile, "%s does not exist", homePath).
			WithDetail("path", homePath)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Newf(errors.ErrNotAFile, "%s is not a regular file", homePath).
			WithDetail("path", homePath)
	}

	canonical, err := s.mapper.Canonicalize(homePath)
	if err != nil {
		return nil, err
	}
	rel, err := s.mapper.StoreRelative(canonical)
	if err != nil {
		return nil, err
	}

	content, err := s.fs.ReadFile(canonical)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read %s", canonical)
	}
	prev := s.snapshot(rel)
	if err := s.writeStoreFile(rel, content, info.Mode().Perm()); err != nil {
		s.undoTrack(ctx, rel, prev)
		return nil, err
	}
	s.cache[rel] = struct{}{}

	if message == "" {
		message = s.DefaultMessage(rel)
	}

	result := &types.TrackResult{
		HomePath:  canonical,
		StorePath: rel,
		Message:   message,
	}

	hash, committed, err := s.commit(ctx, rel, message)
	if err != nil {
		s.undoTrack(ctx, rel, prev)
		return nil, err
	}
	result.Committed = committed
	if committed {
		result.Commit = hash.String()
	}

	logger.Info().
		Str("store_path", rel).
		Bool("committed", committed).
		Str("commit", result.Commit).
		Msg("File tracked")

	return result, nil
}

// storeSnapshot is the store copy of a file before TrackFile touched it
type storeSnapshot struct {
	exists  bool
	cached  bool
	content []byte
	perm    os.FileMode
}

func (s *Store) snapshot(rel string) storeSnapshot {
	_, cached := s.cache[rel]
	snap := storeSnapshot{cached: cached}

	name, err := storeName(rel)
	if err != nil {
		return snap
	}
	info, err := s.repo.Filesystem().Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return snap
	}
	content, err := util.ReadFile(s.repo.Filesystem(), name)
	if err != nil {
		return snap
	}
	snap.exists = true
	snap.content = content
	snap.perm = info.Mode().Perm()
	return snap
}

// undoTrack puts the worktree, index and cache back the way snapshot saw
// them, so a failed track leaves rel untracked or at its last commit
func (s *Store) undoTrack(ctx context.Context, rel string, prev storeSnapshot) {
	logger := s.logger.With().Str("store_path", rel).Logger()

	if prev.exists {
		if err := s.writeStoreFile(rel, prev.content, prev.perm); err != nil {
			logger.Warn().Err(err).Msg("Failed to restore store copy")
			return
		}
		if err := s.repo.Add(ctx, rel); err != nil {
			logger.Warn().Err(err).Msg("Failed to restage store copy")
		}
	} else {
		if name, err := storeName(rel); err == nil {
			if err := s.repo.Filesystem().Remove(name); err != nil && !os.IsNotExist(err) {
				logger.Warn().Err(err).Msg("Failed to remove store copy")
			}
		}
		if err := s.repo.Unstage(ctx, rel); err != nil {
			logger.Warn().Err(err).Msg("Failed to unstage store copy")
		}
	}

	if !prev.cached {
		delete(s.cache, rel)
	}
	logger.Debug().Bool("restored", prev.exists).Msg("Rolled back failed track")
}

// DefaultMessage renders the default commit message for a tracked file
func (s *Store) DefaultMessage(rel string) string {
	return renderTemplate(s.template, rel)
}

// commit stages rel and commits the index on top of HEAD
func (s *Store) commit(ctx context.Context, rel, message string) (plumbing.Hash, bool, error) {
	if err := s.repo.Add(ctx, rel); err != nil {
		return plumbing.ZeroHash, false, errors.Wrapf(err, errors.ErrEngine, "failed to stage %s", rel)
	}

	sig, err := s.repo.Signature(ctx)
	if err != nil {
		return plumbing.ZeroHash, false, engineError(err, "cannot commit")
	}

	var parents []plumbing.Hash
	head, ok, err := s.repo.Head(ctx)
	if err != nil {
		return plumbing.ZeroHash, false, errors.Wrap(err, errors.ErrEngine, "failed to resolve head")
	}
	if ok {
		parents = []plumbing.Hash{head}
	}

	hash, err := s.repo.Commit(ctx, message, parents, sig)
	if stderrors.Is(err, engine.ErrNothingToCommit) {
		s.logger.Debug().Str("store_path", rel).Msg("Content unchanged, no commit created")
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, engineError(err, "failed to commit "+rel)
	}
	return hash, true, nil
}

// IsTracked reports whether the store copy of homePath exists on disk. It
// checks the store directly, not the cache.
func (s *Store) IsTracked(homePath string) bool {
	rel, err := s.resolve(homePath)
	if err != nil {
		return false
	}
	info, err := s.repo.Filesystem().Stat(filepath.FromSlash(rel))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// TrackedFiles returns the store-relative names of every tracked file,
// read live from the engine index.
func (s *Store) TrackedFiles(ctx context.Context) ([]string, error) {
	names, err := s.repo.IndexEntries(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEngine, "failed to read tracked files from index")
	}
	return names, nil
}

// GetTrackedFiles returns the absolute store path of every tracked file,
// read live from the engine index.
func (s *Store) GetTrackedFiles(ctx context.Context) ([]string, error) {
	names, err := s.TrackedFiles(ctx)
	if err != nil {
		return nil, err
	}
	abs := make([]string, 0, len(names))
	for _, name := range names {
		abs = append(abs, s.mapper.StoreAbsolute(name))
	}
	return abs, nil
}

// CachedFiles returns the in-memory tracked-file cache, sorted
func (s *Store) CachedFiles() []string {
	names := make([]string, 0, len(s.cache))
	for name := range s.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadStoreFile reads the store copy of a tracked file
func (s *Store) ReadStoreFile(rel string) ([]byte, error) {
	name, err := storeName(rel)
	if err != nil {
		return nil, err
	}
	content, err := util.ReadFile(s.repo.Filesystem(), name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read store copy of %s", rel).
			WithDetail("path", rel)
	}
	return content, nil
}

// RestoreToHome copies the store copy of a tracked file over its home
// counterpart, creating parent directories. Returns the home path written.
func (s *Store) RestoreToHome(rel string) (string, error) {
	homePath, err := s.mapper.ToHomePath(rel)
	if err != nil {
		return "", err
	}

	name, err := storeName(rel)
	if err != nil {
		return "", err
	}
	info, err := s.repo.Filesystem().Stat(name)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to stat store copy of %s", rel)
	}
	content, err := s.ReadStoreFile(rel)
	if err != nil {
		return "", err
	}

	if err := s.writeHomeFile(homePath, content, info.Mode().Perm()); err != nil {
		return "", err
	}

	s.logger.Debug().
		Str("store_path", rel).
		Str("home_path", homePath).
		Msg("Restored file to home")
	return homePath, nil
}

// Resolve returns the tracked-file name for any spelling of a home path
func (s *Store) Resolve(homePath string) (string, error) {
	return s.resolve(homePath)
}

// resolve maps any spelling of a home path to its tracked-file name. A
// missing home file is resolved lexically so deleted files stay addressable.
func (s *Store) resolve(homePath string) (string, error) {
	canonical, err := s.mapper.Canonicalize(homePath)
	if err != nil {
		if !errors.IsErrorCode(err, errors.ErrNotFound) {
			return "", err
		}
		abs, absErr := filepath.Abs(paths.ExpandHome(homePath))
		if absErr != nil {
			return "", errors.Wrapf(absErr, errors.ErrIO, "failed to get absolute path for %s", homePath)
		}
		canonical = filepath.Clean(abs)
	}
	return s.mapper.StoreRelative(canonical)
}

// writeStoreFile writes content at rel inside the worktree with perm
func (s *Store) writeStoreFile(rel string, content []byte, perm os.FileMode) error {
	wfs := s.repo.Filesystem()
	name, err := storeName(rel)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(name); dir != "." {
		if err := wfs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "failed to create store directory for %s", rel)
		}
	}
	if err := util.WriteFile(wfs, name, content, perm); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to copy %s into the store", rel)
	}
	// WriteFile only applies perm on creation
	if ch, ok := wfs.(billy.Change); ok {
		if err := ch.Chmod(name, perm); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "failed to set mode of %s", rel)
		}
	}
	return nil
}

// writeHomeFile writes content at an absolute home path with perm
func (s *Store) writeHomeFile(homePath string, content []byte, perm os.FileMode) error {
	if err := s.fs.MkdirAll(filepath.Dir(homePath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create directory for %s", homePath)
	}
	if err := s.fs.WriteFile(homePath, content, perm); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to write %s", homePath)
	}
	if err := s.fs.Chmod(homePath, perm); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to set mode of %s", homePath)
	}
	return nil
}

// storeName converts a tracked-file name into a worktree-relative OS path
func storeName(rel string) (string, error) {
	return paths.CleanRelative(rel)
}
