// Package remote synchronizes the store's main branch with one remote.
//
// The merge policy is fast-forward only. A pull that would need a real
// merge fails with NON_FAST_FORWARD and leaves the store untouched; the
// user resolves it outside cfgtool.
package remote

import (
	"context"
	stderrors "errors"

	"github.com/arthur-debert/cfgtool/pkg/engine"
	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/logging"
	"github.com/arthur-debert/cfgtool/pkg/paths"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"
)

// Endpoint is a registered remote
type Endpoint struct {
	Name string
	URL  string
}

// Options configures a Syncer
type Options struct {
	// Preferred is the remote chosen when several exist. Defaults to
	// engine.DefaultRemoteName.
	Preferred string
}

// PullResult reports what PullMain did
type PullResult struct {
	Remote Endpoint
	// State is the relation before the pull
	State   State
	OldHead plumbing.Hash
	NewHead plumbing.Hash
	// Changed lists store-relative files the pull brought in, sorted
	Changed []string
}

// FastForwarded reports whether the pull moved local main
func (r *PullResult) FastForwarded() bool {
	return r.OldHead != r.NewHead
}

// Syncer drives fetch, fast-forward and push against the default remote
type Syncer struct {
	repo      *engine.Repo
	preferred string
	logger    zerolog.Logger
}

// NewSyncer creates a syncer over a borrowed engine handle
func NewSyncer(repo *engine.Repo, opts Options) *Syncer {
	if opts.Preferred == "" {
		opts.Preferred = engine.DefaultRemoteName
	}
	return &Syncer{
		repo:      repo,
		preferred: opts.Preferred,
		logger:    logging.GetLogger("remote"),
	}
}

// AddRemote registers a remote, or repoints an existing one. created
// reports whether the name is new.
func (s *Syncer) AddRemote(ctx context.Context, name, url string) (bool, error) {
	if err := paths.ValidateRemoteName(name); err != nil {
		return false, err
	}
	if url == "" {
		return false, errors.New(errors.ErrInvalidInput, "remote URL cannot be empty")
	}

	created, err := s.repo.SetRemote(ctx, name, url)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrEngine, "failed to register remote %s", name)
	}

	s.logger.Info().
		Str("remote", name).
		Str("url", url).
		Bool("created", created).
		Msg("Remote registered")
	return created, nil
}

// Remotes lists registered remotes in registration order
func (s *Syncer) Remotes(ctx context.Context) ([]Endpoint, error) {
	remotes, err := s.repo.Remotes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEngine, "failed to list remotes")
	}
	endpoints := make([]Endpoint, 0, len(remotes))
	for _, r := range remotes {
		endpoints = append(endpoints, Endpoint{Name: r.Name, URL: r.URL})
	}
	return endpoints, nil
}

// DefaultRemote selects the preferred remote when registered, else the
// first one registered. ok is false when there are none.
func (s *Syncer) DefaultRemote(ctx context.Context) (Endpoint, bool, error) {
	remotes, err := s.Remotes(ctx)
	if err != nil {
		return Endpoint{}, false, err
	}
	if len(remotes) == 0 {
		return Endpoint{}, false, nil
	}
	for _, r := range remotes {
		if r.Name == s.preferred {
			return r, true, nil
		}
	}
	return remotes[0], true, nil
}

func (s *Syncer) requireRemote(ctx context.Context) (Endpoint, error) {
	remote, ok, err := s.DefaultRemote(ctx)
	if err != nil {
		return Endpoint{}, err
	}
	if !ok {
		return Endpoint{}, errors.New(errors.ErrNoRemote, "no remote configured")
	}
	return remote, nil
}

// PullMain fetches main from the default remote and fast-forwards local
// main to it. Returns REMOTE_EMPTY when the remote has no main yet and
// NON_FAST_FORWARD when the histories diverged; neither touches the store.
func (s *Syncer) PullMain(ctx context.Context) (*PullResult, error) {
	remote, err := s.requireRemote(ctx)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With().Str("remote", remote.Name).Logger()
	done := logging.LogOperationStart(logger, "pull main")
	defer done()

	branch := s.repo.Branch()
	err = s.repo.Fetch(ctx, remote.Name, branch)
	switch {
	case err == nil, stderrors.Is(err, engine.ErrAlreadyUpToDate):
	case stderrors.Is(err, engine.ErrRemoteEmpty):
		logger.Info().Msg("Remote has no main branch yet")
		return nil, errors.Wrapf(err, errors.ErrRemoteEmpty, "remote %s has no %s branch", remote.Name, branch).
			WithDetail("remote", remote.Name)
	default:
		return nil, errors.Wrapf(err, errors.ErrEngine, "failed to fetch from %s", remote.Name).
			WithDetail("remote", remote.Name)
	}

	fetched, err := s.repo.RemoteBranchHash(ctx, remote.Name, branch)
	if stderrors.Is(err, engine.ErrBranchMissing) {
		return nil, errors.Wrapf(err, errors.ErrRemoteEmpty, "remote %s has no %s branch", remote.Name, branch).
			WithDetail("remote", remote.Name)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEngine, "failed to resolve fetched ref")
	}

	local, err := s.localHead(ctx)
	if err != nil {
		return nil, err
	}

	state, err := s.classify(ctx, local, fetched)
	if err != nil {
		return nil, err
	}

	result := &PullResult{Remote: remote, State: state, OldHead: local, NewHead: local}

	switch state {
	case Clean, Ahead:
		logger.Debug().Str("state", state.String()).Msg("Nothing to pull")
		return result, nil
	case Diverged:
		return nil, errors.Newf(errors.ErrNonFastForward,
			"local %s and %s/%s have diverged; merge them manually in the store", branch, remote.Name, branch).
			WithDetail("remote", remote.Name).
			WithDetail("local", local.String()).
			WithDetail("fetched", fetched.String())
	}

	if err := s.repo.SetBranch(ctx, branch, fetched); err != nil {
		return nil, errors.Wrap(err, errors.ErrEngine, "failed to move main")
	}
	if err := s.repo.ResetHard(ctx, fetched); err != nil {
		return nil, errors.Wrap(err, errors.ErrEngine, "failed to check out fetched main")
	}
	result.NewHead = fetched

	changed, err := s.repo.ChangedFiles(ctx, local, fetched)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEngine, "failed to list pulled files")
	}
	result.Changed = changed

	logger.Info().
		Str("from", shortHash(local)).
		Str("to", shortHash(fetched)).
		Int("files", len(changed)).
		Msg("Fast-forwarded main")

	return result, nil
}

// PushMain pushes local main to the default remote. pushed is false when
// the remote already had it.
func (s *Syncer) PushMain(ctx context.Context) (pushed bool, err error) {
	remote, err := s.requireRemote(ctx)
	if err != nil {
		return false, err
	}
	branch := s.repo.Branch()

	if _, err := s.repo.BranchHash(ctx, branch); err != nil {
		if stderrors.Is(err, engine.ErrBranchMissing) {
			return false, errors.Newf(errors.ErrNoMainBranch, "the store has no %s branch yet; track a file first", branch)
		}
		return false, errors.Wrap(err, errors.ErrEngine, "failed to resolve main")
	}

	logger := s.logger.With().Str("remote", remote.Name).Logger()
	done := logging.LogOperationStart(logger, "push main")
	defer done()

	err = s.repo.Push(ctx, remote.Name, branch)
	switch {
	case err == nil:
		logger.Info().Msg("Pushed main")
		return true, nil
	case stderrors.Is(err, engine.ErrAlreadyUpToDate):
		logger.Debug().Msg("Remote already up to date")
		return false, nil
	case stderrors.Is(err, engine.ErrNotFastForward):
		return false, errors.Wrapf(err, errors.ErrNonFastForward, "%s rejected the push", remote.Name).
			WithDetail("remote", remote.Name)
	default:
		return false, errors.Wrapf(err, errors.ErrEngine, "failed to push to %s", remote.Name).
			WithDetail("remote", remote.Name)
	}
}

// State compares local main with the last fetched remote main without
// touching the network
func (s *Syncer) State(ctx context.Context) (State, error) {
	remote, ok, err := s.DefaultRemote(ctx)
	if err != nil || !ok {
		return Unknown, err
	}

	fetched, err := s.repo.RemoteBranchHash(ctx, remote.Name, s.repo.Branch())
	if stderrors.Is(err, engine.ErrBranchMissing) {
		return Unknown, nil
	}
	if err != nil {
		return Unknown, errors.Wrap(err, errors.ErrEngine, "failed to resolve fetched ref")
	}

	local, err := s.localHead(ctx)
	if err != nil {
		return Unknown, err
	}
	return s.classify(ctx, local, fetched)
}

// localHead returns local main, or the zero hash when it does not exist
func (s *Syncer) localHead(ctx context.Context) (plumbing.Hash, error) {
	local, err := s.repo.BranchHash(ctx, s.repo.Branch())
	if stderrors.Is(err, engine.ErrBranchMissing) {
		return plumbing.ZeroHash, nil
	}
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, errors.ErrEngine, "failed to resolve main")
	}
	return local, nil
}

func (s *Syncer) classify(ctx context.Context, local, fetched plumbing.Hash) (State, error) {
	if local == fetched {
		return Clean, nil
	}
	analysis, err := s.repo.Analyze(ctx, local, fetched)
	if err != nil {
		return Unknown, errors.Wrap(err, errors.ErrEngine, "merge analysis failed")
	}
	switch analysis {
	case engine.AnalysisUpToDate:
		return Ahead, nil
	case engine.AnalysisFastForward:
		return Behind, nil
	default:
		return Diverged, nil
	}
}

func shortHash(h plumbing.Hash) string {
	if h.IsZero() {
		return "(none)"
	}
	return h.String()[:7]
}
