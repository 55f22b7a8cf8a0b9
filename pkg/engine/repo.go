package engine

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

const (
	// DefaultBranch is the branch new repositories start on
	DefaultBranch = "main"

	// DefaultRemoteName is the remote preferred when several are registered
	DefaultRemoteName = "origin"
)

// AuthProvider resolves authentication methods for network operations.
type AuthProvider interface {
	// Method returns the transport.AuthMethod for the given remote URL.
	// Returns nil if no authentication is needed/available for this URL.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Options configures how the repository is opened
type Options struct {
	// Path is the worktree root. REQUIRED.
	Path string

	// Branch is the only branch read or written. Defaults to DefaultBranch.
	Branch string

	// Auth is an optional provider resolving per-URL credentials.
	Auth AuthProvider
}

// Validate checks that the Options are properly configured.
func (o *Options) Validate() error {
	if o.Path == "" {
		return WrapError(ErrResolveFailed, "repository path is required")
	}
	return nil
}

func (o *Options) applyDefaults() {
	if o.Branch == "" {
		o.Branch = DefaultBranch
	}
}

// Repo is an open non-bare repository. It is not safe for concurrent use;
// one Repo per store per process.
type Repo struct {
	repo     *git.Repository
	worktree *git.Worktree
	options  Options
}

// OpenOrInit opens the repository at opts.Path, creating it (with the
// configured branch as its unborn HEAD) when none exists. An existing
// repository is never re-initialized. created reports whether a new
// repository was made.
func OpenOrInit(ctx context.Context, opts *Options) (*Repo, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, WrapError(err, "invalid options")
	}
	opts.applyDefaults()

	if err := os.MkdirAll(opts.Path, 0755); err != nil {
		return nil, false, WrapErrorf(err, "failed to create %s", opts.Path)
	}

	created := false
	repo, err := git.PlainOpen(opts.Path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInitWithOptions(opts.Path, &git.PlainInitOptions{
			InitOptions: git.InitOptions{
				DefaultBranch: plumbing.NewBranchReferenceName(opts.Branch),
			},
		})
		if err != nil {
			return nil, false, WrapError(err, "failed to initialize repository")
		}
		created = true
	} else if err != nil {
		return nil, false, WrapError(err, "failed to open repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, false, WrapError(err, "failed to get worktree")
	}

	return &Repo{repo: repo, worktree: worktree, options: *opts}, created, nil
}

// Path returns the worktree root
func (r *Repo) Path() string {
	return r.options.Path
}

// Branch returns the branch this repository reads and writes
func (r *Repo) Branch() string {
	return r.options.Branch
}

// BranchRef returns the full ref name of the branch
func (r *Repo) BranchRef() plumbing.ReferenceName {
	return plumbing.NewBranchReferenceName(r.options.Branch)
}

// Filesystem returns the worktree filesystem, rooted at Path
func (r *Repo) Filesystem() billy.Filesystem {
	return r.worktree.Filesystem
}

// Signature returns the identity used for commits, read from the
// repository config merged with the global and system configs.
func (r *Repo) Signature(ctx context.Context) (*object.Signature, error) {
	cfg, err := r.repo.ConfigScoped(config.SystemScope)
	if err != nil {
		return nil, WrapError(err, "failed to read git config")
	}

	name, email := cfg.User.Name, cfg.User.Email
	if name == "" || email == "" {
		name, email = cfg.Author.Name, cfg.Author.Email
	}
	if name == "" || email == "" {
		return nil, ErrNoSignature
	}

	return &object.Signature{Name: name, Email: email, When: time.Now()}, nil
}

// SetIdentity writes user.name and user.email into the repository config
func (r *Repo) SetIdentity(ctx context.Context, name, email string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return WrapError(err, "failed to read repository config")
	}
	cfg.User.Name = name
	cfg.User.Email = email
	if err := r.repo.SetConfig(cfg); err != nil {
		return WrapError(err, "failed to write repository config")
	}
	return nil
}
