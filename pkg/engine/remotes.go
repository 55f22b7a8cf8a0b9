package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Remote is a registered remote
type Remote struct {
	Name string
	URL  string
}

// Remotes returns every registered remote in registration order (the order
// of the [remote "..."] sections in the repository config).
func (r *Repo) Remotes(ctx context.Context) ([]Remote, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, WrapError(err, "failed to read repository config")
	}

	var remotes []Remote
	seen := make(map[string]bool)
	for _, sub := range cfg.Raw.Section("remote").Subsections {
		rc, ok := cfg.Remotes[sub.Name]
		if !ok || seen[sub.Name] {
			continue
		}
		seen[sub.Name] = true
		remotes = append(remotes, Remote{Name: sub.Name, URL: firstURL(rc)})
	}
	return remotes, nil
}

// RemoteURL returns the URL of a named remote.
// Returns ErrRemoteMissing when it is not registered.
func (r *Repo) RemoteURL(ctx context.Context, name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if errors.Is(err, git.ErrRemoteNotFound) {
		return "", WrapErrorf(ErrRemoteMissing, "%s", name)
	}
	if err != nil {
		return "", WrapErrorf(err, "failed to look up remote %s", name)
	}
	return firstURL(remote.Config()), nil
}

// SetRemote registers a remote, or repoints an existing one at url while
// keeping its position. created reports whether the name is new.
func (r *Repo) SetRemote(ctx context.Context, name, url string) (created bool, err error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return false, WrapError(err, "failed to read repository config")
	}

	if rc, ok := cfg.Remotes[name]; ok {
		if firstURL(rc) == url {
			return false, nil
		}
		rc.URLs = []string{url}
		if err := rc.Validate(); err != nil {
			return false, WrapErrorf(err, "invalid remote %s", name)
		}
		if err := r.repo.SetConfig(cfg); err != nil {
			return false, WrapErrorf(err, "failed to update remote %s", name)
		}
		return false, nil
	}

	if _, err := r.repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}}); err != nil {
		return false, WrapErrorf(err, "failed to add remote %s", name)
	}
	return true, nil
}

// Fetch fetches refs/heads/<branch> of the named remote into
// refs/remotes/<remote>/<branch>. Returns ErrAlreadyUpToDate when nothing
// changed and ErrRemoteEmpty when the remote has no such branch.
func (r *Repo) Fetch(ctx context.Context, remote, branch string) error {
	url, err := r.RemoteURL(ctx, remote)
	if err != nil {
		return err
	}

	refspec := config.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", branch, remote, branch))
	fetchOpts := &git.FetchOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{refspec},
		Tags:       git.NoTags,
	}

	if r.options.Auth != nil {
		authMethod, authErr := r.options.Auth.Method(url)
		if authErr != nil {
			return WrapError(authErr, "failed to get authentication method")
		}
		fetchOpts.Auth = authMethod
	}

	err = r.repo.FetchContext(ctx, fetchOpts)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return ErrAlreadyUpToDate
	case errors.Is(err, transport.ErrEmptyRemoteRepository),
		errors.Is(err, git.NoMatchingRefSpecError{}):
		return WrapErrorf(ErrRemoteEmpty, "refs/heads/%s on %s", branch, remote)
	default:
		return WrapErrorf(err, "failed to fetch from %s", remote)
	}
}

// Push pushes refs/heads/<branch> to the same ref on the named remote.
// Returns ErrAlreadyUpToDate when the remote already has it and
// ErrNotFastForward when the remote rejected the update.
func (r *Repo) Push(ctx context.Context, remote, branch string) error {
	url, err := r.RemoteURL(ctx, remote)
	if err != nil {
		return err
	}

	ref := fmt.Sprintf("refs/heads/%s", branch)
	pushOpts := &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{config.RefSpec(ref + ":" + ref)},
	}

	if r.options.Auth != nil {
		authMethod, authErr := r.options.Auth.Method(url)
		if authErr != nil {
			return WrapError(authErr, "failed to get authentication method")
		}
		pushOpts.Auth = authMethod
	}

	err = r.repo.PushContext(ctx, pushOpts)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return ErrAlreadyUpToDate
	case errors.Is(err, git.ErrNonFastForwardUpdate),
		errors.Is(err, git.ErrForceNeeded),
		strings.Contains(err.Error(), "non-fast-forward"):
		return WrapErrorf(ErrNotFastForward, "push to %s rejected", remote)
	default:
		return WrapErrorf(err, "failed to push to %s", remote)
	}
}

func firstURL(rc *config.RemoteConfig) string {
	if rc == nil || len(rc.URLs) == 0 {
		return ""
	}
	return rc.URLs[0]
}
