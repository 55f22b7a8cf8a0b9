package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cfgtool/pkg/engine"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"
)

// NewBareRemote creates an empty bare repository and returns its path,
// usable as a remote URL
func NewBareRemote(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "remote.git")
	_, err := git.PlainInit(dir, true)
	require.NoError(t, err)
	return dir
}

// SeedRemote plays a second machine: it fetches main from url (when the
// remote has commits), commits files on top of it and pushes. Returns the
// new commit hash.
func SeedRemote(t *testing.T, url string, files map[string]string, message string) string {
	t.Helper()
	ctx := context.Background()

	repo, _, err := engine.OpenOrInit(ctx, &engine.Options{Path: filepath.Join(t.TempDir(), "clone")})
	require.NoError(t, err)
	require.NoError(t, repo.SetIdentity(ctx, "Other Machine", "other@example.com"))
	_, err = repo.SetRemote(ctx, engine.DefaultRemoteName, url)
	require.NoError(t, err)

	var parents []plumbing.Hash
	err = repo.Fetch(ctx, engine.DefaultRemoteName, engine.DefaultBranch)
	switch {
	case err == nil || errors.Is(err, engine.ErrAlreadyUpToDate):
		remote, err := repo.RemoteBranchHash(ctx, engine.DefaultRemoteName, engine.DefaultBranch)
		require.NoError(t, err)
		require.NoError(t, repo.SetBranch(ctx, engine.DefaultBranch, remote))
		require.NoError(t, repo.ResetHard(ctx, remote))
		parents = []plumbing.Hash{remote}
	case errors.Is(err, engine.ErrRemoteEmpty):
	default:
		require.NoError(t, err)
	}

	for name, content := range files {
		path := filepath.Join(repo.Path(), filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		require.NoError(t, repo.Add(ctx, name))
	}

	sig, err := repo.Signature(ctx)
	require.NoError(t, err)
	hash, err := repo.Commit(ctx, message, parents, sig)
	require.NoError(t, err)

	require.NoError(t, repo.Push(ctx, engine.DefaultRemoteName, engine.DefaultBranch))
	return hash.String()
}

// RemoteHead returns the hash of main on a bare remote, or "" when the
// remote has no commits
func RemoteHead(t *testing.T, url string) string {
	t.Helper()
	repo, err := git.PlainOpen(url)
	require.NoError(t, err)
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(engine.DefaultBranch), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return ""
	}
	require.NoError(t, err)
	return ref.Hash().String()
}
