package engine

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// FileHistory returns the commits reachable from HEAD that changed path,
// newest first. limit <= 0 means no limit. An unborn HEAD has no history.
func (r *Repo) FileHistory(ctx context.Context, path string, limit int) ([]*object.Commit, error) {
	head, ok, err := r.Head(ctx)
	if err != nil || !ok {
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:     head,
		FileName: &path,
	})
	if err != nil {
		return nil, WrapError(err, "failed to create commit iterator")
	}
	defer iter.Close()

	var commits []*object.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(commits) >= limit {
			return storer.ErrStop
		}
		commits = append(commits, c)
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, WrapErrorf(err, "failed to walk history of %s", path)
	}
	return commits, nil
}

// ResolveCommit resolves a revision (hash, short hash, HEAD~n, branch) to
// a commit hash.
func (r *Repo) ResolveCommit(ctx context.Context, rev string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, WrapErrorf(ErrResolveFailed, "%s", rev)
	}
	if _, err := r.repo.CommitObject(*hash); err != nil {
		return plumbing.ZeroHash, WrapErrorf(ErrResolveFailed, "%s is not a commit", rev)
	}
	return *hash, nil
}

// FileAt returns the content and mode of path as of commit hash.
// Returns ErrFileMissing when the commit does not contain it.
func (r *Repo) FileAt(ctx context.Context, hash plumbing.Hash, path string) ([]byte, os.FileMode, error) {
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, 0, WrapErrorf(err, "failed to load commit %s", hash)
	}

	file, err := commit.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, 0, WrapErrorf(ErrFileMissing, "%s at %s", path, hash.String()[:7])
	}
	if err != nil {
		return nil, 0, WrapErrorf(err, "failed to read %s at %s", path, hash)
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, 0, WrapErrorf(err, "failed to read %s at %s", path, hash)
	}

	mode, err := file.Mode.ToOSFileMode()
	if err != nil {
		mode = 0644
	}
	return []byte(contents), mode, nil
}
