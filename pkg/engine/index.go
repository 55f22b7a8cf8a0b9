package engine

import (
	"context"
	"errors"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// IndexEntries returns the slash-separated paths of every index entry,
// sorted.
func (r *Repo) IndexEntries(ctx context.Context) ([]string, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, WrapError(err, "failed to read index")
	}

	names := make([]string, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Add stages a worktree path (slash-separated, relative to the root)
func (r *Repo) Add(ctx context.Context, path string) error {
	if _, err := r.worktree.Add(path); err != nil {
		return WrapErrorf(err, "failed to add path %q", path)
	}
	return nil
}

// Unstage drops path from the index and leaves the worktree alone. A path
// that is not staged is not an error.
func (r *Repo) Unstage(ctx context.Context, path string) error {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return WrapError(err, "failed to read index")
	}
	if _, err := idx.Remove(path); err != nil {
		if errors.Is(err, index.ErrEntryNotFound) {
			return nil
		}
		return WrapErrorf(err, "failed to unstage path %q", path)
	}
	if err := r.repo.Storer.SetIndex(idx); err != nil {
		return WrapError(err, "failed to write index")
	}
	return nil
}

// Commit writes a commit of the current index with the given parents.
// author is used as both author and committer. Returns ErrNothingToCommit
// when the resulting tree equals the first parent's tree.
func (r *Repo) Commit(ctx context.Context, message string, parents []plumbing.Hash, author *object.Signature) (plumbing.Hash, error) {
	if author == nil {
		return plumbing.ZeroHash, ErrNoSignature
	}

	// With no parents and an existing head, go-git uses the head.
	opts := &git.CommitOptions{
		Author:    author,
		Committer: author,
		Parents:   parents,
	}

	hash, err := r.worktree.Commit(message, opts)
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return plumbing.ZeroHash, ErrNothingToCommit
		}
		return plumbing.ZeroHash, WrapError(err, "failed to commit")
	}
	return hash, nil
}
