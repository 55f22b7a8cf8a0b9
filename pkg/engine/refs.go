package engine

import (
	"context"
	"errors"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// MergeAnalysis is the relation between a local and a fetched commit
type MergeAnalysis int8

const (
	// AnalysisUpToDate means the fetched commit is already contained locally
	AnalysisUpToDate MergeAnalysis = iota
	// AnalysisFastForward means local can move forward to the fetched commit
	AnalysisFastForward
	// AnalysisNormal means the histories diverged and a real merge is needed
	AnalysisNormal
)

// String returns a human-readable string representation of the analysis.
func (a MergeAnalysis) String() string {
	switch a {
	case AnalysisUpToDate:
		return "up-to-date"
	case AnalysisFastForward:
		return "fast-forward"
	case AnalysisNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// Head returns the commit HEAD points to. ok is false when HEAD is unborn.
func (r *Repo) Head(ctx context.Context) (hash plumbing.Hash, ok bool, err error) {
	ref, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, WrapError(err, "failed to resolve HEAD")
	}
	return ref.Hash(), true, nil
}

// BranchHash returns the commit of the local branch with the given name.
// Returns ErrBranchMissing when it does not exist.
func (r *Repo) BranchHash(ctx context.Context, branch string) (plumbing.Hash, error) {
	return r.refHash(plumbing.NewBranchReferenceName(branch), branch)
}

// RemoteBranchHash returns the remote-tracking ref refs/remotes/<remote>/<branch>.
// Returns ErrBranchMissing when nothing was fetched yet.
func (r *Repo) RemoteBranchHash(ctx context.Context, remote, branch string) (plumbing.Hash, error) {
	return r.refHash(plumbing.NewRemoteReferenceName(remote, branch), remote+"/"+branch)
}

func (r *Repo) refHash(name plumbing.ReferenceName, display string) (plumbing.Hash, error) {
	ref, err := r.repo.Reference(name, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, WrapErrorf(ErrBranchMissing, "%s", display)
	}
	if err != nil {
		return plumbing.ZeroHash, WrapErrorf(err, "failed to resolve %s", display)
	}
	return ref.Hash(), nil
}

// SetBranch points the local branch at hash
func (r *Repo) SetBranch(ctx context.Context, branch string, hash plumbing.Hash) error {
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), hash)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return WrapErrorf(err, "failed to update branch %s", branch)
	}
	return nil
}

// ResetHard moves HEAD's branch to hash and makes the index and worktree
// match it.
func (r *Repo) ResetHard(ctx context.Context, hash plumbing.Hash) error {
	if err := r.worktree.Reset(&git.ResetOptions{Commit: hash, Mode: git.HardReset}); err != nil {
		return WrapErrorf(err, "failed to reset to %s", hash)
	}
	return nil
}

// Analyze computes the merge analysis of bringing remote into local.
// A zero local hash stands for an unborn branch.
func (r *Repo) Analyze(ctx context.Context, local, remote plumbing.Hash) (MergeAnalysis, error) {
	if local == remote {
		return AnalysisUpToDate, nil
	}
	if local.IsZero() {
		return AnalysisFastForward, nil
	}

	localCommit, err := r.repo.CommitObject(local)
	if err != nil {
		return AnalysisNormal, WrapErrorf(err, "failed to load commit %s", local)
	}
	remoteCommit, err := r.repo.CommitObject(remote)
	if err != nil {
		return AnalysisNormal, WrapErrorf(err, "failed to load commit %s", remote)
	}

	contained, err := remoteCommit.IsAncestor(localCommit)
	if err != nil {
		return AnalysisNormal, WrapError(err, "failed to walk history")
	}
	if contained {
		return AnalysisUpToDate, nil
	}

	behind, err := localCommit.IsAncestor(remoteCommit)
	if err != nil {
		return AnalysisNormal, WrapError(err, "failed to walk history")
	}
	if behind {
		return AnalysisFastForward, nil
	}

	return AnalysisNormal, nil
}

// ChangedFiles lists the paths that exist in to and differ from from,
// sorted. A zero from hash stands for the empty tree.
func (r *Repo) ChangedFiles(ctx context.Context, from, to plumbing.Hash) ([]string, error) {
	fromTree, err := r.treeAt(from)
	if err != nil {
		return nil, err
	}
	toTree, err := r.treeAt(to)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, nil)
	if err != nil {
		return nil, WrapError(err, "failed to diff trees")
	}

	var paths []string
	for _, change := range changes {
		// Deleted files have no new content to copy out.
		if change.To.Name == "" {
			continue
		}
		paths = append(paths, change.To.Name)
	}
	sort.Strings(paths)
	return paths, nil
}

// treeAt returns the tree of a commit; nil for the zero hash
func (r *Repo) treeAt(hash plumbing.Hash) (*object.Tree, error) {
	if hash.IsZero() {
		return nil, nil
	}
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, WrapErrorf(err, "failed to load commit %s", hash)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, WrapErrorf(err, "failed to load tree of %s", hash)
	}
	return tree, nil
}
