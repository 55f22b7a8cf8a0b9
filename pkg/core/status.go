package core

import (
	"context"

	"github.com/arthur-debert/cfgtool/pkg/changes"
	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/types"
)

// Status reports every tracked file with its drift flag, plus the default
// remote and its last known relation to local main. It never touches the
// network and never fails because one file is unreadable.
func (o *Orchestrator) Status(ctx context.Context) (*types.StatusResult, error) {
	tracked, err := o.store.TrackedFiles(ctx)
	if err != nil {
		return nil, err
	}

	detected, err := o.detector.WithPolicy(changes.PolicySkip).Detect(ctx)
	if err != nil {
		return nil, err
	}
	unreadable := make(map[string]string, len(detected.Skipped))
	for _, s := range detected.Skipped {
		unreadable[s.Path] = s.Err.Error()
	}

	result := &types.StatusResult{
		StoreRoot: o.mapper.StoreRoot(),
		HomeRoot:  o.mapper.HomeRoot(),
		Empty:     len(tracked) == 0,
		Files:     make([]types.FileStatus, 0, len(tracked)),
	}
	for _, rel := range tracked {
		file := types.FileStatus{
			StorePath: rel,
			Modified:  detected.Contains(rel),
			Error:     unreadable[rel],
		}
		if home, err := o.mapper.ToHomePath(rel); err == nil {
			file.HomePath = home
		}
		result.Files = append(result.Files, file)
	}

	endpoint, ok, err := o.syncer.DefaultRemote(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		result.Remote = &types.RemoteInfo{Name: endpoint.Name, URL: endpoint.URL}
		state, err := o.syncer.State(ctx)
		if err != nil {
			return nil, err
		}
		result.RemoteState = state.String()
	}

	return result, nil
}

// History lists the commits that touched a tracked file, newest first
func (o *Orchestrator) History(ctx context.Context, path string, limit int) ([]types.Revision, error) {
	return o.store.History(ctx, path, limit)
}

// Rollback restores a tracked file to its content at revision, recording
// the restore as a new commit and copying the result onto the home file.
// An empty revision selects the file's previous revision. Without force it
// refuses to overwrite a home copy with uncommitted changes.
func (o *Orchestrator) Rollback(ctx context.Context, path, revision, message string, force bool) (*types.RollbackResult, error) {
	if !force {
		rel, err := o.store.Resolve(path)
		if err != nil {
			return nil, err
		}
		detected, err := o.detector.WithPolicy(changes.PolicySkip).Detect(ctx)
		if err != nil {
			return nil, err
		}
		if detected.Contains(rel) {
			return nil, errors.Newf(errors.ErrLocalChanges,
				"local changes to %s would be overwritten; run update first or roll back with --force", rel).
				WithDetail("files", []string{rel})
		}
	}

	if revision == "" {
		revisions, err := o.store.History(ctx, path, 2)
		if err != nil {
			return nil, err
		}
		if len(revisions) < 2 {
			return nil, errors.Newf(errors.ErrNotFound, "%s has no earlier revision", path).
				WithDetail("path", path)
		}
		revision = revisions[1].Hash
	}
	return o.store.Rollback(ctx, path, revision, message)
}
