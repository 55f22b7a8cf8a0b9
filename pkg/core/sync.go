package core

import (
	"context"
	"strings"

	"github.com/arthur-debert/cfgtool/pkg/changes"
	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/logging"
	"github.com/arthur-debert/cfgtool/pkg/remote"
	"github.com/arthur-debert/cfgtool/pkg/types"
)

// Sync pulls, pushes and then copies pulled files onto the home directory.
// Without force it refuses to run while any tracked file has drifted.
func (o *Orchestrator) Sync(ctx context.Context, force bool) (*types.SyncResult, error) {
	logger := o.logger.With().Bool("force", force).Logger()
	done := logging.LogOperationStart(logger, "sync")
	defer done()

	detected, err := o.detector.Detect(ctx)
	if err != nil {
		return nil, err
	}
	if !force && !detected.Empty() {
		drifted, _ := detected.Paths(changes.StoreRelative)
		return nil, errors.Newf(errors.ErrLocalChanges,
			"local changes would be overwritten: %s; run update first or sync with --force",
			strings.Join(drifted, ", ")).
			WithDetail("files", drifted)
	}

	endpoint, added, err := o.ensureRemote(ctx)
	if err != nil {
		return nil, err
	}

	result := &types.SyncResult{
		Remote:      types.RemoteInfo{Name: endpoint.Name, URL: endpoint.URL},
		RemoteAdded: added,
		State:       remote.Unknown.String(),
		Restored:    []string{},
	}

	pull, err := o.syncer.PullMain(ctx)
	switch {
	case err == nil:
		result.State = pull.State.String()
		result.OldHead = pull.OldHead.String()
		result.NewHead = pull.NewHead.String()
	case errors.IsErrorCode(err, errors.ErrRemoteEmpty):
		logger.Info().Str("remote", endpoint.Name).Msg("Remote is empty, pushing")
		result.RemoteEmpty = true
	default:
		return nil, err
	}

	pushed, err := o.syncer.PushMain(ctx)
	if err != nil {
		return nil, err
	}
	result.Pushed = pushed

	if pull != nil {
		for _, rel := range pull.Changed {
			if _, err := o.store.RestoreToHome(rel); err != nil {
				return nil, err
			}
			result.Restored = append(result.Restored, rel)
		}
	}

	logger.Info().
		Str("remote", endpoint.Name).
		Str("state", result.State).
		Bool("pushed", result.Pushed).
		Int("restored", len(result.Restored)).
		Msg("Sync complete")

	return result, nil
}

// ensureRemote returns the default remote, registering one from the
// Prompter when none exists
func (o *Orchestrator) ensureRemote(ctx context.Context) (remote.Endpoint, bool, error) {
	endpoint, ok, err := o.syncer.DefaultRemote(ctx)
	if err != nil {
		return remote.Endpoint{}, false, err
	}
	if ok {
		return endpoint, false, nil
	}

	if o.prompter == nil {
		return remote.Endpoint{}, false, errors.New(errors.ErrNoRemote, "no remote configured")
	}
	url, err := o.prompter.RemoteURL(ctx)
	if err != nil {
		return remote.Endpoint{}, false, errors.Wrap(err, errors.ErrPrompt, "failed to read remote URL")
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return remote.Endpoint{}, false, errors.New(errors.ErrNoRemote, "no remote configured")
	}

	if _, err := o.syncer.AddRemote(ctx, o.remoteName, url); err != nil {
		return remote.Endpoint{}, false, err
	}
	return remote.Endpoint{Name: o.remoteName, URL: url}, true, nil
}

// AddRemote registers or repoints a remote
func (o *Orchestrator) AddRemote(ctx context.Context, name, url string) (*types.RemoteAddResult, error) {
	created, err := o.syncer.AddRemote(ctx, name, url)
	if err != nil {
		return nil, err
	}
	return &types.RemoteAddResult{
		Remote:  types.RemoteInfo{Name: name, URL: url},
		Created: created,
	}, nil
}

// Remotes lists registered remotes and names the one sync would use
func (o *Orchestrator) Remotes(ctx context.Context) (*types.RemoteListResult, error) {
	endpoints, err := o.syncer.Remotes(ctx)
	if err != nil {
		return nil, err
	}
	result := &types.RemoteListResult{Remotes: make([]types.RemoteInfo, 0, len(endpoints))}
	for _, e := range endpoints {
		result.Remotes = append(result.Remotes, types.RemoteInfo{Name: e.Name, URL: e.URL})
	}

	def, ok, err := o.syncer.DefaultRemote(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		result.Default = def.Name
	}
	return result, nil
}
