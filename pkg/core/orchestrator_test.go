// pkg/core/orchestrator_test.go
// TEST TYPE: Integration Tests
// DEPENDENCIES: Real filesystem (isolated temp environment), go-git, bare remotes
// PURPOSE: Test track, update, sync and status end to end through the orchestrator

package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/arthur-debert/cfgtool/pkg/config"
	"github.com/arthur-debert/cfgtool/pkg/core"
	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/testutil"
	"github.com/arthur-debert/cfgtool/pkg/types"
	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers from fixed tables and records what it was asked
type scriptedPrompter struct {
	accept    map[string]bool
	messages  map[string]string
	remoteURL string

	offered []types.UpdateCandidate
	asked   int
}

func (p *scriptedPrompter) ConfirmUpdate(_ context.Context, c types.UpdateCandidate) (bool, error) {
	p.offered = append(p.offered, c)
	return p.accept[c.StorePath], nil
}

func (p *scriptedPrompter) CommitMessage(_ context.Context, c types.UpdateCandidate) (string, error) {
	return p.messages[c.StorePath], nil
}

func (p *scriptedPrompter) RemoteURL(_ context.Context) (string, error) {
	p.asked++
	return p.remoteURL, nil
}

func open(t *testing.T, env *testutil.TestEnvironment, prompter types.Prompter) *core.Orchestrator {
	t.Helper()
	o, err := core.Open(context.Background(), core.Setup{
		HomeRoot:  env.HomeDir,
		StoreRoot: env.StoreRoot,
		Prompter:  prompter,
	})
	require.NoError(t, err)
	return o
}

func head(t *testing.T, root string) (string, []string) {
	t.Helper()
	repo, err := git.PlainOpen(root)
	require.NoError(t, err)
	ref, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	var parents []string
	for _, p := range commit.ParentHashes {
		parents = append(parents, p.String())
	}
	return commit.Hash.String(), parents
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := core.New(core.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestTrackEditUpdateCycle(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	prompter := &scriptedPrompter{
		accept:   map[string]bool{".bashrc": true},
		messages: map[string]string{".bashrc": "add alias"},
	}
	o := open(t, env, prompter)
	home := env.WriteHomeFile(".bashrc", "export EDITOR=vim\n")

	tracked, err := o.Track(ctx, home)
	require.NoError(t, err)
	assert.True(t, tracked.Committed)
	assert.False(t, tracked.AlreadyTracked)

	env.WriteHomeFile(".bashrc", "export EDITOR=vim\nalias ll='ls -l'\n")

	status, err := o.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status.Files, 1)
	assert.True(t, status.Files[0].Modified)
	assert.Equal(t, home, status.Files[0].HomePath)

	updated, err := o.Update(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{".bashrc"}, updated.Changes)
	require.Len(t, updated.Committed, 1)
	assert.Equal(t, "add alias", updated.Committed[0].Message)
	assert.Empty(t, updated.Declined)

	require.Len(t, prompter.offered, 1)
	assert.Equal(t, home, prompter.offered[0].HomePath)
	assert.Contains(t, prompter.offered[0].Diff, "+alias ll='ls -l'")

	hash, parents := head(t, env.StoreRoot)
	assert.Equal(t, updated.Committed[0].Commit, hash)
	assert.Equal(t, []string{tracked.Commit}, parents)
	env.AssertStoreFile(".bashrc", "export EDITOR=vim\nalias ll='ls -l'\n")

	again, err := o.Update(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Changes)
	assert.Len(t, prompter.offered, 1, "nothing left to offer")
}

func TestTrack_AlreadyTracked(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	o := open(t, env, nil)
	home := env.WriteHomeFile(".gitconfig", "[core]\n")

	_, err := o.Track(ctx, home)
	require.NoError(t, err)
	before, _ := head(t, env.StoreRoot)

	env.WriteHomeFile(".gitconfig", "[core]\n\tpager = less\n")
	again, err := o.Track(ctx, "~/.gitconfig")
	require.NoError(t, err)
	assert.True(t, again.AlreadyTracked)
	assert.False(t, again.Committed)
	assert.Equal(t, home, again.HomePath)
	assert.Equal(t, ".gitconfig", again.StorePath)

	after, _ := head(t, env.StoreRoot)
	assert.Equal(t, before, after)
	env.AssertStoreFile(".gitconfig", "[core]\n")
}

func TestUpdate_DeclinedAndEmptyMessage(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	prompter := &scriptedPrompter{accept: map[string]bool{".zshrc": true}}
	o := open(t, env, prompter)

	for _, name := range []string{".bashrc", ".zshrc"} {
		_, err := o.Track(ctx, env.WriteHomeFile(name, "v1\n"))
		require.NoError(t, err)
		env.WriteHomeFile(name, "v2\n")
	}

	result, err := o.Update(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{".bashrc", ".zshrc"}, result.Changes)
	assert.Equal(t, []string{".bashrc"}, result.Declined)
	require.Len(t, result.Committed, 1)
	assert.Equal(t, ".zshrc", result.Committed[0].StorePath)
	assert.Equal(t, "Tracked file .zshrc", result.Committed[0].Message)

	env.AssertStoreFile(".bashrc", "v1\n")
	env.AssertStoreFile(".zshrc", "v2\n")
}

func TestUpdate_RequiresPrompter(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	o := open(t, env, nil)

	_, err := o.Update(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestUpdate_SkipPolicyReportsUnreadable(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	cfg := config.Default()
	cfg.Update.OnUnreadable = config.OnUnreadableSkip
	o, err := core.Open(ctx, core.Setup{
		Config:    cfg,
		HomeRoot:  env.HomeDir,
		StoreRoot: env.StoreRoot,
		Prompter:  &scriptedPrompter{},
	})
	require.NoError(t, err)

	home := env.WriteHomeFile(".profile", "x\n")
	_, err = o.Track(ctx, home)
	require.NoError(t, err)
	require.NoError(t, os.Remove(home))

	result, err := o.Update(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Changes)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, ".profile", result.Skipped[0].StorePath)
}

func TestUpdate_AbortPolicyFailsOnUnreadable(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	o := open(t, env, &scriptedPrompter{})

	home := env.WriteHomeFile(".profile", "x\n")
	_, err := o.Track(ctx, home)
	require.NoError(t, err)
	require.NoError(t, os.Remove(home))

	_, err = o.Update(ctx)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))

	status, err := o.Status(ctx)
	require.NoError(t, err, "status never fails on one unreadable file")
	require.Len(t, status.Files, 1)
	assert.NotEmpty(t, status.Files[0].Error)
}

func TestSync_LocalChangesAbortWithoutMutation(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	url := testutil.NewBareRemote(t)
	prompter := &scriptedPrompter{remoteURL: url}
	o := open(t, env, prompter)

	_, err := o.Track(ctx, env.WriteHomeFile(".bashrc", "v1\n"))
	require.NoError(t, err)
	env.WriteHomeFile(".bashrc", "v2\n")
	before, _ := head(t, env.StoreRoot)

	_, err = o.Sync(ctx, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLocalChanges))
	assert.Equal(t, []string{".bashrc"}, errors.GetErrorDetails(err)["files"])

	assert.Zero(t, prompter.asked, "no remote is registered before the drift check")
	remotes, err := o.Remotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, remotes.Remotes)
	assert.Empty(t, remotes.Default)
	after, _ := head(t, env.StoreRoot)
	assert.Equal(t, before, after)
	assert.Equal(t, "", testutil.RemoteHead(t, url))
	env.AssertHomeFile(".bashrc", "v2\n")
}

func TestSync_NoRemoteDeclined(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	o := open(t, env, &scriptedPrompter{})

	_, err := o.Sync(context.Background(), false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoRemote))
}

func TestSync_EmptyRemoteFallsThroughToPush(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	url := testutil.NewBareRemote(t)
	prompter := &scriptedPrompter{remoteURL: url}
	o := open(t, env, prompter)

	_, err := o.Track(ctx, env.WriteHomeFile(".bashrc", "v1\n"))
	require.NoError(t, err)

	result, err := o.Sync(ctx, false)
	require.NoError(t, err)
	assert.True(t, result.RemoteAdded)
	assert.Equal(t, "origin", result.Remote.Name)
	assert.Equal(t, url, result.Remote.URL)
	assert.True(t, result.RemoteEmpty)
	assert.True(t, result.Pushed)
	assert.Empty(t, result.Restored)

	local, _ := head(t, env.StoreRoot)
	assert.Equal(t, local, testutil.RemoteHead(t, url))

	again, err := o.Sync(ctx, false)
	require.NoError(t, err)
	assert.False(t, again.RemoteAdded)
	assert.False(t, again.RemoteEmpty)
	assert.False(t, again.Pushed)
	assert.Equal(t, "clean", again.State)
	assert.Equal(t, 1, prompter.asked)

	status, err := o.Status(ctx)
	require.NoError(t, err)
	require.NotNil(t, status.Remote)
	assert.Equal(t, "origin", status.Remote.Name)
	assert.Equal(t, "clean", status.RemoteState)
}

func TestSync_FastForwardRestoresHomeFiles(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	url := testutil.NewBareRemote(t)
	o := open(t, env, &scriptedPrompter{remoteURL: url})

	_, err := o.Track(ctx, env.WriteHomeFile(".bashrc", "v1\n"))
	require.NoError(t, err)
	_, err = o.Sync(ctx, false)
	require.NoError(t, err)

	remoteHead := testutil.SeedRemote(t, url, map[string]string{
		".bashrc":           "v2 from laptop\n",
		".config/nvim/init": "set number\n",
	}, "changes from laptop")

	result, err := o.Sync(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "behind", result.State)
	assert.Equal(t, remoteHead, result.NewHead)
	assert.NotEqual(t, result.OldHead, result.NewHead)
	assert.False(t, result.Pushed)
	assert.Equal(t, []string{".bashrc", ".config/nvim/init"}, result.Restored)

	env.AssertHomeFile(".bashrc", "v2 from laptop\n")
	env.AssertHomeFile(".config/nvim/init", "set number\n")

	status, err := o.Status(ctx)
	require.NoError(t, err)
	assert.Len(t, status.Files, 2)
	for _, f := range status.Files {
		assert.False(t, f.Modified, f.StorePath)
	}
}

func TestSync_ForceOverwritesDrift(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	url := testutil.NewBareRemote(t)
	o := open(t, env, &scriptedPrompter{remoteURL: url})

	_, err := o.Track(ctx, env.WriteHomeFile(".bashrc", "v1\n"))
	require.NoError(t, err)
	_, err = o.Sync(ctx, false)
	require.NoError(t, err)

	testutil.SeedRemote(t, url, map[string]string{".bashrc": "remote\n"}, "remote edit")
	env.WriteHomeFile(".bashrc", "local edit\n")

	result, err := o.Sync(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{".bashrc"}, result.Restored)
	env.AssertHomeFile(".bashrc", "remote\n")
}

func TestSync_DivergedIsNonFastForward(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	url := testutil.NewBareRemote(t)
	o := open(t, env, &scriptedPrompter{remoteURL: url})

	_, err := o.Track(ctx, env.WriteHomeFile(".bashrc", "v1\n"))
	require.NoError(t, err)
	_, err = o.Sync(ctx, false)
	require.NoError(t, err)

	testutil.SeedRemote(t, url, map[string]string{".bashrc": "remote\n"}, "remote edit")
	_, err = o.Track(ctx, env.WriteHomeFile(".vimrc", "local\n"))
	require.NoError(t, err)
	before, _ := head(t, env.StoreRoot)

	_, err = o.Sync(ctx, false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNonFastForward))

	after, _ := head(t, env.StoreRoot)
	assert.Equal(t, before, after)
	env.AssertHomeFile(".bashrc", "v1\n")
}

func TestSync_OriginIsDefaultRemote(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	backup := testutil.NewBareRemote(t)
	origin := testutil.NewBareRemote(t)
	prompter := &scriptedPrompter{}
	o := open(t, env, prompter)

	_, err := o.Track(ctx, env.WriteHomeFile(".bashrc", "v1\n"))
	require.NoError(t, err)

	added, err := o.AddRemote(ctx, "backup", backup)
	require.NoError(t, err)
	assert.True(t, added.Created)
	added, err = o.AddRemote(ctx, "origin", origin)
	require.NoError(t, err)
	assert.True(t, added.Created)
	assert.Equal(t, origin, added.Remote.URL)

	result, err := o.Sync(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "origin", result.Remote.Name)
	assert.Zero(t, prompter.asked)
	assert.NotEmpty(t, testutil.RemoteHead(t, origin))
	assert.Empty(t, testutil.RemoteHead(t, backup))

	remotes, err := o.Remotes(ctx)
	require.NoError(t, err)
	require.Len(t, remotes.Remotes, 2)
	assert.Equal(t, "backup", remotes.Remotes[0].Name)
	assert.Equal(t, "origin", remotes.Remotes[1].Name)
	assert.Equal(t, "origin", remotes.Default)
}

func TestHistoryAndRollback(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	prompter := &scriptedPrompter{accept: map[string]bool{".bashrc": true}}
	o := open(t, env, prompter)
	home := env.WriteHomeFile(".bashrc", "v1\n")

	first, err := o.Track(ctx, home)
	require.NoError(t, err)
	env.WriteHomeFile(".bashrc", "v2\n")
	_, err = o.Update(ctx)
	require.NoError(t, err)

	revisions, err := o.History(ctx, home, 0)
	require.NoError(t, err)
	require.Len(t, revisions, 2)
	assert.Equal(t, first.Commit, revisions[1].Hash)

	rolled, err := o.Rollback(ctx, home, first.Commit[:7], "", false)
	require.NoError(t, err)
	assert.True(t, rolled.Committed)
	assert.Equal(t, first.Commit, rolled.Revision)
	env.AssertHomeFile(".bashrc", "v1\n")
	env.AssertStoreFile(".bashrc", "v1\n")
}

func TestRollback_DefaultsToPreviousRevision(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	prompter := &scriptedPrompter{accept: map[string]bool{".vimrc": true}}
	o := open(t, env, prompter)
	home := env.WriteHomeFile(".vimrc", "set nu\n")

	first, err := o.Track(ctx, home)
	require.NoError(t, err)

	_, err = o.Rollback(ctx, home, "", "", false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	env.WriteHomeFile(".vimrc", "set rnu\n")
	_, err = o.Update(ctx)
	require.NoError(t, err)

	rolled, err := o.Rollback(ctx, home, "", "", false)
	require.NoError(t, err)
	assert.Equal(t, first.Commit, rolled.Revision)
	env.AssertHomeFile(".vimrc", "set nu\n")
}

func TestTrack_RetryAfterFailedCommit(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RemoveGitIdentity()
	ctx := context.Background()
	o := open(t, env, nil)
	home := env.WriteHomeFile(".bashrc", "export EDITOR=vim\n")

	_, err := o.Track(ctx, home)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEngine))

	env.SetGitIdentity(testutil.TestUserName, testutil.TestUserEmail)
	result, err := o.Track(ctx, home)
	require.NoError(t, err)
	assert.False(t, result.AlreadyTracked)
	assert.True(t, result.Committed)

	hash, parents := head(t, env.StoreRoot)
	assert.Equal(t, result.Commit, hash)
	assert.Empty(t, parents)
}

func TestRollback_RefusesToOverwriteLocalChanges(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx := context.Background()
	prompter := &scriptedPrompter{accept: map[string]bool{".vimrc": true}}
	o := open(t, env, prompter)
	home := env.WriteHomeFile(".vimrc", "set nu\n")

	_, err := o.Track(ctx, home)
	require.NoError(t, err)
	env.WriteHomeFile(".vimrc", "set rnu\n")
	_, err = o.Update(ctx)
	require.NoError(t, err)

	env.WriteHomeFile(".vimrc", "set rnu\nset list\n")
	_, err = o.Rollback(ctx, home, "", "", false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLocalChanges))
	env.AssertHomeFile(".vimrc", "set rnu\nset list\n")
	env.AssertStoreFile(".vimrc", "set rnu\n")

	_, err = o.Rollback(ctx, home, "", "", true)
	require.NoError(t, err)
	env.AssertHomeFile(".vimrc", "set nu\n")
}
