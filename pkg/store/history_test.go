// pkg/store/history_test.go
// TEST TYPE: Integration Tests
// DEPENDENCIES: Real filesystem (isolated temp environment), go-git
// PURPOSE: Test per-file history and rollback to earlier revisions

package store_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	s := env.OpenStore()
	ctx := context.Background()

	bashrc := env.WriteHomeFile(".bashrc", "v1\n")
	first, err := s.TrackFile(ctx, bashrc, "")
	require.NoError(t, err)

	_, err = s.TrackFile(ctx, env.WriteHomeFile(".vimrc", "set nu\n"), "")
	require.NoError(t, err)

	env.WriteHomeFile(".bashrc", "v2\n")
	second, err := s.TrackFile(ctx, bashrc, "add alias")
	require.NoError(t, err)

	revisions, err := s.History(ctx, bashrc, 0)
	require.NoError(t, err)
	require.Len(t, revisions, 2)

	assert.Equal(t, second.Commit, revisions[0].Hash)
	assert.Equal(t, second.Commit[:7], revisions[0].Short)
	assert.Equal(t, "add alias", revisions[0].Message)
	assert.Equal(t, testutil.TestUserName, revisions[0].Author)
	assert.Equal(t, first.Commit, revisions[1].Hash)
	assert.Equal(t, "Tracked file .bashrc", revisions[1].Message)

	limited, err := s.History(ctx, bashrc, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = s.History(ctx, env.HomePath(".untracked"), 0)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestRollback(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	s := env.OpenStore()
	ctx := context.Background()

	bashrc := env.WriteHomeFile(".bashrc", "v1\n")
	first, err := s.TrackFile(ctx, bashrc, "")
	require.NoError(t, err)

	env.WriteHomeFile(".bashrc", "v2\n")
	second, err := s.TrackFile(ctx, bashrc, "")
	require.NoError(t, err)

	result, err := s.Rollback(ctx, bashrc, first.Commit[:7], "")
	require.NoError(t, err)

	assert.Equal(t, bashrc, result.HomePath)
	assert.Equal(t, ".bashrc", result.StorePath)
	assert.Equal(t, first.Commit, result.Revision)
	assert.True(t, result.Committed)
	env.AssertStoreFile(".bashrc", "v1\n")
	env.AssertHomeFile(".bashrc", "v1\n")

	hash, parents, message := headCommitParents(t, env.StoreRoot)
	assert.Equal(t, result.Commit, hash)
	require.Len(t, parents, 1)
	assert.Equal(t, second.Commit, parents[0].String())
	assert.Equal(t, "Rolled back .bashrc to "+first.Commit[:7], message)

	// Rolling back to the current content commits nothing
	again, err := s.Rollback(ctx, bashrc, "HEAD", "")
	require.NoError(t, err)
	assert.False(t, again.Committed)
}

func TestRollback_Errors(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	s := env.OpenStore()
	ctx := context.Background()

	bashrc := env.WriteHomeFile(".bashrc", "v1\n")
	first, err := s.TrackFile(ctx, bashrc, "")
	require.NoError(t, err)
	vimrc := env.WriteHomeFile(".vimrc", "set nu\n")
	_, err = s.TrackFile(ctx, vimrc, "")
	require.NoError(t, err)

	_, err = s.Rollback(ctx, bashrc, "deadbeef", "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound), "unknown revision")

	_, err = s.Rollback(ctx, vimrc, first.Commit, "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound), "file absent at revision")

	_, err = s.Rollback(ctx, env.HomePath(".untracked"), first.Commit, "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound), "untracked file")
}
