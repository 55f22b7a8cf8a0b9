// TEST TYPE: Integration Tests
// DEPENDENCIES: Real filesystem (isolated temp environment), go-git, bare remotes
// PURPOSE: Drive the command line end to end: flags, prompts and output formats

package cfgtool

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/testutil"
	"github.com/arthur-debert/cfgtool/pkg/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runWithInput executes a fresh root command with stdin fed from input and
// returns everything it wrote
func runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	rootCmd := NewRootCmd()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, "", args...)
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

func TestTrackCommand(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	home := env.WriteHomeFile(".bashrc", "export EDITOR=vim\n")

	out := mustRun(t, "track", home)
	assert.Contains(t, out, "✓ Tracked "+home+" as .bashrc")
	env.AssertStoreFile(".bashrc", "export EDITOR=vim\n")

	out = mustRun(t, "track", home)
	assert.Contains(t, out, "is already tracked")
}

func TestTrackCommand_Errors(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := run(t, "track")
	assert.Error(t, err)

	_, err = run(t, "track", filepath.Join(env.Root, "outside"))
	assert.Error(t, err)
}

func TestStatusCommand_JSON(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	home := env.WriteHomeFile(".gitconfig", "[core]\n")
	mustRun(t, "track", home, "-m", "Track git config")

	env.WriteHomeFile(".gitconfig", "[core]\n\teditor = vim\n")
	out := mustRun(t, "status", "-o", "json")

	var status types.StatusResult
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, env.StoreRoot, status.StoreRoot)
	require.Len(t, status.Files, 1)
	assert.Equal(t, ".gitconfig", status.Files[0].StorePath)
	assert.True(t, status.Files[0].Modified)
	assert.Nil(t, status.Remote)
}

func TestStatusCommand_Empty(t *testing.T) {
	testutil.NewTestEnvironment(t)

	out := mustRun(t, "status")
	assert.Contains(t, out, "No files tracked yet")
}

func TestStoreFlag(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	custom := filepath.Join(env.Root, "elsewhere")

	out := mustRun(t, "--store", custom, "status", "-o", "yaml")
	assert.Contains(t, out, "storeRoot: "+custom)
}

func TestUpdateCommand_Yes(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	home := env.WriteHomeFile(".bashrc", "v1\n")
	mustRun(t, "track", home)

	env.WriteHomeFile(".bashrc", "v2\n")
	out := mustRun(t, "update", "--yes")
	assert.Contains(t, out, "✓ .bashrc")
	env.AssertStoreFile(".bashrc", "v2\n")

	out = mustRun(t, "update", "--yes")
	assert.Contains(t, out, "No tracked file has changed")
}

func TestUpdateCommand_Prompts(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	home := env.WriteHomeFile(".bashrc", "v1\n")
	mustRun(t, "track", home)

	env.WriteHomeFile(".bashrc", "v2\n")
	out, err := runWithInput(t, "y\nBump bashrc\n", "update")
	require.NoError(t, err, out)
	assert.Contains(t, out, "+v2")
	assert.Contains(t, out, "Commit changes to "+home+"? [y/N]: ")
	assert.Contains(t, out, "Commit message [Tracked file .bashrc]: ")
	env.AssertStoreFile(".bashrc", "v2\n")

	out = mustRun(t, "history", home, "-o", "json")
	var history types.HistoryResult
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	assert.Equal(t, home, history.HomePath)
	require.Len(t, history.Revisions, 2)
	assert.Equal(t, "Bump bashrc", history.Revisions[0].Message)
}

func TestUpdateCommand_Declined(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	home := env.WriteHomeFile(".bashrc", "v1\n")
	mustRun(t, "track", home)

	env.WriteHomeFile(".bashrc", "v2\n")
	out, err := runWithInput(t, "n\n", "update")
	require.NoError(t, err, out)
	assert.Contains(t, out, ".bashrc left uncommitted")
	env.AssertStoreFile(".bashrc", "v1\n")
}

func TestSyncCommand_RemoteURL(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	url := testutil.NewBareRemote(t)
	home := env.WriteHomeFile(".bashrc", "alias g=git\n")
	mustRun(t, "track", home)

	out := mustRun(t, "sync", "--remote-url", url)
	assert.Contains(t, out, "Added remote origin")
	assert.Contains(t, out, "Pushed main to origin")
	assert.NotEmpty(t, testutil.RemoteHead(t, url))

	out = mustRun(t, "remote", "list")
	assert.Contains(t, out, "* origin "+url)
}

func TestSyncCommand_PromptedRemote(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	url := testutil.NewBareRemote(t)
	home := env.WriteHomeFile(".vimrc", "set nu\n")
	mustRun(t, "track", home)

	out, err := runWithInput(t, url+"\n", "sync")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No remote configured")
	assert.Contains(t, out, "Pushed main to origin")
}

func TestSyncCommand_NoRemote(t *testing.T) {
	testutil.NewTestEnvironment(t)

	out, err := runWithInput(t, "\n", "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote")
	assert.NotContains(t, out, "Pushed")
}

func TestSyncCommand_LocalChanges(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	url := testutil.NewBareRemote(t)
	home := env.WriteHomeFile(".bashrc", "v1\n")
	mustRun(t, "track", home)
	mustRun(t, "remote", "add", "origin", url)

	env.WriteHomeFile(".bashrc", "v2\n")
	_, err := run(t, "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local changes")
	assert.Empty(t, testutil.RemoteHead(t, url))

	out := mustRun(t, "sync", "--force")
	assert.Contains(t, out, "Pushed main to origin")
}

func TestRemoteCommands(t *testing.T) {
	testutil.NewTestEnvironment(t)

	out := mustRun(t, "remote", "list")
	assert.Contains(t, out, "No remotes")

	out = mustRun(t, "remote", "add", "backup", "/srv/backup.git")
	assert.Contains(t, out, "✓ Added remote backup /srv/backup.git")

	out = mustRun(t, "remote", "add", "backup", "/srv/other.git")
	assert.Contains(t, out, "Repointed remote backup")

	out = mustRun(t, "remote", "list", "-o", "json")
	var remotes types.RemoteListResult
	require.NoError(t, json.Unmarshal([]byte(out), &remotes))
	require.Len(t, remotes.Remotes, 1)
	assert.Equal(t, "/srv/other.git", remotes.Remotes[0].URL)
	assert.Equal(t, "backup", remotes.Default)

	_, err := run(t, "remote", "add", "bad name", "/srv/x.git")
	assert.Error(t, err)
}

func TestRollbackCommand(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	home := env.WriteHomeFile(".bashrc", "v1\n")
	mustRun(t, "track", home)
	env.WriteHomeFile(".bashrc", "v2\n")
	mustRun(t, "update", "--yes")

	out := mustRun(t, "rollback", home)
	assert.Contains(t, out, "✓ Rolled back "+home)
	env.AssertHomeFile(".bashrc", "v1\n")
	env.AssertStoreFile(".bashrc", "v1\n")

	_, err := run(t, "rollback", home, "not-a-revision")
	assert.Error(t, err)

	env.WriteHomeFile(".bashrc", "v3 not committed\n")
	_, err = run(t, "rollback", home)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLocalChanges))
	env.AssertHomeFile(".bashrc", "v3 not committed\n")

	mustRun(t, "rollback", home, "--force")
	env.AssertHomeFile(".bashrc", "v2\n")
}

func TestHistoryCommand_Text(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	home := env.WriteHomeFile(".profile", "PATH=$PATH\n")
	mustRun(t, "track", home, "-m", "Start tracking profile")

	out := mustRun(t, "history", home)
	assert.Contains(t, out, "Start tracking profile")
	assert.Contains(t, out, "("+testutil.TestUserName+")")
}

func TestGenConfigCommand(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	out := mustRun(t, "genconfig")
	assert.Contains(t, out, "[remote]")
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "[") {
			continue
		}
		assert.True(t, strings.HasPrefix(trimmed, "#"), "line should be commented: %q", line)
	}

	custom := filepath.Join(env.Root, "custom-store")
	out = mustRun(t, "--store", custom, "genconfig", "--effective")
	assert.Contains(t, out, custom)
	assert.Contains(t, out, "preferred = 'origin'")
}

func TestOutputFlag_Invalid(t *testing.T) {
	testutil.NewTestEnvironment(t)

	_, err := run(t, "status", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestReportError(t *testing.T) {
	testutil.NewTestEnvironment(t)

	t.Run("json output carries the code", func(t *testing.T) {
		rootCmd := NewRootCmd()
		out := &bytes.Buffer{}
		rootCmd.SetOut(out)
		rootCmd.SetErr(out)
		rootCmd.SetIn(strings.NewReader(""))
		rootCmd.SetArgs([]string{"sync", "-o", "json"})

		err := rootCmd.Execute()
		require.Error(t, err)
		out.Reset()
		ReportError(rootCmd, err)

		var rendered map[string]interface{}
		require.NoError(t, json.Unmarshal(out.Bytes(), &rendered))
		assert.Equal(t, "NO_REMOTE", rendered["code"])
	})

	t.Run("text output", func(t *testing.T) {
		rootCmd := NewRootCmd()
		out := &bytes.Buffer{}
		rootCmd.SetOut(out)
		rootCmd.SetErr(out)
		rootCmd.SetArgs([]string{"--no-color", "track", "/definitely/outside/home"})

		err := rootCmd.Execute()
		require.Error(t, err)
		out.Reset()
		ReportError(rootCmd, err)
		assert.True(t, strings.HasPrefix(out.String(), "Error: "), out.String())
	})
}

func TestRootCommand(t *testing.T) {
	t.Run("no command is an error", func(t *testing.T) {
		_, err := run(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), MsgErrNoCommand)
	})

	t.Run("version", func(t *testing.T) {
		out := mustRun(t, "--version")
		assert.Contains(t, out, "cfgtool version dev")
		assert.Contains(t, out, "commit: unknown")
	})

	t.Run("commands are grouped", func(t *testing.T) {
		rootCmd := NewRootCmd()
		groups := map[string]string{}
		for _, c := range rootCmd.Commands() {
			groups[c.Name()] = c.GroupID
		}
		for _, name := range []string{"track", "update", "sync", "status", "history", "rollback", "remote"} {
			assert.Equal(t, "core", groups[name], name)
		}
		for _, name := range []string{"genconfig", "topics", "completion"} {
			assert.Equal(t, "misc", groups[name], name)
		}
	})

	t.Run("completion", func(t *testing.T) {
		out := mustRun(t, "completion", "bash")
		assert.Contains(t, out, "cfgtool")

		_, err := run(t, "completion", "tcsh")
		assert.Error(t, err)
	})
}

func TestTopicsCommand(t *testing.T) {
	t.Run("topics command has the expected structure", func(t *testing.T) {
		var topicsCmd *cobra.Command
		for _, c := range NewRootCmd().Commands() {
			if c.Name() == "topics" {
				topicsCmd = c
				break
			}
		}

		require.NotNil(t, topicsCmd)
		assert.Equal(t, MsgTopicsShort, topicsCmd.Short)
		assert.Equal(t, "misc", topicsCmd.GroupID)
		assert.Empty(t, topicsCmd.Commands())
	})

	t.Run("lists embedded topics", func(t *testing.T) {
		out := mustRun(t, "topics")
		assert.Contains(t, out, "  layout\n")
		assert.Contains(t, out, "  remotes\n")
		assert.Contains(t, out, "  --force\n")
		assert.Contains(t, out, "Use 'cfgtool help <topic>'")
	})

	t.Run("shows a topic", func(t *testing.T) {
		out := mustRun(t, "help", "remotes")
		assert.Contains(t, out, "origin")
	})
}
