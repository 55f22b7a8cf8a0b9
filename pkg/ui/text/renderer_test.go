package text_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/arthur-debert/cfgtool/pkg/types"
	"github.com/arthur-debert/cfgtool/pkg/ui/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hashA = "aaaaaaa1111111111111111111111111111111111"
	hashB = "bbbbbbb2222222222222222222222222222222222"
)

func render(t *testing.T, result interface{}) string {
	t.Helper()
	buf := &bytes.Buffer{}
	r, err := text.New(buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(result))
	return buf.String()
}

func TestRenderTrack(t *testing.T) {
	tests := []struct {
		name     string
		result   *types.TrackResult
		expected string
	}{
		{
			name:     "committed",
			result:   &types.TrackResult{HomePath: "/h/.bashrc", StorePath: ".bashrc", Committed: true, Commit: hashA},
			expected: "✓ Tracked /h/.bashrc as .bashrc aaaaaaa\n",
		},
		{
			name:     "already tracked",
			result:   &types.TrackResult{HomePath: "/h/.bashrc", StorePath: ".bashrc", AlreadyTracked: true},
			expected: "• /h/.bashrc is already tracked; run 'cfgtool update' to commit its changes\n",
		},
		{
			name:     "unchanged",
			result:   &types.TrackResult{HomePath: "/h/.bashrc", StorePath: ".bashrc"},
			expected: "• /h/.bashrc is unchanged; nothing to commit\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, render(t, tt.result))
		})
	}
}

func TestRenderUpdate(t *testing.T) {
	assert.Equal(t, "• No tracked file has changed\n", render(t, &types.UpdateResult{}))

	out := render(t, &types.UpdateResult{
		Changes:   []string{".bashrc", ".vimrc"},
		Committed: []types.TrackResult{{StorePath: ".vimrc", Commit: hashB, Message: "plugins"}},
		Declined:  []string{".bashrc"},
		Skipped:   []types.SkippedFile{{StorePath: ".profile", Reason: "permission denied"}},
	})
	assert.Equal(t, "✓ .vimrc bbbbbbb plugins\n"+
		"• .bashrc left uncommitted\n"+
		"! .profile skipped: permission denied\n", out)
}

func TestRenderSync(t *testing.T) {
	t.Run("first push to empty remote", func(t *testing.T) {
		out := render(t, &types.SyncResult{
			Remote:      types.RemoteInfo{Name: "origin", URL: "/srv/d.git"},
			RemoteAdded: true,
			RemoteEmpty: true,
			Pushed:      true,
		})
		assert.Equal(t, "• Added remote origin /srv/d.git\n"+
			"• Remote has no commits yet\n"+
			"✓ Pushed main to origin\n", out)
	})

	t.Run("fast forward with restores", func(t *testing.T) {
		out := render(t, &types.SyncResult{
			Remote:   types.RemoteInfo{Name: "origin", URL: "/srv/d.git"},
			State:    "behind",
			OldHead:  hashA,
			NewHead:  hashB,
			Restored: []string{".bashrc"},
		})
		assert.Equal(t, "• Using remote origin /srv/d.git\n"+
			"✓ Fast-forwarded aaaaaaa to bbbbbbb\n"+
			"• Nothing to push\n"+
			"✓ Restored .bashrc\n", out)
	})

	t.Run("nothing to do", func(t *testing.T) {
		out := render(t, &types.SyncResult{
			Remote:  types.RemoteInfo{Name: "origin", URL: "/srv/d.git"},
			State:   "clean",
			OldHead: hashA,
			NewHead: hashA,
		})
		assert.Contains(t, out, "• Local main is clean\n")
	})
}

func TestRenderStatus(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		out := render(t, &types.StatusResult{StoreRoot: "/data/repo", Empty: true})
		assert.Equal(t, "Store: /data/repo\n"+
			"Remote: none\n"+
			"\n"+
			"• No files tracked yet. Use 'cfgtool track <path>' to start.\n", out)
	})

	t.Run("files and remote", func(t *testing.T) {
		out := render(t, &types.StatusResult{
			StoreRoot: "/data/repo",
			Files: []types.FileStatus{
				{StorePath: ".bashrc", HomePath: "/h/.bashrc"},
				{StorePath: ".vimrc", HomePath: "/h/.vimrc", Modified: true},
				{StorePath: ".profile", HomePath: "/h/.profile", Error: "missing"},
			},
			Remote:      &types.RemoteInfo{Name: "origin", URL: "/srv/d.git"},
			RemoteState: "ahead",
		})
		assert.Equal(t, "Store: /data/repo\n"+
			"Remote: origin /srv/d.git [ahead]\n"+
			"\n"+
			"  clean      .bashrc /h/.bashrc\n"+
			"  modified   .vimrc /h/.vimrc\n"+
			"  unreadable .profile /h/.profile\n"+
			"    missing\n", out)
	})
}

func TestRenderHistoryAndRollback(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	out := render(t, &types.HistoryResult{
		HomePath:  "/h/.vimrc",
		Revisions: []types.Revision{{Short: "aaaaaaa", Message: "plugins", Author: "Me", When: when}},
	})
	assert.Equal(t, "aaaaaaa 2024-03-01 12:30 plugins (Me)\n", out)

	assert.Equal(t, "• No history for /h/.vimrc\n", render(t, &types.HistoryResult{HomePath: "/h/.vimrc"}))

	out = render(t, &types.RollbackResult{HomePath: "/h/.vimrc", Revision: hashA, Committed: true, Commit: hashB})
	assert.Equal(t, "✓ Rolled back /h/.vimrc to aaaaaaa as bbbbbbb\n", out)

	out = render(t, &types.RollbackResult{HomePath: "/h/.vimrc", Revision: hashA})
	assert.Equal(t, "• /h/.vimrc already matches aaaaaaa; restored the home copy\n", out)
}

func TestRenderRemotes(t *testing.T) {
	out := render(t, &types.RemoteAddResult{Remote: types.RemoteInfo{Name: "origin", URL: "/srv/d.git"}, Created: true})
	assert.Equal(t, "✓ Added remote origin /srv/d.git\n", out)

	out = render(t, &types.RemoteAddResult{Remote: types.RemoteInfo{Name: "origin", URL: "/srv/e.git"}})
	assert.Equal(t, "✓ Repointed remote origin /srv/e.git\n", out)

	out = render(t, &types.RemoteListResult{
		Remotes: []types.RemoteInfo{{Name: "backup", URL: "/b.git"}, {Name: "origin", URL: "/o.git"}},
		Default: "origin",
	})
	assert.Equal(t, "  backup /b.git\n* origin /o.git\n", out)

	assert.Contains(t, render(t, &types.RemoteListResult{}), "No remotes")
}

func TestPaletteDiff(t *testing.T) {
	p := text.PlainPalette()
	p.Added = func(s string) string { return "<" + s + ">" }
	p.Removed = func(s string) string { return "[" + s + "]" }

	out := p.Diff("--- store/.bashrc\n+++ ~/.bashrc\n-old\n+new\n same\n")
	assert.Equal(t, "--- store/.bashrc\n+++ ~/.bashrc\n[-old]\n<+new>\n same\n", out)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "aaaaaaa", text.Short(hashA))
	assert.Equal(t, "abc", text.Short("abc"))
	assert.Equal(t, "", text.Short(""))
}
