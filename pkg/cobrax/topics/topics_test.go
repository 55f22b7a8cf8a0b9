package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

func TestTopicManager_ScanTopics(t *testing.T) {
	source := fstest.MapFS{
		"dry-run.txt":     file("Information about dry-run mode"),
		"architecture.md": file("# Architecture\n\nSystem architecture details"),
		"config.txxt":     file("Configuration Guide\n=================="),
		"ignore.json":     file("This should be ignored"),
	}

	t.Run("default extensions", func(t *testing.T) {
		tm := New(source)
		require.NoError(t, tm.scanTopics())

		tests := []struct {
			name     string
			expected bool
			content  string
		}{
			{"dry-run", true, "Information about dry-run mode"},
			{"architecture", true, "# Architecture\n\nSystem architecture details"},
			{"config", false, ""},
			{"ignore", false, ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				topic, exists := tm.GetTopic(tt.name)
				assert.Equal(t, tt.expected, exists)
				if exists {
					assert.Equal(t, tt.content, topic.Content)
				}
			})
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(source, Options{
			Extensions: []string{".txt", ".md", ".txxt"},
		})
		require.NoError(t, tm.scanTopics())

		topic, exists := tm.GetTopic("config")
		require.True(t, exists)
		assert.Equal(t, "Configuration Guide\n==================", topic.Content)

		_, exists = tm.GetTopic("ignore")
		assert.False(t, exists)
	})
}

func TestTopicManager_GetTopic(t *testing.T) {
	tm := New(fstest.MapFS{
		"option-force.txt": file("Force help"),
		"option-yes.txt":   file("Yes help"),
		"layout.txt":       file("Layout help"),
	})
	require.NoError(t, tm.scanTopics())

	tests := []struct {
		input    string
		expected string
		exists   bool
	}{
		{"layout", "layout", true},
		{"option-force", "option-force", true},
		{"force", "option-force", true},
		{"--force", "option-force", true},
		{"-force", "option-force", true},
		{"--yes", "option-yes", true},
		{"-y", "", false},
		{"nonexistent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			topic, exists := tm.GetTopic(tt.input)
			assert.Equal(t, tt.exists, exists)
			if exists {
				assert.Equal(t, tt.expected, topic.Name)
			}
		})
	}
}

func TestTopicManager_ListTopics(t *testing.T) {
	tm := New(fstest.MapFS{
		"sync.txt":    file("Help for sync"),
		"track.txt":   file("Help for track"),
		"layout.txt":  file("Help for layout"),
		"remotes.txt": file("Help for remotes"),
	})
	require.NoError(t, tm.scanTopics())

	assert.Equal(t, []string{"layout", "remotes", "sync", "track"}, tm.ListTopics())
}

func TestNilAndEmptySource(t *testing.T) {
	tm := New(nil)
	require.NoError(t, tm.scanTopics())
	assert.Empty(t, tm.ListTopics())

	tm = New(fstest.MapFS{})
	require.NoError(t, tm.scanTopics())
	assert.Empty(t, tm.ListTopics())
}

func TestSubdirectoryTopics(t *testing.T) {
	tm := New(fstest.MapFS{
		"advanced/remotes.txt": file("Remote help"),
	})
	require.NoError(t, tm.scanTopics())

	topic, exists := tm.GetTopic("remotes")
	require.True(t, exists)
	assert.Equal(t, "Remote help", topic.Content)
	assert.Equal(t, "advanced/remotes.txt", topic.FilePath)
}

type upperRenderer struct{ formats []string }

func (r *upperRenderer) Render(content string, format string) string {
	r.formats = append(r.formats, format)
	return "rendered:" + content
}

func newRoot(t *testing.T, source fstest.MapFS, opts Options) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	rootCmd := &cobra.Command{
		Use:   "testapp",
		Short: "Test application",
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "track",
		Short: "Track something",
		Run:   func(cmd *cobra.Command, args []string) {},
	})
	require.NoError(t, InitializeWithOptions(rootCmd, source, opts))

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	return rootCmd, out
}

func TestInitialize_ReplacesHelpCommand(t *testing.T) {
	rootCmd, _ := newRoot(t, fstest.MapFS{}, Options{})

	helpCmd, _, err := rootCmd.Find([]string{"help"})
	require.NoError(t, err)
	assert.Equal(t, "help [command or topic]", helpCmd.Use)
}

func TestHelpCommand_ShowsTopic(t *testing.T) {
	renderer := &upperRenderer{}
	rootCmd, out := newRoot(t, fstest.MapFS{
		"layout.md": file("STORE LAYOUT"),
	}, Options{Renderer: renderer})

	rootCmd.SetArgs([]string{"help", "layout"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "rendered:STORE LAYOUT", out.String())
	assert.Equal(t, []string{".md"}, renderer.formats)
}

func TestHelpCommand_ListsTopics(t *testing.T) {
	rootCmd, out := newRoot(t, fstest.MapFS{
		"layout.txt":       file("x"),
		"option-force.txt": file("y"),
	}, Options{})

	rootCmd.SetArgs([]string{"help", "topics"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "General topics:\n  layout\n")
	assert.Contains(t, out.String(), "Option topics:\n  --force\n")
	assert.Contains(t, out.String(), "Use 'testapp help <topic>'")
}

func TestHelpCommand_FallsBackToCommandHelp(t *testing.T) {
	rootCmd, out := newRoot(t, fstest.MapFS{}, Options{})

	rootCmd.SetArgs([]string{"help", "track"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Track something")
}

func TestGlamourRenderer(t *testing.T) {
	t.Run("non-markdown passes through", func(t *testing.T) {
		r := NewGlamourRenderer()
		content := "Remotes\n=======\n"
		assert.Equal(t, content, r.Render(content, ".txt"))
	})

	t.Run("plain markdown has no escapes", func(t *testing.T) {
		r := NewGlamourRenderer()
		r.Plain = func() bool { return true }

		out := r.Render("# Remotes\n\nThe store syncs **main** with origin.\n", ".md")
		assert.Contains(t, out, "Remotes")
		assert.Contains(t, out, "main")
		assert.NotContains(t, out, "\x1b[")
	})
}
