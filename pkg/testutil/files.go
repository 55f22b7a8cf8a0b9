package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FileTree represents a directory structure for testing. Values are either
// file contents (string) or nested FileTree directories.
type FileTree map[string]interface{}

// WriteHomeFile writes content under the home directory, creating parents,
// and returns the absolute path
func (env *TestEnvironment) WriteHomeFile(rel, content string) string {
	env.t.Helper()
	path := env.HomePath(rel)
	require.NoError(env.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(env.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ReadHomeFile reads a file under the home directory
func (env *TestEnvironment) ReadHomeFile(rel string) string {
	env.t.Helper()
	content, err := os.ReadFile(env.HomePath(rel))
	require.NoError(env.t, err)
	return string(content)
}

// ReadStoreFile reads a file under the store root
func (env *TestEnvironment) ReadStoreFile(rel string) string {
	env.t.Helper()
	content, err := os.ReadFile(env.StorePath(rel))
	require.NoError(env.t, err)
	return string(content)
}

// WithFileTree creates a file tree under the home directory
func (env *TestEnvironment) WithFileTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.HomeDir, tree)
}

// AssertHomeFile checks the content of a file under the home directory
func (env *TestEnvironment) AssertHomeFile(rel, expected string) {
	env.t.Helper()
	content, err := os.ReadFile(env.HomePath(rel))
	if assert.NoError(env.t, err, "home file %s", rel) {
		assert.Equal(env.t, expected, string(content), "home file %s", rel)
	}
}

// AssertStoreFile checks the content of a file under the store root
func (env *TestEnvironment) AssertStoreFile(rel, expected string) {
	env.t.Helper()
	content, err := os.ReadFile(env.StorePath(rel))
	if assert.NoError(env.t, err, "store file %s", rel) {
		assert.Equal(env.t, expected, string(content), "store file %s", rel)
	}
}

// createFileTree recursively creates a file tree
func createFileTree(t *testing.T, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
			require.NoError(t, os.WriteFile(fullPath, []byte(v), 0644))
		case FileTree:
			require.NoError(t, os.MkdirAll(fullPath, 0755))
			createFileTree(t, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
