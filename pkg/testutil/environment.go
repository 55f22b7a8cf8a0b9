// pkg/testutil/environment.go
// DEPENDENCIES: paths, filesystem, store
// PURPOSE: Orchestrate isolated test environments for store and sync tests

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cfgtool/pkg/filesystem"
	"github.com/arthur-debert/cfgtool/pkg/paths"
	"github.com/arthur-debert/cfgtool/pkg/store"
	"github.com/arthur-debert/cfgtool/pkg/types"
	"github.com/stretchr/testify/require"
)

// Default identity written to the isolated global git config
const (
	TestUserName  = "Test User"
	TestUserEmail = "test@example.com"
)

// TestEnvironment is a temp directory holding a home directory, XDG
// directories and a store root, with the process environment pointed at it
type TestEnvironment struct {
	Root      string
	HomeDir   string
	XDGData   string
	XDGConfig string
	XDGState  string
	StoreRoot string

	FS     types.FS
	Mapper *paths.Mapper

	t *testing.T
}

// NewTestEnvironment creates a new isolated environment. HOME and the XDG
// variables are set for the duration of the test, and a global git identity
// is written so commits can be signed.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	// Resolve symlinked temp dirs (macOS /var -> /private/var) up front
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	env := &TestEnvironment{
		Root:      root,
		HomeDir:   filepath.Join(root, "home"),
		XDGData:   filepath.Join(root, "xdg", "data"),
		XDGConfig: filepath.Join(root, "xdg", "config"),
		XDGState:  filepath.Join(root, "xdg", "state"),
		FS:        filesystem.NewOS(),
		t:         t,
	}
	env.StoreRoot = filepath.Join(env.XDGData, "cfgtool", "repo")

	for _, dir := range []string{env.HomeDir, env.XDGData, env.XDGConfig, env.XDGState} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("XDG_DATA_HOME", env.XDGData)
	t.Setenv("XDG_CONFIG_HOME", env.XDGConfig)
	t.Setenv("XDG_STATE_HOME", env.XDGState)
	t.Setenv("CFGTOOL_DATA_DIR", "")
	t.Setenv("CFGTOOL_CONFIG_DIR", "")
	t.Setenv("CFGTOOL_STORE_PATH", "")

	env.SetGitIdentity(TestUserName, TestUserEmail)

	mapper, err := paths.NewMapper(env.HomeDir, env.StoreRoot)
	require.NoError(t, err)
	env.Mapper = mapper

	return env
}

// SetGitIdentity writes user.name and user.email to the isolated global
// git config
func (env *TestEnvironment) SetGitIdentity(name, email string) {
	env.t.Helper()
	dir := filepath.Join(env.XDGConfig, "git")
	require.NoError(env.t, os.MkdirAll(dir, 0755))
	content := "[user]\n\tname = " + name + "\n\temail = " + email + "\n"
	require.NoError(env.t, os.WriteFile(filepath.Join(dir, "config"), []byte(content), 0644))
}

// RemoveGitIdentity deletes the isolated global git config
func (env *TestEnvironment) RemoveGitIdentity() {
	env.t.Helper()
	err := os.Remove(filepath.Join(env.XDGConfig, "git", "config"))
	if err != nil && !os.IsNotExist(err) {
		require.NoError(env.t, err)
	}
}

// OpenStore opens the store of this environment
func (env *TestEnvironment) OpenStore() *store.Store {
	env.t.Helper()
	s, err := store.Open(context.Background(), store.Options{
		Mapper: env.Mapper,
		FS:     env.FS,
	})
	require.NoError(env.t, err)
	return s
}

// HomePath returns the absolute path of a home-relative name
func (env *TestEnvironment) HomePath(rel string) string {
	return filepath.Join(env.HomeDir, filepath.FromSlash(rel))
}

// StorePath returns the absolute store path of a tracked-file name
func (env *TestEnvironment) StorePath(rel string) string {
	return filepath.Join(env.StoreRoot, filepath.FromSlash(rel))
}
