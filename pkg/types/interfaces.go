package types

import (
	"context"
	"io/fs"
)

// FS is the home-side filesystem. The store side is accessed through the
// engine's worktree filesystem instead.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Chmod(name string, mode fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// UpdateCandidate is a drifted tracked file offered to the user during update
type UpdateCandidate struct {
	StorePath string
	HomePath  string
	Diff      string
}

// Prompter supplies the decisions the core cannot make on its own.
// Implementations may be interactive or scripted.
type Prompter interface {
	// ConfirmUpdate asks whether a drifted file should be committed
	ConfirmUpdate(ctx context.Context, candidate UpdateCandidate) (bool, error)

	// CommitMessage asks for the message of an accepted update. An empty
	// answer selects the default message.
	CommitMessage(ctx context.Context, candidate UpdateCandidate) (string, error)

	// RemoteURL asks for the URL of a remote to register when none exists.
	// An empty answer declines.
	RemoteURL(ctx context.Context) (string, error)
}
