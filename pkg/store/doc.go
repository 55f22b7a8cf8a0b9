// Package store implements the tracking store: the version-controlled
// directory that mirrors tracked home files path for path.
//
// The engine index is the authoritative list of tracked files. Store keeps
// an in-memory cache of it, rebuilt on Open, and owns the single engine
// handle for the process. Other components (the remote syncer) borrow that
// handle through Repo and never open their own.
//
// Home-side reads and writes go through types.FS; store-side writes go
// through the engine's worktree filesystem so the staged path and the
// written path are always the same file.
package store
