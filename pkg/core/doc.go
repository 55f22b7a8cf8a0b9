// Package core composes the path mapper, change detector, tracking store
// and remote syncer into the operations exposed to the CLI: track, update,
// sync, status, history and rollback.
//
// # Sync Protocol
//
// sync runs in a fixed order and stops at the first hard failure:
//
//  1. Detect drift. Without force, any drifted file aborts the sync before
//     anything is mutated, so a fast-forward can never clobber edits that
//     were not committed with update.
//
//  2. Ensure a default remote, asking the Prompter for a URL when none is
//     registered.
//
//  3. Pull main. Only fast-forwards are applied; diverged histories fail
//     with NON_FAST_FORWARD. A remote without commits is not an error here:
//     sync falls through to the push that will create its main.
//
//  4. Push main.
//
//  5. Copy every file the pull changed from the store onto the home
//     directory, overwriting it. Copies always go store to home.
//
// Decisions the core cannot make (which drifted files to commit, with what
// message, which remote URL to add) are delegated to a types.Prompter.
package core
