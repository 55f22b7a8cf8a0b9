// Package engine is the version-control capability the store and the
// remote syncer are built on. It wraps go-git and exposes only the
// operations cfgtool needs: open-or-init, signature lookup, index
// enumeration, staging and committing, branch refs, remote registration,
// fetch and push of a single named ref, merge analysis, and file history.
//
// Errors are returned as sentinel values (wrapped with context) that can be
// checked with errors.Is; callers translate them into cfgtool error codes.
package engine
