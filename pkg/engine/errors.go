package engine

import (
	"errors"
	"fmt"
)

// ErrAlreadyUpToDate is returned when a fetch or push transferred nothing
var ErrAlreadyUpToDate = errors.New("already up to date")

// ErrNothingToCommit is returned when the index matches the parent tree
var ErrNothingToCommit = errors.New("nothing to commit")

// ErrNoSignature is returned when no user.name/user.email is configured
var ErrNoSignature = errors.New("no commit signature configured")

// ErrBranchMissing is returned when a local branch does not exist
var ErrBranchMissing = errors.New("branch does not exist")

// ErrRemoteMissing is returned when a named remote is not registered
var ErrRemoteMissing = errors.New("remote does not exist")

// ErrRemoteEmpty is returned when the remote has no commits, or no ref
// matching the one requested
var ErrRemoteEmpty = errors.New("remote has no such reference")

// ErrNotFastForward is returned when a push was rejected because it would
// rewrite remote history
var ErrNotFastForward = errors.New("not a fast-forward")

// ErrResolveFailed is returned when a revision cannot be resolved to a commit
var ErrResolveFailed = errors.New("cannot resolve revision")

// ErrFileMissing is returned when a path does not exist in a commit
var ErrFileMissing = errors.New("file not found in revision")

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
