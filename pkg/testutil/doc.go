// Package testutil provides utilities for testing cfgtool components.
//
// Key components:
//   - TestEnvironment: isolated HOME, XDG directories and store root in a
//     temp directory, with a git identity configured
//   - FileTree: declarative home directory setup
//   - NewBareRemote / SeedRemote: local bare repositories standing in for
//     a real remote, and a second machine pushing to them
//
// Usage guidelines:
//   - Every test that touches the store builds its own environment
//   - All test data should be defined inline, not in external files
//   - Each test should be completely isolated with no shared state
package testutil
