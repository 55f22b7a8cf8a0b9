// Package filesystem provides implementations of types.FS for the home
// side: the real OS filesystem and an afero-backed one used by tests.
package filesystem
