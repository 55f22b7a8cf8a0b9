// Package types defines the interfaces and result types shared between the
// core operations and the CLI: the home-side filesystem, the prompter used
// to ask the user for decisions, and the results of track, update, sync,
// status, history and rollback.
package types
