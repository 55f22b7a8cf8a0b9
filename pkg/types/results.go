package types

import "time"

// TrackResult reports the outcome of tracking or re-committing one file
type TrackResult struct {
	HomePath       string `json:"homePath" yaml:"homePath"`
	StorePath      string `json:"storePath" yaml:"storePath"`
	AlreadyTracked bool   `json:"alreadyTracked" yaml:"alreadyTracked"`
	Committed      bool   `json:"committed" yaml:"committed"`
	Commit         string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Message        string `json:"message,omitempty" yaml:"message,omitempty"`
}

// SkippedFile is a tracked file that could not be compared
type SkippedFile struct {
	StorePath string `json:"storePath" yaml:"storePath"`
	Reason    string `json:"reason" yaml:"reason"`
}

// UpdateResult reports the outcome of an update pass
type UpdateResult struct {
	// Changes lists every drifted file, store-relative
	Changes   []string      `json:"changes" yaml:"changes"`
	Committed []TrackResult `json:"committed" yaml:"committed"`
	Declined  []string      `json:"declined" yaml:"declined"`
	Skipped   []SkippedFile `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// RemoteInfo describes a registered remote
type RemoteInfo struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// SyncResult reports the outcome of a sync
type SyncResult struct {
	Remote      RemoteInfo `json:"remote" yaml:"remote"`
	RemoteAdded bool       `json:"remoteAdded" yaml:"remoteAdded"`
	// State is the relation between local and remote main before the pull
	State       string `json:"state" yaml:"state"`
	RemoteEmpty bool   `json:"remoteEmpty" yaml:"remoteEmpty"`
	OldHead     string `json:"oldHead,omitempty" yaml:"oldHead,omitempty"`
	NewHead     string `json:"newHead,omitempty" yaml:"newHead,omitempty"`
	Pushed      bool   `json:"pushed" yaml:"pushed"`
	// Restored lists store-relative files copied onto the home directory
	Restored []string `json:"restored" yaml:"restored"`
}

// FileStatus is one tracked file in a status report
type FileStatus struct {
	StorePath string `json:"storePath" yaml:"storePath"`
	HomePath  string `json:"homePath" yaml:"homePath"`
	Modified  bool   `json:"modified" yaml:"modified"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// StatusResult reports every tracked file
type StatusResult struct {
	StoreRoot string       `json:"storeRoot" yaml:"storeRoot"`
	HomeRoot  string       `json:"homeRoot" yaml:"homeRoot"`
	Empty     bool         `json:"empty" yaml:"empty"`
	Files     []FileStatus `json:"files" yaml:"files"`
	Remote    *RemoteInfo  `json:"remote,omitempty" yaml:"remote,omitempty"`
	// RemoteState is computed from the last fetched remote ref, without network
	RemoteState string `json:"remoteState,omitempty" yaml:"remoteState,omitempty"`
}

// Revision is one commit that touched a tracked file
type Revision struct {
	Hash    string    `json:"hash" yaml:"hash"`
	Short   string    `json:"short" yaml:"short"`
	Message string    `json:"message" yaml:"message"`
	Author  string    `json:"author" yaml:"author"`
	When    time.Time `json:"when" yaml:"when"`
}

// RollbackResult reports the outcome of restoring an earlier version
type RollbackResult struct {
	HomePath  string `json:"homePath" yaml:"homePath"`
	StorePath string `json:"storePath" yaml:"storePath"`
	Revision  string `json:"revision" yaml:"revision"`
	Committed bool   `json:"committed" yaml:"committed"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
}

// HistoryResult lists the revisions of one tracked file, newest first
type HistoryResult struct {
	HomePath  string     `json:"homePath" yaml:"homePath"`
	Revisions []Revision `json:"revisions" yaml:"revisions"`
}

// RemoteAddResult reports the outcome of registering a remote
type RemoteAddResult struct {
	Remote RemoteInfo `json:"remote" yaml:"remote"`
	// Created is false when an existing remote was repointed
	Created bool `json:"created" yaml:"created"`
}

// RemoteListResult lists registered remotes in configuration order
type RemoteListResult struct {
	Remotes []RemoteInfo `json:"remotes" yaml:"remotes"`
	// Default names the remote sync uses; empty when none is registered
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
}
