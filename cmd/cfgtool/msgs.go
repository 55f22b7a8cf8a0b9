package cfgtool

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Track configuration files in git and sync them"
	MsgTrackShort      = "Start tracking a file from your home directory"
	MsgTrackLong       = "Track copies a file into the store and commits it. Tracking a file that is already tracked changes nothing; use 'cfgtool update' to commit its changes."
	MsgUpdateShort     = "Commit changes made to tracked files"
	MsgUpdateLong      = "Update compares every tracked file with its committed copy, shows the diff of each changed file and asks whether to commit it."
	MsgSyncShort       = "Pull from and push to the remote"
	MsgStatusShort     = "Show tracked files and the remote state"
	MsgStatusLong      = "Status lists every tracked file, whether it changed since it was committed, and the remote state recorded by the last sync. It never contacts the remote."
	MsgHistoryShort    = "List the commits that changed a tracked file"
	MsgRollbackShort   = "Roll back a file to a previous version"
	MsgRollbackLong    = "Rollback restores a tracked file as of a revision, commits the restored content and copies it back into your home directory. Without a revision the file's previous version is used. A home copy with uncommitted changes is left alone unless --force is given."
	MsgRemoteShort     = "Manage the store's remotes"
	MsgRemoteAddShort  = "Add a remote, or repoint an existing one"
	MsgRemoteListShort = "List the store's remotes"
	MsgGenConfigShort  = "Print the configuration file"
	MsgGenConfigLong   = "Print a commented configuration file with every default, or with --effective the configuration in effect after files, environment and flags."
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Examples
	MsgTrackExample = `  cfgtool track ~/.bashrc
  cfgtool track ~/.config/nvim/init.lua -m "Track neovim config"`
	MsgUpdateExample = `  cfgtool update
  cfgtool update --yes`
	MsgSyncExample = `  cfgtool sync
  cfgtool sync --remote-url git@github.com:me/dotfiles.git
  cfgtool sync --force`
	MsgRollbackExample = `  cfgtool rollback ~/.bashrc
  cfgtool rollback ~/.bashrc 3f2a9c1`

	// Version template
	MsgVersionTemplate = "cfgtool version {{.Version}}\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrInitPaths  = "failed to initialize paths: %w"
	MsgErrNoCommand  = "no command specified"
	MsgErrHelpAbsent = "help command not found"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagNoColor       = "Disable colored output"
	MsgFlagStore         = "Store directory (overrides store.path)"
	MsgFlagOutput        = "Output format (auto, term, text, json, yaml)"
	MsgFlagMessage       = "Commit message"
	MsgFlagYes           = "Commit every changed file with the default message without asking"
	MsgFlagForce         = "Sync even when tracked files have uncommitted changes; they are overwritten"
	MsgFlagRollbackForce = "Roll back even when the home copy has uncommitted changes"
	MsgFlagRemoteURL     = "Remote to register when none is configured"
	MsgFlagLimit         = "Show at most this many commits (0 for all)"
	MsgFlagEffective     = "Print the effective configuration instead of the defaults"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
