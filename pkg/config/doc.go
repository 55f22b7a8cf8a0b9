// Package config handles configuration management for cfgtool.
// Configuration is layered: embedded defaults, then the user's config file
// (TOML or YAML) in the XDG config directory, then CFGTOOL_* environment
// variables, then explicit overrides from command-line flags.
package config
