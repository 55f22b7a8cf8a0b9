package config

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/cfgtool/pkg/errors"
)

// MainBranch is the only branch the store reads or writes
const MainBranch = "main"

// Unreadable file policies for change detection
const (
	OnUnreadableAbort = "abort"
	OnUnreadableSkip  = "skip"
)

// Config is the effective cfgtool configuration
type Config struct {
	Store  StoreConfig  `koanf:"store" toml:"store" yaml:"store" json:"store"`
	Remote RemoteConfig `koanf:"remote" toml:"remote" yaml:"remote" json:"remote"`
	Commit CommitConfig `koanf:"commit" toml:"commit" yaml:"commit" json:"commit"`
	Update UpdateConfig `koanf:"update" toml:"update" yaml:"update" json:"update"`
}

// StoreConfig holds store location settings
type StoreConfig struct {
	// Path overrides the store root. Empty means the XDG data default.
	Path   string `koanf:"path" toml:"path" yaml:"path" json:"path"`
	Branch string `koanf:"branch" toml:"branch" yaml:"branch" json:"branch"`
}

// RemoteConfig holds remote selection and authentication settings
type RemoteConfig struct {
	Preferred string     `koanf:"preferred" toml:"preferred" yaml:"preferred" json:"preferred"`
	Auth      AuthConfig `koanf:"auth" toml:"auth" yaml:"auth" json:"auth"`
}

// AuthConfig configures how cfgtool authenticates against remotes
type AuthConfig struct {
	SSHAgent      bool   `koanf:"ssh_agent" toml:"ssh_agent" yaml:"ssh_agent" json:"sshAgent"`
	SSHKey        string `koanf:"ssh_key" toml:"ssh_key" yaml:"ssh_key" json:"sshKey"`
	HTTPSTokenEnv string `koanf:"https_token_env" toml:"https_token_env" yaml:"https_token_env" json:"httpsTokenEnv"`
}

// CommitConfig holds commit message settings
type CommitConfig struct {
	DefaultMessage string `koanf:"default_message" toml:"default_message" yaml:"default_message" json:"defaultMessage"`
}

// UpdateConfig holds change detection settings
type UpdateConfig struct {
	OnUnreadable string `koanf:"on_unreadable" toml:"on_unreadable" yaml:"on_unreadable" json:"onUnreadable"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Branch: MainBranch,
		},
		Remote: RemoteConfig{
			Preferred: "origin",
			Auth: AuthConfig{
				SSHAgent:      true,
				HTTPSTokenEnv: "CFGTOOL_GIT_TOKEN",
			},
		},
		Commit: CommitConfig{
			DefaultMessage: "Tracked file %s",
		},
		Update: UpdateConfig{
			OnUnreadable: OnUnreadableAbort,
		},
	}
}

// Validate checks values that cannot be expressed by the types alone
func (c *Config) Validate() error {
	if c.Store.Branch != MainBranch {
		return errors.Newf(errors.ErrConfigValid,
			"store.branch must be %q, got %q", MainBranch, c.Store.Branch).
			WithDetail("key", "store.branch")
	}

	switch c.Update.OnUnreadable {
	case OnUnreadableAbort, OnUnreadableSkip:
	default:
		return errors.Newf(errors.ErrConfigValid,
			"update.on_unreadable must be %q or %q, got %q",
			OnUnreadableAbort, OnUnreadableSkip, c.Update.OnUnreadable).
			WithDetail("key", "update.on_unreadable")
	}

	if strings.Count(c.Commit.DefaultMessage, "%s") != 1 ||
		strings.Count(c.Commit.DefaultMessage, "%") != 1 {
		return errors.Newf(errors.ErrConfigValid,
			"commit.default_message must contain exactly one %%s, got %q", c.Commit.DefaultMessage).
			WithDetail("key", "commit.default_message")
	}

	return nil
}

// TrackMessage renders the default commit message for a tracked file
func (c *Config) TrackMessage(name string) string {
	return fmt.Sprintf(c.Commit.DefaultMessage, name)
}
