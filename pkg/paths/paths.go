package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/cfgtool/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for cfgtool
	EnvDataDir = "CFGTOOL_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for cfgtool
	EnvConfigDir = "CFGTOOL_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for cfgtool-specific files
	AppDirName = "cfgtool"

	// StoreDirName is the subdirectory of the data dir holding the store
	StoreDirName = "repo"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "cfgtool.log"
)

// Paths resolves the directories cfgtool keeps its own files in
type Paths struct {
	dataDir   string
	configDir string
	stateDir  string
}

// New resolves cfgtool's XDG directories, honouring the CFGTOOL_* overrides.
// The XDG base directories are re-read from the environment on every call.
func New() (*Paths, error) {
	xdg.Reload()

	p := &Paths{}

	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.dataDir = expandHome(dataDir)
	} else {
		p.dataDir = filepath.Join(xdg.DataHome, AppDirName)
	}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.configDir = expandHome(configDir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	p.stateDir = filepath.Join(xdg.StateHome, AppDirName)

	for _, dir := range []*string{&p.dataDir, &p.configDir, &p.stateDir} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrIO, "failed to get absolute path for %s", *dir)
		}
		*dir = abs
	}

	return p, nil
}

// DataDir returns the data directory for cfgtool
func (p *Paths) DataDir() string {
	return p.dataDir
}

// ConfigDir returns the config directory for cfgtool
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// StateDir returns the state directory for cfgtool
func (p *Paths) StateDir() string {
	return p.stateDir
}

// DefaultStoreRoot returns where the store lives unless configured otherwise
func (p *Paths) DefaultStoreRoot() string {
	return filepath.Join(p.dataDir, StoreDirName)
}

// ConfigFilePath returns the path of the user configuration file
func (p *Paths) ConfigFilePath() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// LogFilePath returns the path to the cfgtool log file
func (p *Paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := GetHomeDirectory()
		if err != nil {
			return path
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrIO, "failed to get home directory")
	}
	return homeDir, nil
}
