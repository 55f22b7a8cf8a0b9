package config

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables mapped onto config keys
const EnvPrefix = "CFGTOOL_"

// User config file names, in lookup order
var userConfigFiles = []string{"config.toml", "config.yaml", "config.yml"}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// ConfigDir is searched for config.toml, then config.yaml/config.yml.
	// Empty skips the user file.
	ConfigDir string

	// Overrides are applied last, keyed by dotted config key
	// (e.g. "store.path"). Empty string values are ignored.
	Overrides map[string]interface{}
}

// LoadResult is the effective configuration plus where it came from
type LoadResult struct {
	Config *Config
	// UserFile is the config file that was loaded, if any
	UserFile string
	// Keys lists every effective key, sorted
	Keys []string
}

// Load builds the effective configuration from all layers
func Load(opts LoadOptions) (*LoadResult, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}
	known := make(map[string]bool)
	for _, key := range k.Keys() {
		known[key] = true
	}

	// 2. User config file
	userFile, err := findUserConfig(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	if userFile != "" {
		var parser koanf.Parser = toml.Parser()
		if ext := filepath.Ext(userFile); ext == ".yaml" || ext == ".yml" {
			parser = yaml.Parser()
		}
		if err := k.Load(file.Provider(userFile), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", userFile).
				WithDetail("file", userFile)
		}
		for _, key := range k.Keys() {
			if !known[key] {
				logger.Warn().Str("file", userFile).Str("key", key).Msg("Ignoring unknown configuration key")
			}
		}
		logger.Debug().Str("file", userFile).Msg("Loaded user configuration")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyMapper(known)), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Explicit overrides
	overrides := make(map[string]interface{})
	for key, val := range opts.Overrides {
		if s, ok := val.(string); ok && s == "" {
			continue
		}
		overrides[key] = val
	}
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				trimStringHookFunc(),
				mapstructure.StringToBoolHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	// 6. Post-process
	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Remote.Auth.SSHKey = expandPath(cfg.Remote.Auth.SSHKey)
	cfg.Update.OnUnreadable = strings.ToLower(cfg.Update.OnUnreadable)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	keys := k.Keys()
	sort.Strings(keys)

	return &LoadResult{Config: &cfg, UserFile: userFile, Keys: keys}, nil
}

// findUserConfig returns the first user config file present in dir
func findUserConfig(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	for _, name := range userConfigFiles {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return "", errors.Newf(errors.ErrConfigLoad, "%s is a directory", path)
			}
			return path, nil
		}
		if !os.IsNotExist(err) {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat %s", path)
		}
	}
	return "", nil
}

// envKeyMapper maps CFGTOOL_REMOTE_AUTH_SSH_KEY onto remote.auth.ssh_key.
// Keys contain underscores themselves, so the mapping is resolved against
// the known keys rather than by replacing every "_". Unknown variables
// (CFGTOOL_DATA_DIR and friends) are ignored.
func envKeyMapper(known map[string]bool) func(string) string {
	byEnv := make(map[string]string, len(known))
	for key := range known {
		byEnv[strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}
	return func(s string) string {
		return byEnv[strings.TrimPrefix(s, EnvPrefix)]
	}
}

func trimStringHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() == reflect.String && t.Kind() == reflect.String {
			if s, ok := data.(string); ok {
				return strings.TrimSpace(s), nil
			}
		}
		return data, nil
	}
}

func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
