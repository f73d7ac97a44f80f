package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. SYSDASH_REFRESH_INTERVAL.
	EnvPrefix = "SYSDASH"
	// ConfigDirName is the directory under the user config dir.
	ConfigDirName = "sysdash"
	// ConfigFileName is the config file name.
	ConfigFileName = "config.yaml"
	// globalConfigDir is the fallback when XDG_CONFIG_HOME is unset.
	globalConfigDir = ".config"
)

// Load reads config from the specified path, merged over defaults and
// overridden by SYSDASH_* environment variables. An empty path loads
// defaults plus environment only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'sysdash init' to create a config file, or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// loadBytes parses raw YAML the same way Load parses a file.
func loadBytes(data []byte, path string) (*Config, error) {
	v := newViper()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to parse config",
			"Check the YAML syntax in "+path)
	}
	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. $XDG_CONFIG_HOME/sysdash/config.yaml
// 3. ~/.config/sysdash/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", nil
}

// searchPaths returns the implicit config locations in priority order.
func searchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, ConfigFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, globalConfigDir, ConfigDirName, ConfigFileName))
	}
	return paths
}

// DefaultPath is where 'sysdash init' writes a new config.
func DefaultPath() string {
	paths := searchPaths()
	if len(paths) == 0 {
		return filepath.Join(ConfigDirName, ConfigFileName)
	}
	return paths[0]
}

// LoadOrDefault finds and loads the config, falling back to defaults when
// no file exists. Returns the path that was used ("" for defaults).
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so env overrides apply even when the
// file omits it.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	for _, k := range Keys {
		v.SetDefault(k.Name, k.Value(def))
	}
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "your config"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where+"; durations look like 2s or 500ms")
	}

	cfg.Errors.DiagnosticsDir = ExpandPath(cfg.Errors.DiagnosticsDir)
	cfg.Logging.File = ExpandPath(cfg.Logging.File)

	return cfg, nil
}
