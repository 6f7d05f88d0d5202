package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigDir is the directory under the scan root that holds config.yml.
const ConfigDir = ".codedoc"

// EnvPrefix is the prefix for environment variable overrides (CODEDOC_STYLE, ...).
const EnvPrefix = "CODEDOC"

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"output":      "output",
	"style":       "style",
	"suffix":      "suffix",
	"concurrency": "concurrency",
	"title":       "title",
	"ignore":      "ignore",
}

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file, environment variables and flags.
	// Priority: defaults → config file → environment variables → flags (flags win)
	Load() (*Config, error)
}

// LoaderOption customizes a loader.
type LoaderOption func(*loader)

// WithConfigFile reads configuration from an explicit file instead of
// searching <root>/.codedoc. A missing explicit file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) {
		l.configFile = path
	}
}

// WithFlags binds any known flags present in fs. Only flags the user set
// override lower-priority sources.
func WithFlags(fs *pflag.FlagSet) LoaderOption {
	return func(l *loader) {
		l.flags = fs
	}
}

type loader struct {
	rootDir    string
	configFile string
	flags      *pflag.FlagSet
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{
		rootDir: rootDir,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Flags explicitly set on the command line
// 2. Environment variables (CODEDOC_*)
// 3. Config file (.codedoc/config.yml or .codedoc/config.yaml)
// 4. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ConfigDir))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range flagKeys {
		v.BindEnv(key)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if l.flags != nil {
		for name, key := range flagKeys {
			flag := l.flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Root = l.rootDir

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("output", defaults.Output)
	v.SetDefault("style", defaults.Style)
	v.SetDefault("suffix", defaults.Suffix)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("title", defaults.Title)
	v.SetDefault("ignore", defaults.Ignore)
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string, opts ...LoaderOption) (*Config, error) {
	return NewLoader(rootDir, opts...).Load()
}
