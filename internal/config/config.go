// Package config loads shell settings from flags, environment variables,
// .env files and an optional YAML config file.
//
// Precedence, highest first: bound CLI flags, TYPEDSHELL_* environment
// variables, TYPEDSHELL_* entries of .env files (the working directory's
// file over the user config directory's), the config file, defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the shell reads.
const EnvPrefix = "TYPEDSHELL"

// Configuration keys.
const (
	KeyLogLevel     = "log_level"
	KeyLogFile      = "log_file"
	KeyTestMode     = "test_mode"
	KeyPrompt       = "prompt"
	KeyHistoryFile  = "history_file"
	KeyTypeModules  = "type_modules"
	KeyInitCommands = "init_commands"
)

// DefaultPrompt is the prompt prefix; the current context path follows it.
const DefaultPrompt = "typedshell"

// Config is the resolved shell configuration.
type Config struct {
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
	TestMode    bool   `mapstructure:"test_mode"`
	Prompt      string `mapstructure:"prompt"`
	HistoryFile string `mapstructure:"history_file"`
	// TypeModules lists YAML or TOML type files registered as lazy type
	// sources.
	TypeModules []string `mapstructure:"type_modules"`
	// InitCommands are run when a context whose path ends with Context is
	// entered. A list keeps context names case sensitive.
	InitCommands []InitCommands `mapstructure:"init_commands"`
}

// InitCommands binds command lines to a context path suffix.
type InitCommands struct {
	Context  string   `mapstructure:"context"`
	Commands []string `mapstructure:"commands"`
}

// Options locate the files Load reads.
type Options struct {
	// ConfigFile is an explicit config file; it must exist when set.
	ConfigFile string
	// ConfigDir holds config.yaml and a .env file.
	ConfigDir string
	// WorkDir holds typedshell.yaml and a .env file.
	WorkDir string
}

// DefaultOptions uses $XDG_CONFIG_HOME/typedshell (or ~/.config/typedshell)
// and the current working directory.
func DefaultOptions(configFile string) Options {
	opts := Options{ConfigFile: configFile}
	if dir, err := UserConfigDir(); err == nil {
		opts.ConfigDir = dir
	}
	if wd, err := os.Getwd(); err == nil {
		opts.WorkDir = wd
	}
	return opts
}

// UserConfigDir returns the typedshell directory under the user's config home.
func UserConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, "typedshell"), nil
}

// SetDefaults registers every key with its default so that environment
// variables are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTestMode, false)
	v.SetDefault(KeyPrompt, DefaultPrompt)
	v.SetDefault(KeyHistoryFile, "")
	v.SetDefault(KeyTypeModules, []string{})
	v.SetDefault(KeyInitCommands, []InitCommands{})
}

// Load resolves the configuration held by v, which may already carry bound
// flags. In test mode .env files are ignored.
func Load(v *viper.Viper, opts Options) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, opts); err != nil {
		return nil, err
	}

	if !v.GetBool(KeyTestMode) {
		for _, dir := range []string{opts.ConfigDir, opts.WorkDir} {
			if err := mergeDotEnv(v, dir); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.HistoryFile == "" && !cfg.TestMode && opts.ConfigDir != "" {
		cfg.HistoryFile = filepath.Join(opts.ConfigDir, "history")
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper, opts Options) error {
	path := opts.ConfigFile
	if path == "" {
		path = findConfigFile(opts)
		if path == "" {
			return nil
		}
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

func findConfigFile(opts Options) string {
	var candidates []string
	if opts.ConfigDir != "" {
		candidates = append(candidates, filepath.Join(opts.ConfigDir, "config.yaml"))
	}
	if opts.WorkDir != "" {
		candidates = append(candidates, filepath.Join(opts.WorkDir, "typedshell.yaml"))
	}
	for _, path := range candidates {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// mergeDotEnv merges the TYPEDSHELL_* entries of dir/.env into the config
// layer. A missing file is not an error.
func mergeDotEnv(v *viper.Viper, dir string) error {
	if dir == "" {
		return nil
	}
	envPath := filepath.Join(dir, ".env")
	data, err := os.ReadFile(envPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read .env file %s: %w", envPath, err)
	}

	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse .env file %s: %w", envPath, err)
	}

	values := DotEnvValues(envMap)
	if len(values) == 0 {
		return nil
	}
	return v.MergeConfigMap(values)
}

// DotEnvValues maps TYPEDSHELL_* entries to configuration keys, e.g.
// TYPEDSHELL_LOG_LEVEL to log_level. Other entries are dropped.
func DotEnvValues(env map[string]string) map[string]any {
	values := make(map[string]any)
	for key, value := range env {
		name, ok := strings.CutPrefix(key, EnvPrefix+"_")
		if !ok || name == "" {
			continue
		}
		name = strings.ToLower(name)
		if name == KeyTypeModules {
			values[name] = splitList(value)
			continue
		}
		values[name] = value
	}
	return values
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
