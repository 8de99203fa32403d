package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileNames are the configuration files looked up, in order
var FileNames = []string{"typegraph.yaml", "typegraph.yml"}

// EnvPrefix prefixes every environment override, e.g. TYPEGRAPH_LOG_LEVEL
const EnvPrefix = "TYPEGRAPH"

// Config represents the typegraph configuration
type Config struct {
	// Module is the default module signatures are decoded against
	Module string `mapstructure:"module"`

	// Artifacts are the compiled artifact files to load. Relative paths are
	// resolved against the directory of the configuration file.
	Artifacts []string `mapstructure:"artifacts"`

	HiddenTypes      []string `mapstructure:"hidden_types"`
	LoadedFromSource []string `mapstructure:"loaded_from_source"`

	Log     LogConfig     `mapstructure:"log"`
	Inspect InspectConfig `mapstructure:"inspect"`

	// Dir is the directory of the configuration file, or the working
	// directory when none was found
	Dir string `mapstructure:"-"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// InspectConfig represents the inspect command configuration
type InspectConfig struct {
	Jobs int `mapstructure:"jobs"`
}

// Load loads the configuration from the nearest typegraph.yaml, walking up
// from the working directory
func Load() (*Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, err := FindConfig(dir)
	if err != nil {
		path = ""
	}
	return LoadFile(path)
}

// LoadFile loads the configuration from path. An empty path uses defaults
// and environment overrides only.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("module", "")
	v.SetDefault("artifacts", []string{})
	v.SetDefault("hidden_types", []string{})
	v.SetDefault("loaded_from_source", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("inspect.jobs", 4)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	dir := "."
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		dir = filepath.Dir(path)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Dir = dir

	for i, a := range config.Artifacts {
		if !filepath.IsAbs(a) {
			config.Artifacts[i] = filepath.Join(dir, a)
		}
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// FindConfig walks up from dir looking for a configuration file
func FindConfig(dir string) (string, error) {
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found", FileNames[0])
		}
		dir = parent
	}
}

// NewLogger builds the logger described by cfg. It never fails: a logger
// that cannot be built is replaced by a no-op one.
func NewLogger(cfg LogConfig) *zap.Logger {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if level, err := parseLevel(cfg.Level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func parseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Inspect.Jobs < 1 {
		return fmt.Errorf("inspect.jobs must be at least 1, got: %d", cfg.Inspect.Jobs)
	}
	if _, err := parseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level is not a valid level, got: %s", cfg.Log.Level)
	}
	for _, name := range cfg.HiddenTypes {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("hidden_types must not contain empty names")
		}
	}
	return nil
}
