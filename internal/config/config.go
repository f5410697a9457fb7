// Package config loads codeimport CLI configuration from .codeimport.yaml and
// CODEIMPORT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jward/codeimport"
)

// FileName is the config file looked up in the repository root.
const FileName = ".codeimport.yaml"

// EnvPrefix prefixes environment overrides, e.g. CODEIMPORT_ROOTDIR.
const EnvPrefix = "CODEIMPORT"

// Config is the complete CLI configuration.
type Config struct {
	RootDir       string        `yaml:"rootDir,omitempty" mapstructure:"rootDir"`
	LineSeparator string        `yaml:"lineSeparator" mapstructure:"lineSeparator"`
	Ledger        string        `yaml:"ledger" mapstructure:"ledger"`
	Logging       LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the configuration used when no file is present.
// An empty RootDir means the repository root.
func DefaultConfig() *Config {
	return &Config{
		LineSeparator: "os",
		Ledger:        filepath.Join(".codeimport", "ledger.db"),
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads configPath, or FileName in repoRoot when configPath is empty,
// and applies environment overrides. A missing default file is not an error.
// Relative RootDir and Ledger values are made absolute against repoRoot.
// Values are not validated; callers apply their overrides and then call
// Validate.
func Load(repoRoot, configPath string) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("rootDir", def.RootDir)
	v.SetDefault("lineSeparator", def.LineSeparator)
	v.SetDefault("ledger", def.Ledger)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(repoRoot, FileName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missingDefault := configPath == "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist))
		if !missingDefault {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if cfg.RootDir == "" {
		cfg.RootDir = repoRoot
	} else if !filepath.IsAbs(cfg.RootDir) {
		cfg.RootDir = filepath.Join(repoRoot, cfg.RootDir)
	}
	if cfg.Ledger != "" && !filepath.IsAbs(cfg.Ledger) {
		cfg.Ledger = filepath.Join(repoRoot, cfg.Ledger)
	}

	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if _, err := ParseLineSeparator(c.LineSeparator); err != nil {
		return &ConfigError{Field: "lineSeparator", Message: err.Error()}
	}
	return nil
}

// ParseLineSeparator maps lf, crlf and os (or empty) to a separator string.
func ParseLineSeparator(name string) (string, error) {
	switch strings.ToLower(name) {
	case "lf":
		return codeimport.LF, nil
	case "crlf":
		return codeimport.CRLF, nil
	case "os", "":
		return codeimport.HostLineSeparator(), nil
	default:
		return "", fmt.Errorf("unknown line separator %q: must be lf, crlf or os", name)
	}
}

// Save writes the configuration as YAML to FileName in repoRoot.
func (c *Config) Save(repoRoot string) (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("config: encode: %w", err)
	}
	path := filepath.Join(repoRoot, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
