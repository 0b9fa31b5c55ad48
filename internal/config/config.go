// Package config loads Composer configuration with precedence:
// defaults → YAML file → environment variables. Secrets are env-only and
// never read from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Deploy   DeployConfig   `yaml:"deploy"`
	Suggest  SuggestConfig  `yaml:"suggest"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig contains draft-store settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// DeployConfig contains S3-compatible deployment target settings.
// An empty bucket disables deployment (local-only authoring).
type DeployConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Bucket      string `yaml:"bucket"`
	ObjectKey   string `yaml:"object_key"`
	UseSSL      bool   `yaml:"use_ssl"`
	MaxRetries  int    `yaml:"max_retries"`
	AccessKey   string `yaml:"-"` // env-only, never in YAML
	SecretKey   string `yaml:"-"` // env-only, never in YAML
}

// SuggestConfig contains copy-suggestion service settings.
// An empty API key disables suggestions.
type SuggestConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"-"` // env-only, never in YAML
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	APIKey string `yaml:"-"` // env-only, never in YAML
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("COMPOSER_CONFIG_PATH", "config/composer.yaml")

	// Missing file is not an error; defaults apply.
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Database: DatabaseConfig{
			Path: "data/composer.db",
		},
		Deploy: DeployConfig{
			ObjectKey:  "tenant-config.json",
			UseSSL:     true,
			MaxRetries: 3,
		},
		Suggest: SuggestConfig{
			Model: "gpt-4o-mini",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COMPOSER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("COMPOSER_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("COMPOSER_DEPLOY_ENDPOINT"); v != "" {
		cfg.Deploy.Endpoint = v
	}
	if v := os.Getenv("COMPOSER_DEPLOY_BUCKET"); v != "" {
		cfg.Deploy.Bucket = v
	}
	if v := os.Getenv("COMPOSER_DEPLOY_OBJECT_KEY"); v != "" {
		cfg.Deploy.ObjectKey = v
	}
	if v := os.Getenv("COMPOSER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("COMPOSER_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	// Secrets are env-only.
	cfg.Auth.APIKey = os.Getenv("COMPOSER_API_KEY")
	cfg.Deploy.AccessKey = os.Getenv("COMPOSER_DEPLOY_ACCESS_KEY")
	cfg.Deploy.SecretKey = os.Getenv("COMPOSER_DEPLOY_SECRET_KEY")
	cfg.Suggest.APIKey = os.Getenv("COMPOSER_SUGGEST_API_KEY")
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Deploy.Bucket != "" && c.Deploy.Endpoint == "" {
		return errors.New("deploy endpoint is required when a bucket is configured")
	}
	if c.Deploy.MaxRetries < 0 {
		return fmt.Errorf("invalid deploy max_retries %d", c.Deploy.MaxRetries)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

// getEnv returns the env var value or a default.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
