// Package config provides configuration types, defaults and loading for locatorctl.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tomodakengo/kensa-sub001/internal/fsutil"
	"github.com/tomodakengo/kensa-sub001/internal/logging"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendDynamoDB = "dynamodb"
)

// EnvPrefix prefixes environment overrides, e.g. KENSA_STORAGE_ROOT.
const EnvPrefix = "KENSA"

// DefaultConfigPath is where locatorctl looks for a config file when none is given.
const DefaultConfigPath = ".kensa/config.yaml"

// Config holds all configuration options.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	DynamoDB DynamoDBConfig `mapstructure:"dynamodb" yaml:"dynamodb"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// StorageConfig selects where page documents live.
type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // "file" (default) or "dynamodb"
	Root    string `mapstructure:"root" yaml:"root"`       // directory for the file backend
}

// DynamoDBConfig configures the dynamodb backend. Empty credentials fall back
// to the default AWS credential chain.
type DynamoDBConfig struct {
	Table     string `mapstructure:"table" yaml:"table"`
	Region    string `mapstructure:"region" yaml:"region"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
}

// CacheConfig configures the resolve cache. A zero TTL disables it.
type CacheConfig struct {
	ResolveTTL time.Duration `mapstructure:"resolve_ttl" yaml:"resolve_ttl"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Root:    "./locators",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers every key with v so environment overrides apply even
// when the config file omits them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.root", d.Storage.Root)
	v.SetDefault("dynamodb.table", d.DynamoDB.Table)
	v.SetDefault("dynamodb.region", d.DynamoDB.Region)
	v.SetDefault("dynamodb.access_key", d.DynamoDB.AccessKey)
	v.SetDefault("dynamodb.secret_key", d.DynamoDB.SecretKey)
	v.SetDefault("cache.resolve_ttl", d.Cache.ResolveTTL)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// NewViper returns a viper instance with defaults and KENSA_ environment
// overrides wired in.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path, or DefaultConfigPath when path is
// empty, applies environment overrides and validates the result. A missing
// default config file is not an error.
func Load(path string) (Config, error) {
	return LoadViper(NewViper(), path)
}

// LoadViper is Load over a caller-provided viper, typically one with command
// line flags bound to it.
func LoadViper(v *viper.Viper, path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := stderrors.As(err, &notFound) || stderrors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return Decode(v)
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func Validate(cfg Config) error {
	switch cfg.Storage.Backend {
	case BackendFile:
		if strings.TrimSpace(cfg.Storage.Root) == "" {
			return fmt.Errorf("storage.root is required for the %s backend", BackendFile)
		}
	case BackendDynamoDB:
		if strings.TrimSpace(cfg.DynamoDB.Table) == "" {
			return fmt.Errorf("dynamodb.table is required for the %s backend", BackendDynamoDB)
		}
		if (cfg.DynamoDB.AccessKey == "") != (cfg.DynamoDB.SecretKey == "") {
			return fmt.Errorf("dynamodb.access_key and dynamodb.secret_key must be set together")
		}
	default:
		return fmt.Errorf("storage.backend %q must be %q or %q", cfg.Storage.Backend, BackendFile, BackendDynamoDB)
	}

	if cfg.Cache.ResolveTTL < 0 {
		return fmt.Errorf("cache.resolve_ttl must not be negative")
	}
	if !slices.Contains(logging.Levels, cfg.Log.Level) {
		return fmt.Errorf("log.level %q must be one of %s", cfg.Log.Level, strings.Join(logging.Levels, ", "))
	}
	if !slices.Contains(logging.Formats, cfg.Log.Format) {
		return fmt.Errorf("log.format %q must be one of %s", cfg.Log.Format, strings.Join(logging.Formats, ", "))
	}
	return nil
}

// Redacted returns a copy of cfg with credentials masked.
func (c Config) Redacted() Config {
	if c.DynamoDB.AccessKey != "" {
		c.DynamoDB.AccessKey = "****"
	}
	if c.DynamoDB.SecretKey != "" {
		c.DynamoDB.SecretKey = "****"
	}
	return c
}

// yamlConfig mirrors Config with durations rendered the way they are written.
type yamlConfig struct {
	Storage  StorageConfig  `yaml:"storage"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
	Cache    struct {
		ResolveTTL string `yaml:"resolve_ttl"`
	} `yaml:"cache"`
	Log LogConfig `yaml:"log"`
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	out := yamlConfig{
		Storage:  cfg.Storage,
		DynamoDB: cfg.DynamoDB,
		Log:      cfg.Log,
	}
	out.Cache.ResolveTTL = cfg.Cache.ResolveTTL.String()

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Locator registry configuration

storage:
  backend: file          # "file" (default) or "dynamodb"
  root: ./locators       # one <page>.xml document per page

# Used when storage.backend is dynamodb. Leave the keys empty to use the
# default AWS credential chain.
dynamodb:
  table: ""
  region: ""
  access_key: ""
  secret_key: ""

cache:
  resolve_ttl: 0s        # cache resolved selectors, e.g. 5m; 0s disables

log:
  level: info            # debug, info, warn, error
  format: text           # text or json
`
}

// WriteDefaultConfig creates a config file at configPath with default
// settings and comments, creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := fsutil.WriteFileAtomic(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
