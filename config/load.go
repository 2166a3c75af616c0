package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the process configuration of the ranking engine server.
type Config struct {
	Port      int             `koanf:"port"`
	DataDir   string          `koanf:"data_dir"`
	LogLevel  string          `koanf:"log_level"`
	LogFormat string          `koanf:"log_format"`
	Indexes   []IndexSettings `koanf:"indexes"` // indexes created at startup when absent from DataDir
}

// Default values for process configuration.
const (
	DefaultPort      = 8080
	DefaultDataDir   = "./search_data"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Configuration validation errors.
var (
	ErrInvalidPort      = errors.New("RANKING_PORT must be a valid port number")
	ErrInvalidLogLevel  = errors.New("RANKING_LOG_LEVEL must be one of debug, info, warn, error")
	ErrInvalidLogFormat = errors.New("RANKING_LOG_FORMAT must be text or json")
	ErrEmptyDataDir     = errors.New("RANKING_DATA_DIR cannot be empty")
)

// Load reads configuration from an optional YAML file and environment
// variables. Environment variables take precedence over file values.
// It returns the config and every validation problem found; a file that
// cannot be read is reported as the only error.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, []error{fmt.Errorf("failed to decode config: %w", err)}
	}

	var loadErrs []error
	if v := os.Getenv("RANKING_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			loadErrs = append(loadErrs, ErrInvalidPort)
		} else {
			cfg.Port = port
		}
	}
	cfg.DataDir = envOr("RANKING_DATA_DIR", cfg.DataDir)
	cfg.LogLevel = envOr("RANKING_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOr("RANKING_LOG_FORMAT", cfg.LogFormat)

	cfg.applyDefaults()
	return cfg, append(loadErrs, cfg.Validate()...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)
	for i := range c.Indexes {
		c.Indexes[i].ApplyDefaults()
	}
}

// Validate returns every problem found in the configuration.
func (c *Config) Validate() []error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, ErrEmptyDataDir)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ErrInvalidLogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, ErrInvalidLogFormat)
	}
	seen := make(map[string]bool, len(c.Indexes))
	for _, idx := range c.Indexes {
		if seen[idx.Name] {
			errs = append(errs, fmt.Errorf("index '%s' declared twice", idx.Name))
		}
		seen[idx.Name] = true
		for _, msg := range idx.Validate() {
			errs = append(errs, fmt.Errorf("index '%s': %s", idx.Name, msg))
		}
	}
	return errs
}
