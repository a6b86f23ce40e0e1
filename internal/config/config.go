// Package config provides configuration loading and validation for the resume editor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the service configuration that can be loaded from a JSON or TOML file.
// All fields are optional; missing values use defaults, environment variables or CLI flags.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty" toml:"port"`
	DatabaseURL string `json:"database_url,omitempty" toml:"database_url"` // PostgreSQL connection URL
	CORSOrigin  string `json:"cors_origin,omitempty" toml:"cors_origin"`

	// Model backend
	APIKey        string  `json:"api_key,omitempty" toml:"api_key"` // Gemini API key
	ModelLite     string  `json:"model_lite,omitempty" toml:"model_lite"`
	ModelStandard string  `json:"model_standard,omitempty" toml:"model_standard"`
	ModelAdvanced string  `json:"model_advanced,omitempty" toml:"model_advanced"`
	Temperature   float32 `json:"temperature,omitempty" toml:"temperature"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" toml:"log_level"`   // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty" toml:"log_format"` // text or json

	// Behavior
	RateLimitEnabled *bool  `json:"rate_limit_enabled,omitempty" toml:"rate_limit_enabled"`
	ChromePath       string `json:"chrome_path,omitempty" toml:"chrome_path"` // Chrome binary for PDF export
	AMQPURL          string `json:"amqp_url,omitempty" toml:"amqp_url"`       // Change notifications broker
	AMQPExchange     string `json:"amqp_exchange,omitempty" toml:"amqp_exchange"`

	// Export storage (S3 compatible)
	ExportBucket    string `json:"export_bucket,omitempty" toml:"export_bucket"`
	ExportEndpoint  string `json:"export_endpoint,omitempty" toml:"export_endpoint"`
	ExportRegion    string `json:"export_region,omitempty" toml:"export_region"`
	ExportAccessKey string `json:"export_access_key,omitempty" toml:"export_access_key"`
	ExportSecretKey string `json:"export_secret_key,omitempty" toml:"export_secret_key"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	enabled := true
	return Config{
		Port:             8080,
		LogLevel:         "info",
		LogFormat:        "text",
		RateLimitEnabled: &enabled,
		AMQPExchange:     "resume.events",
		ExportRegion:     "auto",
	}
}

// LoadConfig loads configuration from a JSON file, or a TOML file when the extension is .toml.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
		return &cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields with any environment variables that are set.
func (c *Config) ApplyEnv() error {
	for name, dst := range map[string]*string{
		"DATABASE_URL":      &c.DatabaseURL,
		"GEMINI_API_KEY":    &c.APIKey,
		"LOG_LEVEL":         &c.LogLevel,
		"LOG_FORMAT":        &c.LogFormat,
		"CORS_ORIGIN":       &c.CORSOrigin,
		"CHROME_PATH":       &c.ChromePath,
		"AMQP_URL":          &c.AMQPURL,
		"EXPORT_BUCKET":     &c.ExportBucket,
		"EXPORT_ENDPOINT":   &c.ExportEndpoint,
		"EXPORT_ACCESS_KEY": &c.ExportAccessKey,
		"EXPORT_SECRET_KEY": &c.ExportSecretKey,
	} {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_ENABLED: %v", err)
		}
		c.RateLimitEnabled = &enabled
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: unknown 'log_level' %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: unknown 'log_format' %q", c.LogFormat)
	}
	if c.ExportBucket != "" && (c.ExportAccessKey == "") != (c.ExportSecretKey == "") {
		return fmt.Errorf("config error: 'export_access_key' and 'export_secret_key' must be set together")
	}
	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}
	return nil
}

// RateLimit reports whether rate limiting is enabled (default true).
func (c *Config) RateLimit() bool {
	return c.RateLimitEnabled == nil || *c.RateLimitEnabled
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	strs := []struct{ dst, def *string }{
		{&result.DatabaseURL, &defaults.DatabaseURL},
		{&result.CORSOrigin, &defaults.CORSOrigin},
		{&result.APIKey, &defaults.APIKey},
		{&result.ModelLite, &defaults.ModelLite},
		{&result.ModelStandard, &defaults.ModelStandard},
		{&result.ModelAdvanced, &defaults.ModelAdvanced},
		{&result.LogLevel, &defaults.LogLevel},
		{&result.LogFormat, &defaults.LogFormat},
		{&result.ChromePath, &defaults.ChromePath},
		{&result.AMQPURL, &defaults.AMQPURL},
		{&result.AMQPExchange, &defaults.AMQPExchange},
		{&result.ExportBucket, &defaults.ExportBucket},
		{&result.ExportEndpoint, &defaults.ExportEndpoint},
		{&result.ExportRegion, &defaults.ExportRegion},
		{&result.ExportAccessKey, &defaults.ExportAccessKey},
		{&result.ExportSecretKey, &defaults.ExportSecretKey},
	}
	for _, s := range strs {
		if *s.dst == "" {
			*s.dst = *s.def
		}
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.RateLimitEnabled == nil {
		result.RateLimitEnabled = defaults.RateLimitEnabled
	}

	return result
}
