package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"port": 9090,
		"database_url": "postgres://localhost/resume_editor",
		"model_advanced": "gemini-2.5-pro",
		"log_format": "json",
		"rate_limit_enabled": false
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/resume_editor", cfg.DatabaseURL)
	assert.Equal(t, "gemini-2.5-pro", cfg.ModelAdvanced)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.RateLimit())
}

func TestLoadConfig_ValidTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
port = 7070
log_level = "debug"
export_bucket = "exports"
temperature = 0.2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "exports", cfg.ExportBucket)
	assert.InDelta(t, 0.2, cfg.Temperature, 0.0001)
	assert.True(t, cfg.RateLimit())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `port = [`)

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "failed to parse config TOML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults are valid", Defaults(), ""},
		{"port out of range", Config{Port: 70000}, "port"},
		{"temperature out of range", Config{Temperature: 3}, "temperature"},
		{"unknown level", Config{LogLevel: "loud"}, "log_level"},
		{"unknown format", Config{LogFormat: "xml"}, "log_format"},
		{"half export credentials", Config{ExportBucket: "b", ExportAccessKey: "a"}, "export_secret_key"},
		{"missing chrome", Config{ChromePath: "/nonexistent/chrome"}, "chrome"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := Defaults()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.False(t, cfg.RateLimit())
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "eighty")

	cfg := Defaults()
	assert.ErrorContains(t, cfg.ApplyEnv(), "PORT")
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{Port: 9000, LogFormat: "json"}

	merged := partial.MergeWithDefaults(Defaults())

	// Custom values should be preserved
	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "json", merged.LogFormat)

	// Default values should fill in empty fields
	assert.Equal(t, "info", merged.LogLevel)
	assert.Equal(t, "resume.events", merged.AMQPExchange)
	assert.True(t, merged.RateLimit())
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{APIKey: "key"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "key", merged.APIKey)
	assert.Zero(t, merged.Port)
}
