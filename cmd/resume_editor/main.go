// Package main provides the resume_editor command: the HTTP API server and offline tools
// for section updates, imports and PDF export.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/logging"
)

// errEditRejected makes a rejected edit exit non-zero after its result is written.
var errEditRejected = errors.New("edit rejected")

var (
	configFile string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:           "resume_editor",
	Short:         "Resume Editor API server and section update tools",
	Long:          "Resume Editor applies natural-language edits to single sections of an HTML resume, validating every edit against the live document.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a JSON or TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration: defaults, then the config file, then environment, then flags.
func loadConfig() (config.Config, error) {
	cfg := config.Defaults()
	if configFile != "" {
		fileCfg, err := config.LoadConfig(configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	return logger
}

// modelConfig applies per-tier overrides from cfg to the default model configuration.
func modelConfig(cfg config.Config) *llm.Config {
	mc := llm.DefaultConfig()
	for tier, model := range map[llm.ModelTier]string{
		llm.TierLite:     cfg.ModelLite,
		llm.TierStandard: cfg.ModelStandard,
		llm.TierAdvanced: cfg.ModelAdvanced,
	} {
		if model != "" {
			mc = mc.WithModel(tier, model)
		}
	}
	if cfg.Temperature > 0 {
		mc.Temperature = cfg.Temperature
	}
	return mc
}

// apiKey prefers the flag value over configuration.
func apiKey(flagValue string, cfg config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}
	return "", fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}
