package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/events"
	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/rendering"
	"github.com/jonathan/resume-editor/internal/server"
	"github.com/jonathan/resume-editor/internal/storage"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes resume storage, section updates, tool calls and PDF export.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply the database schema on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()
	if serveMigrate {
		if err := database.Migrate(ctx); err != nil {
			return err
		}
	}

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	passwordCfg, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	deps := server.Deps{
		Store:     database,
		Renderer:  rendering.NewRenderer(cfg.ChromePath),
		Logger:    logger,
		JWT:       jwtCfg,
		Passwords: passwordCfg,
	}

	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, modelConfig(cfg), cfg.APIKey)
		if err != nil {
			return err
		}
		defer client.Close()
		deps.LLM = client
	} else {
		logger.Warn("GEMINI_API_KEY not set; section updates are disabled")
	}

	if cfg.ExportBucket != "" {
		exports, err := storage.NewS3Store(ctx, storage.Options{
			Bucket:    cfg.ExportBucket,
			Endpoint:  cfg.ExportEndpoint,
			Region:    cfg.ExportRegion,
			AccessKey: cfg.ExportAccessKey,
			SecretKey: cfg.ExportSecretKey,
		})
		if err != nil {
			return err
		}
		deps.Exports = exports
	}

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()
	deps.Events = publisher

	srv, err := server.New(server.Config{
		Port:       cfg.Port,
		CORSOrigin: cfg.CORSOrigin,
		RateLimit:  cfg.RateLimit(),
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

func newPublisher(cfg config.Config, logger *slog.Logger) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		return events.NopPublisher{}, nil
	}
	publisher, err := events.Dial(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, err
	}
	logger.Info("publishing resume events", "exchange", cfg.AMQPExchange)
	return publisher, nil
}

// Compile-time check that the database satisfies the server store.
var _ server.Store = (*db.DB)(nil)
