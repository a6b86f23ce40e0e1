package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/rendering"
	"github.com/jonathan/resume-editor/internal/storage"
)

var exportPDFCmd = &cobra.Command{
	Use:   "export-pdf",
	Short: "Print a resume to PDF with headless Chrome",
	RunE:  runExportPDF,
}

var (
	exportInputFile  string
	exportResumeID   string
	exportTitle      string
	exportOutputFile string
	exportUpload     bool
)

func init() {
	exportPDFCmd.Flags().StringVarP(&exportInputFile, "in", "i", "", "HTML file to print")
	exportPDFCmd.Flags().StringVar(&exportResumeID, "resume-id", "", "Print a stored resume instead of a file")
	exportPDFCmd.Flags().StringVarP(&exportTitle, "title", "t", "", "Document title (defaults to the file or resume title)")
	exportPDFCmd.Flags().StringVarP(&exportOutputFile, "out", "o", "", "Path to the output PDF")
	exportPDFCmd.Flags().BoolVar(&exportUpload, "upload", false, "Upload to the export bucket")
	exportPDFCmd.MarkFlagsOneRequired("in", "resume-id")
	exportPDFCmd.MarkFlagsMutuallyExclusive("in", "resume-id")
	rootCmd.AddCommand(exportPDFCmd)
}

func runExportPDF(cmd *cobra.Command, _ []string) error {
	if exportOutputFile == "" && !exportUpload {
		return fmt.Errorf("--out or --upload is required")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	ctx := cmd.Context()

	title, content, docID := exportTitle, "", ""
	if exportInputFile != "" {
		data, err := os.ReadFile(exportInputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		content, docID = string(data), documentID(exportInputFile)
		if title == "" {
			title = docID
		}
	} else {
		id, err := uuid.Parse(exportResumeID)
		if err != nil {
			return fmt.Errorf("invalid resume id: %w", err)
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		resume, err := database.GetResume(ctx, id)
		if err != nil {
			return err
		}
		if resume == nil {
			return fmt.Errorf("resume not found: %s", id)
		}
		content, docID = resume.Content, resume.ID.String()
		if title == "" {
			title = resume.Title
		}
	}

	pdf, err := rendering.NewRenderer(cfg.ChromePath).PDF(ctx, title, content)
	if err != nil {
		return err
	}

	if exportOutputFile != "" {
		if err := writeOutput(exportOutputFile, pdf); err != nil {
			return err
		}
		logger.Info("pdf written", "path", exportOutputFile, "bytes", len(pdf))
	}

	if exportUpload {
		if cfg.ExportBucket == "" {
			return fmt.Errorf("EXPORT_BUCKET is required for --upload")
		}
		store, err := storage.NewS3Store(ctx, storage.Options{
			Bucket:    cfg.ExportBucket,
			Endpoint:  cfg.ExportEndpoint,
			Region:    cfg.ExportRegion,
			AccessKey: cfg.ExportAccessKey,
			SecretKey: cfg.ExportSecretKey,
		})
		if err != nil {
			return err
		}
		key := storage.ExportKey(docID, time.Now().UTC().Format("20060102T150405Z"), "pdf")
		if err := store.Put(ctx, key, "application/pdf", pdf); err != nil {
			return err
		}
		logger.Info("pdf uploaded", "bucket", store.Bucket(), "key", key)
		fmt.Fprintln(cmd.OutOrStdout(), key)
	}
	return nil
}
