package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/ingestion"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Convert a PDF, DOCX or text resume into editor HTML",
	RunE:  runImport,
}

var (
	importFile       string
	importOutputFile string
	importMetaFile   string
	importUserID     string
	importTitle      string
)

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Resume document to import (required)")
	importCmd.Flags().StringVarP(&importOutputFile, "out", "o", "", "Write the HTML here (default stdout)")
	importCmd.Flags().StringVar(&importMetaFile, "meta", "", "Write import metadata JSON here")
	importCmd.Flags().StringVar(&importUserID, "user-id", "", "Store the result as a new resume owned by this user")
	importCmd.Flags().StringVarP(&importTitle, "title", "t", "", "Title for the stored resume (defaults to the file name)")

	markRequired(importCmd, "file")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	imported, err := ingestion.ImportDocument(filepath.Base(importFile), data)
	if err != nil {
		return err
	}

	if importMetaFile != "" {
		meta, err := json.MarshalIndent(imported.Metadata, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := writeOutput(importMetaFile, append(meta, '\n')); err != nil {
			return err
		}
	}

	if importUserID == "" {
		return writeOutput(importOutputFile, []byte(imported.HTML+"\n"))
	}

	userID, err := uuid.Parse(importUserID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	title := strings.TrimSpace(importTitle)
	if title == "" {
		title = documentID(importFile)
	}
	resume, err := database.CreateResume(ctx, userID, title, imported.HTML)
	if err != nil {
		return err
	}
	logger.Info("resume imported", "resume_id", resume.ID, "mime", imported.Metadata.MIME)
	fmt.Fprintln(cmd.OutOrStdout(), resume.ID)

	if importOutputFile != "" {
		return writeOutput(importOutputFile, []byte(imported.HTML+"\n"))
	}
	return nil
}
