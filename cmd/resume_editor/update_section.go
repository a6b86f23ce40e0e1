package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/observability"
	"github.com/jonathan/resume-editor/internal/sectionupdate"
	"github.com/jonathan/resume-editor/internal/types"
)

var updateSectionCmd = &cobra.Command{
	Use:   "update-section",
	Short: "Run one section update against a snapshot file or the database",
	Long: `Runs the section update agent for one request and prints the outcome.

Fragment, description and instruction accept "@path" to read the value from a file.`,
	RunE: runUpdateSection,
}

var (
	updateSection     string
	updateFragment    string
	updateChange      string
	updateInstruction string
	updateDocumentID  string
	updateSnapshot    string
	updateSnapshotDir string
	updateOutputFile  string
	updateAPIKey      string
	updateTimeout     time.Duration
	updateQuiet       bool
)

func init() {
	updateSectionCmd.Flags().StringVarP(&updateSection, "section", "s", "", "Section kind: experience, education, contact, projects, general (required)")
	updateSectionCmd.Flags().StringVarP(&updateFragment, "fragment", "f", "", "HTML fragment to edit, or @file (required)")
	updateSectionCmd.Flags().StringVar(&updateChange, "change", "", "Change description, or @file")
	updateSectionCmd.Flags().StringVarP(&updateInstruction, "instruction", "i", "", "User instruction, or @file")
	updateSectionCmd.Flags().StringVar(&updateDocumentID, "document-id", "", "Document id (defaults to the snapshot file name)")
	updateSectionCmd.Flags().StringVar(&updateSnapshot, "snapshot", "", "HTML file holding the live document")
	updateSectionCmd.Flags().StringVar(&updateSnapshotDir, "snapshot-dir", "", "Directory of <documentId>.html files")
	updateSectionCmd.Flags().StringVarP(&updateOutputFile, "out", "o", "", "Write the JSON result here instead of stdout")
	updateSectionCmd.Flags().StringVar(&updateAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	updateSectionCmd.Flags().DurationVar(&updateTimeout, "timeout", 2*time.Minute, "Overall timeout for the update")
	updateSectionCmd.Flags().BoolVarP(&updateQuiet, "quiet", "q", false, "Skip the summary box")

	markRequired(updateSectionCmd, "section", "fragment")
	rootCmd.AddCommand(updateSectionCmd)
}

func runUpdateSection(cmd *cobra.Command, _ []string) error {
	kind, err := types.ParseSectionKind(updateSection)
	if err != nil {
		return err
	}
	section, ok := sectionupdate.Lookup(kind)
	if !ok {
		return fmt.Errorf("no agent for section %q", kind)
	}

	req := types.EditRequest{DocumentID: updateDocumentID}
	for _, field := range []struct {
		dst *string
		in  string
	}{
		{&req.HTMLFragment, updateFragment},
		{&req.ChangeDescription, updateChange},
		{&req.UserInstruction, updateInstruction},
	} {
		if *field.dst, err = readInput(field.in); err != nil {
			return err
		}
	}
	if req.DocumentID == "" && updateSnapshot != "" {
		req.DocumentID = documentID(updateSnapshot)
	}
	if req.DocumentID == "" {
		return fmt.Errorf("--document-id is required unless --snapshot is given")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	key, err := apiKey(updateAPIKey, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if updateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, updateTimeout)
		defer cancel()
	}

	store, closeStore, err := openDocumentStore(ctx, updateSnapshot, updateSnapshotDir, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := llm.NewClient(ctx, modelConfig(cfg), key)
	if err != nil {
		return err
	}
	defer client.Close()

	agent := sectionupdate.New(client, store, section, sectionupdate.WithLogger(logger))
	result := agent.Run(ctx, req)

	if !updateQuiet {
		observability.NewPrinter(os.Stderr).PrintEditResult(kind, result)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := writeOutput(updateOutputFile, append(out, '\n')); err != nil {
		return err
	}
	if !result.Succeeded() {
		return errEditRejected
	}
	return nil
}
