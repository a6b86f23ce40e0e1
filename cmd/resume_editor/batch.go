package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/sectionupdate"
	"github.com/jonathan/resume-editor/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many section updates from a JSONL file",
	Long: `Reads one request per line: {"section": "...", "htmlFragment": "...", "documentId": "...", ...}
and writes one result per line, in input order.`,
	RunE: runBatch,
}

var (
	batchInputFile   string
	batchOutputFile  string
	batchSnapshotDir string
	batchConcurrency int
	batchAPIKey      string
)

func init() {
	batchCmd.Flags().StringVarP(&batchInputFile, "in", "i", "", "Path to JSONL requests (required)")
	batchCmd.Flags().StringVarP(&batchOutputFile, "out", "o", "", "Path to JSONL results (default stdout)")
	batchCmd.Flags().StringVar(&batchSnapshotDir, "snapshot-dir", "", "Directory of <documentId>.html files (default: database)")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 4, "Maximum concurrent updates")
	batchCmd.Flags().StringVar(&batchAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	markRequired(batchCmd, "in")
	rootCmd.AddCommand(batchCmd)
}

// batchItem is one input line.
type batchItem struct {
	Section string `json:"section"`
	types.EditRequest

	line int
}

// batchOutcome is one output line.
type batchOutcome struct {
	Line       int              `json:"line"`
	Section    string           `json:"section"`
	DocumentID string           `json:"documentId"`
	Result     types.EditResult `json:"result"`
}

func parseBatch(r io.Reader) ([]batchItem, error) {
	var items []batchItem
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var item batchItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		kind, err := types.ParseSectionKind(item.Section)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		item.Section = string(kind)
		item.line = line
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch input: %w", err)
	}
	return items, nil
}

// runItems runs every item with at most limit in flight. Results keep input order.
func runItems(ctx context.Context, client llm.Client, store sectionupdate.DocumentStore, items []batchItem, limit int, opts ...sectionupdate.Option) ([]batchOutcome, error) {
	agents := make(map[string]*sectionupdate.Agent)
	for _, section := range sectionupdate.Sections() {
		agents[string(section.Kind)] = sectionupdate.New(client, store, section, opts...)
	}

	outcomes := make([]batchOutcome, len(items))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = batchOutcome{
				Line:       item.line,
				Section:    item.Section,
				DocumentID: item.DocumentID,
				Result:     agents[item.Section].Run(ctx, item.EditRequest),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func runBatch(cmd *cobra.Command, _ []string) error {
	in, err := os.Open(batchInputFile)
	if err != nil {
		return fmt.Errorf("failed to open batch input: %w", err)
	}
	defer in.Close()

	items, err := parseBatch(in)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	key, err := apiKey(batchAPIKey, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, closeStore, err := openDocumentStore(ctx, "", batchSnapshotDir, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := llm.NewClient(ctx, modelConfig(cfg), key)
	if err != nil {
		return err
	}
	defer client.Close()

	outcomes, err := runItems(ctx, client, store, items, batchConcurrency, sectionupdate.WithLogger(logger))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	accepted := 0
	for _, o := range outcomes {
		if err := enc.Encode(o); err != nil {
			return fmt.Errorf("failed to encode result for line %d: %w", o.Line, err)
		}
		if o.Result.Succeeded() {
			accepted++
		}
	}
	if err := writeOutput(batchOutputFile, buf.Bytes()); err != nil {
		return err
	}
	logger.Info("batch complete", "requests", len(outcomes), "accepted", accepted, "rejected", len(outcomes)-accepted)
	return nil
}
