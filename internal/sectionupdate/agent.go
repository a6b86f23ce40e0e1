// Package sectionupdate implements the section update agent: one natural-language edit of one
// resume section, generated by a model and checked against the live document before acceptance.
package sectionupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/resume-editor/internal/diffmark"
	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/schemas"
	"github.com/jonathan/resume-editor/internal/types"
)

// DocumentStore reads the current content of a resume. Missing documents report ok=false.
type DocumentStore interface {
	GetResumeContent(ctx context.Context, documentID string) (content string, ok bool, err error)
}

// Agent performs edits for a single section kind.
type Agent struct {
	client  llm.Client
	store   DocumentStore
	section Config
	tier    llm.ModelTier
	logger  *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the logger used for outcome records.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTier overrides the model tier used for generation.
func WithTier(tier llm.ModelTier) Option {
	return func(a *Agent) { a.tier = tier }
}

// New creates an agent for one section kind.
func New(client llm.Client, store DocumentStore, section Config, opts ...Option) *Agent {
	a := &Agent{
		client:  client,
		store:   store,
		section: section,
		tier:    llm.TierAdvanced,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Section returns the agent's section configuration.
func (a *Agent) Section() Config {
	return a.section
}

// generated is the decoded model output.
type generated struct {
	OldFragment  string `json:"oldFragment"`
	NewFragment  string `json:"newFragment"`
	DiffFragment string `json:"diffFragment,omitempty"`
}

// Run generates, snapshots, validates and accepts, in that order. It never returns an error:
// every failure is reported as *types.Rejected carrying the caller's original fragment.
func (a *Agent) Run(ctx context.Context, req types.EditRequest) types.EditResult {
	start := time.Now()
	result := a.run(ctx, req)
	a.logOutcome(req, result, time.Since(start))
	return result
}

func (a *Agent) run(ctx context.Context, req types.EditRequest) types.EditResult {
	out, err := a.generate(ctx, req)
	if err != nil {
		return a.reject(req, types.ReasonGeneration, err.Error(), "", generationGuidance())
	}

	snapshot, err := a.snapshot(ctx, req.DocumentID)
	if err != nil {
		return a.reject(req, types.ReasonValidation, err.Error(), "", snapshotGuidance())
	}

	if stale := staleFragment(snapshot, out.OldFragment, req.HTMLFragment); stale != "" {
		return a.reject(req, types.ReasonValidation,
			"stale fragment: the section no longer matches the current document",
			snapshot, staleGuidance(a.section.Kind, stale, snapshot))
	}

	return &types.Accepted{
		OldFragment:      req.HTMLFragment,
		NewFragment:      out.NewFragment,
		DiffFragment:     out.DiffFragment,
		DocumentSnapshot: snapshot,
	}
}

func (a *Agent) generate(ctx context.Context, req types.EditRequest) (*generated, error) {
	system, err := systemPrompt(a.section)
	if err != nil {
		return nil, &GenerationError{Message: "failed to build system prompt", Cause: err}
	}
	prompt, err := taskPrompt(req)
	if err != nil {
		return nil, &GenerationError{Message: "failed to build task prompt", Cause: err}
	}

	raw, err := a.client.GenerateStructured(ctx, llm.StructuredRequest{
		System: system,
		Prompt: prompt,
		Schema: responseSchema(a.section),
	}, a.tier)
	if err != nil {
		return nil, &GenerationError{Message: "backend call failed", Cause: err}
	}

	out, err := decode(a.section, raw)
	if err != nil {
		return nil, err
	}

	out.NewFragment = sanitize(out.NewFragment)
	if strings.TrimSpace(out.NewFragment) == "" {
		return nil, &GenerationError{Message: "new fragment is empty after sanitizing"}
	}
	if !a.section.WithDiff {
		out.DiffFragment = ""
		return out, nil
	}
	out.DiffFragment = sanitize(out.DiffFragment)
	if strings.TrimSpace(out.DiffFragment) == "" {
		diff, err := diffmark.Render(req.HTMLFragment, out.NewFragment)
		if err != nil {
			return nil, &GenerationError{Message: "failed to render inline diff", Cause: err}
		}
		out.DiffFragment = diff
	}
	return out, nil
}

// decode is the single typed decode step: schema-check, then unmarshal. The client has
// already removed any code fence; text around the object is a failure.
func decode(section Config, raw string) (*generated, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &GenerationError{Message: "empty response"}
	}
	if err := schemas.Validate(decodeSchema(section), text); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			return nil, &GenerationError{Message: "response does not match the output schema: " + verr.Summary()}
		}
		return nil, &GenerationError{Message: "response is not valid structured output", Cause: err}
	}
	var out generated
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, &GenerationError{Message: "failed to decode response", Cause: err}
	}
	return &out, nil
}

func (a *Agent) snapshot(ctx context.Context, documentID string) (string, error) {
	content, ok, err := a.store.GetResumeContent(ctx, documentID)
	if err != nil {
		return "", &SnapshotError{DocumentID: documentID, Cause: err}
	}
	if !ok {
		return "", nil
	}
	return content, nil
}

// staleFragment returns the first fragment not contained in a non-empty snapshot, or "".
// Both the generated old fragment and the caller's fragment are checked, since the
// accepted result reports the caller's fragment as the one being replaced.
func staleFragment(snapshot string, fragments ...string) string {
	if snapshot == "" {
		return ""
	}
	seen := make(map[string]bool, len(fragments))
	for _, f := range fragments {
		trimmed := strings.TrimSpace(f)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		if !strings.Contains(snapshot, trimmed) {
			return trimmed
		}
	}
	return ""
}

func (a *Agent) reject(req types.EditRequest, reason types.FailureReason, detail, snapshot, guidance string) *types.Rejected {
	return &types.Rejected{
		Reason:           reason,
		Detail:           detail,
		FallbackFragment: req.HTMLFragment,
		DocumentSnapshot: snapshot,
		RetryGuidance:    guidance,
	}
}

func (a *Agent) logOutcome(req types.EditRequest, result types.EditResult, elapsed time.Duration) {
	attrs := []any{
		slog.String("section", string(a.section.Kind)),
		slog.String("document_id", req.DocumentID),
		slog.Int64("duration_ms", elapsed.Milliseconds()),
	}
	switch r := result.(type) {
	case *types.Accepted:
		a.logger.Info("section edit accepted", attrs...)
	case *types.Rejected:
		attrs = append(attrs, slog.String("reason", string(r.Reason)), slog.String("error", r.Detail))
		a.logger.Warn("section edit rejected", attrs...)
	}
}
