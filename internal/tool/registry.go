package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jonathan/resume-editor/internal/prompts"
	"github.com/jonathan/resume-editor/internal/schemas"
	"github.com/jonathan/resume-editor/internal/sectionupdate"
	"github.com/jonathan/resume-editor/internal/types"
)

var (
	ErrToolUnregistered = errors.New("tool is not registered")
	ErrToolNameEmpty    = errors.New("tool name is empty")
)

// ReasonInvalidArguments marks a call rejected before the agent ran.
const ReasonInvalidArguments types.FailureReason = "invalid_arguments"

// Runner is the part of a section agent the registry depends on.
type Runner interface {
	Run(ctx context.Context, req types.EditRequest) types.EditResult
	Section() sectionupdate.Config
}

// Registry maps tool names to section agents.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]Runner
}

// NewRegistry registers each runner under its section's tool name.
func NewRegistry(runners ...Runner) *Registry {
	r := &Registry{runners: make(map[string]Runner, len(runners))}
	for _, runner := range runners {
		r.Register(runner)
	}
	return r
}

// Register adds or replaces the runner for its section's tool name.
func (r *Registry) Register(runner Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[runner.Section().ToolName()] = runner
}

// Definitions returns the definitions of every registered tool, sorted by name.
func (r *Registry) Definitions() ([]Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.runners))
	for _, runner := range r.runners {
		def, err := DefinitionFor(runner.Section())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}

// Execute validates the call's arguments and runs the section agent.
// Only unknown tools and cancelled contexts are errors; every edit outcome is a Result.
func (r *Registry) Execute(ctx context.Context, call Call) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if call.Name == "" {
		return Result{}, fmt.Errorf("%w: call %q", ErrToolNameEmpty, call.ID)
	}

	r.mu.RLock()
	runner, ok := r.runners[call.Name]
	r.mu.RUnlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrToolUnregistered, call.Name)
	}

	req, err := decodeArguments(call.Arguments)
	if err != nil {
		content, encErr := encode(invalidArguments(call.Arguments, err))
		if encErr != nil {
			return Result{}, encErr
		}
		return Result{CallID: call.ID, Name: call.Name, Content: content, IsError: true}, nil
	}

	outcome := runner.Run(ctx, req)
	content, err := encode(outcome)
	if err != nil {
		return Result{}, err
	}
	return Result{CallID: call.ID, Name: call.Name, Content: content, IsError: !outcome.Succeeded()}, nil
}

func decodeArguments(args map[string]any) (types.EditRequest, error) {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return types.EditRequest{}, fmt.Errorf("arguments are not JSON encodable: %w", err)
	}
	if err := schemas.Validate(schemas.EditRequest, string(raw)); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			return types.EditRequest{}, errors.New(verr.Summary())
		}
		return types.EditRequest{}, err
	}
	var req types.EditRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return types.EditRequest{}, fmt.Errorf("failed to decode arguments: %w", err)
	}
	return req, nil
}

func invalidArguments(args map[string]any, cause error) *types.Rejected {
	fallback, _ := args["htmlFragment"].(string)
	return &types.Rejected{
		Reason:           ReasonInvalidArguments,
		Detail:           "invalid arguments: " + cause.Error(),
		FallbackFragment: fallback,
		RetryGuidance:    prompts.MustGet(prompts.SectionsFile, "retry-arguments"),
	}
}

func encode(result types.EditResult) (string, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}
	return string(data), nil
}
