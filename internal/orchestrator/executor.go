package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Cyclone1070/piperun/internal/orchestrator/adapter"
	"github.com/Cyclone1070/piperun/internal/pipe/models"
)

// Executor runs a batch of tool-call requests against a registry.
type Executor struct {
	registry *Registry
}

// NewExecutor creates an Executor over the given registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

type resolvedCall struct {
	call models.ToolCall
	tool adapter.Tool
	args map[string]any
}

// Execute resolves and runs every tool call, returning one tool-role
// result message per call in input order. The batch is all-or-fail: an
// unresolved name or malformed argument payload rejects the batch before
// any tool runs, and any single tool failure aborts the whole batch with
// no partial results. Resolved tools are invoked concurrently; the join
// preserves input order regardless of completion order.
func (e *Executor) Execute(ctx context.Context, calls []models.ToolCall) ([]models.Message, error) {
	resolved := make([]resolvedCall, 0, len(calls))
	for _, call := range calls {
		name := call.Function.Name
		tool, ok := e.registry.Resolve(name)
		if !ok {
			return nil, &models.ToolError{Name: name, Underlying: models.ErrToolNotFound}
		}

		var args map[string]any
		if raw := call.Function.Arguments; raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, &models.ToolError{
					Name:       name,
					Underlying: fmt.Errorf("%w: %v", models.ErrMalformedToolArguments, err),
				}
			}
		}

		resolved = append(resolved, resolvedCall{call: call, tool: tool, args: args})
	}

	results := make([]models.Message, len(resolved))
	errs := make([]error, len(resolved))

	var wg sync.WaitGroup
	for i, rc := range resolved {
		wg.Add(1)
		go func(i int, rc resolvedCall) {
			defer wg.Done()
			msg, err := runTool(ctx, rc)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = msg
		}(i, rc)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func runTool(ctx context.Context, rc resolvedCall) (models.Message, error) {
	name := rc.call.Function.Name

	out, err := rc.tool.Execute(ctx, rc.args)
	if err != nil {
		return models.Message{}, &models.ToolError{Name: name, Underlying: err}
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return models.Message{}, &models.ToolError{
			Name:       name,
			Underlying: fmt.Errorf("marshal result: %w", err),
		}
	}

	content := string(encoded)
	return models.Message{
		Role:       models.RoleTool,
		Content:    &content,
		ToolCallID: rc.call.ID,
		Name:       name,
	}, nil
}
