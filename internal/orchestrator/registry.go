package orchestrator

import (
	"fmt"

	"github.com/Cyclone1070/piperun/internal/orchestrator/adapter"
	"github.com/Cyclone1070/piperun/internal/pipe/models"
)

// Registry maps tool names to their executables. Built once from a pipe's
// declared tool list; read-only afterwards, safe for concurrent lookups
// within a batch.
type Registry struct {
	tools map[string]adapter.Tool
	order []string
}

// NewRegistry builds a registry from the declared tools. A duplicate tool
// name is a construction-time error rather than silent shadowing.
func NewRegistry(tools []adapter.Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]adapter.Tool, len(tools))}
	for _, t := range tools {
		name := t.Definition().Function.Name
		if name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", name)
		}
		r.tools[name] = t
		r.order = append(r.order, name)
	}
	return r, nil
}

// Resolve looks up a tool by name.
func (r *Registry) Resolve(name string) (adapter.Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// HasTools reports whether any tool is registered. An empty registry
// structurally skips the tool-execution phase of the run loop.
func (r *Registry) HasTools() bool {
	return len(r.tools) > 0
}

// Definitions returns the wire declarations in registration order.
func (r *Registry) Definitions() []models.ToolDef {
	defs := make([]models.ToolDef, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}
