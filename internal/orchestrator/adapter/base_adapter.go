package adapter

import (
	"context"
	"fmt"

	"github.com/Cyclone1070/piperun/internal/pipe/models"
	"github.com/mitchellh/mapstructure"
)

// ToolFunc is the typed executable behind a TypedTool.
type ToolFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// TypedTool adapts a typed function into the Tool interface, centralizing
// argument decoding, optional validation and error shaping so individual
// tools stay free of wire concerns.
type TypedTool[Req, Resp any] struct {
	def models.ToolDef
	fn  ToolFunc[Req, Resp]
}

// NewTypedTool builds a TypedTool from a name, description, parameter
// schema and executable.
func NewTypedTool[Req, Resp any](
	name string,
	description string,
	params *models.ParameterSchema,
	fn ToolFunc[Req, Resp],
) *TypedTool[Req, Resp] {
	return &TypedTool[Req, Resp]{
		def: models.ToolDef{
			Type: "function",
			Function: models.FunctionDef{
				Name:        name,
				Description: description,
				Parameters:  params,
			},
		},
		fn: fn,
	}
}

// Definition implements adapter.Tool
func (t *TypedTool[Req, Resp]) Definition() models.ToolDef {
	return t.def
}

// Execute implements adapter.Tool
//
// Decodes the argument map into the typed request via mapstructure,
// validates it when the request implements Validator, then calls the
// underlying function.
func (t *TypedTool[Req, Resp]) Execute(ctx context.Context, args map[string]any) (any, error) {
	var req Req

	if err := mapstructure.Decode(args, &req); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%s validation failed: %w", t.def.Function.Name, err)
		}
	}

	return t.fn(ctx, req)
}

// FuncTool adapts an untyped function into the Tool interface for tools
// that want the raw argument map.
type FuncTool struct {
	Def models.ToolDef
	Fn  func(ctx context.Context, args map[string]any) (any, error)
}

// Definition implements adapter.Tool
func (f *FuncTool) Definition() models.ToolDef {
	return f.Def
}

// Execute implements adapter.Tool
func (f *FuncTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	return f.Fn(ctx, args)
}
