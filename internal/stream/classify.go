// Package stream turns raw incremental run units into a typed event model
// and provides the duplication primitive the orchestrator uses to peek at
// a stream without consuming it.
package stream

import (
	"github.com/Cyclone1070/piperun/internal/pipe/models"
)

// ChunkType indicates what a classified chunk carries.
type ChunkType string

const (
	ChunkTypeContent  ChunkType = "content"
	ChunkTypeToolCall ChunkType = "tool_call"
	ChunkTypeUnknown  ChunkType = "unknown"
)

// Chunk is the classified view of one raw unit.
type Chunk struct {
	// Type indicates which field below is populated
	Type ChunkType

	// For Type = ChunkTypeContent
	Content string

	// For Type = ChunkTypeToolCall
	ToolCall *models.ToolCallDelta

	// For Type = ChunkTypeUnknown, the original unit for inspection
	Raw *models.ChunkEvent
}

// Classify maps one raw unit to exactly one variant. A populated content
// delta wins over tool-call deltas; only the first tool-call delta per
// unit is surfaced. Units carrying neither classify as unknown, keeping
// the original unit attached. There is no error path.
func Classify(ev *models.ChunkEvent) Chunk {
	if ev != nil && len(ev.Choices) > 0 {
		delta := ev.Choices[0].Delta
		if delta.Content != nil && *delta.Content != "" {
			return Chunk{Type: ChunkTypeContent, Content: *delta.Content}
		}
		if len(delta.ToolCalls) > 0 {
			tc := delta.ToolCalls[0]
			return Chunk{Type: ChunkTypeToolCall, ToolCall: &tc}
		}
	}
	return Chunk{Type: ChunkTypeUnknown, Raw: ev}
}
