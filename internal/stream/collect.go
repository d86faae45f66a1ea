package stream

import (
	"errors"
	"io"
	"sort"

	"github.com/Cyclone1070/piperun/internal/pipe/models"
)

// CollectToolCalls drains a stream and assembles the complete tool-call
// requests it carries. Deltas are merged by index: the first fragment of
// an index sets the id, type and function name; every fragment appends
// its argument text. The stream is read to the end before deciding,
// because tool-call deltas can trail content deltas within one response.
// Returns nil when the response contains no tool calls.
func CollectToolCalls(s models.ChunkStream) ([]models.ToolCall, error) {
	partial := make(map[int]*models.ToolCall)

	for {
		ev, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		chunk := Classify(ev)
		if chunk.Type != ChunkTypeToolCall {
			continue
		}

		delta := chunk.ToolCall
		call, ok := partial[delta.Index]
		if !ok {
			call = &models.ToolCall{}
			partial[delta.Index] = call
		}
		if delta.ID != "" {
			call.ID = delta.ID
		}
		if delta.Type != "" {
			call.Type = delta.Type
		}
		if delta.Function.Name != "" {
			call.Function.Name = delta.Function.Name
		}
		call.Function.Arguments += delta.Function.Arguments
	}

	if len(partial) == 0 {
		return nil, nil
	}

	indexes := make([]int, 0, len(partial))
	for i := range partial {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	calls := make([]models.ToolCall, 0, len(partial))
	for _, i := range indexes {
		calls = append(calls, *partial[i])
	}
	return calls, nil
}
