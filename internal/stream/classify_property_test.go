package stream

import (
	"testing"

	"github.com/Cyclone1070/piperun/internal/pipe/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genChunkEvent() gopter.Gen {
	return gopter.CombineGens(
		gen.AlphaString(),  // content
		gen.Bool(),         // hasContent
		gen.IntRange(0, 3), // tool-call delta count
		gen.AlphaString(),  // tool name
		gen.Bool(),         // hasChoices
	).Map(func(vals []interface{}) *models.ChunkEvent {
		content := vals[0].(string)
		hasContent := vals[1].(bool)
		toolCount := vals[2].(int)
		toolName := vals[3].(string)
		hasChoices := vals[4].(bool)

		if !hasChoices {
			return &models.ChunkEvent{}
		}

		delta := models.ChunkDelta{}
		if hasContent {
			delta.Content = &content
		}
		for i := 0; i < toolCount; i++ {
			delta.ToolCalls = append(delta.ToolCalls, models.ToolCallDelta{
				Index:    i,
				Function: models.ToolFunctionDelta{Name: toolName},
			})
		}
		return &models.ChunkEvent{Choices: []models.ChunkChoice{{Delta: delta}}}
	})
}

// Every raw unit classifies to exactly one variant; there is no error
// path in classification.
func TestClassifyProperty_Total(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every unit classifies to one variant", prop.ForAll(
		func(ev *models.ChunkEvent) bool {
			chunk := Classify(ev)
			switch chunk.Type {
			case ChunkTypeContent:
				return chunk.Content != "" && chunk.ToolCall == nil
			case ChunkTypeToolCall:
				return chunk.ToolCall != nil && chunk.Content == ""
			case ChunkTypeUnknown:
				return chunk.Raw == ev
			default:
				return false
			}
		},
		genChunkEvent(),
	))

	properties.Property("non-empty content always wins", prop.ForAll(
		func(ev *models.ChunkEvent) bool {
			if len(ev.Choices) == 0 {
				return true
			}
			delta := ev.Choices[0].Delta
			if delta.Content == nil || *delta.Content == "" {
				return true
			}
			return Classify(ev).Type == ChunkTypeContent
		},
		genChunkEvent(),
	))

	properties.TestingRun(t)
}
