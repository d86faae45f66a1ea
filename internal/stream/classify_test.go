package stream

import (
	"testing"

	"github.com/Cyclone1070/piperun/internal/pipe/models"
)

func strPtr(s string) *string { return &s }

func TestClassify_ContentDelta(t *testing.T) {
	ev := &models.ChunkEvent{
		Choices: []models.ChunkChoice{{Delta: models.ChunkDelta{Content: strPtr("Hello")}}},
	}

	chunk := Classify(ev)
	if chunk.Type != ChunkTypeContent {
		t.Fatalf("expected content variant, got %s", chunk.Type)
	}
	if chunk.Content != "Hello" {
		t.Errorf("unexpected content: %q", chunk.Content)
	}
}

func TestClassify_ToolCallDelta(t *testing.T) {
	ev := &models.ChunkEvent{
		Choices: []models.ChunkChoice{{Delta: models.ChunkDelta{ToolCalls: []models.ToolCallDelta{
			{Index: 0, ID: "call_1", Function: models.ToolFunctionDelta{Name: "get_weather"}},
		}}}},
	}

	chunk := Classify(ev)
	if chunk.Type != ChunkTypeToolCall {
		t.Fatalf("expected tool-call variant, got %s", chunk.Type)
	}
	if chunk.ToolCall.ID != "call_1" {
		t.Errorf("unexpected tool call id: %q", chunk.ToolCall.ID)
	}
}

func TestClassify_ContentWinsOverToolCall(t *testing.T) {
	ev := &models.ChunkEvent{
		Choices: []models.ChunkChoice{{Delta: models.ChunkDelta{
			Content: strPtr("text"),
			ToolCalls: []models.ToolCallDelta{
				{Index: 0, ID: "call_1"},
			},
		}}},
	}

	chunk := Classify(ev)
	if chunk.Type != ChunkTypeContent {
		t.Errorf("content must take precedence, got %s", chunk.Type)
	}
}

func TestClassify_OnlyFirstToolCallDeltaSurfaced(t *testing.T) {
	ev := &models.ChunkEvent{
		Choices: []models.ChunkChoice{{Delta: models.ChunkDelta{ToolCalls: []models.ToolCallDelta{
			{Index: 0, ID: "call_1"},
			{Index: 1, ID: "call_2"},
		}}}},
	}

	chunk := Classify(ev)
	if chunk.Type != ChunkTypeToolCall {
		t.Fatalf("expected tool-call variant, got %s", chunk.Type)
	}
	if chunk.ToolCall.ID != "call_1" {
		t.Errorf("only the first delta may surface, got %q", chunk.ToolCall.ID)
	}
}

func TestClassify_UnknownCarriesRawUnit(t *testing.T) {
	ev := &models.ChunkEvent{ID: "chunk_9", Choices: []models.ChunkChoice{{FinishReason: "stop"}}}

	chunk := Classify(ev)
	if chunk.Type != ChunkTypeUnknown {
		t.Fatalf("expected unknown variant, got %s", chunk.Type)
	}
	if chunk.Raw != ev {
		t.Error("unknown variant must carry the original unit unmodified")
	}
}

func TestClassify_EmptyContentIsNotContent(t *testing.T) {
	ev := &models.ChunkEvent{
		Choices: []models.ChunkChoice{{Delta: models.ChunkDelta{Content: strPtr("")}}},
	}

	if chunk := Classify(ev); chunk.Type != ChunkTypeUnknown {
		t.Errorf("empty content delta should classify unknown, got %s", chunk.Type)
	}
}

func TestClassify_NilEvent(t *testing.T) {
	if chunk := Classify(nil); chunk.Type != ChunkTypeUnknown {
		t.Errorf("nil unit should classify unknown, got %s", chunk.Type)
	}
}
