package models

// ChunkStream provides sequential access to the raw incremental units of
// a streamed run. The sequence is finite and single-pass.
type ChunkStream interface {
	// Next returns the next unit, or io.EOF when the service closes the
	// stream.
	Next() (*ChunkEvent, error)

	// Close releases resources. Safe to call more than once.
	Close() error
}

// ChunkEvent is one raw incremental unit as delivered by the service.
// Consumers never inspect these directly for tool calls; classification
// happens in the stream package.
type ChunkEvent struct {
	ID      string        `json:"id,omitempty"`
	Object  string        `json:"object,omitempty"`
	Model   string        `json:"model,omitempty"`
	Choices []ChunkChoice `json:"choices"`
}

// ChunkChoice is one alternative within a chunk.
type ChunkChoice struct {
	Index        int        `json:"index"`
	Delta        ChunkDelta `json:"delta"`
	FinishReason string     `json:"finish_reason,omitempty"`
}

// ChunkDelta carries the incremental payload of a chunk.
type ChunkDelta struct {
	Role      string          `json:"role,omitempty"`
	Content   *string         `json:"content,omitempty"`
	ToolCalls []ToolCallDelta `json:"tool_calls,omitempty"`
}

// ToolCallDelta is an incremental fragment of a tool call. The first
// fragment for a given Index carries the id and function name; later
// fragments append to the arguments text.
type ToolCallDelta struct {
	Index    int               `json:"index"`
	ID       string            `json:"id,omitempty"`
	Type     string            `json:"type,omitempty"`
	Function ToolFunctionDelta `json:"function"`
}

// ToolFunctionDelta is the function fragment of a tool-call delta.
type ToolFunctionDelta struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ContentDelta returns the text delta of the first choice, or "" when the
// unit carries none. This is the accessor stream consumers use to extract
// displayable text.
func (e *ChunkEvent) ContentDelta() string {
	if e == nil || len(e.Choices) == 0 || e.Choices[0].Delta.Content == nil {
		return ""
	}
	return *e.Choices[0].Delta.Content
}
