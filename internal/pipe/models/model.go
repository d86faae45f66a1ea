package models

import "encoding/json"

// Message roles used on the wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single entry in the conversation history.
// An assistant message with a populated ToolCalls list and nil Content
// represents a pending tool-invocation turn.
type Message struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`

	// For assistant messages requesting tool execution
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// For tool messages carrying a tool result
	ToolCallID string `json:"tool_call_id,omitempty"`
	Name       string `json:"name,omitempty"`
}

// NewUserMessage builds a plain user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: &content}
}

// Text returns the message content, or "" when content is null.
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// ToolCall is a structured tool-invocation request produced by the remote
// model. The client never fabricates these.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type,omitempty"`
	Function ToolFunction `json:"function"`
}

// ToolFunction names the tool and carries its arguments as a JSON-encoded
// string, exactly as received on the wire.
type ToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDef declares a tool on a pipe. Only the declaration travels to the
// service; the executable stays client-side.
type ToolDef struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

// FunctionDef describes a callable tool to the model.
type FunctionDef struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Parameters  *ParameterSchema `json:"parameters,omitempty"`
}

// ParameterSchema maps directly to standard JSON Schema.
type ParameterSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertySchema defines a single parameter property.
type PropertySchema struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Enum        []string        `json:"enum,omitempty"`
	Items       *PropertySchema `json:"items,omitempty"`
}

// Pipe is the client-side definition of a server-stored pipe. In
// production only the name matters; in local-dev mode the full definition
// is forwarded with each request.
type Pipe struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Model       string            `json:"model,omitempty"`
	Variables   map[string]string `json:"variables,omitempty"`
	Tools       []ToolDef         `json:"tools,omitempty"`
}

// RunOptions are the caller-supplied parameters for one run invocation.
type RunOptions struct {
	// Messages is the conversation to submit.
	Messages []Message

	// Variables are template variables substituted server-side.
	Variables map[string]string

	// ThreadID continues an existing server-managed thread. Empty starts
	// a new one. The value is opaque and round-tripped uninterpreted.
	ThreadID string

	// Stream requests incremental delivery.
	Stream bool

	// RunTools enables automatic local tool execution. When false the
	// response is returned unchanged even if it requests tools.
	RunTools bool

	// Tools is an explicit tool subset for this call. Supplying one
	// disables automatic tool execution; the caller takes over.
	Tools []ToolDef

	// APIKey overrides the dispatcher credential for this call only.
	APIKey string
}

// Usage is the token accounting reported by the service.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// RunResponse is a complete (non-streamed) pipe run result.
type RunResponse struct {
	ID       string   `json:"id,omitempty"`
	Object   string   `json:"object,omitempty"`
	Model    string   `json:"model,omitempty"`
	Choices  []Choice `json:"choices"`
	Usage    Usage    `json:"usage"`
	ThreadID string   `json:"threadId,omitempty"`

	// Raw preserves the undecoded body for callers that need fields the
	// typed surface does not model.
	Raw json.RawMessage `json:"-"`
}

// IsEmpty reports the empty-dispatch sentinel: the service answered with
// an empty object, meaning no local execution target is active. This is a
// legitimate outcome, not an error.
func (r *RunResponse) IsEmpty() bool {
	return r == nil || (len(r.Choices) == 0 && r.ThreadID == "" && r.ID == "")
}

// ToolCalls returns the tool-call requests of the first choice, if any.
func (r *RunResponse) ToolCalls() []ToolCall {
	if r == nil || len(r.Choices) == 0 {
		return nil
	}
	return r.Choices[0].Message.ToolCalls
}

// RunRequest is the wire body posted to the run endpoint. Environment
// specific fields (pipe definition, llm key) are filled in by the
// dispatcher, not by the orchestrator.
type RunRequest struct {
	Messages  []Message         `json:"messages"`
	Variables map[string]string `json:"variables,omitempty"`
	ThreadID  string            `json:"threadId,omitempty"`
	Stream    bool              `json:"stream"`
	Tools     []ToolDef         `json:"tools,omitempty"`

	// Local-dev only: full pipe definition and resolved provider key.
	Pipe   *Pipe  `json:"pipe,omitempty"`
	LLMKey string `json:"llmKey,omitempty"`

	// APIKey is a per-call credential override, consumed by the
	// dispatcher and never serialized.
	APIKey string `json:"-"`
}

// RunResult is the union returned by the orchestrator: exactly one of
// Response or Stream is set, depending on the effective streaming mode.
type RunResult struct {
	Response *RunResponse
	Stream   ChunkStream
	ThreadID string

	// BudgetExhausted is set when the loop gave up after MaxCalls
	// iterations while the model was still requesting tools.
	BudgetExhausted bool
}
