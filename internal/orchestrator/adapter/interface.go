package adapter

import (
	"context"

	"github.com/Cyclone1070/piperun/internal/pipe/models"
)

// Tool is a locally executable capability declared on a pipe.
// Implementations must be stateless and safe for concurrent use; the
// executor invokes every tool of a batch concurrently.
type Tool interface {
	// Definition returns the wire declaration sent to the service
	Definition() models.ToolDef

	// Execute runs the tool with the decoded argument map. The return
	// value is JSON-serialized into the tool-result message.
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// Validator is implemented by request types that support validation.
type Validator interface {
	Validate() error
}
