// Package orchestrator drives the multi-turn run loop against the pipe
// service: dispatch, inspect for tool calls, execute locally, fold
// results into history, resubmit, until the model stops requesting tools
// or the call budget runs out.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Cyclone1070/piperun/internal/pipe/models"
	"github.com/Cyclone1070/piperun/internal/provider"
	"github.com/Cyclone1070/piperun/internal/stream"
)

// DefaultMaxCalls bounds the number of resubmissions within one run.
const DefaultMaxCalls = 100

// Dispatcher issues requests to the pipe service. Transport mechanics,
// credential resolution and environment routing live behind it.
type Dispatcher interface {
	// Dispatch posts the request and returns the complete response.
	Dispatch(ctx context.Context, req *models.RunRequest) (*models.RunResponse, error)

	// DispatchStream posts the request and returns the incremental
	// response stream.
	DispatchStream(ctx context.Context, req *models.RunRequest) (models.ChunkStream, error)
}

// Options configure an Orchestrator.
type Options struct {
	// MaxCalls bounds resubmissions per run. Zero means DefaultMaxCalls.
	MaxCalls int

	// SendFullHistory resends the accumulated conversation on every
	// follow-up call. When false only the new tool results are sent,
	// relying on server-side thread memory.
	SendFullHistory bool

	// Warnings receives non-fatal diagnostics. Defaults to stderr.
	Warnings io.Writer
}

// Orchestrator is the per-pipe run state machine. Each Run call is an
// independent, isolated loop; the orchestrator itself holds no
// conversation state between calls.
type Orchestrator struct {
	dispatcher Dispatcher
	pipe       *models.Pipe
	registry   *Registry
	executor   *Executor
	opts       Options

	downgradeOnce sync.Once
}

// New creates an Orchestrator for one pipe.
func New(d Dispatcher, pipe *models.Pipe, registry *Registry, opts Options) *Orchestrator {
	if opts.MaxCalls <= 0 {
		opts.MaxCalls = DefaultMaxCalls
	}
	if opts.Warnings == nil {
		opts.Warnings = os.Stderr
	}
	return &Orchestrator{
		dispatcher: d,
		pipe:       pipe,
		registry:   registry,
		executor:   NewExecutor(registry),
		opts:       opts,
	}
}

// threadCarrier is implemented by streams that learned their thread id
// from response metadata.
type threadCarrier interface {
	ThreadID() string
}

// Run executes one pipe run, looping over tool execution as needed.
// Exactly one of RunResult.Response or RunResult.Stream is set, matching
// the effective streaming mode.
func (o *Orchestrator) Run(ctx context.Context, opts models.RunOptions) (*models.RunResult, error) {
	effectiveStream := o.effectiveStream(opts.Stream)

	req := &models.RunRequest{
		Messages:  opts.Messages,
		Variables: opts.Variables,
		ThreadID:  opts.ThreadID,
		Stream:    effectiveStream,
		Tools:     opts.Tools,
		APIKey:    opts.APIKey,
	}

	// An explicit tool subset means the caller owns tool handling.
	autoTools := opts.RunTools && len(opts.Tools) == 0 && o.registry.HasTools()

	if effectiveStream {
		return o.runStream(ctx, req, opts, autoTools)
	}
	return o.run(ctx, req, opts, autoTools)
}

// effectiveStream downgrades a streaming request when the pipe declares
// tools and the backing provider cannot combine streaming with tool
// calls. The downgrade is warned about once per orchestrator.
func (o *Orchestrator) effectiveStream(requested bool) bool {
	if !requested || !o.registry.HasTools() {
		return requested
	}
	if provider.ForModel(o.pipe.Model).SupportsStreamingWithTools {
		return true
	}
	o.downgradeOnce.Do(func() {
		o.warnf("model %s does not support streaming with tools, falling back to non-streaming mode", o.pipe.Model)
	})
	return false
}

func (o *Orchestrator) run(ctx context.Context, req *models.RunRequest, opts models.RunOptions, autoTools bool) (*models.RunResult, error) {
	resp, err := o.dispatcher.Dispatch(ctx, req)
	if err != nil {
		return nil, err
	}

	// Empty response: no active local execution target. A legitimate
	// outcome, returned as-is.
	if resp.IsEmpty() {
		return &models.RunResult{Response: resp}, nil
	}

	if !autoTools {
		return &models.RunResult{Response: resp, ThreadID: resp.ThreadID}, nil
	}

	history := opts.Messages
	threadID := firstNonEmpty(resp.ThreadID, opts.ThreadID)

	for calls := 0; ; calls++ {
		toolCalls := resp.ToolCalls()
		if len(toolCalls) == 0 {
			return &models.RunResult{Response: resp, ThreadID: threadID}, nil
		}
		if calls >= o.opts.MaxCalls {
			o.warnf("max tool calls (%d) reached, returning last response", o.opts.MaxCalls)
			return &models.RunResult{Response: resp, ThreadID: threadID, BudgetExhausted: true}, nil
		}

		toolResults, err := o.executor.Execute(ctx, toolCalls)
		if err != nil {
			return nil, err
		}

		assistantTurn := resp.Choices[0].Message
		history = foldHistory(history, assistantTurn, toolResults)

		next := *req
		next.ThreadID = threadID
		if o.opts.SendFullHistory {
			next.Messages = history
		} else {
			// Server-side thread memory holds the prior turns; only the
			// new tool results travel.
			next.Messages = toolResults
		}

		resp, err = o.dispatcher.Dispatch(ctx, &next)
		if err != nil {
			return nil, err
		}
		if resp.IsEmpty() {
			return &models.RunResult{Response: resp, ThreadID: threadID}, nil
		}
		threadID = firstNonEmpty(resp.ThreadID, threadID)
	}
}

func (o *Orchestrator) runStream(ctx context.Context, req *models.RunRequest, opts models.RunOptions, autoTools bool) (*models.RunResult, error) {
	s, err := o.dispatcher.DispatchStream(ctx, req)
	if err != nil {
		return nil, err
	}

	threadID := firstNonEmpty(streamThreadID(s), opts.ThreadID)

	if !autoTools {
		return &models.RunResult{Stream: s, ThreadID: threadID}, nil
	}

	history := opts.Messages

	for calls := 0; ; calls++ {
		// Duplicate the stream: one handle is drained looking for tool
		// calls, the other is preserved untouched for the caller.
		scanSide, callerSide := stream.Tee(s)

		toolCalls, err := stream.CollectToolCalls(scanSide)
		scanSide.Close()
		if err != nil {
			callerSide.Close()
			return nil, err
		}

		if len(toolCalls) == 0 {
			return &models.RunResult{Stream: callerSide, ThreadID: threadID}, nil
		}
		if calls >= o.opts.MaxCalls {
			o.warnf("max tool calls (%d) reached, returning last response", o.opts.MaxCalls)
			return &models.RunResult{Stream: callerSide, ThreadID: threadID, BudgetExhausted: true}, nil
		}

		// This response will be replaced by the follow-up call; its
		// caller handle is no longer needed.
		callerSide.Close()

		toolResults, err := o.executor.Execute(ctx, toolCalls)
		if err != nil {
			return nil, err
		}

		assistantTurn := models.Message{Role: models.RoleAssistant, ToolCalls: toolCalls}
		history = foldHistory(history, assistantTurn, toolResults)

		next := *req
		next.ThreadID = threadID
		if o.opts.SendFullHistory {
			next.Messages = history
		} else {
			next.Messages = toolResults
		}

		s, err = o.dispatcher.DispatchStream(ctx, &next)
		if err != nil {
			return nil, err
		}
		threadID = firstNonEmpty(streamThreadID(s), threadID)
	}
}

// foldHistory appends the assistant turn that requested tools and one
// tool-result message per call, preserving the ordering the service
// expects on follow-up submissions.
func foldHistory(history []models.Message, assistantTurn models.Message, toolResults []models.Message) []models.Message {
	folded := make([]models.Message, 0, len(history)+1+len(toolResults))
	folded = append(folded, history...)
	folded = append(folded, assistantTurn)
	folded = append(folded, toolResults...)
	return folded
}

func streamThreadID(s models.ChunkStream) string {
	if tc, ok := s.(threadCarrier); ok {
		return tc.ThreadID()
	}
	return ""
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func (o *Orchestrator) warnf(format string, args ...any) {
	fmt.Fprintf(o.opts.Warnings, "Warning: "+format+"\n", args...)
}
