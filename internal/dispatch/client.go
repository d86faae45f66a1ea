// Package dispatch implements the HTTP collaborator behind the
// orchestrator: posting run requests to the pipe service and decoding
// whole or streamed responses.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Cyclone1070/piperun/internal/pipe/models"
)

// RunPath is the logical run endpoint; the core always posts here.
const RunPath = "/v1/pipes/run"

// threadIDHeader carries the server-assigned thread id on streamed
// responses, where no body field can.
const threadIDHeader = "lb-thread-id"

// Config holds the dispatcher settings.
type Config struct {
	BaseURL string
	APIKey  string

	// Production elides the pipe definition and provider key from the
	// request body; the server already knows the pipe.
	Production bool

	// LLMKey is the resolved model-provider credential, forwarded only
	// in non-production mode.
	LLMKey string
}

// Client posts run requests over HTTP. Transport failures propagate
// unmodified; no retries are performed.
type Client struct {
	cfg  Config
	pipe *models.Pipe
	http *http.Client
}

// NewClient creates a dispatcher for one pipe.
func NewClient(cfg Config, pipe *models.Pipe) *Client {
	return &Client{
		cfg:  cfg,
		pipe: pipe,
		http: &http.Client{Timeout: 0}, // rely on context deadlines
	}
}

// Dispatch implements orchestrator.Dispatcher for whole responses.
func (c *Client) Dispatch(ctx context.Context, req *models.RunRequest) (*models.RunResponse, error) {
	resp, err := c.post(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pipe service error: status %d, body: %s", resp.StatusCode, body)
	}

	out := &models.RunResponse{Raw: body}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.ThreadID == "" {
		out.ThreadID = resp.Header.Get(threadIDHeader)
	}
	return out, nil
}

// DispatchStream implements orchestrator.Dispatcher for streamed
// responses. The returned stream owns the response body.
func (c *Client) DispatchStream(ctx context.Context, req *models.RunRequest) (models.ChunkStream, error) {
	resp, err := c.post(ctx, req, true)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("pipe service error: status %d, body: %s", resp.StatusCode, body)
	}
	return newSSEStream(resp.Body, resp.Header.Get(threadIDHeader)), nil
}

func (c *Client) post(ctx context.Context, req *models.RunRequest, stream bool) (*http.Response, error) {
	body := *req
	body.Stream = stream
	if !c.cfg.Production {
		body.Pipe = c.pipe
		body.LLMKey = c.cfg.LLMKey
	}

	payload, err := json.Marshal(&body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+RunPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	apiKey := c.cfg.APIKey
	if req.APIKey != "" {
		apiKey = req.APIKey
	}
	if apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	}
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request pipe service: %w", err)
	}
	return resp, nil
}

// WithTimeout returns a copy of the client whose HTTP transport enforces
// a hard timeout in addition to context deadlines.
func (c *Client) WithTimeout(d time.Duration) *Client {
	clone := *c
	clone.http = &http.Client{Timeout: d}
	return &clone
}
