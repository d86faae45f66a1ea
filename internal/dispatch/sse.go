package dispatch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Cyclone1070/piperun/internal/pipe/models"
)

// doneSentinel terminates an event stream, per the usual completion
// protocol.
const doneSentinel = "[DONE]"

// sseStream decodes a server-sent-events body into chunk events.
type sseStream struct {
	body     io.ReadCloser
	scanner  *bufio.Scanner
	threadID string

	closeOnce sync.Once
	closeErr  error
	done      bool
}

func newSSEStream(body io.ReadCloser, threadID string) *sseStream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &sseStream{
		body:     body,
		scanner:  scanner,
		threadID: threadID,
	}
}

// ThreadID returns the server-assigned thread id, when the response
// carried one.
func (s *sseStream) ThreadID() string {
	return s.threadID
}

// Next returns the next decoded unit, or io.EOF once the service closes
// the stream or sends the done sentinel.
func (s *sseStream) Next() (*models.ChunkEvent, error) {
	if s.done {
		return nil, io.EOF
	}

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == doneSentinel {
			s.done = true
			return nil, io.EOF
		}

		var ev models.ChunkEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return nil, fmt.Errorf("decode chunk: %w", err)
		}
		return &ev, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	s.done = true
	return nil, io.EOF
}

// Close releases the underlying response body. Safe to call more than
// once.
func (s *sseStream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
