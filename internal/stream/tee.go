package stream

import (
	"io"
	"sync"

	"github.com/Cyclone1070/piperun/internal/pipe/models"
)

// Tee duplicates a single-pass chunk stream into two independently
// consumable handles. Each handle sees every unit of the source in order.
// Reads are pull-based: whichever handle runs ahead reads from the source
// and the shared buffer retains units until the lagging handle catches
// up, so neither handle can starve the other. The source is closed once
// both handles are closed.
func Tee(src models.ChunkStream) (models.ChunkStream, models.ChunkStream) {
	shared := &teeSource{src: src}
	return &teeHandle{shared: shared}, &teeHandle{shared: shared}
}

type teeSource struct {
	mu     sync.Mutex
	src    models.ChunkStream
	buf    []*models.ChunkEvent
	err    error // terminal source error, io.EOF included
	closed int   // handles closed so far
}

// next returns the unit at cursor, reading from the source when the
// cursor is at the buffer edge.
func (s *teeSource) next(cursor int) (*models.ChunkEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cursor < len(s.buf) {
		return s.buf[cursor], nil
	}
	if s.err != nil {
		return nil, s.err
	}

	ev, err := s.src.Next()
	if err != nil {
		s.err = err
		return nil, err
	}
	s.buf = append(s.buf, ev)
	return ev, nil
}

func (s *teeSource) closeHandle() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed++
	if s.closed == 2 {
		return s.src.Close()
	}
	return nil
}

type teeHandle struct {
	shared *teeSource
	cursor int
	closed bool
}

func (h *teeHandle) Next() (*models.ChunkEvent, error) {
	if h.closed {
		return nil, io.EOF
	}
	ev, err := h.shared.next(h.cursor)
	if err != nil {
		return nil, err
	}
	h.cursor++
	return ev, nil
}

func (h *teeHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.shared.closeHandle()
}
