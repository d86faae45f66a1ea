package stream

import (
	"errors"
	"io"
	"testing"

	"github.com/Cyclone1070/piperun/internal/pipe/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceStream implements models.ChunkStream over a fixed slice
type sliceStream struct {
	events []*models.ChunkEvent
	pos    int
	closed bool
}

func (s *sliceStream) Next() (*models.ChunkEvent, error) {
	if s.pos >= len(s.events) {
		return nil, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

func contentEvents(parts ...string) []*models.ChunkEvent {
	events := make([]*models.ChunkEvent, 0, len(parts))
	for _, p := range parts {
		p := p
		events = append(events, &models.ChunkEvent{
			Choices: []models.ChunkChoice{{Delta: models.ChunkDelta{Content: &p}}},
		})
	}
	return events
}

func drain(t *testing.T, s models.ChunkStream) []string {
	t.Helper()
	var out []string
	for {
		ev, err := s.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, ev.ContentDelta())
	}
}

func TestTee_BothHandlesSeeEverySequenceUnit(t *testing.T) {
	src := &sliceStream{events: contentEvents("a", "b", "c")}
	a, b := Tee(src)

	want := []string{"a", "b", "c"}
	assert.Equal(t, want, drain(t, a))
	assert.Equal(t, want, drain(t, b))
}

func TestTee_LaggingHandleCatchesUp(t *testing.T) {
	src := &sliceStream{events: contentEvents("a", "b", "c")}
	a, b := Tee(src)

	// a runs ahead to the end before b reads anything.
	assert.Equal(t, []string{"a", "b", "c"}, drain(t, a))

	assert.Equal(t, []string{"a", "b", "c"}, drain(t, b))
}

func TestTee_Interleaved(t *testing.T) {
	src := &sliceStream{events: contentEvents("a", "b")}
	a, b := Tee(src)

	evA, err := a.Next()
	require.NoError(t, err)
	evB, err := b.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", evA.ContentDelta())
	assert.Equal(t, "a", evB.ContentDelta())

	evA, err = a.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", evA.ContentDelta())

	_, err = a.Next()
	assert.ErrorIs(t, err, io.EOF)

	evB, err = b.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", evB.ContentDelta())
}

func TestTee_SourceClosedOnlyWhenBothHandlesClose(t *testing.T) {
	src := &sliceStream{events: contentEvents("a")}
	a, b := Tee(src)

	require.NoError(t, a.Close())
	assert.False(t, src.closed, "source must stay open while one handle lives")

	require.NoError(t, b.Close())
	assert.True(t, src.closed)
}

func TestTee_ClosedHandleReturnsEOF(t *testing.T) {
	src := &sliceStream{events: contentEvents("a")}
	a, b := Tee(src)

	require.NoError(t, a.Close())
	_, err := a.Next()
	assert.ErrorIs(t, err, io.EOF)

	// The other handle is unaffected.
	assert.Equal(t, []string{"a"}, drain(t, b))
}
