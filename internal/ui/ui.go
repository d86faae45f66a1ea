// Package ui implements the terminal chat client using Bubble Tea.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Cyclone1070/piperun/internal/pipe/models"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Runner executes one conversational turn. The orchestrator satisfies
// this; tests substitute a mock.
type Runner interface {
	Run(ctx context.Context, opts models.RunOptions) (*models.RunResult, error)
}

// Options configure the chat model.
type Options struct {
	// Stream requests incremental delivery for display.
	Stream bool

	// RenderMarkdown renders assistant replies through the renderer.
	RenderMarkdown bool
}

// chat line kinds for transcript rendering
type lineKind int

const (
	lineUser lineKind = iota
	lineAssistant
	lineTool
	lineError
)

type chatLine struct {
	kind lineKind
	text string
}

// Messages exchanged with the tea runtime.
type (
	// deltaMsg is one streamed text fragment
	deltaMsg struct{ text string }

	// turnDoneMsg ends a turn with the full assistant reply
	turnDoneMsg struct {
		text            string
		threadID        string
		budgetExhausted bool
	}

	// turnErrMsg ends a turn with a failure
	turnErrMsg struct{ err error }
)

// Model is the Bubble Tea model for the chat client.
type Model struct {
	runner   Runner
	renderer MarkdownRenderer
	opts     Options

	viewport  viewport.Model
	input     textinput.Model
	spin      spinner.Model
	lines     []chatLine
	streaming strings.Builder

	history  []models.Message
	threadID string

	events  chan tea.Msg
	busy    bool
	ready   bool
	width   int
	height  int
	quitErr error
}

// New creates the chat model.
func New(runner Runner, renderer MarkdownRenderer, opts Options) *Model {
	input := textinput.New()
	input.Placeholder = "Type a message"
	input.Focus()

	return &Model{
		runner:   runner,
		renderer: renderer,
		opts:     opts,
		input:    input,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		events:   make(chan tea.Msg, 16),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.SetValue("")
			return m, m.submit(text)
		}

	case deltaMsg:
		m.streaming.WriteString(msg.text)
		m.refreshViewport()
		return m, m.listen()

	case turnDoneMsg:
		m.busy = false
		m.streaming.Reset()
		m.threadID = msg.threadID
		m.history = append(m.history, models.Message{
			Role:    models.RoleAssistant,
			Content: &msg.text,
		})
		m.lines = append(m.lines, chatLine{kind: lineAssistant, text: msg.text})
		if msg.budgetExhausted {
			m.lines = append(m.lines, chatLine{kind: lineTool, text: "tool-call budget exhausted; reply may be incomplete"})
		}
		m.refreshViewport()
		return m, nil

	case turnErrMsg:
		m.busy = false
		m.streaming.Reset()
		m.lines = append(m.lines, chatLine{kind: lineError, text: msg.err.Error()})
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model
func (m *Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	status := ""
	if m.busy {
		status = StatusStyle.Render(m.spin.View() + " thinking")
	}

	return fmt.Sprintf(
		"%s\n%s\n%s",
		m.viewport.View(),
		status,
		InputStyle.Width(max(m.width-4, 20)).Render(m.input.View()),
	)
}

// submit appends the user turn and starts the run in the background. The
// run goroutine reports back through the events channel so streamed
// deltas show up as they arrive.
func (m *Model) submit(text string) tea.Cmd {
	m.busy = true
	m.history = append(m.history, models.NewUserMessage(text))
	m.lines = append(m.lines, chatLine{kind: lineUser, text: text})
	m.refreshViewport()

	opts := models.RunOptions{
		Messages: m.history,
		ThreadID: m.threadID,
		Stream:   m.opts.Stream,
		RunTools: true,
	}

	go m.runTurn(opts)
	return tea.Batch(m.spin.Tick, m.listen())
}

func (m *Model) runTurn(opts models.RunOptions) {
	result, err := m.runner.Run(context.Background(), opts)
	if err != nil {
		m.events <- turnErrMsg{err: err}
		return
	}

	if result.Stream != nil {
		text, err := m.drainStream(result.Stream)
		if err != nil {
			m.events <- turnErrMsg{err: err}
			return
		}
		m.events <- turnDoneMsg{
			text:            text,
			threadID:        result.ThreadID,
			budgetExhausted: result.BudgetExhausted,
		}
		return
	}

	text := ""
	if len(result.Response.Choices) > 0 {
		text = result.Response.Choices[0].Message.Text()
	}
	m.events <- turnDoneMsg{
		text:            text,
		threadID:        result.ThreadID,
		budgetExhausted: result.BudgetExhausted,
	}
}

func (m *Model) drainStream(s models.ChunkStream) (string, error) {
	defer s.Close()

	var full strings.Builder
	for {
		ev, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return full.String(), nil
			}
			return "", err
		}
		if delta := ev.ContentDelta(); delta != "" {
			full.WriteString(delta)
			m.events <- deltaMsg{text: delta}
		}
	}
}

// listen waits for the next event from the run goroutine.
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderLines())
	m.viewport.GotoBottom()
}

func (m *Model) renderLines() string {
	width := max(m.width-2, 20)
	var out []string
	for _, line := range m.lines {
		switch line.kind {
		case lineUser:
			out = append(out, UserMessageStyle.Render("You: "+line.text))
		case lineAssistant:
			out = append(out, AssistantMessageStyle.Render(m.renderMarkdown(line.text, width)))
		case lineTool:
			out = append(out, ToolMessageStyle.Render(line.text))
		case lineError:
			out = append(out, ErrorStyle.Render("Error: "+line.text))
		}
		out = append(out, "")
	}
	if m.busy && m.streaming.Len() > 0 {
		out = append(out, AssistantMessageStyle.Render(m.streaming.String()))
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderMarkdown(text string, width int) string {
	if !m.opts.RenderMarkdown {
		return text
	}
	rendered, err := m.renderer.Render(text, width)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}
