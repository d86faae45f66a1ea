package ui

import "github.com/charmbracelet/glamour"

// MarkdownRenderer renders assistant markdown for terminal display.
type MarkdownRenderer interface {
	Render(markdown string, width int) (string, error)
}

// GlamourRenderer implements MarkdownRenderer using glamour.
type GlamourRenderer struct{}

// NewGlamourRenderer creates a GlamourRenderer.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{}
}

// Render renders markdown wrapped to the given width.
func (GlamourRenderer) Render(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}

// PlainRenderer implements MarkdownRenderer without any styling, used
// when markdown rendering is disabled or unavailable.
type PlainRenderer struct{}

// Render returns the text unchanged.
func (PlainRenderer) Render(markdown string, _ int) (string, error) {
	return markdown, nil
}
