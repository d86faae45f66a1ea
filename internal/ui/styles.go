package ui

import "github.com/charmbracelet/lipgloss"

var (
	// UserMessageStyle styles user lines in blue
	UserMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("12")).
				Bold(true)

	// AssistantMessageStyle styles assistant replies
	AssistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15"))

	// ToolMessageStyle styles tool-activity notices
	ToolMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Italic(true)

	// ErrorStyle styles errors in red
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	// StatusStyle styles the status line
	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	// InputStyle frames the input field
	InputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)
