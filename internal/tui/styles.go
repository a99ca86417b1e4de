// Package tui provides the interactive terminal viewer for recorded runs.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gati-ai/gati/internal/trace"
)

// Color palette
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#06B6D4") // Cyan
	successColor   = lipgloss.Color("#10B981") // Green
	errorColor     = lipgloss.Color("#EF4444") // Red
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	accentColor    = lipgloss.Color("#F472B6") // Pink
)

var (
	// TitleStyle for the header bar
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 2)

	// BoxStyle is the main container style
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	// SelectedStyle for the row under the cursor
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(secondaryColor)

	// CursorStyle for the cursor indicator
	CursorStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	// MutedStyle for less important text
	MutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// SuccessStyle for success indicators
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// ErrorStyle for error indicators
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// WarningStyle for reconstruction warnings
	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// DurationStyle for latency values
	DurationStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// AttributeKeyStyle for payload keys in the detail view
	AttributeKeyStyle = lipgloss.NewStyle().
				Foreground(secondaryColor)

	// HelpStyle for the bottom help bar
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	// HelpKeyStyle for key names inside the help bar
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)
)

// Event type styles
var (
	agentEventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")) // Blue

	nodeEventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8B5CF6")) // Violet

	llmEventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")) // Emerald

	toolEventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")) // Amber
)

// EventStyle returns the display style for an event type.
func EventStyle(eventType trace.EventType) lipgloss.Style {
	switch eventType {
	case trace.EventAgentStart, trace.EventAgentEnd:
		return agentEventStyle
	case trace.EventNodeExecution:
		return nodeEventStyle
	case trace.EventLLMCall:
		return llmEventStyle
	case trace.EventToolCall:
		return toolEventStyle
	case trace.EventError:
		return ErrorStyle
	default:
		return lipgloss.NewStyle()
	}
}
