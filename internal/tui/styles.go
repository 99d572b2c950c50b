package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	Primary   = lipgloss.Color("#00D9FF")
	Secondary = lipgloss.Color("#7C3AED")
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Error     = lipgloss.Color("#EF4444")
	Muted     = lipgloss.Color("#6B7280")

	HeaderStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Primary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// Selector styles
	PromptStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	AccountBadgeStyle = lipgloss.NewStyle().
				Foreground(Secondary).
				Padding(0, 1)

	CursorStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Primary)

	MatchStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true).
			Underline(true)

	CounterStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)
)
