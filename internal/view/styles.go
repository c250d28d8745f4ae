package view

import (
	"github.com/charmbracelet/lipgloss"

	"duely/internal/task"
)

var (
	PrimaryColor = lipgloss.Color("#A78BFA")
	HighColor    = lipgloss.Color("#F87171")
	MediumColor  = lipgloss.Color("#F59E0B")
	LowColor     = lipgloss.Color("#10B981")
	MutedColor   = lipgloss.Color("#9CA3AF")
	TextColor    = lipgloss.Color("#F9FAFB")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	TabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 1)

	TabInactive = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Done      = lipgloss.NewStyle().Foreground(MutedColor).Strikethrough(true)
	Overdue   = lipgloss.NewStyle().Foreground(HighColor).Bold(true)
	Countdown = lipgloss.NewStyle().Foreground(MutedColor)

	Banner = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Background(MediumColor).
		Padding(0, 1)
)

var priorityStyles = map[task.Priority]lipgloss.Style{
	task.PriorityHigh:   lipgloss.NewStyle().Foreground(HighColor).Bold(true),
	task.PriorityMedium: lipgloss.NewStyle().Foreground(MediumColor),
	task.PriorityLow:    lipgloss.NewStyle().Foreground(LowColor),
}

// PriorityStyle returns the style for a priority badge.
func PriorityStyle(p task.Priority) lipgloss.Style {
	if s, ok := priorityStyles[p]; ok {
		return s
	}
	return Muted
}
