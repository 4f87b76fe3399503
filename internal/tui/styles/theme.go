package styles

import (
	"github.com/allbin/go-serialctl/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Monitor layout
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(1, 2).
			Margin(1, 0)

	// Command output
	InfoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Green)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Yellow)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)

	LabelStyle = lipgloss.NewStyle().
			Foreground(colors.Subtext0)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve)
)

// StatusType is the lifecycle position shown in the status bar.
type StatusType int

const (
	StatusOpened StatusType = iota
	StatusSet
	StatusNotSet
	StatusError
)

func GetStatusStyle(status StatusType) lipgloss.Style {
	switch status {
	case StatusOpened:
		return lipgloss.NewStyle().Foreground(colors.Green)
	case StatusSet:
		return lipgloss.NewStyle().Foreground(colors.Yellow)
	default:
		return lipgloss.NewStyle().Foreground(colors.Red)
	}
}

// StatusSymbol is the single-character indicator drawn next to the device.
func StatusSymbol(status StatusType) string {
	switch status {
	case StatusOpened:
		return "●"
	case StatusError:
		return "✗"
	default:
		return "○"
	}
}
