package tui

import (
	"github.com/charmbracelet/lipgloss"

	"frpcpanel/internal/frpc"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
			Background(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#303030"}).
			Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#19C4A2")).
			Padding(0, 1)

	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A96A3"))
	flashStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ED573"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5D6C"))
)

func statusStyle(s frpc.Status) lipgloss.Style {
	switch s {
	case frpc.StatusRunning:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ED573"))
	case frpc.StatusConnecting:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F2C038"))
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6E7A88"))
	}
}
