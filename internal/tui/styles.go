package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/procmon/internal/ui"
)

// Style variables for the dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	elapsedStyle       lipgloss.Style
	panelTitleStyle    lipgloss.Style
	rowLabelStyle      lipgloss.Style
	valueStyle         lipgloss.Style
	lowStyle           lipgloss.Style
	midStyle           lipgloss.Style
	highStyle          lipgloss.Style
	errorStyle         lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	elapsedStyle = lipgloss.NewStyle().Foreground(t.Accent)
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Info)
	rowLabelStyle = lipgloss.NewStyle().Foreground(t.Accent)
	valueStyle = lipgloss.NewStyle().Foreground(t.Text)

	lowStyle = lipgloss.NewStyle().Foreground(t.Success)
	midStyle = lipgloss.NewStyle().Foreground(t.Warning)
	highStyle = lipgloss.NewStyle().Foreground(t.Error)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error)

	statusRunningStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	statusPausedStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	statusDoneStyle = lipgloss.NewStyle().Foreground(t.Dim).Bold(true)
}

// utilizationStyle picks a color for a busy percentage.
func utilizationStyle(p float64) lipgloss.Style {
	switch {
	case p >= ui.HotPercent:
		return highStyle
	case p >= ui.WarnPercent:
		return midStyle
	default:
		return lowStyle
	}
}
