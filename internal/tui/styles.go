package tui

import (
	"github.com/ameistad/dlpanel/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#D7263D")).
			Padding(0, 1)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9399B2")).
				Background(lipgloss.Color("#45475A")).
				Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F38BA8")).
			Padding(1, 3)

	alertHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	errorLogStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	warningLogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387"))
	infoLogStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA"))
	debugLogStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	successLogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	defaultLogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4"))
)

// styleLine colors a log line by its level. The text itself is left as received.
func styleLine(line string) string {
	switch ui.LineLevel(line) {
	case ui.LevelError:
		return errorLogStyle.Render(line)
	case ui.LevelWarn:
		return warningLogStyle.Render(line)
	case ui.LevelInfo:
		return infoLogStyle.Render(line)
	case ui.LevelDebug:
		return debugLogStyle.Render(line)
	case ui.LevelSuccess:
		return successLogStyle.Render(line)
	default:
		return defaultLogStyle.Render(line)
	}
}
