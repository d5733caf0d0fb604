// Package color styles CLI transcript lines.
package color

import "github.com/charmbracelet/lipgloss"

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

func ColorPrompt(s string) string {
	return promptStyle.Render(s)
}

func ColorInfo(s string) string {
	return infoStyle.Render(s)
}

func ColorWarning(s string) string {
	return warningStyle.Render(s)
}

func ColorError(s string) string {
	return errorStyle.Render(s)
}

func ColorAssistant(s string) string {
	return assistantStyle.Render(s)
}

func ColorUser(s string) string {
	return userStyle.Render(s)
}
