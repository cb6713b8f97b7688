package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	account    lipgloss.Style
	active     lipgloss.Style
	detail     lipgloss.Style
	muted      lipgloss.Style
	warning    lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	column     lipgloss.Style
	number     lipgloss.Style
	code       lipgloss.Style
	money      lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		account:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		active:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		column:     lipgloss.NewStyle().PaddingRight(2),
		number:     lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		code:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		money:      lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

// StatusColor is shared with the live session view.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "pending", "ready":
		return lipgloss.Color("39")
	case "received", "used":
		return lipgloss.Color("42")
	case "close":
		return lipgloss.Color("245")
	case "reject", "error":
		return lipgloss.Color("203")
	default:
		return lipgloss.Color("252")
	}
}
