package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("86")  // Cyan
	colorSecondary = lipgloss.Color("240") // Gray
	colorSuccess   = lipgloss.Color("82")  // Green
	colorWarning   = lipgloss.Color("214") // Orange
	colorDanger    = lipgloss.Color("196") // Red
	colorMuted     = lipgloss.Color("245") // Light gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	unitStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	okStyle = lipgloss.NewStyle().
		Foreground(colorSuccess).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)
)

// row is one label/value line of a key-value block.
type row struct {
	label string
	value string
}

// renderBlock prints a title followed by aligned label/value rows.
func renderBlock(w io.Writer, title string, rows []row) {
	lines := []string{titleStyle.Render(title)}
	for _, r := range rows {
		lines = append(lines, "  "+labelStyle.Render(r.label)+valueStyle.Render(r.value))
	}
	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// flag renders a boolean as a colored yes/no.
func flag(b bool, good bool) string {
	s := "no"
	if b {
		s = "yes"
	}
	if b == good {
		return okStyle.Render(s)
	}
	return warnStyle.Render(s)
}

func bytesHuman(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
