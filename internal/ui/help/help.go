package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{":, e", "Edit query"},
		{"r", "Re-run current query"},
		{"[ / ]", "Previous / next page"},
	}
}

// GetNavigationKeys returns grid navigation key bindings
func GetNavigationKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k, ↓/j", "Move between rows"},
		{"←/h, →/l", "Move between columns"},
		{"Ctrl+U, Ctrl+D", "Page up / down"},
		{"g, G", "First / last row"},
		{"Space", "Mark row for removal"},
	}
}

// GetEditingKeys returns editing key bindings
func GetEditingKeys() []KeyBinding {
	return []KeyBinding{
		{"Enter", "Focus cell"},
		{"i", "Edit focused cell"},
		{"Esc", "Cancel cell edit"},
		{"Ctrl+N", "Insert new row"},
		{"x", "Remove selected rows"},
		{"y / p", "Copy / paste focused cell"},
		{"U", "Insert NULL into focused cell"},
		{"D", "Discard all pending changes"},
		{"m, right-click", "Open actions menu"},
		{"a", "Preview and apply pending changes"},
	}
}

// GetExportKeys returns export key bindings
func GetExportKeys() []KeyBinding {
	return []KeyBinding{
		{"Ctrl+E", "Export current view to CSV"},
		{"Ctrl+J", "Export current view to JSON"},
	}
}

// Render creates the help view
func Render(width, height int, theme lipgloss.Style) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("75")).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var b strings.Builder

	b.WriteString(titleStyle.Render("pgedit - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title string
		keys  []KeyBinding
	}{
		{"Global", GetGlobalKeys()},
		{"Navigation", GetNavigationKeys()},
		{"Editing", GetEditingKeys()},
		{"Export", GetExportKeys()},
	}
	for _, section := range sections {
		b.WriteString(sectionStyle.Render(section.title))
		b.WriteString("\n")
		for _, kb := range section.keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	// Wrap in a box
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(width - 4).
		Height(height - 4)

	return boxStyle.Render(b.String())
}
