package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		// Background colors
		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),

		// UI elements
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("248"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// Grid colors
		GridHeader:      lipgloss.Color("62"),
		GridRowSelected: lipgloss.Color("237"),
		GridNewRow:      lipgloss.Color("42"),
		GridRemovedRow:  lipgloss.Color("241"),
		GridEditedCell:  lipgloss.Color("220"),
		GridFocusedCell: lipgloss.Color("25"),
		GridNull:        lipgloss.Color("244"),
		GridKeyColumn:   lipgloss.Color("180"),
	}
}
