package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		// Background colors
		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text

		// UI elements
		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0
		Cursor:        lipgloss.Color("#f5e0dc"), // Rosewater

		// Status colors
		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		// Grid colors
		GridHeader:      lipgloss.Color("#89b4fa"), // Blue
		GridRowSelected: lipgloss.Color("#313244"), // Surface0
		GridNewRow:      lipgloss.Color("#a6e3a1"), // Green
		GridRemovedRow:  lipgloss.Color("#6c7086"), // Overlay0
		GridEditedCell:  lipgloss.Color("#f9e2af"), // Yellow
		GridFocusedCell: lipgloss.Color("#89b4fa"), // Blue
		GridNull:        lipgloss.Color("#6c7086"), // Overlay0
		GridKeyColumn:   lipgloss.Color("#f9e2af"), // Yellow
	}
}
