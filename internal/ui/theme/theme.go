package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Grid colors
	GridHeader      lipgloss.Color
	GridRowSelected lipgloss.Color
	GridNewRow      lipgloss.Color
	GridRemovedRow  lipgloss.Color
	GridEditedCell  lipgloss.Color
	GridFocusedCell lipgloss.Color
	GridNull        lipgloss.Color
	GridKeyColumn   lipgloss.Color
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
