package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/pgedit/pgedit/internal/actions"
	"github.com/pgedit/pgedit/internal/ui/theme"
)

// ZoneContextItemPrefix is the bubblezone ID prefix for menu entries
const ZoneContextItemPrefix = "ctx_item_"

// ActionInvokedMsg is sent after a menu entry's Apply ran
type ActionInvokedMsg struct {
	Title string
}

// CloseContextMenuMsg is sent when the menu should close without dispatching
type CloseContextMenuMsg struct{}

// ContextMenu presents the action list built for one invocation. The entries
// carry their own closures, so the menu never reaches back into grid or
// collector state; it only dispatches.
type ContextMenu struct {
	Theme theme.Theme

	items    []actions.Action
	selected int
}

// NewContextMenu creates a menu over a freshly built action list
func NewContextMenu(items []actions.Action, th theme.Theme) *ContextMenu {
	cm := &ContextMenu{
		Theme: th,
		items: items,
	}
	cm.selectFirstEnabled()
	return cm
}

func (cm *ContextMenu) selectFirstEnabled() {
	for i, item := range cm.items {
		if item.Enabled {
			cm.selected = i
			return
		}
	}
	cm.selected = 0
}

// Items returns the menu entries
func (cm *ContextMenu) Items() []actions.Action { return cm.items }

// Selected returns the highlighted entry index
func (cm *ContextMenu) Selected() int { return cm.selected }

// Update handles keyboard input
func (cm *ContextMenu) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		return func() tea.Msg { return CloseContextMenuMsg{} }
	case "up", "k":
		cm.move(-1)
	case "down", "j":
		cm.move(1)
	case "enter":
		return cm.invoke(cm.selected)
	}
	return nil
}

// HandleMouseClick dispatches the clicked entry
func (cm *ContextMenu) HandleMouseClick(msg tea.MouseMsg) tea.Cmd {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return nil
	}
	for i := range cm.items {
		if zone.Get(fmt.Sprintf("%s%d", ZoneContextItemPrefix, i)).InBounds(msg) {
			cm.selected = i
			return cm.invoke(i)
		}
	}
	return func() tea.Msg { return CloseContextMenuMsg{} }
}

// move skips disabled entries in the given direction
func (cm *ContextMenu) move(delta int) {
	if len(cm.items) == 0 {
		return
	}
	i := cm.selected
	for range cm.items {
		i += delta
		if i < 0 || i >= len(cm.items) {
			return
		}
		if cm.items[i].Enabled {
			cm.selected = i
			return
		}
	}
}

// invoke runs the entry's Apply and reports it. Disabled entries are never
// dispatched.
func (cm *ContextMenu) invoke(i int) tea.Cmd {
	if i < 0 || i >= len(cm.items) || !cm.items[i].Enabled {
		return nil
	}
	item := cm.items[i]
	item.Apply()
	return func() tea.Msg {
		return ActionInvokedMsg{Title: item.Title}
	}
}

// View renders the menu
func (cm *ContextMenu) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(cm.Theme.BorderFocused)
	itemStyle := lipgloss.NewStyle().
		Foreground(cm.Theme.Foreground)
	selectedStyle := lipgloss.NewStyle().
		Background(cm.Theme.Selection).
		Bold(true)
	disabledStyle := lipgloss.NewStyle().
		Foreground(cm.Theme.GridNull)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Actions"))
	b.WriteString("\n")

	for i, item := range cm.items {
		line := " " + item.Title + " "
		switch {
		case !item.Enabled:
			line = disabledStyle.Render(line)
		case i == cm.selected:
			line = selectedStyle.Render("▸" + line)
		default:
			line = itemStyle.Render(" " + line)
		}
		b.WriteString(zone.Mark(fmt.Sprintf("%s%d", ZoneContextItemPrefix, i), line))
		b.WriteString("\n")
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cm.Theme.BorderFocused).
		Padding(0, 1)
	return border.Render(strings.TrimRight(b.String(), "\n"))
}
