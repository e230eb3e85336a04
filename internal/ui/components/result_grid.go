package components

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/pgedit/pgedit/internal/cells"
	"github.com/pgedit/pgedit/internal/grid"
	"github.com/pgedit/pgedit/internal/ui/theme"
)

// ZoneGridCellPrefix is the bubblezone ID prefix for grid cells
const ZoneGridCellPrefix = "grid_cell_"

// ResultGrid renders a Source through a virtual window: only the rows between
// TopRow and TopRow+VisibleRows are materialized per frame, so scrolling a
// large page stays cheap. Cell values are fetched lazily from the source,
// which already layers pending edits over fetched data.
type ResultGrid struct {
	Source *grid.Model
	Cells  *cells.Manager
	Theme  theme.Theme

	Width  int
	Height int

	// Virtual scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int
	SelectedCol int

	// Multi-row selection for removal (display positions)
	marked map[int]bool

	MaxCellDisplayLength int

	styles gridStyles
}

type gridStyles struct {
	header     lipgloss.Style
	selected   lipgloss.Style
	marked     lipgloss.Style
	newRow     lipgloss.Style
	removedRow lipgloss.Style
	editedCell lipgloss.Style
	focused    lipgloss.Style
	nullCell   lipgloss.Style
	status     lipgloss.Style
	empty      lipgloss.Style
}

// NewResultGrid creates a grid bound to a source and cell registry
func NewResultGrid(source *grid.Model, cellMgr *cells.Manager, th theme.Theme) *ResultGrid {
	rg := &ResultGrid{
		Source:               source,
		Cells:                cellMgr,
		Theme:                th,
		marked:               make(map[int]bool),
		MaxCellDisplayLength: 100,
	}
	rg.initStyles()
	return rg
}

func (rg *ResultGrid) initStyles() {
	rg.styles = gridStyles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(rg.Theme.GridHeader),
		selected: lipgloss.NewStyle().
			Background(rg.Theme.GridRowSelected),
		marked: lipgloss.NewStyle().
			Background(rg.Theme.Selection).
			Bold(true),
		newRow: lipgloss.NewStyle().
			Foreground(rg.Theme.GridNewRow),
		removedRow: lipgloss.NewStyle().
			Foreground(rg.Theme.GridRemovedRow).
			Strikethrough(true),
		editedCell: lipgloss.NewStyle().
			Foreground(rg.Theme.GridEditedCell),
		focused: lipgloss.NewStyle().
			Background(rg.Theme.GridFocusedCell).
			Foreground(rg.Theme.Background),
		nullCell: lipgloss.NewStyle().
			Foreground(rg.Theme.GridNull).
			Italic(true),
		status: lipgloss.NewStyle().
			Foreground(rg.Theme.GridNull).
			Italic(true),
		empty: lipgloss.NewStyle().
			Foreground(rg.Theme.GridNull),
	}
}

// SetSource swaps the grid onto a new result page. Window and selection
// state reset because display positions are only meaningful per page.
func (rg *ResultGrid) SetSource(source *grid.Model) {
	rg.Source = source
	rg.TopRow = 0
	rg.SelectedRow = 0
	rg.SelectedCol = 0
	rg.marked = make(map[int]bool)
}

// SetSize updates the render dimensions
func (rg *ResultGrid) SetSize(width, height int) {
	rg.Width = width
	rg.Height = height
	// Header + separator + status line
	rg.VisibleRows = height - 3
	if rg.VisibleRows < 1 {
		rg.VisibleRows = 1
	}
}

// SelectedPosition returns the display position of the cursor row
func (rg *ResultGrid) SelectedPosition() int { return rg.SelectedRow }

// SelectedColumn returns the name of the cursor column, if any
func (rg *ResultGrid) SelectedColumn() (string, bool) {
	headers := rg.Source.Headers()
	if rg.SelectedCol < 0 || rg.SelectedCol >= len(headers) {
		return "", false
	}
	return headers[rg.SelectedCol].Name, true
}

// ToggleMark toggles the cursor row in the multi-row selection
func (rg *ResultGrid) ToggleMark() {
	if rg.marked[rg.SelectedRow] {
		delete(rg.marked, rg.SelectedRow)
		return
	}
	rg.marked[rg.SelectedRow] = true
}

// MarkedPositions returns the selection as sorted display positions. The
// cursor row counts when nothing is explicitly marked, so "remove selected"
// always has a target while the grid holds rows.
func (rg *ResultGrid) MarkedPositions() []int {
	if len(rg.marked) == 0 {
		if rg.Source.RowCount() == 0 {
			return nil
		}
		return []int{rg.SelectedRow}
	}
	out := make([]int, 0, len(rg.marked))
	for pos := range rg.marked {
		out = append(out, pos)
	}
	sort.Ints(out)
	return out
}

// ClearMarks drops the multi-row selection
func (rg *ResultGrid) ClearMarks() {
	rg.marked = make(map[int]bool)
}

// MoveSelection moves the cursor and scrolls the window to keep it visible
func (rg *ResultGrid) MoveSelection(delta int) {
	total := rg.Source.RowCount()
	rg.SelectedRow += delta
	if rg.SelectedRow < 0 {
		rg.SelectedRow = 0
	}
	if rg.SelectedRow >= total {
		rg.SelectedRow = total - 1
	}
	if rg.SelectedRow < 0 {
		rg.SelectedRow = 0
	}
	rg.ensureVisible()
}

// MoveColumn moves the cursor horizontally
func (rg *ResultGrid) MoveColumn(delta int) {
	rg.SelectedCol += delta
	if rg.SelectedCol < 0 {
		rg.SelectedCol = 0
	}
	if n := len(rg.Source.Headers()); rg.SelectedCol >= n {
		rg.SelectedCol = n - 1
	}
	if rg.SelectedCol < 0 {
		rg.SelectedCol = 0
	}
}

// PageUp scrolls one window up
func (rg *ResultGrid) PageUp() {
	rg.MoveSelection(-rg.VisibleRows)
}

// PageDown scrolls one window down
func (rg *ResultGrid) PageDown() {
	rg.MoveSelection(rg.VisibleRows)
}

// GoToTop jumps to the first display row
func (rg *ResultGrid) GoToTop() {
	rg.SelectedRow = 0
	rg.TopRow = 0
}

// GoToBottom jumps to the last display row
func (rg *ResultGrid) GoToBottom() {
	total := rg.Source.RowCount()
	if total == 0 {
		return
	}
	rg.SelectedRow = total - 1
	rg.ensureVisible()
}

func (rg *ResultGrid) ensureVisible() {
	if rg.SelectedRow < rg.TopRow {
		rg.TopRow = rg.SelectedRow
	}
	if rg.VisibleRows > 0 && rg.SelectedRow >= rg.TopRow+rg.VisibleRows {
		rg.TopRow = rg.SelectedRow - rg.VisibleRows + 1
	}
	if rg.TopRow < 0 {
		rg.TopRow = 0
	}
}

// ClampSelection pulls the cursor back in range after the row count shrank,
// e.g. when a discard dropped synthetic rows.
func (rg *ResultGrid) ClampSelection() {
	total := rg.Source.RowCount()
	if rg.SelectedRow >= total {
		rg.SelectedRow = total - 1
	}
	if rg.SelectedRow < 0 {
		rg.SelectedRow = 0
	}
	for pos := range rg.marked {
		if pos >= total {
			delete(rg.marked, pos)
		}
	}
	rg.ensureVisible()
}

// HandleMouseClick moves the cursor to a clicked cell.
// Returns (handled, position, column).
func (rg *ResultGrid) HandleMouseClick(msg tea.MouseMsg) (bool, int, string) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return false, -1, ""
	}

	headers := rg.Source.Headers()
	end := rg.TopRow + rg.VisibleRows
	if total := rg.Source.RowCount(); end > total {
		end = total
	}
	for pos := rg.TopRow; pos < end; pos++ {
		for c, h := range headers {
			if zone.Get(rg.cellZoneID(pos, h.Name)).InBounds(msg) {
				rg.SelectedRow = pos
				rg.SelectedCol = c
				return true, pos, h.Name
			}
		}
	}
	return false, -1, ""
}

func (rg *ResultGrid) cellZoneID(pos int, col string) string {
	return fmt.Sprintf("%s%d_%s", ZoneGridCellPrefix, pos, col)
}

// View renders the visible window
func (rg *ResultGrid) View() string {
	headers := rg.Source.Headers()
	if len(headers) == 0 {
		return rg.styles.empty.Render("No results")
	}

	widths := rg.columnCharWidths(headers)

	var b strings.Builder
	b.WriteString(rg.renderHeader(headers, widths))
	b.WriteString("\n")
	b.WriteString(rg.renderSeparator(widths))
	b.WriteString("\n")

	total := rg.Source.RowCount()
	if total == 0 {
		b.WriteString(rg.styles.empty.Render("  (no rows)"))
		b.WriteString("\n")
		b.WriteString(rg.renderStatus(total))
		return b.String()
	}

	newRows := toSet(rg.Source.NewRowPositions())
	removedRows := toSet(rg.Source.RemovedRowPositions())

	end := rg.TopRow + rg.VisibleRows
	if end > total {
		end = total
	}
	for pos := rg.TopRow; pos < end; pos++ {
		b.WriteString(rg.renderRow(pos, headers, widths, newRows[pos], removedRows[pos]))
		b.WriteString("\n")
	}

	b.WriteString(rg.renderStatus(total))
	return b.String()
}

// columnCharWidths converts layout widths into terminal columns, then scales
// down proportionally when the sum overflows the component width.
func (rg *ResultGrid) columnCharWidths(headers []grid.HeaderMeta) []int {
	widths := make([]int, len(headers))
	sum := 0
	for i, h := range headers {
		w := h.Width / 8
		if w < 4 {
			w = 4
		}
		widths[i] = w
		sum += w + 3 // separator overhead
	}
	if rg.Width > 0 && sum > rg.Width {
		avail := rg.Width - 3*len(headers)
		if avail < 4*len(headers) {
			avail = 4 * len(headers)
		}
		for i := range widths {
			widths[i] = widths[i] * avail / (sum - 3*len(headers))
			if widths[i] < 4 {
				widths[i] = 4
			}
		}
	}
	return widths
}

func (rg *ResultGrid) renderHeader(headers []grid.HeaderMeta, widths []int) string {
	var parts []string
	for i, h := range headers {
		label := h.Name
		if h.Key {
			label = "🔑 " + label
		}
		parts = append(parts, pad(label, widths[i], h.RightAlign))
	}
	return rg.styles.header.Render(" " + strings.Join(parts, " │ ") + " ")
}

func (rg *ResultGrid) renderSeparator(widths []int) string {
	var parts []string
	for _, w := range widths {
		parts = append(parts, strings.Repeat("─", w))
	}
	return lipgloss.NewStyle().
		Foreground(rg.Theme.Border).
		Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (rg *ResultGrid) renderRow(pos int, headers []grid.HeaderMeta, widths []int, isNew, isRemoved bool) string {
	rowID := rg.Source.LogicalAt(pos)
	selected := pos == rg.SelectedRow
	edited := rg.Source.RowEdited(pos)

	var parts []string
	for i, h := range headers {
		text, style := rg.cellText(pos, h)
		content := pad(text, widths[i], h.RightAlign)

		switch {
		case rg.Cells.IsFocused(rowID, h.Name):
			content = rg.styles.focused.Render(content)
		case isRemoved:
			content = rg.styles.removedRow.Render(content)
		case style != nil:
			content = style.Render(content)
		case isNew:
			content = rg.styles.newRow.Render(content)
		}

		content = zone.Mark(rg.cellZoneID(pos, h.Name), content)
		parts = append(parts, content)
	}

	line := " " + strings.Join(parts, " │ ") + " "
	switch {
	case rg.marked[pos]:
		return rg.styles.marked.Render(line)
	case selected:
		return rg.styles.selected.Render(line)
	case edited && !isRemoved:
		return rg.styles.editedCell.Render(line)
	}
	return line
}

// cellText resolves the display text and an optional per-cell style
func (rg *ResultGrid) cellText(pos int, h grid.HeaderMeta) (string, *lipgloss.Style) {
	v, ok := rg.Source.CellAt(pos, h.Name)
	if !ok {
		return "", nil
	}
	if v.IsNull() {
		return "NULL", &rg.styles.nullCell
	}
	if v.IsUnset() {
		return "", nil
	}
	text := v.Raw()
	if rg.MaxCellDisplayLength > 0 && runewidth.StringWidth(text) > rg.MaxCellDisplayLength {
		text = runewidth.Truncate(text, rg.MaxCellDisplayLength, "…")
	}
	// Flatten newlines so one logical row stays one terminal line
	text = strings.ReplaceAll(text, "\n", "␤")
	return text, nil
}

func (rg *ResultGrid) renderStatus(total int) string {
	if total == 0 {
		return rg.styles.status.Render(" 0 rows")
	}
	end := rg.TopRow + rg.VisibleRows
	if end > total {
		end = total
	}
	status := fmt.Sprintf(" %d-%d of %d rows", rg.TopRow+1, end, total)
	if n := rg.Source.Collector().ChangesCount(); n > 0 {
		status += fmt.Sprintf("  •  %d pending change(s)", n)
	}
	return rg.styles.status.Render(status)
}

// pad truncates or pads a string to an exact display width, rune-aware
func pad(s string, width int, rightAlign bool) string {
	w := runewidth.StringWidth(s)
	if w > width {
		if width > 1 {
			return runewidth.Truncate(s, width-1, "…")
		}
		return runewidth.Truncate(s, width, "")
	}
	fill := strings.Repeat(" ", width-w)
	if rightAlign {
		return fill + s
	}
	return s + fill
}

func toSet(positions []int) map[int]bool {
	set := make(map[int]bool, len(positions))
	for _, p := range positions {
		set[p] = true
	}
	return set
}
