package components

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	zone "github.com/lrstanley/bubblezone"

	"github.com/pgedit/pgedit/internal/cells"
	"github.com/pgedit/pgedit/internal/changeset"
	"github.com/pgedit/pgedit/internal/grid"
	"github.com/pgedit/pgedit/internal/models"
	"github.com/pgedit/pgedit/internal/ui/theme"
)

func init() {
	// Initialize bubblezone for tests that call View() methods
	zone.NewGlobal()
}

func newTestResult(rows int) *models.QueryResult {
	headers := []models.Header{
		{Name: "id", Kind: models.KindNumber, PrimaryKey: true, Editable: true},
		{Name: "name", Kind: models.KindString, Editable: true},
	}
	result := &models.QueryResult{Headers: headers, PageSize: 50}
	for i := 0; i < rows; i++ {
		result.Rows = append(result.Rows, models.ResultRow{
			ID: models.FetchedRow(i),
			Data: map[string]models.Value{
				"id":   models.NewValue(strconv.Itoa(i + 1)),
				"name": models.NewValue("row" + strconv.Itoa(i+1)),
			},
		})
	}
	return result
}

func newTestGrid(rows int) (*ResultGrid, *changeset.Collector) {
	collector := changeset.NewCollector()
	source := grid.NewModel(newTestResult(rows), collector)
	rg := NewResultGrid(source, cells.NewManager(), theme.DefaultTheme())
	rg.SetSize(120, 13)
	return rg, collector
}

func TestResultGridEmptyState(t *testing.T) {
	collector := changeset.NewCollector()
	source := grid.NewModel(nil, collector)
	rg := NewResultGrid(source, cells.NewManager(), theme.DefaultTheme())
	rg.SetSize(80, 10)

	if !strings.Contains(rg.View(), "No results") {
		t.Error("expected empty state message without headers")
	}
}

func TestResultGridRendersOnlyVisibleWindow(t *testing.T) {
	rg, _ := newTestGrid(100)
	rg.SetSize(120, 8) // 5 visible rows

	view := rg.View()
	if !strings.Contains(view, "row1") {
		t.Error("first window row should render")
	}
	if strings.Contains(view, "row50") {
		t.Error("rows outside the window must not render")
	}
	if !strings.Contains(view, "1-5 of 100 rows") {
		t.Errorf("status should report the window, got:\n%s", view)
	}
}

func TestResultGridScrollFollowsSelection(t *testing.T) {
	rg, _ := newTestGrid(100)
	rg.SetSize(120, 8)

	rg.MoveSelection(20)
	if rg.SelectedRow != 20 {
		t.Fatalf("SelectedRow = %d, want 20", rg.SelectedRow)
	}
	if rg.TopRow != 16 {
		t.Errorf("TopRow = %d, want 16 (selection kept at window bottom)", rg.TopRow)
	}

	view := rg.View()
	if !strings.Contains(view, "row21") {
		t.Error("selected row should be inside the rendered window")
	}
}

func TestResultGridSelectionBounds(t *testing.T) {
	rg, _ := newTestGrid(3)

	rg.MoveSelection(-5)
	if rg.SelectedRow != 0 {
		t.Errorf("SelectedRow = %d, want 0", rg.SelectedRow)
	}
	rg.MoveSelection(99)
	if rg.SelectedRow != 2 {
		t.Errorf("SelectedRow = %d, want 2", rg.SelectedRow)
	}
}

func TestResultGridShowsNullAndPendingEdit(t *testing.T) {
	collector := changeset.NewCollector()
	result := newTestResult(2)
	result.Rows[0].Data["name"] = models.Null
	source := grid.NewModel(result, collector)
	rg := NewResultGrid(source, cells.NewManager(), theme.DefaultTheme())
	rg.SetSize(120, 10)

	view := rg.View()
	if !strings.Contains(view, "NULL") {
		t.Error("NULL values should render as the NULL marker")
	}

	collector.SetEdit(models.FetchedRow(1), "name", models.NewValue("edited"))
	view = rg.View()
	if !strings.Contains(view, "edited") {
		t.Error("pending edit should replace the fetched value")
	}
	if !strings.Contains(view, "1 pending change(s)") {
		t.Error("status should count pending changes")
	}
}

func TestResultGridNewRowsDisplayFirst(t *testing.T) {
	rg, collector := newTestGrid(2)
	collector.CreateNewRow()

	if rg.Source.RowCount() != 3 {
		t.Fatalf("RowCount = %d, want 3", rg.Source.RowCount())
	}
	// Display position 0 is the synthetic row; fetched data starts below it.
	row, ok := rg.Source.RowAt(0)
	if !ok || !row.ID.IsSynthetic() {
		t.Error("display position 0 should be the synthetic row")
	}
}

func TestResultGridMarkedPositionsFallBackToCursor(t *testing.T) {
	rg, _ := newTestGrid(5)
	rg.MoveSelection(2)

	got := rg.MarkedPositions()
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("MarkedPositions = %v, want [2]", got)
	}

	rg.ToggleMark()
	rg.MoveSelection(1)
	rg.ToggleMark()
	got = rg.MarkedPositions()
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("MarkedPositions = %v, want [2 3]", got)
	}

	rg.ClearMarks()
	got = rg.MarkedPositions()
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("after ClearMarks MarkedPositions = %v, want cursor [3]", got)
	}
}

func TestResultGridClampSelectionAfterShrink(t *testing.T) {
	rg, collector := newTestGrid(2)
	collector.CreateNewRow()
	rg.GoToBottom()
	if rg.SelectedRow != 2 {
		t.Fatalf("SelectedRow = %d, want 2", rg.SelectedRow)
	}

	collector.Clear()
	rg.ClampSelection()
	if rg.SelectedRow != 1 {
		t.Errorf("SelectedRow = %d, want 1 after shrink", rg.SelectedRow)
	}
}

func TestResultGridSelectedColumn(t *testing.T) {
	rg, _ := newTestGrid(2)

	col, ok := rg.SelectedColumn()
	if !ok || col != "id" {
		t.Errorf("SelectedColumn = %q, want id", col)
	}
	rg.MoveColumn(1)
	col, _ = rg.SelectedColumn()
	if col != "name" {
		t.Errorf("SelectedColumn = %q, want name", col)
	}
	rg.MoveColumn(5)
	col, _ = rg.SelectedColumn()
	if col != "name" {
		t.Errorf("SelectedColumn = %q, want name (clamped)", col)
	}
}

func TestPadRuneAware(t *testing.T) {
	if got := pad("abc", 5, false); got != "abc  " {
		t.Errorf("pad left = %q", got)
	}
	if got := pad("42", 5, true); got != "   42" {
		t.Errorf("pad right = %q", got)
	}
	if got := pad("abcdefgh", 5, false); got != "abcd…" {
		t.Errorf("pad truncate = %q", got)
	}
}

func TestLongCellTruncationKeepsValidUTF8(t *testing.T) {
	collector := changeset.NewCollector()
	result := newTestResult(1)
	result.Rows[0].Data["name"] = models.NewValue(strings.Repeat("é", 40) + "日本語テキスト")
	source := grid.NewModel(result, collector)
	rg := NewResultGrid(source, cells.NewManager(), theme.DefaultTheme())
	rg.SetSize(200, 10)
	rg.MaxCellDisplayLength = 10

	view := rg.View()
	if !utf8.ValidString(view) {
		t.Error("truncation must not split a multibyte rune")
	}
	if !strings.Contains(view, "…") {
		t.Error("over-long cells should render with the truncation marker")
	}
	if strings.Contains(view, "日本語") {
		t.Error("content past the display limit should be cut")
	}
}
