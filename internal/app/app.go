package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/pgedit/pgedit/internal/actions"
	"github.com/pgedit/pgedit/internal/cells"
	"github.com/pgedit/pgedit/internal/changeset"
	"github.com/pgedit/pgedit/internal/config"
	"github.com/pgedit/pgedit/internal/db/connection"
	"github.com/pgedit/pgedit/internal/db/metadata"
	"github.com/pgedit/pgedit/internal/db/query"
	"github.com/pgedit/pgedit/internal/export"
	"github.com/pgedit/pgedit/internal/grid"
	"github.com/pgedit/pgedit/internal/history"
	"github.com/pgedit/pgedit/internal/models"
	"github.com/pgedit/pgedit/internal/sqlgen"
	"github.com/pgedit/pgedit/internal/ui/components"
	"github.com/pgedit/pgedit/internal/ui/help"
	"github.com/pgedit/pgedit/internal/ui/theme"
)

// viewMode is the app's top-level input mode
type viewMode int

const (
	modeGrid viewMode = iota
	modeQueryInput
	modeContextMenu
	modePreview
	modeHelp
)

// QueryExecutedMsg carries a finished query result
type QueryExecutedMsg struct {
	Result models.QueryResult
	SQL    string
}

// StatementsAppliedMsg reports the outcome of an apply run
type StatementsAppliedMsg struct {
	Applied int
	Err     error
}

// ErrorMsg surfaces an error in the status bar
type ErrorMsg struct {
	Err error
}

// App is the main application model
type App struct {
	config *config.Config
	theme  theme.Theme

	width  int
	height int
	mode   viewMode

	connManager *connection.Manager
	historyDB   *history.Store

	// Current result state. Collector and cell registry live for the result's
	// lifetime; a new query replaces all three together.
	collector *changeset.Collector
	source    *grid.Model
	grid      *components.ResultGrid
	cellMgr   *cells.Manager

	// The mounted controller for the focused cell, if any
	focusedCell *components.EditableCell

	queryInput textinput.Model
	currentSQL string
	page       int

	contextMenu *components.ContextMenu
	preview     *components.StatementPreview

	status    string
	statusErr bool
}

// New creates the application model
func New(cfg *config.Config) *App {
	th := theme.GetTheme(cfg.UI.Theme)

	qi := textinput.New()
	qi.Prompt = "SQL> "
	qi.Placeholder = "SELECT * FROM ..."

	collector := changeset.NewCollector()
	cellMgr := cells.NewManager()
	source := grid.NewModel(nil, collector)

	a := &App{
		config:      cfg,
		theme:       th,
		connManager: connection.NewManager(),
		collector:   collector,
		source:      source,
		cellMgr:     cellMgr,
		grid:        components.NewResultGrid(source, cellMgr, th),
		queryInput:  qi,
		mode:        modeQueryInput,
	}
	a.grid.MaxCellDisplayLength = cfg.Grid.MaxCellDisplayLength
	a.queryInput.Focus()

	if cfg.History.Enabled {
		if dir, err := config.GetConfigPath(); err == nil {
			if store, err := history.NewStore(filepath.Join(dir, "history.db")); err == nil {
				a.historyDB = store
			}
		}
	}

	// Keep the cursor in range when a discard shrinks the row count
	collector.Subscribe(func() {
		a.grid.ClampSelection()
	})

	return a
}

// ConnectionManager exposes the manager so the entrypoint can establish the
// initial connection before the program starts.
func (a *App) ConnectionManager() *connection.Manager { return a.connManager }

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.grid.SetSize(msg.Width, msg.Height-3)
		a.queryInput.Width = msg.Width - 8
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case QueryExecutedMsg:
		return a.handleQueryResult(msg)

	case StatementsAppliedMsg:
		if msg.Err != nil {
			a.setError(fmt.Errorf("apply failed after %d statement(s): %w", msg.Applied, msg.Err))
			return a, nil
		}
		a.setStatus(fmt.Sprintf("applied %d statement(s)", msg.Applied))
		// Changes are on the server now; refetch so the grid shows them.
		a.collector.Clear()
		return a, a.executeQuery(a.currentSQL, a.page)

	case components.ActionInvokedMsg:
		a.mode = modeGrid
		a.contextMenu = nil
		a.grid.ClearMarks()
		a.setStatus(msg.Title)
		return a, nil

	case components.CloseContextMenuMsg:
		a.mode = modeGrid
		a.contextMenu = nil
		return a, nil

	case components.ApplyStatementsMsg:
		a.mode = modeGrid
		a.preview = nil
		return a, a.applyStatements(msg.Statements)

	case components.ClosePreviewMsg:
		a.mode = modeGrid
		a.preview = nil
		return a, nil

	case ErrorMsg:
		a.setError(msg.Err)
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlays consume input first
	switch a.mode {
	case modeContextMenu:
		if a.contextMenu != nil {
			return a, a.contextMenu.Update(msg)
		}
	case modePreview:
		if a.preview != nil {
			return a, a.preview.Update(msg)
		}
	case modeQueryInput:
		return a.handleQueryInputKey(msg)
	case modeHelp:
		switch msg.String() {
		case "?", "esc", "q":
			a.mode = modeGrid
		case "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	// A cell in edit mode owns the keyboard
	if a.focusedCell != nil && a.focusedCell.Editing() {
		switch msg.String() {
		case "enter":
			if err := a.focusedCell.ConfirmEdit(); err != nil {
				a.setError(err)
			}
			return a, nil
		case "esc":
			a.focusedCell.CancelEdit()
			return a, nil
		default:
			return a, a.focusedCell.Update(msg)
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "?":
		a.mode = modeHelp
		return a, nil
	case ":", "e":
		a.blurCell()
		a.mode = modeQueryInput
		a.queryInput.SetValue(a.currentSQL)
		a.queryInput.CursorEnd()
		a.queryInput.Focus()
		return a, textinput.Blink
	case "up", "k":
		a.blurCell()
		a.grid.MoveSelection(-1)
	case "down", "j":
		a.blurCell()
		a.grid.MoveSelection(1)
	case "left", "h":
		a.blurCell()
		a.grid.MoveColumn(-1)
	case "right", "l":
		a.blurCell()
		a.grid.MoveColumn(1)
	case "ctrl+u":
		a.blurCell()
		a.grid.PageUp()
	case "ctrl+d":
		a.blurCell()
		a.grid.PageDown()
	case "g":
		a.blurCell()
		a.grid.GoToTop()
	case "G":
		a.blurCell()
		a.grid.GoToBottom()
	case " ":
		a.grid.ToggleMark()
	case "ctrl+n":
		a.collector.CreateNewRow()
		a.setStatus("inserted new row")
	case "x":
		for _, pos := range a.grid.MarkedPositions() {
			a.collector.RemoveRow(a.source.LogicalAt(pos))
		}
		a.grid.ClearMarks()
	case "y":
		if a.focusedCell != nil {
			if err := a.focusedCell.Copy(); err != nil {
				a.setError(err)
			} else {
				a.setStatus("copied cell")
			}
		}
	case "p":
		if a.focusedCell != nil {
			if err := a.focusedCell.Paste(); err != nil {
				a.setError(err)
			}
		}
	case "U":
		if a.focusedCell != nil {
			a.focusedCell.Insert(models.Null)
		}
	case "D":
		actions.DiscardAll(a.collector, a.cellMgr)
		a.setStatus("discarded all pending changes")
	case "enter":
		a.focusSelectedCell()
		return a, nil
	case "i":
		if err := a.startCellEdit(); err != nil {
			a.setError(err)
		}
		return a, nil
	case "m":
		a.openContextMenu()
		return a, nil
	case "a":
		return a.openPreview()
	case "[":
		if a.page > 0 {
			return a, a.executeQuery(a.currentSQL, a.page-1)
		}
	case "]":
		// Only page forward off a full page; a short page is the last one.
		if len(a.source.FetchedRows()) == a.config.Grid.PageSize {
			return a, a.executeQuery(a.currentSQL, a.page+1)
		}
	case "r":
		if a.currentSQL != "" {
			return a, a.executeQuery(a.currentSQL, a.page)
		}
	case "ctrl+e":
		a.exportResult("csv")
		return a, nil
	case "ctrl+j":
		a.exportResult("json")
		return a, nil
	}
	return a, nil
}

func (a *App) handleQueryInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.mode = modeGrid
		a.queryInput.Blur()
		return a, nil
	case "enter":
		sql := a.queryInput.Value()
		if sql == "" {
			return a, nil
		}
		a.mode = modeGrid
		a.queryInput.Blur()
		return a, a.executeQuery(sql, 0)
	}
	var cmd tea.Cmd
	a.queryInput, cmd = a.queryInput.Update(msg)
	return a, cmd
}

func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case modeContextMenu:
		if a.contextMenu != nil {
			return a, a.contextMenu.HandleMouseClick(msg)
		}
		return a, nil
	case modePreview:
		return a, nil
	}

	if msg.Button == tea.MouseButtonRight && msg.Action == tea.MouseActionPress {
		a.openContextMenu()
		return a, nil
	}
	if handled, _, _ := a.grid.HandleMouseClick(msg); handled {
		a.focusSelectedCell()
	}
	return a, nil
}

// focusSelectedCell mounts a controller at the cursor coordinate and focuses
// it. The previous cell unmounts first so the registry never holds a stale
// reference.
func (a *App) focusSelectedCell() {
	col, ok := a.grid.SelectedColumn()
	if !ok {
		return
	}
	a.blurCell()

	pos := a.grid.SelectedPosition()
	rowID := a.source.LogicalAt(pos)

	var header models.Header
	found := false
	for _, h := range a.source.HeaderList() {
		if h.Name == col {
			header = h
			found = true
			break
		}
	}
	if !found {
		return
	}

	original := models.Unset
	if row, ok := a.source.RowAt(pos); ok {
		if v, ok := row.Data[col]; ok {
			original = v
		}
	}

	cell := components.NewEditableCell(rowID, header, original, a.collector, a.theme)
	a.cellMgr.Mount(rowID, col, cell)
	a.cellMgr.Focus(rowID, col)
	a.focusedCell = cell
}

func (a *App) startCellEdit() error {
	if a.focusedCell == nil {
		a.focusSelectedCell()
	}
	if a.focusedCell == nil {
		return fmt.Errorf("no cell focused")
	}
	return a.focusedCell.StartEdit()
}

// blurCell unmounts the focused cell controller
func (a *App) blurCell() {
	if a.focusedCell == nil {
		return
	}
	a.cellMgr.Unmount(a.focusedCell.Row, a.focusedCell.Header.Name)
	a.cellMgr.Blur()
	a.focusedCell = nil
}

// openContextMenu builds the action list against the state at this instant
func (a *App) openContextMenu() {
	env := actions.Env{
		Collector:   a.collector,
		Cells:       a.cellMgr,
		Selection:   a.grid.MarkedPositions(),
		NewRowCount: a.collector.NewRowCount(),
		Page:        a.source.Page(),
		PageSize:    a.source.PageSize(),
	}
	a.contextMenu = components.NewContextMenu(actions.Build(env), a.theme)
	a.mode = modeContextMenu
}

// openPreview generates statements for the pending changes and shows them.
// The gate must consider the whole change-set: a removal-only or
// creation-only change-set has zero cell edits but still produces statements.
func (a *App) openPreview() (tea.Model, tea.Cmd) {
	if a.collector.Empty() {
		a.setStatus("no pending changes")
		return a, nil
	}
	stmts, err := sqlgen.Generate(a.source.HeaderList(), a.source.FetchedRows(), a.collector.Changes())
	if err != nil {
		a.setError(err)
		return a, nil
	}
	if len(stmts) == 0 {
		a.setStatus("no pending changes")
		return a, nil
	}
	if !a.config.General.ConfirmApply {
		return a, a.applyStatements(stmts)
	}
	a.preview = components.NewStatementPreview(stmts, a.theme)
	a.preview.Width = a.width
	a.preview.Height = a.height - 4
	a.mode = modePreview
	return a, nil
}

// executeQuery runs sql for one page and annotates headers with editability
func (a *App) executeQuery(sql string, page int) tea.Cmd {
	conn, err := a.connManager.GetActive()
	if err != nil {
		return func() tea.Msg { return ErrorMsg{Err: err} }
	}
	pool := conn.Pool
	timeout := time.Duration(a.config.General.QueryTimeout) * time.Millisecond
	pageSize := a.config.Grid.PageSize

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result := query.Execute(ctx, pool.GetPool(), sql, page, pageSize)
		if result.Err != nil {
			return ErrorMsg{Err: result.Err}
		}

		updatable, err := metadata.UpdatableTables(ctx, pool, "public")
		if err == nil {
			if annotated, err := metadata.AnnotateHeaders(ctx, pool, result.Headers, updatable); err == nil {
				result.Headers = annotated
			}
		}
		return QueryExecutedMsg{Result: result, SQL: sql}
	}
}

// handleQueryResult swaps the grid onto the new page. Row identities are
// global across pages of one query, so pending changes survive paging and
// refreshes; a different query invalidates them and resets the collector.
func (a *App) handleQueryResult(msg QueryExecutedMsg) (tea.Model, tea.Cmd) {
	a.blurCell()
	if msg.SQL != a.currentSQL {
		a.collector.Clear()
	}
	a.currentSQL = msg.SQL
	a.page = msg.Result.Page

	result := msg.Result
	a.source = grid.NewModel(&result, a.collector)
	a.grid.SetSource(a.source)

	a.setStatus(fmt.Sprintf("page %d • %d row(s) in %s",
		result.Page+1, len(result.Rows), result.Duration.Round(time.Millisecond)))
	return a, nil
}

// applyStatements executes the generated statements in order, recording each
// in history. Execution stops at the first failure; already-applied
// statements stay applied.
func (a *App) applyStatements(stmts []string) tea.Cmd {
	conn, err := a.connManager.GetActive()
	if err != nil {
		return func() tea.Msg { return ErrorMsg{Err: err} }
	}
	pool := conn.Pool
	connName := conn.Config.Name
	dbName := conn.Config.Database
	timeout := time.Duration(a.config.General.QueryTimeout) * time.Millisecond
	store := a.historyDB

	return func() tea.Msg {
		applied := 0
		for _, stmt := range stmts {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			start := time.Now()
			affected, err := pool.Execute(ctx, stmt)
			cancel()

			if store != nil {
				entry := history.Entry{
					ConnectionName: connName,
					DatabaseName:   dbName,
					Statement:      stmt,
					Duration:       time.Since(start),
					RowsAffected:   affected,
					Success:        err == nil,
				}
				if err != nil {
					entry.ErrorMessage = err.Error()
				}
				_ = store.Add(entry)
			}

			if err != nil {
				return StatementsAppliedMsg{Applied: applied, Err: err}
			}
			applied++
		}
		return StatementsAppliedMsg{Applied: applied}
	}
}

func (a *App) exportResult(format string) {
	name := fmt.Sprintf("pgedit_export_%s.%s", time.Now().Format("20060102_150405"), format)
	var err error
	switch format {
	case "json":
		err = export.ExportToJSON(a.source, name)
	default:
		err = export.ExportToCSV(a.source, name)
	}
	if err != nil {
		a.setError(err)
		return
	}
	a.setStatus("exported to " + name)
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(err error) {
	a.status = err.Error()
	a.statusErr = true
}

// Close releases app-owned resources
func (a *App) Close() {
	if a.historyDB != nil {
		_ = a.historyDB.Close()
	}
}

// View implements tea.Model
func (a *App) View() string {
	if a.mode == modeHelp {
		return help.Render(a.width, a.height, lipgloss.NewStyle())
	}

	var overlay string
	switch a.mode {
	case modeContextMenu:
		if a.contextMenu != nil {
			overlay = a.contextMenu.View()
		}
	case modePreview:
		if a.preview != nil {
			overlay = a.preview.View()
		}
	}

	if overlay != "" {
		return zone.Scan(lipgloss.Place(
			a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			overlay,
		))
	}

	queryBar := a.queryInput.View()
	if a.mode != modeQueryInput {
		barStyle := lipgloss.NewStyle().Foreground(a.theme.GridNull)
		sql := a.currentSQL
		if sql == "" {
			sql = "(press : to enter a query)"
		}
		queryBar = barStyle.Render("SQL> " + sql)
	}

	statusStyle := lipgloss.NewStyle().Foreground(a.theme.Info)
	if a.statusErr {
		statusStyle = lipgloss.NewStyle().Foreground(a.theme.Error)
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		queryBar,
		a.grid.View(),
		statusStyle.Render(a.status),
	)
	return zone.Scan(view)
}
