// Package actions builds the context-menu entries for the result grid. The
// list is rebuilt on every menu invocation and captures the state it needs at
// that moment; a stale menu is never re-enabled by later mutations.
package actions

import (
	"github.com/pgedit/pgedit/internal/cells"
	"github.com/pgedit/pgedit/internal/changeset"
	"github.com/pgedit/pgedit/internal/grid"
	"github.com/pgedit/pgedit/internal/models"
)

// Action is one user-invocable menu entry. Apply is safe to call only when
// Enabled; the menu renders disabled entries but never dispatches them.
type Action struct {
	Title   string
	Enabled bool
	Apply   func()
}

// Env is the state snapshot an invocation binds against.
type Env struct {
	Collector *changeset.Collector
	Cells     *cells.Manager

	// Selected display positions at invocation time.
	Selection []int

	NewRowCount int
	Page        int
	PageSize    int
}

// Build returns the ordered action list for the current state.
func Build(env Env) []Action {
	focused, hasFocus := env.Cells.FocusedCell()
	pending := env.Collector.ChangesCount()

	return []Action{
		{
			Title:   "Insert new row",
			Enabled: true,
			Apply: func() {
				env.Collector.CreateNewRow()
			},
		},
		{
			Title:   "Remove selected rows",
			Enabled: len(env.Selection) > 0,
			Apply: func() {
				for _, pos := range env.Selection {
					id := grid.LogicalRowAt(pos, env.NewRowCount, env.Page, env.PageSize)
					env.Collector.RemoveRow(id)
				}
			},
		},
		{
			Title:   "Insert NULL",
			Enabled: hasFocus,
			Apply: func() {
				focused.Insert(models.Null)
			},
		},
		{
			Title:   "Copy",
			Enabled: hasFocus,
			Apply: func() {
				_ = focused.Copy()
			},
		},
		{
			Title:   "Paste",
			Enabled: hasFocus,
			Apply: func() {
				_ = focused.Paste()
			},
		},
		{
			Title:   "Discard All Changes",
			Enabled: pending > 0,
			Apply: func() {
				DiscardAll(env.Collector, env.Cells)
			},
		},
	}
}

// DiscardAll reverts every pending edit. Mounted cells get a per-cell Discard
// so their editors reset; edits whose cells scrolled out of the window are
// cleared by the collector alone.
func DiscardAll(collector *changeset.Collector, mgr *cells.Manager) {
	snap := collector.Changes()
	for _, rc := range snap.Changes {
		for _, cc := range rc.Cols {
			if cell, ok := mgr.Get(rc.Row, cc.Col); ok {
				cell.Discard()
			}
		}
	}
	collector.Clear()
}
