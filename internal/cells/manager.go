// Package cells tracks the cell controllers currently mounted in the grid's
// render window and which one of them, if any, holds focus.
package cells

import "github.com/pgedit/pgedit/internal/models"

// Controller is the capability set of a mounted editable cell. Copy and Paste
// talk to the system clipboard; Insert sets the pending edit directly (used
// for Insert NULL); Discard reverts the cell to its original value and drops
// its entry from the change collector.
type Controller interface {
	Copy() error
	Paste() error
	Insert(v models.Value)
	Discard()
}

type cellKey struct {
	row models.RowID
	col string
}

// Manager is a non-owning registry of mounted cells keyed by (row, column).
// Cells register on mount and must deregister on unmount; lookups for
// anything else report not-found.
type Manager struct {
	cells    map[cellKey]Controller
	focus    cellKey
	hasFocus bool
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{cells: make(map[cellKey]Controller)}
}

// Mount registers the controller rendered at (row, col).
func (m *Manager) Mount(row models.RowID, col string, c Controller) {
	m.cells[cellKey{row, col}] = c
}

// Unmount removes the registry entry for (row, col). Unmounting the focused
// cell clears focus so the manager never hands out a stale reference.
func (m *Manager) Unmount(row models.RowID, col string) {
	k := cellKey{row, col}
	delete(m.cells, k)
	if m.hasFocus && m.focus == k {
		m.hasFocus = false
	}
}

// Get returns the controller mounted at (row, col), if any.
func (m *Manager) Get(row models.RowID, col string) (Controller, bool) {
	c, ok := m.cells[cellKey{row, col}]
	return c, ok
}

// Focus marks (row, col) as the focused cell. Focusing an unmounted
// coordinate clears focus instead.
func (m *Manager) Focus(row models.RowID, col string) {
	k := cellKey{row, col}
	if _, ok := m.cells[k]; !ok {
		m.hasFocus = false
		return
	}
	m.focus = k
	m.hasFocus = true
}

// Blur clears focus.
func (m *Manager) Blur() { m.hasFocus = false }

// IsFocused reports whether (row, col) is the focused cell.
func (m *Manager) IsFocused(row models.RowID, col string) bool {
	return m.hasFocus && m.focus == cellKey{row, col}
}

// FocusedCell returns the single focused controller, if one is mounted.
func (m *Manager) FocusedCell() (Controller, bool) {
	if !m.hasFocus {
		return nil, false
	}
	c, ok := m.cells[m.focus]
	return c, ok
}

// FocusedCoord returns the coordinates of the focused cell.
func (m *Manager) FocusedCoord() (models.RowID, string, bool) {
	if !m.hasFocus {
		return models.RowID{}, "", false
	}
	return m.focus.row, m.focus.col, true
}
