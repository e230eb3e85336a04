// Package changeset tracks the pending mutations of one displayed result set:
// per-cell edits, created rows, and removed rows. A Collector is created when
// a result is shown and discarded when a new query replaces it or the changes
// are applied; it is passed explicitly to everything that needs it.
package changeset

import "github.com/pgedit/pgedit/internal/models"

// ColChange is one pending cell edit within a row.
type ColChange struct {
	Col   string
	Value models.Value
}

// RowChanges groups the pending edits of a single row.
type RowChanges struct {
	Row  models.RowID
	Cols []ColChange
}

// Snapshot is the change-set handed to the SQL generator.
type Snapshot struct {
	Changes []RowChanges
	Created []models.RowID
	Removed []models.RowID
}

type rowEdits struct {
	cols  map[string]models.Value
	order []string
}

// Collector is the single source of truth for pending mutations. It is only
// ever touched from the UI event loop, so it carries no locking; every
// mutation notifies subscribers synchronously before returning.
type Collector struct {
	edits    map[models.RowID]*rowEdits
	editRows []models.RowID

	created int
	removed map[models.RowID]struct{}
	remOrd  []models.RowID

	subs   []subscription
	nextID int
}

type subscription struct {
	id int
	fn func()
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{
		edits:   make(map[models.RowID]*rowEdits),
		removed: make(map[models.RowID]struct{}),
	}
}

// Subscribe registers fn to run after every mutation. The returned function
// unregisters it; callers pair the two on component teardown.
func (c *Collector) Subscribe(fn func()) func() {
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Collector) notify() {
	// Registration order; a subscriber may unsubscribe others, so walk a copy.
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	for _, s := range subs {
		s.fn()
	}
}

// CreateNewRow appends one synthetic row at the end of creation order.
func (c *Collector) CreateNewRow() models.RowID {
	id := models.SyntheticRow(c.created)
	c.created++
	c.notify()
	return id
}

// NewRowCount is the number of synthetic row slots. Removed synthetic rows
// keep their slot (tombstoned) until Clear, so creation order stays dense and
// display positions remain stable.
func (c *Collector) NewRowCount() int { return c.created }

// CreatedRows lists every synthetic row in creation order.
func (c *Collector) CreatedRows() []models.RowID {
	out := make([]models.RowID, c.created)
	for i := range out {
		out[i] = models.SyntheticRow(i)
	}
	return out
}

// RemoveRow marks a row removed. Removing a row twice has no further effect
// and does not re-notify.
func (c *Collector) RemoveRow(id models.RowID) {
	if _, ok := c.removed[id]; ok {
		return
	}
	c.removed[id] = struct{}{}
	c.remOrd = append(c.remOrd, id)
	c.notify()
}

// IsRemoved reports whether the row is marked removed.
func (c *Collector) IsRemoved(id models.RowID) bool {
	_, ok := c.removed[id]
	return ok
}

// RemovedRows lists removed identities in removal order.
func (c *Collector) RemovedRows() []models.RowID {
	out := make([]models.RowID, len(c.remOrd))
	copy(out, c.remOrd)
	return out
}

// SetEdit records a pending value for (row, col), replacing any earlier edit
// of the same cell.
func (c *Collector) SetEdit(row models.RowID, col string, v models.Value) {
	re, ok := c.edits[row]
	if !ok {
		re = &rowEdits{cols: make(map[string]models.Value)}
		c.edits[row] = re
		c.editRows = append(c.editRows, row)
	}
	if _, seen := re.cols[col]; !seen {
		re.order = append(re.order, col)
	}
	re.cols[col] = v
	c.notify()
}

// Edit returns the pending value for (row, col), if any. Remounted cells use
// it to show in-progress edits.
func (c *Collector) Edit(row models.RowID, col string) (models.Value, bool) {
	re, ok := c.edits[row]
	if !ok {
		return models.Value{}, false
	}
	v, ok := re.cols[col]
	return v, ok
}

// DiscardEdit drops the pending value for (row, col). A no-op when the cell
// has no pending edit.
func (c *Collector) DiscardEdit(row models.RowID, col string) {
	re, ok := c.edits[row]
	if !ok {
		return
	}
	if _, ok := re.cols[col]; !ok {
		return
	}
	delete(re.cols, col)
	for i, name := range re.order {
		if name == col {
			re.order = append(re.order[:i], re.order[i+1:]...)
			break
		}
	}
	if len(re.cols) == 0 {
		delete(c.edits, row)
		for i, r := range c.editRows {
			if r == row {
				c.editRows = append(c.editRows[:i], c.editRows[i+1:]...)
				break
			}
		}
	}
	c.notify()
}

// ChangesCount is the total number of pending cell edits across all rows.
func (c *Collector) ChangesCount() int {
	n := 0
	for _, re := range c.edits {
		n += len(re.cols)
	}
	return n
}

// Empty reports whether the change-set holds nothing at all: no cell edits,
// no created rows, no removed rows. A removal-only or creation-only
// change-set is not empty even though ChangesCount is zero.
func (c *Collector) Empty() bool {
	return c.ChangesCount() == 0 && c.created == 0 && len(c.removed) == 0
}

// Changes snapshots all pending state, grouped by row in first-edit order
// with columns in first-touch order.
func (c *Collector) Changes() Snapshot {
	snap := Snapshot{
		Created: c.CreatedRows(),
		Removed: c.RemovedRows(),
	}
	for _, row := range c.editRows {
		re := c.edits[row]
		rc := RowChanges{Row: row, Cols: make([]ColChange, 0, len(re.order))}
		for _, col := range re.order {
			rc.Cols = append(rc.Cols, ColChange{Col: col, Value: re.cols[col]})
		}
		snap.Changes = append(snap.Changes, rc)
	}
	return snap
}

// Clear discards every pending edit, creation, and removal.
func (c *Collector) Clear() {
	c.edits = make(map[models.RowID]*rowEdits)
	c.editRows = nil
	c.created = 0
	c.removed = make(map[models.RowID]struct{})
	c.remOrd = nil
	c.notify()
}
