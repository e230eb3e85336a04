package grid

import (
	"github.com/pgedit/pgedit/internal/changeset"
	"github.com/pgedit/pgedit/internal/models"
)

// Source is the contract the virtualized widget consumes. The widget asks for
// cells lazily by display coordinate while scrolling and styles rows from the
// position lists; it never touches the collector directly.
type Source interface {
	Headers() []HeaderMeta
	RowCount() int
	CellAt(pos int, col string) (models.Value, bool)
	RowAt(pos int) (models.ResultRow, bool)
	NewRowPositions() []int
	RemovedRowPositions() []int
}

// Model binds one result set and its collector into a Source. All reads go
// straight to the collector, so the widget sees post-mutation state as soon
// as a synchronous notification triggers a re-render.
type Model struct {
	headers   []models.Header
	fetched   []models.ResultRow
	collector *changeset.Collector
	page      int
	pageSize  int

	metas []HeaderMeta
}

// NewModel builds a Source over the given result page. Header metadata is
// computed once; headers are immutable for the result's lifetime.
func NewModel(result *models.QueryResult, collector *changeset.Collector) *Model {
	m := &Model{
		collector: collector,
	}
	if result != nil {
		m.headers = result.Headers
		m.fetched = result.Rows
		m.page = result.Page
		m.pageSize = result.PageSize
	}
	m.metas = HeaderMetas(m.headers, m.fetched)
	return m
}

// Headers returns the widget's column metadata.
func (m *Model) Headers() []HeaderMeta { return m.metas }

// HeaderList returns the underlying headers.
func (m *Model) HeaderList() []models.Header { return m.headers }

// FetchedRows returns the current page of result rows.
func (m *Model) FetchedRows() []models.ResultRow { return m.fetched }

// Collector returns the change collector backing this model.
func (m *Model) Collector() *changeset.Collector { return m.collector }

// Page and PageSize expose the pagination parameters used for identity math.
func (m *Model) Page() int     { return m.page }
func (m *Model) PageSize() int { return m.pageSize }

// RowCount is the display row count: every synthetic slot plus the page's
// fetched rows.
func (m *Model) RowCount() int {
	return m.collector.NewRowCount() + len(m.fetched)
}

// RowAt resolves a display position to its row, synthetic or fetched.
func (m *Model) RowAt(pos int) (models.ResultRow, bool) {
	return ResolveDisplayRow(pos, m.collector.NewRowCount(), m.fetched, m.headers)
}

// CellAt returns the value rendered at (pos, col): the pending edit when one
// exists, otherwise the row's original value. Out-of-range coordinates
// report false and render empty.
func (m *Model) CellAt(pos int, col string) (models.Value, bool) {
	row, ok := m.RowAt(pos)
	if !ok {
		return models.Value{}, false
	}
	if v, ok := m.collector.Edit(row.ID, col); ok {
		return v, true
	}
	v, ok := row.Data[col]
	return v, ok
}

// LogicalAt converts a display position into a logical identity, applying
// the pagination offset for fetched rows.
func (m *Model) LogicalAt(pos int) models.RowID {
	return LogicalRowAt(pos, m.collector.NewRowCount(), m.page, m.pageSize)
}

// NewRowPositions lists the display positions of synthetic rows.
func (m *Model) NewRowPositions() []int {
	n := m.collector.NewRowCount()
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// RemovedRowPositions lists the display positions to tombstone. Removed rows
// belonging to other pages fall outside the window and are skipped.
func (m *Model) RemovedRowPositions() []int {
	newCount := m.collector.NewRowCount()
	var out []int
	for _, id := range m.collector.RemovedRows() {
		pos := DisplayIndexOf(id, newCount, m.page, m.pageSize)
		if !id.IsSynthetic() && (pos < newCount || pos >= newCount+len(m.fetched)) {
			continue
		}
		out = append(out, pos)
	}
	return out
}

// RowEdited reports whether the row at a display position has pending edits.
func (m *Model) RowEdited(pos int) bool {
	row, ok := m.RowAt(pos)
	if !ok {
		return false
	}
	for _, h := range m.headers {
		if _, ok := m.collector.Edit(row.ID, h.Name); ok {
			return true
		}
	}
	return false
}
