// Package grid maps logical row identities into the display sequence the
// virtualized widget renders and derives the header metadata it needs.
// Display order is invariant: synthetic rows first in creation order, then
// fetched rows in result order.
package grid

import "github.com/pgedit/pgedit/internal/models"

// DisplayIndexOf translates a logical identity into its display position on
// the rendered page: the k-th created row sits at position k, and fetched
// rows follow. Fetched identities are global (the executor assigns them as
// page*pageSize + i), so the page offset is subtracted here; identities from
// other pages yield positions outside [newRowCount, newRowCount+pageSize).
// Inverse of LogicalRowAt.
func DisplayIndexOf(id models.RowID, newRowCount, page, pageSize int) int {
	if id.IsSynthetic() {
		return id.Index()
	}
	return newRowCount + id.Index() - page*pageSize
}

// ResolveDisplayRow answers the widget's lazy per-coordinate requests.
// Positions inside the new-row band yield a synthetic row with all-unset
// data; positions past the fetched rows report false (the widget renders an
// empty slot, never an error).
func ResolveDisplayRow(pos, newRowCount int, fetched []models.ResultRow, headers []models.Header) (models.ResultRow, bool) {
	if pos < 0 {
		return models.ResultRow{}, false
	}
	if pos < newRowCount {
		return models.NewSyntheticResultRow(pos, headers), true
	}
	i := pos - newRowCount
	if i >= len(fetched) {
		return models.ResultRow{}, false
	}
	return fetched[i], true
}

// LogicalRowAt converts a display position into the logical identity the
// collector and the backend understand. Positions in the new-row band name
// the synthetic row occupying that slot; fetched positions are offset by
// page*pageSize to recover the row's identity within the full result set.
// The page offset lives only here and in the executor, which assigns
// identities the same way.
func LogicalRowAt(pos, newRowCount, page, pageSize int) models.RowID {
	if pos < newRowCount {
		return models.SyntheticRow(pos)
	}
	return models.FetchedRow(pos - newRowCount + page*pageSize)
}
