package models

// RowID identifies a row independently of where it is rendered. Fetched rows
// are numbered by their position in the full (unpaginated) result set;
// synthetic rows are numbered by creation order. Keeping the two spaces in a
// tagged value avoids the arithmetic mistakes that come with raw signed
// indexes.
type RowID struct {
	synthetic bool
	n         int
}

// FetchedRow returns the identity of the result row at the given global index.
func FetchedRow(index int) RowID {
	return RowID{n: index}
}

// SyntheticRow returns the identity of the user-created row with the given
// creation order (0 = first created).
func SyntheticRow(order int) RowID {
	return RowID{synthetic: true, n: order}
}

// RowIDFromInt decodes the boundary encoding: non-negative values are fetched
// row indexes, -1, -2, ... are synthetic rows in creation order.
func RowIDFromInt(v int) RowID {
	if v < 0 {
		return SyntheticRow(-v - 1)
	}
	return FetchedRow(v)
}

// Int encodes the identity as a signed integer for external consumers.
func (id RowID) Int() int {
	if id.synthetic {
		return -id.n - 1
	}
	return id.n
}

// IsSynthetic reports whether the row was created by the user.
func (id RowID) IsSynthetic() bool { return id.synthetic }

// Index returns the global result index for fetched rows and the creation
// order for synthetic rows.
func (id RowID) Index() int { return id.n }

// ResultRow is one row of a displayed result set.
type ResultRow struct {
	ID   RowID
	Data map[string]Value
}

// NewSyntheticResultRow builds the row rendered for a not-yet-saved user row:
// every header name maps to the unset sentinel.
func NewSyntheticResultRow(order int, headers []Header) ResultRow {
	data := make(map[string]Value, len(headers))
	for _, h := range headers {
		data[h.Name] = Unset
	}
	return ResultRow{ID: SyntheticRow(order), Data: data}
}
