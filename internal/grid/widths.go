package grid

import "github.com/pgedit/pgedit/internal/models"

const (
	minColumnWidth = 150
	maxColumnWidth = 500
	pixelsPerChar  = 8

	// How many rows to sample when sizing a column.
	widthSampleRows = 100
)

// HeaderMeta is the render metadata the grid widget receives per column.
type HeaderMeta struct {
	Name       string
	Width      int
	Resizable  bool
	RightAlign bool
	Key        bool
	Editable   bool
}

// ColumnWidth derives a column's initial pixel width from the header name and
// a sample of up to 100 rows, clamped to [150, 500] at 8px per character.
func ColumnWidth(h models.Header, rows []models.ResultRow) int {
	longest := len(h.Name)
	sample := rows
	if len(sample) > widthSampleRows {
		sample = sample[:widthSampleRows]
	}
	for _, r := range sample {
		if v, ok := r.Data[h.Name]; ok {
			if n := len(v.String()); n > longest {
				longest = n
			}
		}
	}
	w := longest * pixelsPerChar
	if w < minColumnWidth {
		w = minColumnWidth
	}
	if w > maxColumnWidth {
		w = maxColumnWidth
	}
	return w
}

// HeaderMetas builds the widget's column metadata for a result set.
func HeaderMetas(headers []models.Header, rows []models.ResultRow) []HeaderMeta {
	metas := make([]HeaderMeta, len(headers))
	for i, h := range headers {
		metas[i] = HeaderMeta{
			Name:       h.Name,
			Width:      ColumnWidth(h, rows),
			Resizable:  true,
			RightAlign: h.Kind.Numeric(),
			Key:        h.PrimaryKey,
			Editable:   h.Editable,
		}
	}
	return metas
}
