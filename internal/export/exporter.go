package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pgedit/pgedit/internal/grid"
)

// ExportToCSV writes the grid's display-ordered rows to a CSV file, pending
// edits applied. Removed rows are skipped; NULL and unset cells export empty.
func ExportToCSV(source grid.Source, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := source.Headers()
	names := make([]string, len(headers))
	for i, h := range headers {
		names[i] = h.Name
	}
	if err := writer.Write(names); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	removed := make(map[int]bool)
	for _, pos := range source.RemovedRowPositions() {
		removed[pos] = true
	}

	for pos := 0; pos < source.RowCount(); pos++ {
		if removed[pos] {
			continue
		}
		row := make([]string, len(names))
		for i, name := range names {
			if v, ok := source.CellAt(pos, name); ok && !v.IsNull() && !v.IsUnset() {
				row[i] = v.Raw()
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// ExportToJSON writes the grid's rows as an array of name->value objects,
// pending edits applied. NULL cells export as JSON null; unset cells are
// omitted.
func ExportToJSON(source grid.Source, path string) error {
	headers := source.Headers()

	removed := make(map[int]bool)
	for _, pos := range source.RemovedRowPositions() {
		removed[pos] = true
	}

	var out []map[string]interface{}
	for pos := 0; pos < source.RowCount(); pos++ {
		if removed[pos] {
			continue
		}
		obj := make(map[string]interface{}, len(headers))
		for _, h := range headers {
			v, ok := source.CellAt(pos, h.Name)
			if !ok || v.IsUnset() {
				continue
			}
			if v.IsNull() {
				obj[h.Name] = nil
				continue
			}
			obj[h.Name] = v.Raw()
		}
		out = append(out, obj)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}
