// Package sqlgen turns a change-set snapshot into the DELETE/UPDATE/INSERT
// statements that apply it. It targets the single updatable table the result's
// headers originate from and identifies fetched rows by primary key.
package sqlgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pgedit/pgedit/internal/changeset"
	"github.com/pgedit/pgedit/internal/models"
)

// Generate produces statements in replay order: removals first, then updates
// of surviving fetched rows, then inserts for created rows. Created rows that
// were removed again produce nothing; a removed row's stale cell edits are
// ignored.
func Generate(headers []models.Header, rows []models.ResultRow, snap changeset.Snapshot) ([]string, error) {
	table, err := targetTable(headers)
	if err != nil {
		return nil, err
	}
	pk := primaryKeyHeaders(headers)

	byID := make(map[models.RowID]models.ResultRow, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	removed := make(map[models.RowID]bool, len(snap.Removed))
	for _, id := range snap.Removed {
		removed[id] = true
	}

	var stmts []string

	for _, id := range snap.Removed {
		if id.IsSynthetic() {
			continue
		}
		row, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("removed row %d is not part of the current result page", id.Int())
		}
		where, err := whereClause(pk, row)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, fmt.Sprintf("DELETE FROM %s WHERE %s;", table, where))
	}

	for _, rc := range snap.Changes {
		if rc.Row.IsSynthetic() || removed[rc.Row] {
			continue
		}
		row, ok := byID[rc.Row]
		if !ok {
			return nil, fmt.Errorf("edited row %d is not part of the current result page", rc.Row.Int())
		}
		where, err := whereClause(pk, row)
		if err != nil {
			return nil, err
		}
		sets := make([]string, 0, len(rc.Cols))
		for _, cc := range rc.Cols {
			h, ok := headerByName(headers, cc.Col)
			if !ok || cc.Value.IsUnset() {
				continue
			}
			sets = append(sets, fmt.Sprintf("%s = %s", quoteIdent(h.Column), literal(cc.Value, h.Kind)))
		}
		if len(sets) == 0 {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("UPDATE %s SET %s WHERE %s;", table, strings.Join(sets, ", "), where))
	}

	edits := make(map[models.RowID]changeset.RowChanges, len(snap.Changes))
	for _, rc := range snap.Changes {
		edits[rc.Row] = rc
	}
	for _, id := range snap.Created {
		if removed[id] {
			continue
		}
		var cols, vals []string
		if rc, ok := edits[id]; ok {
			for _, cc := range rc.Cols {
				h, ok := headerByName(headers, cc.Col)
				if !ok || cc.Value.IsUnset() {
					continue
				}
				cols = append(cols, quoteIdent(h.Column))
				vals = append(vals, literal(cc.Value, h.Kind))
			}
		}
		if len(cols) == 0 {
			stmts = append(stmts, fmt.Sprintf("INSERT INTO %s DEFAULT VALUES;", table))
			continue
		}
		stmts = append(stmts, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
			table, strings.Join(cols, ", "), strings.Join(vals, ", ")))
	}

	return stmts, nil
}

// targetTable picks the table the editable headers resolve to. Results
// spanning multiple tables are not editable.
func targetTable(headers []models.Header) (string, error) {
	table := ""
	for _, h := range headers {
		if h.Table == "" {
			continue
		}
		if table == "" {
			table = h.Table
			continue
		}
		if table != h.Table {
			return "", fmt.Errorf("result spans tables %s and %s; refusing to generate statements", table, h.Table)
		}
	}
	if table == "" {
		return "", fmt.Errorf("no originating table resolved for this result")
	}
	return quoteIdent(table), nil
}

func primaryKeyHeaders(headers []models.Header) []models.Header {
	var pk []models.Header
	for _, h := range headers {
		if h.PrimaryKey {
			pk = append(pk, h)
		}
	}
	return pk
}

func headerByName(headers []models.Header, name string) (models.Header, bool) {
	for _, h := range headers {
		if h.Name == name {
			return h, true
		}
	}
	return models.Header{}, false
}

// whereClause identifies a fetched row by its original primary-key values.
func whereClause(pk []models.Header, row models.ResultRow) (string, error) {
	if len(pk) == 0 {
		return "", fmt.Errorf("no primary key column in the result; cannot address rows")
	}
	parts := make([]string, 0, len(pk))
	for _, h := range pk {
		v, ok := row.Data[h.Name]
		if !ok {
			return "", fmt.Errorf("row %d has no value for key column %s", row.ID.Int(), h.Name)
		}
		if v.IsNull() {
			parts = append(parts, fmt.Sprintf("%s IS NULL", quoteIdent(h.Column)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s = %s", quoteIdent(h.Column), literal(v, h.Kind)))
	}
	return strings.Join(parts, " AND "), nil
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// literal renders a value as a SQL literal. Numeric kinds pass through bare
// when they parse as numbers; everything else is single-quoted with embedded
// quotes doubled.
func literal(v models.Value, kind models.ValueKind) string {
	if v.IsNull() {
		return "NULL"
	}
	if kind.Numeric() {
		if _, err := strconv.ParseFloat(v.Raw(), 64); err == nil {
			return v.Raw()
		}
	}
	return "'" + strings.ReplaceAll(v.Raw(), "'", "''") + "'"
}
