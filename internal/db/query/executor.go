package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgedit/pgedit/internal/models"
)

// Execute runs one page of a SQL query. Row identities are global: the i-th
// row of page p gets index p*pageSize + i, so identities stay stable across
// pages and match what the change collector and SQL generator expect.
func Execute(ctx context.Context, pool *pgxpool.Pool, sql string, page, pageSize int) models.QueryResult {
	start := time.Now()
	result := models.QueryResult{Page: page, PageSize: pageSize}

	paged := pageQuery(sql, page, pageSize)
	rows, err := pool.Query(ctx, paged)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	result.Headers = make([]models.Header, len(fieldDescs))
	for i, fd := range fieldDescs {
		result.Headers[i] = models.Header{
			Name:         string(fd.Name),
			Kind:         kindForOID(fd.DataTypeOID),
			TableOID:     fd.TableOID,
			AttributeNum: fd.TableAttributeNumber,
		}
	}

	i := 0
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			result.Err = err
			result.Duration = time.Since(start)
			return result
		}

		row := models.ResultRow{
			ID:   models.FetchedRow(page*pageSize + i),
			Data: make(map[string]models.Value, len(values)),
		}
		for j, v := range values {
			row.Data[result.Headers[j].Name] = convertValue(v)
		}
		result.Rows = append(result.Rows, row)
		i++
	}

	if err := rows.Err(); err != nil {
		result.Err = err
	}
	result.Duration = time.Since(start)
	return result
}

// pageQuery wraps arbitrary SQL so only the requested page is fetched.
func pageQuery(sql string, page, pageSize int) string {
	trimmed := strings.TrimRight(strings.TrimSpace(sql), ";")
	if pageSize <= 0 {
		return trimmed
	}
	return fmt.Sprintf("SELECT * FROM (%s) AS pgedit_page LIMIT %d OFFSET %d",
		trimmed, pageSize, page*pageSize)
}

// kindForOID maps wire type OIDs to the grid's declared column kinds.
func kindForOID(oid uint32) models.ValueKind {
	switch oid {
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID,
		pgtype.Float4OID, pgtype.Float8OID, pgtype.OIDOID:
		return models.KindNumber
	case pgtype.NumericOID:
		return models.KindDecimal
	case pgtype.TextOID, pgtype.VarcharOID, pgtype.BPCharOID, pgtype.NameOID:
		return models.KindString
	default:
		return models.KindOther
	}
}

// convertValue formats a driver value for the grid, handling JSONB properly.
func convertValue(val interface{}) models.Value {
	if val == nil {
		return models.Null
	}
	switch v := val.(type) {
	case map[string]interface{}, []interface{}:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return models.NewValue(fmt.Sprintf("%v", val))
		}
		return models.NewValue(string(jsonBytes))
	case []byte:
		// Might be raw JSON bytes
		return models.NewValue(string(v))
	case string:
		return models.NewValue(v)
	default:
		return models.NewValue(fmt.Sprintf("%v", v))
	}
}
