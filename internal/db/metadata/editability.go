package metadata

import (
	"context"
	"fmt"

	"github.com/pgedit/pgedit/internal/db/connection"
)

// toString safely converts an interface{} to string
func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// UpdatableTables returns, per table name, whether rows can be inserted and
// updated through it. Tables missing from the map are treated as read-only.
func UpdatableTables(ctx context.Context, pool *connection.Pool, schema string) (map[string]bool, error) {
	query := `
		SELECT
			table_name,
			table_type = 'BASE TABLE' AND is_insertable_into = 'YES' AS updatable
		FROM information_schema.tables
		WHERE table_schema = $1
		ORDER BY table_name
	`

	rows, err := pool.Query(ctx, query, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make(map[string]bool, len(rows))
	for _, row := range rows {
		name := toString(row["table_name"])
		updatable, _ := row["updatable"].(bool)
		tables[name] = updatable
	}

	return tables, nil
}
