package metadata

import (
	"context"
	"fmt"

	"github.com/pgedit/pgedit/internal/db/connection"
	"github.com/pgedit/pgedit/internal/models"
)

// columnOrigin is one resolved (table OID, attribute) pair.
type columnOrigin struct {
	Schema     string
	Table      string
	Column     string
	PrimaryKey bool
}

// AnnotateHeaders resolves each header's originating table and column from
// the wire-protocol OIDs the executor captured, marks primary-key columns,
// and computes editability against the updatable-tables map. Headers whose
// origin cannot be resolved stay read-only; that is the defined degradation,
// not an error.
func AnnotateHeaders(ctx context.Context, pool *connection.Pool, headers []models.Header, updatable map[string]bool) ([]models.Header, error) {
	oids := make(map[uint32]struct{})
	for _, h := range headers {
		if h.TableOID != 0 {
			oids[h.TableOID] = struct{}{}
		}
	}
	if len(oids) == 0 {
		return headers, nil
	}

	oidList := make([]int64, 0, len(oids))
	for oid := range oids {
		oidList = append(oidList, int64(oid))
	}

	query := `
		SELECT
			att.attrelid::int8 AS table_oid,
			att.attnum::int4 AS att_num,
			ns.nspname AS schema_name,
			cl.relname AS table_name,
			att.attname AS column_name,
			COALESCE(idx.indisprimary, false) AS is_primary
		FROM pg_catalog.pg_attribute att
		JOIN pg_catalog.pg_class cl ON cl.oid = att.attrelid
		JOIN pg_catalog.pg_namespace ns ON ns.oid = cl.relnamespace
		LEFT JOIN pg_catalog.pg_index idx ON idx.indrelid = att.attrelid
			AND idx.indisprimary
			AND att.attnum = ANY(idx.indkey)
		WHERE att.attrelid = ANY($1::oid[])
			AND att.attnum > 0
			AND NOT att.attisdropped
	`

	rows, err := pool.Query(ctx, query, oidList)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve column origins: %w", err)
	}

	type originKey struct {
		oid uint32
		att uint16
	}
	origins := make(map[originKey]columnOrigin, len(rows))
	for _, row := range rows {
		oid, _ := row["table_oid"].(int64)
		att, _ := row["att_num"].(int32)
		primary, _ := row["is_primary"].(bool)
		origins[originKey{uint32(oid), uint16(att)}] = columnOrigin{
			Schema:     toString(row["schema_name"]),
			Table:      toString(row["table_name"]),
			Column:     toString(row["column_name"]),
			PrimaryKey: primary,
		}
	}

	out := make([]models.Header, len(headers))
	copy(out, headers)
	for i := range out {
		o, ok := origins[originKey{out[i].TableOID, out[i].AttributeNum}]
		if !ok {
			continue
		}
		out[i].Table = o.Table
		out[i].Column = o.Column
		out[i].PrimaryKey = o.PrimaryKey
		out[i].Editable = updatable[o.Table]
	}
	return out, nil
}
