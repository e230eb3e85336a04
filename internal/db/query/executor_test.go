package query

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pgedit/pgedit/internal/models"
)

func TestPageQuery(t *testing.T) {
	got := pageQuery("SELECT * FROM users;  ", 2, 50)
	want := "SELECT * FROM (SELECT * FROM users) AS pgedit_page LIMIT 50 OFFSET 100"
	if got != want {
		t.Errorf("pageQuery = %q, want %q", got, want)
	}
}

func TestPageQueryNoPagination(t *testing.T) {
	if got := pageQuery("SELECT 1", 0, 0); got != "SELECT 1" {
		t.Errorf("pageQuery with pageSize 0 = %q, want the query untouched", got)
	}
}

func TestKindForOID(t *testing.T) {
	tests := []struct {
		oid  uint32
		want models.ValueKind
	}{
		{pgtype.Int4OID, models.KindNumber},
		{pgtype.Int8OID, models.KindNumber},
		{pgtype.Float8OID, models.KindNumber},
		{pgtype.NumericOID, models.KindDecimal},
		{pgtype.TextOID, models.KindString},
		{pgtype.VarcharOID, models.KindString},
		{pgtype.ByteaOID, models.KindOther},
		{pgtype.TimestampOID, models.KindOther},
	}
	for _, tt := range tests {
		if got := kindForOID(tt.oid); got != tt.want {
			t.Errorf("kindForOID(%d) = %v, want %v", tt.oid, got, tt.want)
		}
	}
}

func TestConvertValue(t *testing.T) {
	if !convertValue(nil).IsNull() {
		t.Error("nil should convert to the NULL sentinel")
	}
	if got := convertValue("text"); got.Raw() != "text" {
		t.Errorf("string value = %q, want text", got.Raw())
	}
	if got := convertValue(int64(42)); got.Raw() != "42" {
		t.Errorf("int value = %q, want 42", got.Raw())
	}
	if got := convertValue([]byte(`{"a":1}`)); got.Raw() != `{"a":1}` {
		t.Errorf("byte value = %q, want raw JSON", got.Raw())
	}
	got := convertValue(map[string]interface{}{"a": float64(1)})
	if got.Raw() != `{"a":1}` {
		t.Errorf("map value = %q, want marshaled JSON", got.Raw())
	}
}
