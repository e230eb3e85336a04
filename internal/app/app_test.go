package app

import (
	"testing"

	"github.com/pgedit/pgedit/internal/config"
	"github.com/pgedit/pgedit/internal/models"
)

func testApp() *App {
	cfg := config.GetDefaults()
	cfg.History.Enabled = false
	return New(cfg)
}

func usersResult(page int) models.QueryResult {
	headers := []models.Header{
		{Name: "id", Kind: models.KindNumber, Table: "users", Column: "id", PrimaryKey: true, Editable: true},
		{Name: "name", Kind: models.KindString, Table: "users", Column: "name", Editable: true},
	}
	return models.QueryResult{
		Headers: headers,
		Rows: []models.ResultRow{{
			ID: models.FetchedRow(page * 50),
			Data: map[string]models.Value{
				"id":   models.NewValue("1"),
				"name": models.NewValue("a"),
			},
		}},
		Page:     page,
		PageSize: 50,
	}
}

func TestRemovalOnlyChangeSetOpensPreview(t *testing.T) {
	a := testApp()
	a.width, a.height = 120, 40
	a.Update(QueryExecutedMsg{Result: usersResult(0), SQL: "SELECT * FROM users"})

	a.collector.RemoveRow(models.FetchedRow(0))
	if a.collector.ChangesCount() != 0 {
		t.Fatalf("ChangesCount = %d, want 0 (removal-only)", a.collector.ChangesCount())
	}

	a.openPreview()
	if a.preview == nil {
		t.Fatal("removal-only change-set should open the preview")
	}
	stmts := a.preview.Statements()
	if len(stmts) != 1 || stmts[0] != `DELETE FROM "users" WHERE "id" = 1;` {
		t.Errorf("statements = %v, want the single DELETE", stmts)
	}
}

func TestCreationOnlyChangeSetOpensPreview(t *testing.T) {
	a := testApp()
	a.width, a.height = 120, 40
	a.Update(QueryExecutedMsg{Result: usersResult(0), SQL: "SELECT * FROM users"})

	a.collector.CreateNewRow()

	a.openPreview()
	if a.preview == nil {
		t.Fatal("creation-only change-set should open the preview")
	}
	stmts := a.preview.Statements()
	if len(stmts) != 1 || stmts[0] != `INSERT INTO "users" DEFAULT VALUES;` {
		t.Errorf("statements = %v, want the single default-values INSERT", stmts)
	}
}

func TestEmptyChangeSetDoesNotOpenPreview(t *testing.T) {
	a := testApp()
	a.Update(QueryExecutedMsg{Result: usersResult(0), SQL: "SELECT * FROM users"})

	a.openPreview()
	if a.preview != nil {
		t.Error("empty change-set should not open the preview")
	}
}

func TestPagingKeepsPendingChanges(t *testing.T) {
	const sql = "SELECT * FROM users"
	a := testApp()
	a.Update(QueryExecutedMsg{Result: usersResult(0), SQL: sql})

	a.collector.SetEdit(models.FetchedRow(0), "name", models.NewValue("x"))
	a.collector.CreateNewRow()

	// Next page of the same query: identities are global, changes survive.
	a.Update(QueryExecutedMsg{Result: usersResult(1), SQL: sql})
	if a.collector.ChangesCount() != 1 {
		t.Errorf("ChangesCount = %d after paging, want 1", a.collector.ChangesCount())
	}
	if a.collector.NewRowCount() != 1 {
		t.Errorf("NewRowCount = %d after paging, want 1", a.collector.NewRowCount())
	}

	// A different query invalidates the change-set.
	a.Update(QueryExecutedMsg{Result: usersResult(0), SQL: "SELECT * FROM orders"})
	if !a.collector.Empty() {
		t.Error("a new query should reset the collector")
	}
}
