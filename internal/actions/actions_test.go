package actions

import (
	"testing"

	"github.com/pgedit/pgedit/internal/cells"
	"github.com/pgedit/pgedit/internal/changeset"
	"github.com/pgedit/pgedit/internal/models"
)

type fakeCell struct {
	copied, pasted, discarded int
	inserted                  []models.Value
}

func (f *fakeCell) Copy() error           { f.copied++; return nil }
func (f *fakeCell) Paste() error          { f.pasted++; return nil }
func (f *fakeCell) Insert(v models.Value) { f.inserted = append(f.inserted, v) }
func (f *fakeCell) Discard()              { f.discarded++ }

func findAction(t *testing.T, list []Action, title string) Action {
	t.Helper()
	for _, a := range list {
		if a.Title == title {
			return a
		}
	}
	t.Fatalf("action %q not in list", title)
	return Action{}
}

func baseEnv() (Env, *changeset.Collector, *cells.Manager) {
	c := changeset.NewCollector()
	m := cells.NewManager()
	return Env{Collector: c, Cells: m}, c, m
}

func TestInsertNewRowAlwaysEnabled(t *testing.T) {
	env, c, _ := baseEnv()
	a := findAction(t, Build(env), "Insert new row")
	if !a.Enabled {
		t.Fatal("Insert new row must always be enabled")
	}
	a.Apply()
	if c.NewRowCount() != 1 {
		t.Errorf("NewRowCount = %d, want 1", c.NewRowCount())
	}
}

func TestRemoveSelectedRowsDisabledOnEmptySelection(t *testing.T) {
	env, _, _ := baseEnv()
	a := findAction(t, Build(env), "Remove selected rows")
	if a.Enabled {
		t.Error("Remove selected rows must be disabled with no selection")
	}
}

func TestRemoveSelectedRowsConvertsDisplayPositions(t *testing.T) {
	env, c, _ := baseEnv()
	c.CreateNewRow()
	env.Selection = []int{5}
	env.NewRowCount = c.NewRowCount()
	env.Page = 2
	env.PageSize = 50

	a := findAction(t, Build(env), "Remove selected rows")
	if !a.Enabled {
		t.Fatal("action should be enabled with a selection")
	}
	a.Apply()

	removed := c.RemovedRows()
	if len(removed) != 1 || removed[0] != models.FetchedRow(104) {
		t.Errorf("removed = %v, want fetched 104 (5 - 1 + 2*50)", removed)
	}
}

func TestRemoveSelectedNewRow(t *testing.T) {
	env, c, _ := baseEnv()
	c.CreateNewRow()
	env.Selection = []int{0}
	env.NewRowCount = c.NewRowCount()

	findAction(t, Build(env), "Remove selected rows").Apply()

	removed := c.RemovedRows()
	if len(removed) != 1 || removed[0] != models.SyntheticRow(0) {
		t.Errorf("removed = %v, want the synthetic row", removed)
	}
}

func TestFocusGatedActions(t *testing.T) {
	env, _, mgr := baseEnv()

	for _, title := range []string{"Insert NULL", "Copy", "Paste"} {
		if findAction(t, Build(env), title).Enabled {
			t.Errorf("%s should be disabled with no focused cell", title)
		}
	}

	cell := &fakeCell{}
	mgr.Mount(models.FetchedRow(0), "name", cell)
	mgr.Focus(models.FetchedRow(0), "name")

	list := Build(env)
	findAction(t, list, "Copy").Apply()
	findAction(t, list, "Paste").Apply()
	findAction(t, list, "Insert NULL").Apply()

	if cell.copied != 1 || cell.pasted != 1 {
		t.Errorf("copy/paste dispatched %d/%d times, want 1/1", cell.copied, cell.pasted)
	}
	if len(cell.inserted) != 1 || !cell.inserted[0].IsNull() {
		t.Errorf("Insert NULL sent %v, want the null sentinel", cell.inserted)
	}
}

// Zero pending changes means Discard All Changes reports disabled.
func TestDiscardAllDisabledWithoutChanges(t *testing.T) {
	env, c, _ := baseEnv()
	if c.ChangesCount() != 0 {
		t.Fatal("fresh collector should have no changes")
	}
	if findAction(t, Build(env), "Discard All Changes").Enabled {
		t.Error("Discard All Changes should be disabled at zero pending edits")
	}
}

func TestDiscardAllReachesMountedCellsAndClears(t *testing.T) {
	env, c, mgr := baseEnv()
	mounted := &fakeCell{}
	mgr.Mount(models.FetchedRow(0), "name", mounted)

	c.SetEdit(models.FetchedRow(0), "name", models.NewValue("a"))
	// This cell scrolled out of the window; only Clear reaches it.
	c.SetEdit(models.FetchedRow(900), "name", models.NewValue("b"))
	c.CreateNewRow()
	c.RemoveRow(models.FetchedRow(3))

	a := findAction(t, Build(env), "Discard All Changes")
	if !a.Enabled {
		t.Fatal("action should be enabled with pending edits")
	}
	a.Apply()

	if mounted.discarded != 1 {
		t.Errorf("mounted cell discarded %d times, want 1", mounted.discarded)
	}
	if c.ChangesCount() != 0 || c.NewRowCount() != 0 || len(c.RemovedRows()) != 0 {
		t.Error("collector should be fully reset after Discard All Changes")
	}
}

// The menu reflects state captured at invocation, not at click time.
func TestActionsCaptureInvocationState(t *testing.T) {
	env, c, _ := baseEnv()
	list := Build(env)
	c.SetEdit(models.FetchedRow(0), "name", models.NewValue("late"))

	if findAction(t, list, "Discard All Changes").Enabled {
		t.Error("menu built before the edit must keep Discard All disabled")
	}
}
