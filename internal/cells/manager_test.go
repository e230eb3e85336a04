package cells

import (
	"testing"

	"github.com/pgedit/pgedit/internal/models"
)

// fakeCell records which operations were invoked.
type fakeCell struct {
	copied, pasted, discarded int
	inserted                  []models.Value
}

func (f *fakeCell) Copy() error            { f.copied++; return nil }
func (f *fakeCell) Paste() error           { f.pasted++; return nil }
func (f *fakeCell) Insert(v models.Value)  { f.inserted = append(f.inserted, v) }
func (f *fakeCell) Discard()               { f.discarded++ }

func TestGetUnmountedCell(t *testing.T) {
	m := NewManager()
	if _, ok := m.Get(models.FetchedRow(0), "name"); ok {
		t.Error("Get on empty manager should report not-found")
	}
}

func TestMountAndGet(t *testing.T) {
	m := NewManager()
	cell := &fakeCell{}
	row := models.FetchedRow(3)
	m.Mount(row, "name", cell)

	got, ok := m.Get(row, "name")
	if !ok || got != Controller(cell) {
		t.Fatal("Get should return the mounted controller")
	}

	m.Unmount(row, "name")
	if _, ok := m.Get(row, "name"); ok {
		t.Error("Get after Unmount should report not-found")
	}
}

func TestSingleFocus(t *testing.T) {
	m := NewManager()
	a := &fakeCell{}
	b := &fakeCell{}
	m.Mount(models.FetchedRow(0), "a", a)
	m.Mount(models.FetchedRow(0), "b", b)

	m.Focus(models.FetchedRow(0), "a")
	m.Focus(models.FetchedRow(0), "b")

	if m.IsFocused(models.FetchedRow(0), "a") {
		t.Error("focusing b must clear focus on a")
	}
	if !m.IsFocused(models.FetchedRow(0), "b") {
		t.Error("b should be focused")
	}
	got, ok := m.FocusedCell()
	if !ok || got != Controller(b) {
		t.Error("FocusedCell should return b")
	}
}

func TestFocusUnmountedCoordinateClearsFocus(t *testing.T) {
	m := NewManager()
	m.Mount(models.FetchedRow(0), "a", &fakeCell{})
	m.Focus(models.FetchedRow(0), "a")

	m.Focus(models.FetchedRow(9), "missing")

	if _, ok := m.FocusedCell(); ok {
		t.Error("focus on an unmounted coordinate should leave no focused cell")
	}
}

func TestUnmountFocusedCellClearsFocus(t *testing.T) {
	m := NewManager()
	row := models.SyntheticRow(0)
	m.Mount(row, "a", &fakeCell{})
	m.Focus(row, "a")

	m.Unmount(row, "a")

	if _, ok := m.FocusedCell(); ok {
		t.Error("FocusedCell must never return a stale reference after unmount")
	}
	if _, _, ok := m.FocusedCoord(); ok {
		t.Error("FocusedCoord should report no focus after unmount")
	}
}

func TestSyntheticAndFetchedKeysDistinct(t *testing.T) {
	m := NewManager()
	synth := &fakeCell{}
	fetched := &fakeCell{}
	// Synthetic row 0 encodes to -1, fetched row 0 to 0; the registry must
	// keep them apart even for the same column.
	m.Mount(models.SyntheticRow(0), "id", synth)
	m.Mount(models.FetchedRow(0), "id", fetched)

	got, _ := m.Get(models.SyntheticRow(0), "id")
	if got != Controller(synth) {
		t.Error("synthetic key resolved to the wrong controller")
	}
	got, _ = m.Get(models.FetchedRow(0), "id")
	if got != Controller(fetched) {
		t.Error("fetched key resolved to the wrong controller")
	}
}
