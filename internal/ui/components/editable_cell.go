package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pgedit/pgedit/internal/changeset"
	"github.com/pgedit/pgedit/internal/models"
	"github.com/pgedit/pgedit/internal/ui/theme"
)

// EditableCell is the focused-cell editor. It owns a text input for inline
// editing and routes every mutation through the change collector, so the grid
// re-reads the pending value on the next frame. The cell never stores the
// edited value itself.
type EditableCell struct {
	Row    models.RowID
	Header models.Header

	collector *changeset.Collector
	original  models.Value

	input   textinput.Model
	editing bool

	theme theme.Theme
}

// NewEditableCell creates a controller for one (row, column) coordinate.
// original is the fetched value the cell reverts to on discard.
func NewEditableCell(row models.RowID, header models.Header, original models.Value, collector *changeset.Collector, th theme.Theme) *EditableCell {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0

	return &EditableCell{
		Row:       row,
		Header:    header,
		collector: collector,
		original:  original,
		input:     ti,
		theme:     th,
	}
}

// CurrentValue is the value the cell shows: the pending edit when one exists,
// otherwise the original.
func (ec *EditableCell) CurrentValue() models.Value {
	if v, ok := ec.collector.Edit(ec.Row, ec.Header.Name); ok {
		return v
	}
	return ec.original
}

// Editing reports whether the inline text input is active
func (ec *EditableCell) Editing() bool { return ec.editing }

// StartEdit activates the text input seeded with the current value.
// Read-only columns cannot enter edit mode.
func (ec *EditableCell) StartEdit() error {
	if !ec.Header.Editable {
		return fmt.Errorf("column %q is not editable", ec.Header.Name)
	}
	cur := ec.CurrentValue()
	if cur.IsNull() || cur.IsUnset() {
		ec.input.SetValue("")
	} else {
		ec.input.SetValue(cur.Raw())
	}
	ec.input.CursorEnd()
	ec.input.Focus()
	ec.editing = true
	return nil
}

// ConfirmEdit commits the input buffer as the pending edit. Typed columns
// validate first; an invalid value keeps edit mode open and leaves the
// pending edit untouched. Confirming the original value discards the entry
// instead of recording a no-op change.
func (ec *EditableCell) ConfirmEdit() error {
	text := ec.input.Value()
	if err := ec.validate(text); err != nil {
		return err
	}
	ec.stopEditing()

	v := models.NewValue(text)
	if v.Equal(ec.original) {
		ec.collector.DiscardEdit(ec.Row, ec.Header.Name)
		return nil
	}
	ec.collector.SetEdit(ec.Row, ec.Header.Name, v)
	return nil
}

// CancelEdit leaves edit mode without touching the pending edit
func (ec *EditableCell) CancelEdit() {
	ec.stopEditing()
}

func (ec *EditableCell) stopEditing() {
	ec.input.Blur()
	ec.editing = false
}

// Update forwards keystrokes to the text input while editing
func (ec *EditableCell) Update(msg tea.KeyMsg) tea.Cmd {
	if !ec.editing {
		return nil
	}
	var cmd tea.Cmd
	ec.input, cmd = ec.input.Update(msg)
	return cmd
}

// Copy writes the current value to the system clipboard. NULL copies as the
// empty string; unset copies as empty too.
func (ec *EditableCell) Copy() error {
	cur := ec.CurrentValue()
	text := ""
	if !cur.IsNull() && !cur.IsUnset() {
		text = cur.Raw()
	}
	return clipboard.WriteAll(text)
}

// Paste reads the clipboard and records it as the pending edit. Values that
// fail the column's type validation are rejected and the pending edit stays
// as it was.
func (ec *EditableCell) Paste() error {
	if !ec.Header.Editable {
		return fmt.Errorf("column %q is not editable", ec.Header.Name)
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read clipboard: %w", err)
	}
	return ec.insertText(text)
}

// Insert records v as the pending edit, bypassing validation. Used for
// Insert NULL, where the value is constructed rather than typed.
func (ec *EditableCell) Insert(v models.Value) {
	if !ec.Header.Editable {
		return
	}
	if v.Equal(ec.original) {
		ec.collector.DiscardEdit(ec.Row, ec.Header.Name)
		return
	}
	ec.collector.SetEdit(ec.Row, ec.Header.Name, v)
}

// Discard drops the pending edit so the cell reverts to its original value
func (ec *EditableCell) Discard() {
	ec.stopEditing()
	ec.collector.DiscardEdit(ec.Row, ec.Header.Name)
}

func (ec *EditableCell) insertText(text string) error {
	if err := ec.validate(text); err != nil {
		return err
	}
	v := models.NewValue(text)
	if v.Equal(ec.original) {
		ec.collector.DiscardEdit(ec.Row, ec.Header.Name)
		return nil
	}
	ec.collector.SetEdit(ec.Row, ec.Header.Name, v)
	return nil
}

// validate rejects text the column type cannot hold. Numeric columns accept
// anything strconv.ParseFloat accepts, plus the empty string (treated as NULL
// downstream by statement generation).
func (ec *EditableCell) validate(text string) error {
	if !ec.Header.Kind.Numeric() {
		return nil
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
		return fmt.Errorf("%q is not a valid number for column %q", text, ec.Header.Name)
	}
	return nil
}

// View renders the cell content, or the live text input while editing
func (ec *EditableCell) View() string {
	if ec.editing {
		return ec.input.View()
	}
	cur := ec.CurrentValue()
	if cur.IsNull() {
		return lipgloss.NewStyle().
			Foreground(ec.theme.GridNull).
			Italic(true).
			Render("NULL")
	}
	if cur.IsUnset() {
		return ""
	}
	return cur.Raw()
}
