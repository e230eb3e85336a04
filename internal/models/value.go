package models

// valueState distinguishes the two sentinels a grid cell can hold besides an
// ordinary value: SQL NULL and "unset" (a synthetic row's column that the user
// has not touched yet).
type valueState int

const (
	statePresent valueState = iota
	stateNull
	stateUnset
)

// Value is a single cell value as the grid tracks it. Values are compared and
// displayed as strings; the executor formats driver values before they reach
// the grid.
type Value struct {
	state valueState
	s     string
}

// Null is the SQL NULL sentinel.
var Null = Value{state: stateNull}

// Unset marks a synthetic row's column with no pending value. Unset columns
// are omitted from generated INSERT statements.
var Unset = Value{state: stateUnset}

// NewValue wraps an ordinary string value.
func NewValue(s string) Value {
	return Value{s: s}
}

func (v Value) IsNull() bool  { return v.state == stateNull }
func (v Value) IsUnset() bool { return v.state == stateUnset }

// String returns the display form.
func (v Value) String() string {
	switch v.state {
	case stateNull:
		return "NULL"
	case stateUnset:
		return ""
	default:
		return v.s
	}
}

// Raw returns the underlying string for present values and "" otherwise.
func (v Value) Raw() string {
	if v.state != statePresent {
		return ""
	}
	return v.s
}

// Equal reports whether two values are the same, sentinels included.
func (v Value) Equal(o Value) bool {
	return v.state == o.state && v.s == o.s
}
