package models

import "time"

// ValueKind is the declared kind of a result column, used for cell alignment
// and paste validation.
type ValueKind int

const (
	KindOther ValueKind = iota
	KindNumber
	KindDecimal
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	default:
		return "other"
	}
}

// Numeric reports whether the kind holds numeric content.
func (k ValueKind) Numeric() bool {
	return k == KindNumber || k == KindDecimal
}

// Header describes one result column. Headers are immutable for the lifetime
// of a result set.
type Header struct {
	Name string
	Kind ValueKind

	// Originating schema object, when the planner can resolve one. Both empty
	// for computed columns, which are never editable.
	Table  string
	Column string

	PrimaryKey bool
	Editable   bool

	// Resolution keys carried from the wire protocol until metadata
	// annotation runs.
	TableOID     uint32
	AttributeNum uint16
}

// QueryResult is what the executor hands the grid: ordered headers and the
// current page of rows with global identities.
type QueryResult struct {
	Headers  []Header
	Rows     []ResultRow
	Page     int
	PageSize int

	Duration time.Duration
	Err      error
}

// Empty reports whether there is nothing to render (the explicit no-data
// state, not an error).
func (r *QueryResult) Empty() bool {
	return r == nil || len(r.Headers) == 0
}
