package history

import (
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry records one statement applied from a change-set.
type Entry struct {
	ID             int
	ConnectionName string
	DatabaseName   string
	Statement      string
	AppliedAt      time.Time
	Duration       time.Duration
	RowsAffected   int64
	Success        bool
	ErrorMessage   string
}

// Store persists applied statements
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed initializes) the history database
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Add records an applied statement
func (s *Store) Add(entry Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO applied_statements
		(connection_name, database_name, statement, duration_ms, rows_affected, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ConnectionName,
		entry.DatabaseName,
		entry.Statement,
		entry.Duration.Milliseconds(),
		entry.RowsAffected,
		entry.Success,
		entry.ErrorMessage,
	)
	return err
}

// GetRecent retrieves the most recent entries
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, connection_name, database_name, statement, applied_at,
		       duration_ms, rows_affected, success, error_message
		FROM applied_statements
		ORDER BY applied_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// Search searches history by statement text
func (s *Store) Search(text string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, connection_name, database_name, statement, applied_at,
		       duration_ms, rows_affected, success, error_message
		FROM applied_statements
		WHERE statement LIKE ?
		ORDER BY applied_at DESC, id DESC
		LIMIT ?`, "%"+text+"%", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		var appliedAt string

		err := rows.Scan(
			&e.ID,
			&e.ConnectionName,
			&e.DatabaseName,
			&e.Statement,
			&appliedAt,
			&durationMs,
			&e.RowsAffected,
			&e.Success,
			&e.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.AppliedAt, _ = time.Parse("2006-01-02 15:04:05", appliedAt)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
