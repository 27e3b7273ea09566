package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one executed list request
type Entry struct {
	ID           int64
	Entity       string
	Request      string
	SQL          string
	ExecutedAt   time.Time
	Duration     time.Duration
	RowCount     int
	TotalCount   int64
	Success      bool
	ErrorMessage string
}

// Store manages request history persistence
type Store struct {
	db         *sql.DB
	maxEntries int
}

// NewStore opens the history database at path. When maxEntries is positive
// older entries are pruned on insert.
func NewStore(path string, maxEntries int) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db, maxEntries: maxEntries}, nil
}

// Add records an entry
func (s *Store) Add(entry Entry) error {
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO request_history
		(entity, request, sql_text, executed_at, duration_ms, row_count, total_count, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Entity,
		entry.Request,
		entry.SQL,
		entry.ExecutedAt.UTC(),
		entry.Duration.Milliseconds(),
		entry.RowCount,
		entry.TotalCount,
		entry.Success,
		entry.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to add history entry: %w", err)
	}

	if s.maxEntries > 0 {
		_, err = s.db.Exec(`
			DELETE FROM request_history
			WHERE id NOT IN (SELECT id FROM request_history ORDER BY id DESC LIMIT ?)`,
			s.maxEntries)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
	}

	return nil
}

// GetRecent retrieves the most recent entries, newest first
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	return s.query(`
		SELECT id, entity, request, sql_text, executed_at,
		       duration_ms, row_count, total_count, success, error_message
		FROM request_history
		ORDER BY id DESC
		LIMIT ?`, limit)
}

// Search finds entries whose entity or request text contains term
func (s *Store) Search(term string, limit int) ([]Entry, error) {
	pattern := "%" + term + "%"
	return s.query(`
		SELECT id, entity, request, sql_text, executed_at,
		       duration_ms, row_count, total_count, success, error_message
		FROM request_history
		WHERE entity LIKE ? OR request LIKE ?
		ORDER BY id DESC
		LIMIT ?`, pattern, pattern, limit)
}

func (s *Store) query(q string, args ...interface{}) ([]Entry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var durationMs int64

		err := rows.Scan(
			&e.ID,
			&e.Entity,
			&e.Request,
			&e.SQL,
			&e.ExecutedAt,
			&durationMs,
			&e.RowCount,
			&e.TotalCount,
			&e.Success,
			&e.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		e.Duration = time.Duration(durationMs) * time.Millisecond
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
