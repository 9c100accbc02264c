// Package history persists a log of compiler-driver invocations (tokenize,
// transpile, run, repl) to a small local SQLite database, so a user can see
// what they last built/ran without reaching for shell history. Pure-Go
// modernc.org/sqlite (no cgo) keeps the binary self-contained; record IDs
// use google/uuid rather than the autoincrement rowid so records stay
// stable if the table is ever merged or exported.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded compiler-driver invocation.
type Run struct {
	ID      string
	Command string // "tokenize", "parse", "transpile", "run", "repl-line"
	Target  string // source file path, or "<stdin>"/"<repl>"
	Success bool
	Detail  string // error text on failure, empty on success
	RanAt   time.Time
}

// Store wraps the run-history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures the compile_runs table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migrate %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS compile_runs (
	id       TEXT PRIMARY KEY,
	command  TEXT NOT NULL,
	target   TEXT NOT NULL,
	success  INTEGER NOT NULL,
	detail   TEXT NOT NULL,
	ran_at   TEXT NOT NULL
);`

func (s *Store) Close() error { return s.db.Close() }

// Record inserts a new run, assigning it a fresh UUID and timestamp.
func (s *Store) Record(command, target string, success bool, detail string) (Run, error) {
	run := Run{
		ID:      uuid.NewString(),
		Command: command,
		Target:  target,
		Success: success,
		Detail:  detail,
		RanAt:   time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO compile_runs (id, command, target, success, detail, ran_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.Target, boolToInt(run.Success), run.Detail, run.RanAt.Format(time.RFC3339),
	)
	if err != nil {
		return Run{}, fmt.Errorf("history: record: %w", err)
	}
	return run, nil
}

// Recent returns the most recently recorded runs, newest first, capped at
// limit.
func (s *Store) Recent(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, command, target, success, detail, ran_at FROM compile_runs ORDER BY ran_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var success int
		var ranAt string
		if err := rows.Scan(&r.ID, &r.Command, &r.Target, &success, &r.Detail, &ranAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		r.Success = success != 0
		r.RanAt, _ = time.Parse(time.RFC3339, ranAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
