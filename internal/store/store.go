// Package store persists summary tables to a SQLite database, one run per
// pipeline execution, so earlier analyses remain queryable after re-runs.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/mousemetrics/internal/summary"
)

//go:embed schema.sql
var schemaSQL string

// Run identifies one persisted pipeline execution.
type Run struct {
	ID        string
	Label     string
	CreatedAt time.Time
	Subjects  int
}

// Store manages the SQLite results database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if necessary) the results database at dbPath and
// initializes the schema.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so the remaining pragmas wait on locks held by a
	// concurrent run instead of failing immediately.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a statement with exponential backoff on
// "database is locked" errors from concurrent initialization.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun persists a summary table as a new run and returns its ID. The run
// row and all subject rows commit atomically.
func (s *Store) SaveRun(label string, rows []summary.Row) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, label, created_at) VALUES (?, ?, ?)`,
		runID, label, time.Now().UTC(),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO summary_rows
		(run_id, subject, of_center_pct, of_distance_m,
		 ld_light_pct, ld_distance_m, ld_transitions,
		 sg_duration_s, sg_bouts, marbles, genotype, sex)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare row insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(
			runID, row.Subject, row.OFCenterPct, row.OFDistanceM,
			row.LDLightPct, row.LDDistanceM, row.LDTransitions,
			row.SGDurationSec, row.SGBouts, row.Marbles, row.Genotype, row.Sex,
		); err != nil {
			return "", fmt.Errorf("insert row for %s: %w", row.Subject, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// GetRun loads the summary rows of a persisted run, in subject order.
func (s *Store) GetRun(runID string) ([]summary.Row, error) {
	rows, err := s.db.Query(`SELECT subject, of_center_pct, of_distance_m,
		ld_light_pct, ld_distance_m, ld_transitions,
		sg_duration_s, sg_bouts, marbles, genotype, sex
		FROM summary_rows WHERE run_id = ? ORDER BY subject`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	defer rows.Close()

	var result []summary.Row
	for rows.Next() {
		var r summary.Row
		if err := rows.Scan(
			&r.Subject, &r.OFCenterPct, &r.OFDistanceM,
			&r.LDLightPct, &r.LDDistanceM, &r.LDTransitions,
			&r.SGDurationSec, &r.SGBouts, &r.Marbles, &r.Genotype, &r.Sex,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("run %s not found or empty", runID)
	}
	return result, nil
}

// ListRuns returns all persisted runs, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`SELECT r.id, r.label, r.created_at, COUNT(sr.subject)
		FROM runs r LEFT JOIN summary_rows sr ON sr.run_id = r.id
		GROUP BY r.id ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Label, &r.CreatedAt, &r.Subjects); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
