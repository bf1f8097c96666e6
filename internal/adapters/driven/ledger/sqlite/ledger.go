// Package sqlite provides a SQLite-backed ingest ledger.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/meridian-labs/grounded/internal/adapters/driven/ledger/sqlite/migrations"
	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
)

// Ensure Ledger implements the interface.
var _ driven.IngestLedger = (*Ledger)(nil)

// Ledger records ingestion runs in a SQLite database.
type Ledger struct {
	db   *sql.DB
	path string
}

// NewLedger creates a ledger at the specified data directory.
// If dataDir is empty, defaults to ~/.grounded/data/ledger.db.
func NewLedger(dataDir string) (*Ledger, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".grounded", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ledger.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	l := &Ledger{
		db:   db,
		path: dbPath,
	}

	if err := l.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path returns the database file path.
func (l *Ledger) Path() string {
	return l.path
}

// migrate runs all pending migrations.
func (l *Ledger) migrate(fsys embed.FS) error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := l.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := l.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := l.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// RecordRun persists a completed report, pages included. Re-recording a
// document ID replaces the previous run.
func (l *Ledger) RecordRun(ctx context.Context, report *domain.IngestReport) error {
	if report == nil || report.DocumentID == "" {
		return fmt.Errorf("%w: report requires a document ID", domain.ErrInvalidInput)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ingest_runs (document_id, name, started_at, finished_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			name = excluded.name,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, report.DocumentID, report.Name, report.StartedAt.Unix(), report.FinishedAt.Unix())
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM ingest_pages WHERE document_id = ?", report.DocumentID); err != nil {
		return fmt.Errorf("clearing pages: %w", err)
	}

	for _, page := range report.Pages {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ingest_pages (document_id, page_number, status, record_key, error)
			VALUES (?, ?, ?, ?, ?)
		`, report.DocumentID, page.Number, string(page.Status), page.RecordKey, page.Error)
		if err != nil {
			return fmt.Errorf("saving page %d: %w", page.Number, err)
		}
	}

	return tx.Commit()
}

// GetRun returns the report for a document ID, pages in page order.
func (l *Ledger) GetRun(ctx context.Context, documentID string) (*domain.IngestReport, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT document_id, name, started_at, finished_at
		FROM ingest_runs WHERE document_id = ?
	`, documentID)

	report, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %q: %w", documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loading run: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT page_number, status, record_key, error
		FROM ingest_pages WHERE document_id = ?
		ORDER BY page_number
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("loading pages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var page domain.PageResult
		var status string
		if err := rows.Scan(&page.Number, &status, &page.RecordKey, &page.Error); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		page.Status = domain.PageStatus(status)
		report.Pages = append(report.Pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pages: %w", err)
	}

	return report, nil
}

// ListRuns returns the most recent runs, newest first, without page detail.
func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]domain.IngestReport, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT document_id, name, started_at, finished_at
		FROM ingest_runs
		ORDER BY started_at DESC, document_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var reports []domain.IngestReport
	for rows.Next() {
		report, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return reports, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.IngestReport, error) {
	var report domain.IngestReport
	var startedAt, finishedAt int64
	if err := s.Scan(&report.DocumentID, &report.Name, &startedAt, &finishedAt); err != nil {
		return nil, err
	}
	report.StartedAt = time.Unix(startedAt, 0).UTC()
	report.FinishedAt = time.Unix(finishedAt, 0).UTC()
	return &report, nil
}
