// Package state provides audit store backends for persisted analysis runs.
package state

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
	_ "modernc.org/sqlite"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

// SQLiteStore implements core.AuditStore with SQLite storage. The full
// record is stored as a JSON document alongside indexed summary columns.
type SQLiteStore struct {
	dbPath string
	db     *sql.DB
	mu     sync.RWMutex
}

// NewSQLiteStore opens (creating if needed) an audit database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}

	// WAL mode for better concurrency between readers and the writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	s := &SQLiteStore{dbPath: dbPath, db: db}
	if err := s.migrate(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("running migrations: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		// Table doesn't exist yet, run initial migration
		version = 0
	}
	if version < 1 {
		if _, err := s.db.Exec(migrationV1); err != nil {
			return fmt.Errorf("applying migration v1: %w", err)
		}
	}
	return nil
}

// SaveRun persists a record, replacing any previous version of the same run.
func (s *SQLiteStore) SaveRun(ctx context.Context, rec *core.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	truncated := 0
	if rec.Truncated {
		truncated = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, subject, sector, path, risk_level, confidence,
			truncated, record, created_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subject = excluded.subject,
			sector = excluded.sector,
			path = excluded.path,
			risk_level = excluded.risk_level,
			confidence = excluded.confidence,
			truncated = excluded.truncated,
			record = excluded.record,
			completed_at = excluded.completed_at
	`,
		string(rec.RunID), rec.Subject, rec.Sector, string(rec.SelectedPath),
		string(rec.RiskLevel), rec.Confidence, truncated, string(doc),
		rec.CreatedAt, nullableTime(rec.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting run %s: %w", rec.RunID, err)
	}
	return nil
}

// LoadRun retrieves a record by run ID. Returns nil and no error when the
// run doesn't exist.
func (s *SQLiteStore) LoadRun(ctx context.Context, id core.RunID) (*core.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT record FROM runs WHERE id = ?", string(id)).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}

	var rec core.AnalysisRecord
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling run %s: %w", id, err)
	}
	return &rec, nil
}

// ListRuns returns summaries of all persisted runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]core.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subject, sector, path, risk_level, confidence, truncated, created_at
		FROM runs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var summaries []core.RunSummary
	for rows.Next() {
		var sum core.RunSummary
		var id, path, riskLevel string
		var sector sql.NullString
		var truncated int
		if err := rows.Scan(&id, &sum.Subject, &sector, &path, &riskLevel,
			&sum.Confidence, &truncated, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run summary: %w", err)
		}
		sum.RunID = core.RunID(id)
		sum.Path = core.Path(path)
		sum.RiskLevel = core.RiskLevel(riskLevel)
		sum.Truncated = truncated != 0
		if sector.Valid {
			sum.Sector = sector.String
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run summaries: %w", err)
	}
	return summaries, nil
}

// DeleteRun removes a persisted run.
func (s *SQLiteStore) DeleteRun(ctx context.Context, id core.RunID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("deleting run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound("run", string(id))
	}
	return nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Verify that SQLiteStore implements core.AuditStore.
var _ core.AuditStore = (*SQLiteStore)(nil)
