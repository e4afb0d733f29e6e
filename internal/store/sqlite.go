package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, eris.New("sqlite: database_url is required for the sqlite driver")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	label        TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	succeeded    INTEGER NOT NULL DEFAULT 0,
	failed       INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at DATETIME
);

CREATE TABLE IF NOT EXISTS records (
	id        TEXT PRIMARY KEY,
	run_id    TEXT NOT NULL REFERENCES runs(id),
	sample_id INTEGER NOT NULL,
	record    TEXT NOT NULL,
	saved_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, label string) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, label, status, created_at) VALUES (?, ?, ?, ?)`,
		id, label, string(RunStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return &Run{ID: id, Label: label, Status: RunStatusRunning, CreatedAt: now}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, succeeded, failed int) error {
	status := RunStatusCompleted
	if succeeded == 0 && failed > 0 {
		status = RunStatusFailed
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, succeeded = ?, failed = ?, completed_at = ? WHERE id = ?`,
		string(status), succeeded, failed, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, label, status, succeeded, failed, created_at, completed_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := `SELECT id, label, status, succeeded, failed, created_at, completed_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) SaveRecord(ctx context.Context, runID string, rec verify.Record) error {
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal record")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, run_id, sample_id, record, saved_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), runID, rec.SampleID, string(recJSON), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert record for run %s", runID)
}

// SaveRecords inserts a batch's records in one transaction.
func (s *SQLiteStore) SaveRecords(ctx context.Context, runID string, recs []verify.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin records tx")
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	for _, rec := range recs {
		recJSON, err := json.Marshal(rec)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal record %d", rec.SampleID)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records (id, run_id, sample_id, record, saved_at) VALUES (?, ?, ?, ?, ?)`,
			uuid.New().String(), runID, rec.SampleID, string(recJSON), now,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert record %d for run %s", rec.SampleID, runID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit records")
}

func (s *SQLiteStore) ListRecords(ctx context.Context, runID string) ([]verify.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM records WHERE run_id = ? ORDER BY sample_id`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list records for run %s", runID)
	}
	defer rows.Close()

	var recs []verify.Record
	for rows.Next() {
		var recJSON string
		if err := rows.Scan(&recJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		var rec verify.Record
		if err := json.Unmarshal([]byte(recJSON), &rec); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal record")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*Run, error) {
	var r Run
	var completedAt sql.NullTime

	err := row.Scan(&r.ID, &r.Label, &r.Status, &r.Succeeded, &r.Failed, &r.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}
