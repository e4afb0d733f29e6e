package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/RandomVariable1470/suryaverify/internal/db"
	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	if connString == "" {
		return nil, eris.New("postgres: database_url is required for the postgres driver")
	}
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           UUID PRIMARY KEY,
	label        TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	succeeded    INTEGER NOT NULL DEFAULT 0,
	failed       INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS records (
	id        UUID PRIMARY KEY,
	run_id    UUID NOT NULL REFERENCES runs(id),
	sample_id INTEGER NOT NULL,
	record    JSONB NOT NULL,
	saved_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, label string) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, label, status, created_at) VALUES ($1, $2, $3, $4)`,
		id, label, string(RunStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return &Run{ID: id, Label: label, Status: RunStatusRunning, CreatedAt: now}, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, succeeded, failed int) error {
	status := RunStatusCompleted
	if succeeded == 0 && failed > 0 {
		status = RunStatusFailed
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, succeeded = $2, failed = $3, completed_at = $4 WHERE id = $5`,
		string(status), succeeded, failed, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, label, status, succeeded, failed, created_at, completed_at FROM runs WHERE id = $1`,
		runID,
	)

	var r Run
	var completedAt *time.Time
	err := row.Scan(&r.ID, &r.Label, &r.Status, &r.Succeeded, &r.Failed, &r.CreatedAt, &completedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("postgres: get run: not found: %s", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	r.CompletedAt = completedAt
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := `SELECT id, label, status, succeeded, failed, created_at, completed_at FROM runs`
	var args []any

	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var completedAt *time.Time
		if err := rows.Scan(&r.ID, &r.Label, &r.Status, &r.Succeeded, &r.Failed, &r.CreatedAt, &completedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		r.CompletedAt = completedAt
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) SaveRecord(ctx context.Context, runID string, rec verify.Record) error {
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal record")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO records (id, run_id, sample_id, record, saved_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), runID, rec.SampleID, recJSON, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: insert record for run %s", runID)
}

// SaveRecords bulk-inserts a batch's records via COPY.
func (s *PostgresStore) SaveRecords(ctx context.Context, runID string, recs []verify.Record) error {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		recJSON, err := json.Marshal(rec)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal record %d", rec.SampleID)
		}
		rows = append(rows, []any{uuid.New().String(), runID, rec.SampleID, recJSON, now})
	}

	_, err := db.CopyFrom(ctx, s.pool, "records",
		[]string{"id", "run_id", "sample_id", "record", "saved_at"}, rows)
	return eris.Wrapf(err, "postgres: copy records for run %s", runID)
}

func (s *PostgresStore) ListRecords(ctx context.Context, runID string) ([]verify.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT record FROM records WHERE run_id = $1 ORDER BY sample_id`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list records for run %s", runID)
	}
	defer rows.Close()

	var recs []verify.Record
	for rows.Next() {
		var recJSON []byte
		if err := rows.Scan(&recJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		var rec verify.Record
		if err := json.Unmarshal(recJSON, &rec); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal record")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: list records iterate")
}
