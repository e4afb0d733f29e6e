// Package store persists verification run history. Persistence is opt-in:
// the default driver keeps everything in memory for the session only.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/RandomVariable1470/suryaverify/internal/config"
	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

// RunStatus tracks a verification run's lifecycle.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one batch or interactive verification session.
type Run struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Status      RunStatus  `json:"status"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status RunStatus `json:"status,omitempty"`
	Limit  int       `json:"limit,omitempty"`
	Offset int       `json:"offset,omitempty"`
}

// Store defines the run-history persistence interface.
type Store interface {
	CreateRun(ctx context.Context, label string) (*Run, error)
	CompleteRun(ctx context.Context, runID string, succeeded, failed int) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	SaveRecord(ctx context.Context, runID string, rec verify.Record) error
	SaveRecords(ctx context.Context, runID string, recs []verify.Record) error
	ListRecords(ctx context.Context, runID string) ([]verify.Record, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open builds a Store for the configured driver and runs migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "", "none":
		s = NewMemory()
	case "sqlite":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}
