// Package monitoring aggregates session and run-history health for the
// dashboard's stats endpoint.
package monitoring

import (
	"context"
	"time"

	"github.com/RandomVariable1470/suryaverify/internal/cost"
	"github.com/RandomVariable1470/suryaverify/internal/store"
	"github.com/RandomVariable1470/suryaverify/internal/verify"
	"github.com/RandomVariable1470/suryaverify/pkg/inference"
)

// MetricsSnapshot holds a point-in-time view of the current session and
// stored run history.
type MetricsSnapshot struct {
	// Session metrics.
	SessionRecords    int     `json:"session_records"`
	SessionWithSolar  int     `json:"session_with_solar"`
	SessionVerifiable int     `json:"session_verifiable"`
	AvgConfidence     float64 `json:"avg_confidence"`
	TotalCapacityKW   float64 `json:"total_capacity_kw"`

	// Spend so far.
	Cost cost.Snapshot `json:"cost"`

	// Stored run history.
	RunsTotal     int `json:"runs_total"`
	RunsCompleted int `json:"runs_completed"`
	RunsFailed    int `json:"runs_failed"`

	CollectedAt time.Time `json:"collected_at"`
}

// Collector gathers metrics from the live session, the cost tracker, and
// the run store.
type Collector struct {
	session *verify.Session
	tracker *cost.Tracker
	store   store.Store
}

// NewCollector creates a collector. Any source may be nil; its metrics stay
// zero.
func NewCollector(session *verify.Session, tracker *cost.Tracker, st store.Store) *Collector {
	return &Collector{session: session, tracker: tracker, store: st}
}

// Collect builds a snapshot. Store errors zero the run metrics rather than
// failing the whole snapshot; live session stats are always available.
func (c *Collector) Collect(ctx context.Context) MetricsSnapshot {
	snap := MetricsSnapshot{CollectedAt: time.Now().UTC()}

	if c.session != nil {
		records := c.session.Records()
		snap.SessionRecords = len(records)
		var confidenceSum float64
		for _, rec := range records {
			if rec.HasSolar {
				snap.SessionWithSolar++
			}
			if rec.QCStatus == inference.QCVerifiable {
				snap.SessionVerifiable++
			}
			confidenceSum += rec.Confidence
			snap.TotalCapacityKW += rec.CapacityKWEst
		}
		if len(records) > 0 {
			snap.AvgConfidence = confidenceSum / float64(len(records))
		}
	}

	if c.tracker != nil {
		snap.Cost = c.tracker.Snapshot()
	}

	if c.store != nil {
		if runs, err := c.store.ListRuns(ctx, store.RunFilter{}); err == nil {
			snap.RunsTotal = len(runs)
			for _, r := range runs {
				switch r.Status {
				case store.RunStatusCompleted:
					snap.RunsCompleted++
				case store.RunStatusFailed:
					snap.RunsFailed++
				}
			}
		}
	}

	return snap
}
