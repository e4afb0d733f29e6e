package main

import (
	"context"
	"time"

	"github.com/RandomVariable1470/suryaverify/internal/annotation"
	"github.com/RandomVariable1470/suryaverify/internal/config"
	"github.com/RandomVariable1470/suryaverify/internal/cost"
	"github.com/RandomVariable1470/suryaverify/internal/export"
	"github.com/RandomVariable1470/suryaverify/internal/geo"
	"github.com/RandomVariable1470/suryaverify/internal/monitoring"
	"github.com/RandomVariable1470/suryaverify/internal/solar"
	"github.com/RandomVariable1470/suryaverify/internal/store"
	"github.com/RandomVariable1470/suryaverify/internal/verify"
	"github.com/RandomVariable1470/suryaverify/pkg/imagery"
	"github.com/RandomVariable1470/suryaverify/pkg/inference"
)

// verifyEnv holds the initialized clients and engines shared by the verify,
// batch, and serve commands.
type verifyEnv struct {
	Verifier    *verify.Verifier
	Session     *verify.Session
	Annotations *annotation.Engine
	Estimator   *solar.Estimator
	Exporter    *export.Exporter
	Store       store.Store
	Tracker     *cost.Tracker
	Stats       *monitoring.Collector
}

// Close releases resources held by the environment.
func (e *verifyEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv wires imagery, inference, the estimator, and the optional store
// into a verifier. Callers should defer env.Close().
func initEnv(ctx context.Context) (*verifyEnv, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	tracker := cost.NewTracker()

	img := imagery.NewClient(cfg.Imagery.Token, imagery.Options{
		BaseURL:    cfg.Imagery.BaseURL,
		Style:      cfg.Imagery.Style,
		Zoom:       cfg.Imagery.Zoom,
		Size:       cfg.Imagery.Size,
		HighDPI:    cfg.Imagery.HighDPI,
		RatePerSec: cfg.Imagery.RatePerSec,
		Timeout:    time.Duration(cfg.Imagery.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Imagery.MaxRetries,
		Tracker:    tracker,
	})

	inf := inference.NewClient(cfg.Inference.Key, inference.Options{
		Model:     cfg.Inference.Model,
		MaxTokens: cfg.Inference.MaxTokens,
		Tracker:   tracker,
	})

	est := solar.NewEstimator(assumptionsFromConfig(cfg.Solar))
	session := verify.NewSession()
	bounds := geo.Bounds{
		MinLat: cfg.Domain.MinLat,
		MaxLat: cfg.Domain.MaxLat,
		MinLon: cfg.Domain.MinLon,
		MaxLon: cfg.Domain.MaxLon,
	}

	return &verifyEnv{
		Verifier:    verify.New(img, inf, bounds, est, session),
		Session:     session,
		Annotations: annotation.NewEngine(),
		Estimator:   est,
		Exporter:    export.New(),
		Store:       st,
		Tracker:     tracker,
		Stats:       monitoring.NewCollector(session, tracker, st),
	}, nil
}

func assumptionsFromConfig(sc config.SolarConfig) solar.Assumptions {
	return solar.Assumptions{
		PanelAreaSqm:     sc.PanelAreaSqm,
		UsableAreaRatio:  sc.UsableAreaRatio,
		PanelCapacityKW:  sc.PanelCapacityKW,
		DailyYieldPerKW:  sc.DailyYieldPerKW,
		TariffPerKWh:     sc.TariffPerKWh,
		GridCO2PerKWh:    sc.GridCO2PerKWh,
		CO2PerTreeYear:   sc.CO2PerTreeYear,
		CapacityKWPerSqm: sc.CapacityKWPerSqm,
	}
}
