// Package monitor implements the transaction monitoring core: a rolling
// observation window, a long-run baseline model, the hybrid rule/statistical
// anomaly engine, and the alert register. Everything stateful lives behind a
// single Monitor instance constructed at startup and passed to the transport
// layer; there are no package-level singletons.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/paywatch/paywatch-backend/internal/config"
	"github.com/paywatch/paywatch-backend/internal/models"
	"github.com/paywatch/paywatch-backend/internal/pkg/metrics"
	"github.com/paywatch/paywatch-backend/internal/repository"
)

// Store is the persistence collaborator the monitor needs.
type Store interface {
	repository.ObservationRepository
	repository.AlertRepository
	repository.BaselineRepository
}

// Monitor is the ingest-to-alert pipeline. A single mutex protects the window,
// baseline, and alert register so concurrent handlers never interleave window
// mutation with metric computation; durable writes are issued outside the
// response path and their failures are logged only.
type Monitor struct {
	mu       sync.Mutex
	cfg      *config.Config
	window   *RollingWindow
	baseline *BaselineModel
	detector *Detector
	register *AlertRegister
	store    Store
	logger   *slog.Logger
	now      func() time.Time
}

// New constructs the monitoring core. Sinks receive every recorded alert.
func New(cfg *config.Config, store Store, logger *slog.Logger, sinks ...AlertSink) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		cfg:      cfg,
		window:   NewRollingWindow(cfg.WindowCapacity),
		baseline: NewBaselineModel(store, logger),
		detector: NewDetector(cfg),
		register: NewAlertRegister(store, cfg.AlertHistorySize, logger, sinks...),
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the monitor's notion of now. Test hook.
func (m *Monitor) SetClock(now func() time.Time) {
	m.now = now
}

// Ingest validates and appends one observation, re-derives metrics over the
// medium window, evaluates the anomaly engine, and records any resulting
// alerts. This is the single entry point driving the pipeline end to end.
func (m *Monitor) Ingest(ctx context.Context, obs models.Observation) (models.IngestResult, error) {
	if err := obs.Validate(); err != nil {
		return models.IngestResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.window.Append(obs)
	metrics.ObservationsIngestedTotal.WithLabelValues(obs.Status).Inc()
	go m.persistObservation(obs)

	cutoff := m.now().Add(-time.Duration(m.cfg.WindowMediumMin) * time.Minute)
	recent := m.window.Recent(cutoff)
	if len(recent) < m.detector.MinSamples() {
		return models.IngestResult{
			Alerts:  []models.Alert{},
			Message: "insufficient data for analysis",
		}, nil
	}

	snapshot := ComputeWindowMetrics(recent, m.cfg.WindowMediumMin)
	alerts := m.detector.Evaluate(snapshot, m.baseline.Table(), m.now())

	maxScore := 0.0
	for _, alert := range alerts {
		m.register.Record(alert)
		if alert.AnomalyScore > maxScore {
			maxScore = alert.AnomalyScore
		}
	}
	metrics.AnomalyScore.Observe(maxScore)

	return models.IngestResult{
		ShouldAlert:  len(alerts) > 0,
		AnomalyScore: maxScore,
		Alerts:       alerts,
	}, nil
}

// persistObservation mirrors an append to durable storage. Fire-and-forget:
// the in-memory window remains authoritative for the process lifetime.
func (m *Monitor) persistObservation(obs models.Observation) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.store.InsertObservation(ctx, &obs); err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("insert_observation").Inc()
		m.logger.Error("failed to persist observation", "status", obs.Status, "err", err)
	}
}

// GetWindowMetrics returns a read-only snapshot over the given lookback.
// Repeated calls without intervening ingests return identical results.
func (m *Monitor) GetWindowMetrics(windowMinutes int) models.WindowMetrics {
	if windowMinutes <= 0 {
		windowMinutes = m.cfg.WindowMediumMin
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-time.Duration(windowMinutes) * time.Minute)
	return ComputeWindowMetrics(m.window.Recent(cutoff), windowMinutes)
}

// GetRecentAlerts returns the last limit alerts, chronological ascending.
func (m *Monitor) GetRecentAlerts(limit int) []models.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.register.Recent(limit)
}

// GetBaseline returns the current baseline table.
func (m *Monitor) GetBaseline() map[string]models.StatusBaseline {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseline.Table()
}

// LoadBaseline restores the persisted baseline table, typically at startup.
func (m *Monitor) LoadBaseline(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseline.Load(ctx)
}

// HasBaseline reports whether any baseline statistics are loaded.
func (m *Monitor) HasBaseline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.baseline.Table()) > 0
}

// RebuildBaseline recomputes the baseline from the given historical
// observations and swaps it in atomically. Rare, operator-triggered; holds the
// same lock as the ingest path.
func (m *Monitor) RebuildBaseline(ctx context.Context, historical []models.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseline.Rebuild(ctx, historical)
}

// RebuildBaselineFromStore recomputes the baseline from persisted
// observations over the long window, falling back to everything on record
// when the long window is empty.
func (m *Monitor) RebuildBaselineFromStore(ctx context.Context) error {
	since := m.now().Add(-time.Duration(m.cfg.WindowLongMin) * time.Minute)
	historical, err := m.store.ListObservationsSince(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to read historical observations: %w", err)
	}
	if len(historical) == 0 {
		historical, err = m.store.ListObservationsSince(ctx, time.Time{})
		if err != nil {
			return fmt.Errorf("failed to read historical observations: %w", err)
		}
	}
	return m.RebuildBaseline(ctx, historical)
}
