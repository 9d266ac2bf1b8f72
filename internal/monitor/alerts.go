package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/paywatch/paywatch-backend/internal/models"
	"github.com/paywatch/paywatch-backend/internal/pkg/metrics"
	"github.com/paywatch/paywatch-backend/internal/repository"
)

// AlertSink receives every recorded alert. Implementations must not block;
// delivery failures are theirs to log. The register guarantees an alert is
// classified and recorded, not that a given sink receives it.
type AlertSink interface {
	Notify(alert models.Alert)
}

// AlertRegister persists alerts durably and retains a bounded recency buffer.
// No deduplication: a sustained anomaly raises one alert per violating ingest,
// keeping the history as an evidence trail.
type AlertRegister struct {
	repo     repository.AlertRepository
	logger   *slog.Logger
	sinks    []AlertSink
	history  []models.Alert
	capacity int
}

// NewAlertRegister creates a register with a bounded in-memory history.
func NewAlertRegister(repo repository.AlertRepository, capacity int, logger *slog.Logger, sinks ...AlertSink) *AlertRegister {
	if capacity < 1 {
		capacity = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertRegister{
		repo:     repo,
		logger:   logger,
		sinks:    sinks,
		history:  make([]models.Alert, 0, capacity),
		capacity: capacity,
	}
}

// Record appends the alert to the recency buffer, persists it asynchronously,
// and fans it out to the configured sinks. A failed durable write is logged
// and counted, never surfaced to the ingest caller.
func (r *AlertRegister) Record(alert models.Alert) {
	if len(r.history) == r.capacity {
		r.history = append(r.history[1:], alert)
	} else {
		r.history = append(r.history, alert)
	}

	metrics.AlertsEmittedTotal.WithLabelValues(alert.Status, alert.Severity).Inc()
	r.logger.Warn("alert raised",
		"severity", alert.Severity,
		"status", alert.Status,
		"rate", alert.MetricValue,
		"anomaly_score", alert.AnomalyScore,
		"message", alert.Message,
	)

	if r.repo != nil {
		go r.persist(alert)
	}
	for _, sink := range r.sinks {
		sink.Notify(alert)
	}
}

func (r *AlertRegister) persist(alert models.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.repo.InsertAlert(ctx, &alert); err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("insert_alert").Inc()
		r.logger.Error("failed to persist alert", "alert_id", alert.ID, "err", err)
	}
}

// Recent returns the last limit alerts in chronological ascending order,
// newest at the end.
func (r *AlertRegister) Recent(limit int) []models.Alert {
	if limit <= 0 || limit > len(r.history) {
		limit = len(r.history)
	}
	out := make([]models.Alert, limit)
	copy(out, r.history[len(r.history)-limit:])
	return out
}
