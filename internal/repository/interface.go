package repository

import (
	"context"
	"time"

	"github.com/paywatch/paywatch-backend/internal/models"
)

// ObservationRepository defines append-only transaction persistence.
type ObservationRepository interface {
	InsertObservation(ctx context.Context, obs *models.Observation) error
	// ListObservationsSince returns persisted observations with timestamp >=
	// since, oldest first. Used by baseline rebuilds.
	ListObservationsSince(ctx context.Context, since time.Time) ([]models.Observation, error)
}

// AlertRepository defines append-only alert persistence.
type AlertRepository interface {
	InsertAlert(ctx context.Context, alert *models.Alert) error
	ListAlerts(ctx context.Context, limit int) ([]models.Alert, error)
}

// BaselineRepository defines replace-all persistence for baseline statistics.
type BaselineRepository interface {
	ReplaceBaselines(ctx context.Context, rows []models.StatusBaseline) error
	ListBaselines(ctx context.Context) ([]models.StatusBaseline, error)
}

// ReportRepository defines read-only aggregate queries for operations reports.
type ReportRepository interface {
	MinuteAggregates(ctx context.Context, since time.Time) ([]models.MinuteAggregate, error)
	FailureRates(ctx context.Context, since time.Time) ([]models.FailureRateRow, error)
}
