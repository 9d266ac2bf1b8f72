package repository

import (
	"context"
	"time"

	"github.com/paywatch/paywatch-backend/internal/models"
)

// ReportRepository implementation. These are the operations-report queries:
// minute-level pivots and failure-rate series over the persisted transaction
// log, read-only and independent of the in-memory window.

func (r *SQLiteRepository) MinuteAggregates(ctx context.Context, since time.Time) ([]models.MinuteAggregate, error) {
	var rows []models.MinuteAggregate
	query := `
		SELECT
			strftime('%Y-%m-%d %H:%M', timestamp) AS minute,
			SUM(CASE WHEN status = 'approved' THEN count ELSE 0 END) AS approved,
			SUM(CASE WHEN status = 'failed' THEN count ELSE 0 END) AS failed,
			SUM(CASE WHEN status = 'denied' THEN count ELSE 0 END) AS denied,
			SUM(CASE WHEN status = 'reversed' THEN count ELSE 0 END) AS reversed,
			SUM(CASE WHEN status = 'backend_reversed' THEN count ELSE 0 END) AS backend_reversed,
			SUM(CASE WHEN status = 'refunded' THEN count ELSE 0 END) AS refunded,
			SUM(count) AS total
		FROM transactions
		WHERE timestamp >= ?
		GROUP BY minute
		ORDER BY minute DESC
	`
	err := instrumentQuery("minute_aggregates", func() error {
		return r.db.SelectContext(ctx, &rows, query, since)
	})
	return rows, err
}

func (r *SQLiteRepository) FailureRates(ctx context.Context, since time.Time) ([]models.FailureRateRow, error) {
	var rows []models.FailureRateRow
	query := `
		SELECT
			strftime('%Y-%m-%d %H:%M', timestamp) AS minute,
			SUM(count) AS total,
			SUM(CASE WHEN status IN ('failed', 'denied', 'reversed', 'backend_reversed') THEN count ELSE 0 END) AS failures,
			COALESCE(ROUND(
				100.0 * SUM(CASE WHEN status IN ('failed', 'denied', 'reversed', 'backend_reversed') THEN count ELSE 0 END) /
				NULLIF(SUM(count), 0),
				2
			), 0) AS failure_rate,
			COALESCE(ROUND(100.0 * SUM(CASE WHEN status = 'failed' THEN count ELSE 0 END) / NULLIF(SUM(count), 0), 2), 0) AS failed_rate,
			COALESCE(ROUND(100.0 * SUM(CASE WHEN status = 'denied' THEN count ELSE 0 END) / NULLIF(SUM(count), 0), 2), 0) AS denied_rate,
			COALESCE(ROUND(100.0 * SUM(CASE WHEN status = 'reversed' THEN count ELSE 0 END) / NULLIF(SUM(count), 0), 2), 0) AS reversed_rate
		FROM transactions
		WHERE timestamp >= ?
		GROUP BY minute
		ORDER BY minute DESC
	`
	err := instrumentQuery("failure_rates", func() error {
		return r.db.SelectContext(ctx, &rows, query, since)
	})
	return rows, err
}
