package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/paywatch/paywatch-backend/internal/models"
)

// SQLiteRepository implements all repositories using SQLite.
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository creates a new SQLite repository.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Writers serialize in SQLite; the busy timeout keeps the async persistence
	// goroutines from failing with SQLITE_BUSY under bursts.
	db, err := sqlx.Connect("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	// Concurrent readers during the async write path
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping verifies database connectivity for readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// RunMigrations runs database migrations.
func (r *SQLiteRepository) RunMigrations(migrationSQL string) error {
	_, err := r.db.Exec(migrationSQL)
	return err
}

// ObservationRepository implementation

func (r *SQLiteRepository) InsertObservation(ctx context.Context, obs *models.Observation) error {
	query := `INSERT INTO transactions (timestamp, status, count, created_at) VALUES (?, ?, ?, ?)`
	return instrumentQuery("insert_observation", func() error {
		res, err := r.db.ExecContext(ctx, query, obs.Timestamp, obs.Status, obs.Count, time.Now())
		if err != nil {
			return err
		}
		if id, err := res.LastInsertId(); err == nil {
			obs.ID = id
		}
		return nil
	})
}

func (r *SQLiteRepository) ListObservationsSince(ctx context.Context, since time.Time) ([]models.Observation, error) {
	var observations []models.Observation
	query := `
		SELECT id, timestamp, status, count, created_at
		FROM transactions
		WHERE timestamp >= ?
		ORDER BY timestamp ASC, id ASC
	`
	err := instrumentQuery("list_observations", func() error {
		return r.db.SelectContext(ctx, &observations, query, since)
	})
	return observations, err
}

// AlertRepository implementation

func (r *SQLiteRepository) InsertAlert(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (id, timestamp, alert_type, severity, status, metric_value, threshold_value, anomaly_score, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return instrumentQuery("insert_alert", func() error {
		_, err := r.db.ExecContext(ctx, query,
			alert.ID,
			alert.Timestamp,
			alert.AlertType,
			alert.Severity,
			alert.Status,
			alert.MetricValue,
			alert.ThresholdValue,
			alert.AnomalyScore,
			alert.Message,
			alert.CreatedAt,
		)
		return err
	})
}

func (r *SQLiteRepository) ListAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	var alerts []models.Alert
	query := `
		SELECT id, timestamp, alert_type, severity, status, metric_value, threshold_value, anomaly_score, message, created_at
		FROM alerts
		ORDER BY created_at DESC
		LIMIT ?
	`
	err := instrumentQuery("list_alerts", func() error {
		return r.db.SelectContext(ctx, &alerts, query, limit)
	})
	return alerts, err
}

// BaselineRepository implementation

func (r *SQLiteRepository) ReplaceBaselines(ctx context.Context, rows []models.StatusBaseline) error {
	return instrumentQuery("replace_baselines", func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, `DELETE FROM baseline_stats`); err != nil {
			return err
		}
		query := `
			INSERT INTO baseline_stats (status, mean_count, std_count, mean_rate, std_rate, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, query,
				row.Status, row.MeanCount, row.StdCount, row.MeanRate, row.StdRate, row.UpdatedAt,
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

func (r *SQLiteRepository) ListBaselines(ctx context.Context) ([]models.StatusBaseline, error) {
	var rows []models.StatusBaseline
	query := `SELECT status, mean_count, std_count, mean_rate, std_rate, updated_at FROM baseline_stats`
	err := instrumentQuery("list_baselines", func() error {
		return r.db.SelectContext(ctx, &rows, query)
	})
	return rows, err
}
