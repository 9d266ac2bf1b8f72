package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paywatch/paywatch-backend/internal/models"
	"github.com/paywatch/paywatch-backend/internal/repository"
)

// BaselineModel holds the long-run per-status mean/std reference. The table is
// replaced wholesale on load/rebuild so readers never observe a half-updated
// baseline; individual entries are never mutated in place.
type BaselineModel struct {
	repo   repository.BaselineRepository
	logger *slog.Logger
	table  map[string]models.StatusBaseline
}

// NewBaselineModel creates an empty baseline backed by the given repository.
func NewBaselineModel(repo repository.BaselineRepository, logger *slog.Logger) *BaselineModel {
	if logger == nil {
		logger = slog.Default()
	}
	return &BaselineModel{
		repo:   repo,
		logger: logger,
		table:  make(map[string]models.StatusBaseline),
	}
}

// Load replaces the in-memory table with the most recently persisted
// baselines. An empty store yields an empty table, not an error.
func (b *BaselineModel) Load(ctx context.Context) error {
	rows, err := b.repo.ListBaselines(ctx)
	if err != nil {
		return fmt.Errorf("failed to load baselines: %w", err)
	}
	table := make(map[string]models.StatusBaseline, len(rows))
	for _, row := range rows {
		table[row.Status] = row
	}
	b.table = table
	b.logger.Info("baseline loaded", "statuses", len(table))
	return nil
}

// Rebuild recomputes per-status statistics from historical observations,
// persists them, and swaps the in-memory table. Runs at startup and on
// operator-triggered refresh only, never per ingest.
func (b *BaselineModel) Rebuild(ctx context.Context, historical []models.Observation) error {
	if len(historical) == 0 {
		return fmt.Errorf("rebuild baseline: no historical observations")
	}

	now := time.Now().UTC()
	rows := computeBaselines(historical, now)

	if err := b.repo.ReplaceBaselines(ctx, rows); err != nil {
		return fmt.Errorf("failed to persist baselines: %w", err)
	}

	table := make(map[string]models.StatusBaseline, len(rows))
	for _, row := range rows {
		table[row.Status] = row
	}
	b.table = table
	b.logger.Info("baseline rebuilt", "statuses", len(table), "observations", len(historical))
	return nil
}

// Get returns the baseline for one status, if present.
func (b *BaselineModel) Get(status string) (models.StatusBaseline, bool) {
	row, ok := b.table[status]
	return row, ok
}

// Table returns the current baseline table. The map is replaced wholesale on
// load/rebuild and never mutated afterwards, so callers may read it freely.
func (b *BaselineModel) Table() map[string]models.StatusBaseline {
	return b.table
}

// computeBaselines derives per-status (mean_count, std_count) over raw
// observation counts and (mean_rate, std_rate) over minute-level rate of
// total.
func computeBaselines(historical []models.Observation, updatedAt time.Time) []models.StatusBaseline {
	totalPerMinute := make(map[time.Time]int)
	perStatus := make(map[string][]models.Observation)
	for _, obs := range historical {
		minute := obs.Timestamp.Truncate(time.Minute)
		totalPerMinute[minute] += obs.Count
		perStatus[obs.Status] = append(perStatus[obs.Status], obs)
	}

	rows := make([]models.StatusBaseline, 0, len(perStatus))
	for status, observations := range perStatus {
		counts := make([]float64, len(observations))
		statusPerMinute := make(map[time.Time]int)
		var first, last time.Time
		for i, obs := range observations {
			counts[i] = float64(obs.Count)
			minute := obs.Timestamp.Truncate(time.Minute)
			statusPerMinute[minute] += obs.Count
			if first.IsZero() || minute.Before(first) {
				first = minute
			}
			if minute.After(last) {
				last = minute
			}
		}

		// Minute-level rate of total across the status's observed span.
		// Minutes with no traffic at all contribute nothing.
		var rates []float64
		for minute := first; !minute.After(last); minute = minute.Add(time.Minute) {
			total := totalPerMinute[minute]
			if total == 0 {
				continue
			}
			rates = append(rates, float64(statusPerMinute[minute])/float64(total)*100)
		}

		rows = append(rows, models.StatusBaseline{
			Status:    status,
			MeanCount: mean(counts),
			StdCount:  sampleStd(counts),
			MeanRate:  mean(rates),
			StdRate:   sampleStd(rates),
			UpdatedAt: updatedAt,
		})
	}
	return rows
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
