package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paywatch/paywatch-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	minutes []models.MinuteAggregate
	rates   []models.FailureRateRow
	since   time.Time
	err     error
}

func (f *fakeReportRepo) MinuteAggregates(ctx context.Context, since time.Time) ([]models.MinuteAggregate, error) {
	f.since = since
	return f.minutes, f.err
}

func (f *fakeReportRepo) FailureRates(ctx context.Context, since time.Time) ([]models.FailureRateRow, error) {
	f.since = since
	return f.rates, f.err
}

func TestMinuteAggregatesAppliesLookback(t *testing.T) {
	repo := &fakeReportRepo{
		minutes: []models.MinuteAggregate{{Minute: "2025-07-12 13:44", Total: 100}},
	}
	svc := NewReportService(repo)

	rows, err := svc.MinuteAggregates(context.Background(), 2*time.Hour)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// The lookback is turned into an absolute cutoff near now-2h.
	expected := time.Now().Add(-2 * time.Hour)
	assert.WithinDuration(t, expected, repo.since, 5*time.Second)
}

func TestFailureRatesWrapsErrors(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{err: errors.New("db gone")})

	_, err := svc.FailureRates(context.Background(), time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failure rates")
}
