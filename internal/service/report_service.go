package service

import (
	"context"
	"fmt"
	"time"

	"github.com/paywatch/paywatch-backend/internal/models"
	"github.com/paywatch/paywatch-backend/internal/repository"
)

// ReportService exposes read-only aggregate reports over the persisted
// transaction log. Reports look at durable storage, not the in-memory window,
// so they survive restarts and can span longer ranges.
type ReportService interface {
	MinuteAggregates(ctx context.Context, lookback time.Duration) ([]models.MinuteAggregate, error)
	FailureRates(ctx context.Context, lookback time.Duration) ([]models.FailureRateRow, error)
}

type reportService struct {
	repo repository.ReportRepository
}

// NewReportService creates a new report service.
func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) MinuteAggregates(ctx context.Context, lookback time.Duration) ([]models.MinuteAggregate, error) {
	rows, err := s.repo.MinuteAggregates(ctx, time.Now().Add(-lookback))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by minute: %w", err)
	}
	return rows, nil
}

func (s *reportService) FailureRates(ctx context.Context, lookback time.Duration) ([]models.FailureRateRow, error) {
	rows, err := s.repo.FailureRates(ctx, time.Now().Add(-lookback))
	if err != nil {
		return nil, fmt.Errorf("failed to compute failure rates: %w", err)
	}
	return rows, nil
}
