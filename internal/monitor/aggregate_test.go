package monitor

import (
	"math"
	"testing"
	"time"

	"github.com/paywatch/paywatch-backend/internal/models"
)

func TestComputeWindowMetricsEmpty(t *testing.T) {
	m := ComputeWindowMetrics(nil, 15)
	if !m.Empty() {
		t.Fatalf("expected empty metrics, got %+v", m)
	}
	if m.Statuses == nil {
		t.Fatal("statuses map must be non-nil even when empty")
	}
}

func TestComputeWindowMetricsZeroTotal(t *testing.T) {
	now := time.Now()
	observations := []models.Observation{
		obsAt(now, "approved", 0),
		obsAt(now, "failed", 0),
	}

	m := ComputeWindowMetrics(observations, 15)
	if m.Total != 0 {
		t.Fatalf("expected total 0, got %d", m.Total)
	}
	for status, sm := range m.Statuses {
		if sm.Rate != 0 {
			t.Fatalf("expected rate 0 for %s with zero total, got %f", status, sm.Rate)
		}
	}
}

func TestComputeWindowMetricsRates(t *testing.T) {
	now := time.Now()
	observations := []models.Observation{
		obsAt(now, "approved", 90),
		obsAt(now, "failed", 6),
		obsAt(now, "failed", 4),
	}

	m := ComputeWindowMetrics(observations, 15)
	if m.Total != 100 {
		t.Fatalf("expected total 100, got %d", m.Total)
	}

	failed := m.Statuses["failed"]
	if failed.Count != 10 {
		t.Fatalf("expected failed count 10, got %d", failed.Count)
	}
	if math.Abs(failed.Rate-10.0) > 1e-9 {
		t.Fatalf("expected failed rate 10%%, got %f", failed.Rate)
	}
	if math.Abs(failed.AvgPerPeriod-5.0) > 1e-9 {
		t.Fatalf("expected avg per period 5, got %f", failed.AvgPerPeriod)
	}
	// Sample std of {6, 4} is sqrt(2)
	if math.Abs(failed.StdPerPeriod-math.Sqrt2) > 1e-9 {
		t.Fatalf("expected std per period sqrt(2), got %f", failed.StdPerPeriod)
	}
}

func TestComputeWindowMetricsSingleSampleStdIsZero(t *testing.T) {
	m := ComputeWindowMetrics([]models.Observation{obsAt(time.Now(), "denied", 7)}, 15)
	denied := m.Statuses["denied"]
	if denied.StdPerPeriod != 0 {
		t.Fatalf("std of a single sample must be 0, got %f", denied.StdPerPeriod)
	}
	if denied.Rate != 100 {
		t.Fatalf("sole status should be 100%% of total, got %f", denied.Rate)
	}
}
