package monitor

import (
	"testing"
	"time"

	"github.com/paywatch/paywatch-backend/internal/models"
)

func obsAt(ts time.Time, status string, count int) models.Observation {
	return models.Observation{Timestamp: ts, Status: status, Count: count}
}

func TestRollingWindowAppendAndRecent(t *testing.T) {
	now := time.Date(2025, 7, 12, 13, 45, 0, 0, time.UTC)
	w := NewRollingWindow(10)

	w.Append(obsAt(now.Add(-20*time.Minute), "approved", 10))
	w.Append(obsAt(now.Add(-10*time.Minute), "approved", 20))
	w.Append(obsAt(now.Add(-1*time.Minute), "failed", 5))

	recent := w.Recent(now.Add(-15 * time.Minute))
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent observations, got %d", len(recent))
	}
	if recent[0].Count != 20 || recent[1].Count != 5 {
		t.Fatalf("recent observations out of arrival order: %+v", recent)
	}
}

func TestRollingWindowCapacityEviction(t *testing.T) {
	now := time.Date(2025, 7, 12, 13, 45, 0, 0, time.UTC)
	const capacity = 100
	w := NewRollingWindow(capacity)

	for i := 0; i < capacity+1; i++ {
		w.Append(obsAt(now, "approved", i))
	}

	if w.Len() != capacity {
		t.Fatalf("expected %d retained after overflow, got %d", capacity, w.Len())
	}

	retained := w.Recent(time.Time{})
	if retained[0].Count != 1 {
		t.Fatalf("expected oldest observation evicted first, head count = %d", retained[0].Count)
	}
	if retained[len(retained)-1].Count != capacity {
		t.Fatalf("expected newest observation at tail, tail count = %d", retained[len(retained)-1].Count)
	}
}

func TestRollingWindowToleratesOutOfOrderArrival(t *testing.T) {
	now := time.Date(2025, 7, 12, 13, 45, 0, 0, time.UTC)
	w := NewRollingWindow(10)

	w.Append(obsAt(now, "approved", 1))
	w.Append(obsAt(now.Add(-30*time.Minute), "approved", 2)) // late arrival

	// Late data is retained in arrival order but filtered by the cutoff.
	all := w.Recent(time.Time{})
	if len(all) != 2 {
		t.Fatalf("expected 2 retained, got %d", len(all))
	}
	recent := w.Recent(now.Add(-15 * time.Minute))
	if len(recent) != 1 || recent[0].Count != 1 {
		t.Fatalf("late observation should be outside the window: %+v", recent)
	}
}
