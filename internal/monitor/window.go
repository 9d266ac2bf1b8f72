package monitor

import (
	"time"

	"github.com/paywatch/paywatch-backend/internal/models"
)

// RollingWindow retains a bounded number of recent observations in arrival
// order, evicting the oldest on overflow. Consumers always re-derive metrics
// from the current contents, so eviction needs no invalidation.
//
// Not safe for concurrent use; the Monitor serialises access.
type RollingWindow struct {
	buf      []models.Observation
	head     int // index of the oldest retained observation
	size     int
	capacity int
}

// NewRollingWindow creates a window retaining at most capacity observations.
func NewRollingWindow(capacity int) *RollingWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &RollingWindow{
		buf:      make([]models.Observation, capacity),
		capacity: capacity,
	}
}

// Append adds an observation at the tail, evicting the oldest when full.
func (w *RollingWindow) Append(obs models.Observation) {
	tail := (w.head + w.size) % w.capacity
	w.buf[tail] = obs
	if w.size < w.capacity {
		w.size++
		return
	}
	// Full: the slot we just wrote was the oldest.
	w.head = (w.head + 1) % w.capacity
}

// Recent returns all retained observations with timestamp >= cutoff, in
// arrival order. Out-of-order arrivals are tolerated, not corrected, so a late
// observation older than the cutoff is simply filtered out.
func (w *RollingWindow) Recent(cutoff time.Time) []models.Observation {
	out := make([]models.Observation, 0, w.size)
	for i := 0; i < w.size; i++ {
		obs := w.buf[(w.head+i)%w.capacity]
		if !obs.Timestamp.Before(cutoff) {
			out = append(out, obs)
		}
	}
	return out
}

// Len returns the number of retained observations.
func (w *RollingWindow) Len() int {
	return w.size
}
