package models

import (
	"fmt"
	"time"
)

// Transaction statuses reported by the payment pipeline. Any status may be
// ingested; only the monitored subset can raise alerts.
const (
	StatusApproved        = "approved"
	StatusFailed          = "failed"
	StatusDenied          = "denied"
	StatusReversed        = "reversed"
	StatusBackendReversed = "backend_reversed"
	StatusRefunded        = "refunded"
)

// MonitoredStatuses are the problem statuses evaluated by the anomaly engine.
var MonitoredStatuses = []string{
	StatusFailed,
	StatusDenied,
	StatusReversed,
	StatusBackendReversed,
}

// Observation is one timestamped transaction count for one status category.
// Immutable once created; owned by the rolling window after append.
type Observation struct {
	ID        int64     `json:"id,omitempty" db:"id"`
	Timestamp time.Time `json:"timestamp"    db:"timestamp"`
	Status    string    `json:"status"       db:"status"`
	Count     int       `json:"count"        db:"count"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}

// Validate rejects malformed observations before they reach the window.
func (o Observation) Validate() error {
	if o.Timestamp.IsZero() {
		return fmt.Errorf("observation: missing timestamp")
	}
	if o.Status == "" {
		return fmt.Errorf("observation: missing status")
	}
	if o.Count < 0 {
		return fmt.Errorf("observation: negative count %d", o.Count)
	}
	return nil
}
