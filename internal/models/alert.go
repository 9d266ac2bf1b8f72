package models

import "time"

// Alert severities, ordered INFO < WARNING < CRITICAL.
const (
	SeverityInfo     = "INFO"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// Alert records that a status crossed a rule or statistical threshold at a
// point in time. Immutable after creation; owned by the alert register.
type Alert struct {
	ID        string    `json:"id"         db:"id"`
	Timestamp time.Time `json:"timestamp"  db:"timestamp"`
	// AlertType is "<status>_anomaly", e.g. "failed_anomaly".
	AlertType string  `json:"alert_type"      db:"alert_type"`
	Severity  string  `json:"severity"        db:"severity"`
	Status    string  `json:"status"          db:"status"`
	// MetricValue is the window rate (%) that triggered the alert.
	MetricValue float64 `json:"metric_value"    db:"metric_value"`
	// ThresholdValue is the rule threshold matching the final severity, even
	// when the trigger was purely statistical.
	ThresholdValue float64   `json:"threshold_value" db:"threshold_value"`
	AnomalyScore   float64   `json:"anomaly_score"   db:"anomaly_score"`
	Message        string    `json:"message"         db:"message"`
	CreatedAt      time.Time `json:"created_at"      db:"created_at"`
}

// IngestResult is the outcome of evaluating one ingested observation.
type IngestResult struct {
	ShouldAlert  bool    `json:"should_alert"`
	AnomalyScore float64 `json:"anomaly_score"`
	Alerts       []Alert `json:"alerts"`
	// Message is set when evaluation was skipped, e.g. insufficient data.
	Message string `json:"message,omitempty"`
}
