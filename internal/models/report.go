package models

// MinuteAggregate is one minute of transaction counts pivoted by status.
type MinuteAggregate struct {
	Minute          string `json:"minute"           db:"minute"`
	Approved        int    `json:"approved"         db:"approved"`
	Failed          int    `json:"failed"           db:"failed"`
	Denied          int    `json:"denied"           db:"denied"`
	Reversed        int    `json:"reversed"         db:"reversed"`
	BackendReversed int    `json:"backend_reversed" db:"backend_reversed"`
	Refunded        int    `json:"refunded"         db:"refunded"`
	Total           int    `json:"total"            db:"total"`
}

// FailureRateRow is one minute of failure-rate percentages across the
// monitored statuses. Rates are 0 where the minute had no traffic.
type FailureRateRow struct {
	Minute       string  `json:"minute"        db:"minute"`
	Total        int     `json:"total"         db:"total"`
	Failures     int     `json:"failures"      db:"failures"`
	FailureRate  float64 `json:"failure_rate"  db:"failure_rate"`
	FailedRate   float64 `json:"failed_rate"   db:"failed_rate"`
	DeniedRate   float64 `json:"denied_rate"   db:"denied_rate"`
	ReversedRate float64 `json:"reversed_rate" db:"reversed_rate"`
}
