package models

import "time"

// StatusBaseline is the long-run mean/std reference for one status, computed
// from historical data. Replaced wholesale on rebuild, never field-by-field.
type StatusBaseline struct {
	Status    string  `json:"status"     db:"status"`
	MeanCount float64 `json:"mean_count" db:"mean_count"`
	StdCount  float64 `json:"std_count"  db:"std_count"`
	// MeanRate/StdRate are percentages of total per period.
	MeanRate  float64   `json:"mean_rate"  db:"mean_rate"`
	StdRate   float64   `json:"std_rate"   db:"std_rate"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
