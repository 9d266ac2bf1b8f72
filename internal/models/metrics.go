package models

// StatusMetrics are the windowed aggregates for one status category.
type StatusMetrics struct {
	Count int `json:"count"`
	// Rate is the status's share of total transactions in the window (%).
	Rate         float64 `json:"rate"`
	AvgPerPeriod float64 `json:"avg_per_period"`
	StdPerPeriod float64 `json:"std_per_period"`
}

// WindowMetrics is a derived snapshot over the current window. Recomputed from
// scratch on every ingest, never stored.
type WindowMetrics struct {
	Statuses      map[string]StatusMetrics `json:"statuses"`
	Total         int                      `json:"total"`
	WindowMinutes int                      `json:"window_minutes"`
}

// Empty reports whether the snapshot was computed over zero observations.
func (m WindowMetrics) Empty() bool {
	return m.Total == 0 && len(m.Statuses) == 0
}
