package rest

import (
	"net/http"
	"strconv"
	"time"
)

const defaultReportLookback = time.Hour

// reportLookback parses ?hours=N, defaulting to one hour.
func reportLookback(r *http.Request) (time.Duration, bool) {
	raw := r.URL.Query().Get("hours")
	if raw == "" {
		return defaultReportLookback, true
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours < 1 {
		return 0, false
	}
	return time.Duration(hours) * time.Hour, true
}

// GetMinuteAggregates handles GET /reports/minutes?hours=1.
func (h *Handler) GetMinuteAggregates(w http.ResponseWriter, r *http.Request) {
	lookback, ok := reportLookback(r)
	if !ok {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "hours must be a positive integer")
		return
	}

	rows, err := h.reports.MinuteAggregates(r.Context(), lookback)
	if err != nil {
		respondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"minutes": rows,
		"count":   len(rows),
	})
}

// GetFailureRates handles GET /reports/failure-rates?hours=1.
func (h *Handler) GetFailureRates(w http.ResponseWriter, r *http.Request) {
	lookback, ok := reportLookback(r)
	if !ok {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "hours must be a positive integer")
		return
	}

	rows, err := h.reports.FailureRates(r.Context(), lookback)
	if err != nil {
		respondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"failure_rates": rows,
		"count":         len(rows),
	})
}
