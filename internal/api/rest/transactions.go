package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/paywatch/paywatch-backend/internal/models"
)

// transactionRequest is the ingest payload. Count is a pointer so a missing
// field can be told apart from an explicit zero.
type transactionRequest struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Count     *int   `json:"count"`
}

// Timestamp layouts accepted on ingest, tried in order.
var ingestLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// IngestTransaction handles POST /transactions. Returns the alert
// recommendation for the observation; persistence and notification side
// effects have already been issued when this responds.
func (h *Handler) IngestTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return
	}

	if req.Timestamp == "" || req.Status == "" || req.Count == nil {
		respondStructuredError(w, http.StatusBadRequest, ErrCodeValidationFailed,
			"Missing required fields", map[string]string{"required": "timestamp, status, count"})
		return
	}

	ts, err := parseIngestTimestamp(req.Timestamp)
	if err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	obs := models.Observation{
		Timestamp: ts,
		Status:    req.Status,
		Count:     *req.Count,
	}

	result, err := h.monitor.Ingest(r.Context(), obs)
	if err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	recommendation := "OK"
	if result.ShouldAlert {
		recommendation = "ALERT"
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"should_alert":   result.ShouldAlert,
		"anomaly_score":  result.AnomalyScore,
		"alerts":         result.Alerts,
		"message":        result.Message,
		"recommendation": recommendation,
		"timestamp":      req.Timestamp,
	})
}

func parseIngestTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range ingestLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
