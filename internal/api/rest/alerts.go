package rest

import (
	"net/http"
	"strconv"
	"time"
)

const defaultAlertLimit = 10

// GetRecentAlerts handles GET /alerts?limit=10. Alerts are returned in
// chronological ascending order, newest at the end.
func (h *Handler) GetRecentAlerts(w http.ResponseWriter, r *http.Request) {
	limit := defaultAlertLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	alerts := h.monitor.GetRecentAlerts(limit)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alerts":    alerts,
		"count":     len(alerts),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
