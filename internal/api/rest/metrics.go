package rest

import (
	"net/http"
	"strconv"
	"time"
)

// GetWindowMetrics handles GET /metrics/window?window=15.
func (h *Handler) GetWindowMetrics(w http.ResponseWriter, r *http.Request) {
	window := 0
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "window must be a positive integer of minutes")
			return
		}
		window = parsed
	}

	snapshot := h.monitor.GetWindowMetrics(window)
	if snapshot.Empty() {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"metrics": snapshot,
			"message": "No recent data available",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"window_minutes": snapshot.WindowMinutes,
		"metrics":        snapshot,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
