package rest

import (
	"net/http"
	"time"
)

// GetBaseline handles GET /baseline.
func (h *Handler) GetBaseline(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"baseline":  h.monitor.GetBaseline(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// RebuildBaseline handles POST /baseline/rebuild — the operator-triggered
// refresh from persisted historical observations.
func (h *Handler) RebuildBaseline(w http.ResponseWriter, r *http.Request) {
	if err := h.monitor.RebuildBaselineFromStore(r.Context()); err != nil {
		respondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"baseline":  h.monitor.GetBaseline(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
