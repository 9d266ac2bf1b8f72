package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/paywatch/paywatch-backend/internal/monitor"
	"github.com/paywatch/paywatch-backend/internal/service"
)

// Handler manages HTTP request handlers.
type Handler struct {
	monitor *monitor.Monitor
	reports service.ReportService
}

// NewHandler creates a new HTTP handler.
func NewHandler(m *monitor.Monitor, rs service.ReportService) *Handler {
	return &Handler{
		monitor: m,
		reports: rs,
	}
}

// SetupRoutes configures API routes.
func SetupRoutes(router *mux.Router, h *Handler) {
	// Ingest
	router.HandleFunc("/transactions", h.IngestTransaction).Methods("POST")

	// Read-only snapshots
	router.HandleFunc("/metrics/window", h.GetWindowMetrics).Methods("GET")
	router.HandleFunc("/alerts", h.GetRecentAlerts).Methods("GET")
	router.HandleFunc("/baseline", h.GetBaseline).Methods("GET")
	router.HandleFunc("/baseline/rebuild", h.RebuildBaseline).Methods("POST")

	// Reports
	router.HandleFunc("/reports/minutes", h.GetMinuteAggregates).Methods("GET")
	router.HandleFunc("/reports/failure-rates", h.GetFailureRates).Methods("GET")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
