package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/paywatch/paywatch-backend/internal/api/middleware"
	"github.com/paywatch/paywatch-backend/internal/api/rest"
	"github.com/paywatch/paywatch-backend/internal/api/websocket"
	"github.com/paywatch/paywatch-backend/internal/config"
	"github.com/paywatch/paywatch-backend/internal/history"
	"github.com/paywatch/paywatch-backend/internal/monitor"
	"github.com/paywatch/paywatch-backend/internal/notifications"
	"github.com/paywatch/paywatch-backend/internal/pkg/logger"
	"github.com/paywatch/paywatch-backend/internal/repository"
	"github.com/paywatch/paywatch-backend/internal/service"
	"github.com/paywatch/paywatch-backend/migrations"
)

func main() {
	log.Println("🚀 Paywatch Backend starting...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slogger := logger.StdLogger()

	// Load configuration; bad thresholds are fatal here, never at request time.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	log.Printf("📋 Configuration loaded: port=%d, db=%s, window=%dm", cfg.Port, cfg.DatabasePath, cfg.WindowMediumMin)

	// Initialize database
	log.Println("💾 Initializing database...")
	repo, err := repository.NewSQLiteRepository(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	defer repo.Close()

	if err := runMigrations(repo); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Alert sinks: webhook notifier and the live WebSocket stream
	notifier := notifications.NewNotifier(cfg.Channels, slogger)

	log.Println("🔌 Initializing WebSocket hub...")
	wsHub := websocket.NewHub(ctx, slogger)
	go wsHub.Run()

	// Monitoring core
	mon := monitor.New(cfg, repo, slogger, notifier, wsHub)
	if err := mon.LoadBaseline(ctx); err != nil {
		log.Fatalf("❌ Failed to load baseline: %v", err)
	}
	seedBaseline(ctx, cfg, mon)

	reportService := service.NewReportService(repo)

	// Setup HTTP router
	router := mux.NewRouter()

	healthz := rest.NewHealthzHandler(repo)
	router.HandleFunc("/health", healthz.Live).Methods("GET")
	router.HandleFunc("/healthz/ready", healthz.Ready).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API routes
	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	handler := rest.NewHandler(mon, reportService)
	rest.SetupRoutes(apiRouter, handler)

	// WebSocket routes
	wsHandler := websocket.NewHandler(ctx, wsHub)
	router.HandleFunc("/ws/alerts", wsHandler.ServeWS).Methods("GET")

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.StructuredLog)
	router.Use(middleware.Recovery)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	handlerWithCORS := c.Handler(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handlerWithCORS,
		ReadTimeout:  time.Duration(cfg.RequestTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🌐 Server listening on port %d", cfg.Port)
		log.Printf("📡 API available at http://localhost:%d/api/v1", cfg.Port)
		log.Printf("🔌 Alert stream at ws://localhost:%d/ws/alerts", cfg.Port)
		log.Printf("❤️  Health check at http://localhost:%d/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	wsHub.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited gracefully")
}

// runMigrations applies all embedded *.sql files in name order.
func runMigrations(repo *repository.SQLiteRepository) error {
	entries, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return err
	}
	var sb strings.Builder
	for _, name := range entries {
		data, err := migrations.FS.ReadFile(name)
		if err != nil {
			return err
		}
		sb.Write(data)
		sb.WriteString("\n")
	}
	return repo.RunMigrations(sb.String())
}

// seedBaseline establishes baseline statistics from the historical CSV when
// none are persisted yet. Best effort: the engine runs rule-only checks until
// a baseline exists, so a missing file is a warning, not a fatal error.
func seedBaseline(ctx context.Context, cfg *config.Config, mon *monitor.Monitor) {
	if mon.HasBaseline() || cfg.HistoricalCSV == "" {
		return
	}

	observations, err := history.LoadCSV(cfg.HistoricalCSV)
	if err != nil {
		log.Printf("⚠️  Warning: could not load baseline from %s: %v", cfg.HistoricalCSV, err)
		return
	}
	if err := mon.RebuildBaseline(ctx, observations); err != nil {
		log.Printf("⚠️  Warning: baseline rebuild failed: %v", err)
		return
	}
	log.Printf("✅ Baseline calculated from %d historical records", len(observations))
}
