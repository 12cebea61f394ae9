// Package server exposes the HTTP control surface: health check,
// manual pipeline trigger, and collection stats.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/brandsnobs/deals-backend/internal/models"
	"github.com/brandsnobs/deals-backend/internal/storage"
)

const serviceName = "brandsnobs-backend"

// manualRunTimeout bounds a manually triggered pipeline run. The
// trigger is synchronous: the response carries the run summary.
const manualRunTimeout = 10 * time.Minute

// Pipeline is the manual-trigger entry point.
type Pipeline interface {
	RunOnce(ctx context.Context) (*models.RunSummary, error)
}

// StatsStore provides collection counts for the stats endpoint.
type StatsStore interface {
	Counts(ctx context.Context) (dealCount, brandCount int64, err error)
}

type Server struct {
	pipeline Pipeline
	store    StatsStore
}

func New(pipeline Pipeline, store StatsStore) *Server {
	return &Server{
		pipeline: pipeline,
		store:    store,
	}
}

// Routes builds the handler tree, with permissive CORS for the
// browser frontend.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /fetch-deals", s.handleFetchDeals)
	mux.HandleFunc("GET /stats", s.handleStats)
	return withCORS(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
	})
}

type fetchResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	*models.RunSummary
}

func (s *Server) handleFetchDeals(w http.ResponseWriter, r *http.Request) {
	slog.Info("Manual deal fetch triggered")

	ctx, cancel := context.WithTimeout(r.Context(), manualRunTimeout)
	defer cancel()

	summary, err := s.pipeline.RunOnce(ctx)
	if err != nil {
		slog.Error("Manual fetch failed", "error", err)
		status := http.StatusInternalServerError
		if storage.IsUnavailable(err) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, fetchResponse{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, fetchResponse{
		Success:    true,
		Message:    "Deals fetched successfully",
		RunSummary: summary,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	dealCount, brandCount, err := s.store.Counts(r.Context())
	if err != nil {
		slog.Error("Stats query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalDeals":  dealCount,
		"totalBrands": brandCount,
		"lastUpdated": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// withCORS allows the public frontend to call the control surface
// from the browser.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
