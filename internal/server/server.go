// Package server provides the HTTP REST API for the expertise engine.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/accrual"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
)

// Recommender produces enriched area recommendations for an employee.
type Recommender interface {
	Recommend(ctx context.Context, userID, areaID int) (*types.EnrichedRecommendation, error)
}

// CandidateRanker ranks a candidate pool against one open position.
type CandidateRanker interface {
	Rank(ctx context.Context, positionID int, candidateIDs []int) ([]types.CandidateMatch, error)
}

// AccrualRunner executes one accrual cycle.
type AccrualRunner interface {
	Run(ctx context.Context) (accrual.Summary, error)
}

// Store is the subset of database reads the handlers use directly.
type Store interface {
	UserTopAreas(ctx context.Context, userID, limit int) ([]types.TopArea, error)
	PoolCandidates(ctx context.Context, positionID int) ([]int, error)
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	recommender Recommender
	ranker      CandidateRanker
	accrual     AccrualRunner
	adminToken  string
}

// Config holds server configuration
type Config struct {
	Port       int
	AdminToken string
}

// New creates a new server instance
func New(cfg Config, store Store, recommender Recommender, ranker CandidateRanker, accrualJob AccrualRunner) *Server {
	s := &Server{
		store:       store,
		recommender: recommender,
		ranker:      ranker,
		accrual:     accrualJob,
		adminToken:  cfg.AdminToken,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler builds the route tree with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /pathexplorer/update-position-area-scores", s.withAdminAuth(http.HandlerFunc(s.handleRunAccrual)))
	mux.HandleFunc("GET /pathexplorer/top-areas/{user_id}", s.handleTopAreas)
	mux.HandleFunc("GET /pathexplorer/recommendations/{user_id}/{area_id}", s.handleRecommendations)
	mux.HandleFunc("POST /positions/{position_id}/candidates", s.handleRankCandidates)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.withLogging(s.withRequestID(s.withCORS(mux)))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Admin-Token")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRequestID tags every request with an id for log correlation.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withAdminAuth requires the Admin-Token header to match the configured
// token. Comparison is constant-time.
func (s *Server) withAdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" {
			s.errorResponse(w, http.StatusServiceUnavailable, "admin endpoint disabled")
			return
		}
		token := r.Header.Get("Admin-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			s.errorResponse(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
