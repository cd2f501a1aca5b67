package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/config"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/db"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/dispatch"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/docstore"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/ledger"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/merge"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/observability"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/selection"
)

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	database     *db.DB
	db           assignmentStore
	backend      Backend
	store        *selection.Store
	orchestrator *merge.Orchestrator
	dispatcher   *dispatch.Dispatcher
	ledger       forwardingLedger
	printer      *observability.Printer
	pageSize     int
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	backend, err := docstore.NewClient(docstore.Options{
		BaseURL: cfg.DocstoreURL,
		APIKey:  cfg.DocstoreAPIKey,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create docstore client: %w", err)
	}

	s := newWith(database, backend, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Dispatch batches (bulk working sets)
	mux.HandleFunc("POST /batches", s.handleOpenBatch)
	mux.HandleFunc("GET /batches/{id}", s.handleGetBatch)
	mux.HandleFunc("DELETE /batches/{id}", s.handleCloseBatch)
	mux.HandleFunc("DELETE /batches/{id}/candidates/{assignment_id}", s.handleRemoveCandidate)
	mux.HandleFunc("POST /batches/{id}/candidates/{assignment_id}/toggle", s.handleToggleSelection)

	// Submission
	mux.HandleFunc("POST /batches/{id}/forward", s.handleSubmitForward)
	mux.HandleFunc("POST /batches/{id}/transfer", s.handleSubmitTransfer)

	// Merge artifacts
	mux.HandleFunc("GET /assignments/{id}/merge", s.handleGetMerge)
	mux.HandleFunc("POST /assignments/{id}/merge", s.handleRequestMerge)

	// Pipeline status
	mux.HandleFunc("GET /assignments/{id}", s.handleGetAssignment)
	mux.HandleFunc("PUT /assignments/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("POST /interviews/schedule", s.handleScheduleInterviews)
	mux.HandleFunc("POST /decisions/record", s.handleRecordClientDecisions)
	mux.HandleFunc("POST /projects/{id}/archive", s.handleArchiveProject)

	// Forwarding ledger
	mux.HandleFunc("GET /forwardings", s.handleQueryForwardings)
	mux.HandleFunc("GET /candidates/{id}/forwardings/latest", s.handleLatestForwarding)

	handler := s.withCORS(s.withLogging(mux))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s, nil
}

// newWith wires a Server from already-built dependencies. Split out so tests
// can inject a fake backend without a database.
func newWith(database *db.DB, backend Backend, cfg *config.Config) *Server {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = selection.DefaultPageSize
	}

	s := &Server{
		database:     database,
		db:           database,
		backend:      backend,
		store:        selection.NewStore(),
		orchestrator: merge.New(backend),
		dispatcher:   dispatch.NewDispatcher(backend),
		pageSize:     pageSize,
	}
	if database != nil {
		s.ledger = ledger.NewStore(database.Pool())
	}
	if cfg.Verbose {
		s.printer = observability.NewPrinter(os.Stdout)
	}
	return s
}

// Start runs the server until interrupted, then shuts down gracefully.
func (s *Server) Start() error {
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

	s.database.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

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

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
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
