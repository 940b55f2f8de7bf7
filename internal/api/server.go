package api

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/auradash/aura-metals-backend/internal/models"
	"github.com/auradash/aura-metals-backend/internal/store"
)

var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Refresher triggers an immediate dataset refresh for a metal.
type Refresher interface {
	Refresh(ctx context.Context, metal models.Metal) error
	Running() bool
}

type Server struct {
	store      *store.Store
	refresher  Refresher
	source     func(models.Metal) string
	httpServer *http.Server
	apiKey     string
}

func NewServer(st *store.Store, refresher Refresher, source func(models.Metal) string, port int, apiKey, corsOrigin string) *Server {
	s := &Server{
		store:     st,
		refresher: refresher,
		source:    source,
		apiKey:    apiKey,
	}

	mux := http.NewServeMux()

	// Price routes
	mux.HandleFunc("GET /api/prices", s.handleGetPrices)
	mux.HandleFunc("POST /api/prices", s.handlePostPrices)

	// Derived views
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/calculator", s.handleCalculator)
	mux.HandleFunc("GET /api/export", s.handleExport)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	// CORS sits outside auth so preflight requests, which carry no
	// Authorization header, are answered before the key check.
	handler := corsMiddleware(s.authMiddleware(mux), corsOrigin)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Bool("auth", s.apiKey != "").Msg("REST API server started")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- validation helpers ---

func validateDate(date string) bool {
	if !dateRegexp.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// --- response helpers ---

// envelope is the relay response shape shared by every JSON route.
type envelope struct {
	Success      bool   `json:"success"`
	Data         any    `json:"data,omitempty"`
	Count        *int   `json:"count,omitempty"`
	TotalRecords *int   `json:"total_records,omitempty"`
	Source       string `json:"source,omitempty"`
	Timestamp    string `json:"timestamp"`
	Error        string `json:"error,omitempty"`
	Message      string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError sends a failure envelope with a stable error code. Raw error
// text only ever travels in message, never in the code.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{
		Success:   false,
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func intPtr(n int) *int { return &n }
