// Package api serves the venue state to the operator console over HTTP.
// GET endpoints are public read-only snapshots; POST endpoints carry the
// operator commands and require a bearer token.
// See design doc Section 8.1.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/crowd-sentinel/internal/agents"
	"github.com/talgya/crowd-sentinel/internal/engine"
)

// Server serves the simulation state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Handler builds the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	commandLimiter := NewRateLimiter(60, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/agents", s.handleAgents)
	mux.HandleFunc("/api/v1/agent/", s.handleAgentDetail)
	mux.HandleFunc("/api/v1/predictions", s.handlePredictions)
	mux.HandleFunc("/api/v1/events", s.handleEvents)

	// Operator commands (POST, bearer token, rate limited).
	mux.HandleFunc("/api/v1/watchlist", s.adminOnly(RateLimitMiddleware(commandLimiter, s.handleWatchlist)))
	mux.HandleFunc("/api/v1/predictions/dismiss", s.adminOnly(RateLimitMiddleware(commandLimiter, s.handleDismiss)))
	mux.HandleFunc("/api/v1/select", s.adminOnly(RateLimitMiddleware(commandLimiter, s.handleSelect)))
	mux.HandleFunc("/api/v1/speed", s.adminOnly(RateLimitMiddleware(commandLimiter, s.handleSpeed)))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed console origins. Set
// CORS_ORIGINS to a comma-separated list; localhost dev servers are always
// allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// adminOnly gates a handler behind the bearer admin token.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "commands disabled", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.SnapshotStatus())
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.SnapshotAgents())
}

func (s *Server) handleAgentDetail(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/agent/")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "bad agent id", http.StatusBadRequest)
		return
	}
	a, ok := s.Sim.SnapshotAgent(agents.AgentID(id))
	if !ok {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.SnapshotPredictions())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.SnapshotEvents())
}

type agentCommand struct {
	AgentID uint64 `json:"agent_id"`
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	var cmd agentCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	flagged, known := s.Sim.ToggleWatchlist(agents.AgentID(cmd.AgentID))
	writeJSON(w, http.StatusOK, map[string]any{
		"agent_id": cmd.AgentID,
		"known":    known,
		"flagged":  flagged,
	})
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	var cmd struct {
		PredictionID string `json:"prediction_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	removed := s.Sim.DismissPrediction(cmd.PredictionID)
	writeJSON(w, http.StatusOK, map[string]any{
		"prediction_id": cmd.PredictionID,
		"removed":       removed,
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var cmd agentCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	known := s.Sim.SelectAgent(agents.AgentID(cmd.AgentID))
	writeJSON(w, http.StatusOK, map[string]any{
		"agent_id": cmd.AgentID,
		"known":    known,
	})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var cmd struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if cmd.Speed < 0 || cmd.Speed > 20 {
		http.Error(w, "speed out of range", http.StatusBadRequest)
		return
	}
	s.Eng.Speed = cmd.Speed
	slog.Info("speed changed", "speed", cmd.Speed)
	writeJSON(w, http.StatusOK, map[string]any{"speed": cmd.Speed})
}
