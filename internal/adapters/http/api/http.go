// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lexigo/tilescore/internal/adapters/repository"
	"github.com/lexigo/tilescore/internal/domain/model"
	"github.com/lexigo/tilescore/internal/domain/session"
	"github.com/lexigo/tilescore/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Rules(ctx context.Context) []types.Rule
	ComputeScore(ctx context.Context, letters string) (types.Computed, error)
	SaveScore(ctx context.Context, letters string) (model.ScoreRecord, error)
	TopScores(ctx context.Context, n int) ([]types.RankedEntry, error)
	ListScores(ctx context.Context, limit int, sortSpec []repository.SortKey) ([]types.RankedEntry, error)
	DeleteScores(ctx context.Context, ids []string) (int, error)
	NewSession(ctx context.Context) (session.Session, error)
	GetSession(ctx context.Context, id string) (session.Session, error)
}

// StatsProvider exposes service statistics for the stats endpoint.
type StatsProvider interface {
	GetStats() map[string]any
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	scoresHandler   *ScoresHandler
	sessionsHandler *SessionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		scoresHandler:   NewScoresHandler(deps, maxLimit),
		sessionsHandler: NewSessionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/v1/scores", MetricsMiddleware(s.scoresHandler.HandleScores, "scores"))
	mux.HandleFunc("/api/v1/scores/", MetricsMiddleware(s.scoresHandler.HandleScoresSubpath, "scores"))
	mux.HandleFunc("/api/v1/sessions", MetricsMiddleware(s.sessionsHandler.HandleSessions, "sessions"))
	mux.HandleFunc("/api/v1/sessions/", MetricsMiddleware(s.sessionsHandler.HandleGetSession, "sessions"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates a core error into its stable machine-readable
// code and HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
