package api

import (
	"net/http"
	"strings"
	"time"
)

// sessionResponse mirrors the issued session shape.
type sessionResponse struct {
	SessionID  string    `json:"sessionId"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SessionsHandler handles anonymous play session requests.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleSessions handles POST /api/v1/sessions.
func (h *SessionsHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	s, err := h.deps.NewSession(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID:  s.SessionID,
		PlayerID:   s.PlayerID,
		PlayerName: s.PlayerName,
		CreatedAt:  s.CreatedAt,
	})
}

// HandleGetSession handles GET /api/v1/sessions/{id}.
func (h *SessionsHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	s, err := h.deps.GetSession(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:  s.SessionID,
		PlayerID:   s.PlayerID,
		PlayerName: s.PlayerName,
		CreatedAt:  s.CreatedAt,
	})
}
