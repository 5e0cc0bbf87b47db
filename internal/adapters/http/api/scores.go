package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lexigo/tilescore/internal/adapters/repository"
	"github.com/lexigo/tilescore/internal/domain/types"
)

// scoreRequest is the body for compute and save. The max tag is a
// coarse wire-level guard; the scorer enforces the real configured cap.
type scoreRequest struct {
	Letters string `json:"letters" validate:"max=64"`
}

// deleteRequest is the body for batch delete.
type deleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// scoreResponse mirrors the persisted record shape.
type scoreResponse struct {
	ID        string    `json:"id"`
	Letters   string    `json:"letters"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScoresHandler handles scoring rule, computation, and score CRUD requests.
type ScoresHandler struct {
	deps     Dependencies
	maxLimit int
	validate *validator.Validate
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies, maxLimit int) *ScoresHandler {
	return &ScoresHandler{
		deps:     deps,
		maxLimit: maxLimit,
		validate: validator.New(),
	}
}

// HandleScores handles /api/v1/scores: GET lists ranked scores, POST
// saves a new score, DELETE removes a batch of ids.
func (h *ScoresHandler) HandleScores(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleSave(w, r)
	case http.MethodDelete:
		h.handleBatchDelete(w, r)
	default:
		http.NotFound(w, r)
	}
}

// HandleScoresSubpath handles /api/v1/scores/{rules|compute|id}.
func (h *ScoresHandler) HandleScoresSubpath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/scores/")
	switch {
	case rest == "rules" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Rules(r.Context()))
	case rest == "compute" && r.Method == http.MethodPost:
		h.handleCompute(w, r)
	case rest != "" && !strings.Contains(rest, "/") && r.Method == http.MethodDelete:
		h.handleDeleteOne(w, r, rest)
	default:
		http.NotFound(w, r)
	}
}

func (h *ScoresHandler) handleCompute(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeScoreRequest(w, r)
	if !ok {
		return
	}
	computed, err := h.deps.ComputeScore(r.Context(), req.Letters)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, computed)
}

func (h *ScoresHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeScoreRequest(w, r)
	if !ok {
		return
	}
	rec, err := h.deps.SaveScore(r.Context(), req.Letters)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scoreResponse{
		ID:        rec.ID,
		Letters:   rec.Letters,
		Points:    rec.Points,
		CreatedAt: rec.CreatedAt,
	})
}

func (h *ScoresHandler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0 // service substitutes the configured default
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n

		// An explicit limit=0 is a valid empty listing.
		if n == 0 {
			writeJSON(w, http.StatusOK, []types.RankedEntry{})
			return
		}
	}

	sortSpec, err := parseSortSpec(q["sort"])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var entries any
	if limit == 0 && len(sortSpec) == 0 {
		entries, err = h.deps.TopScores(r.Context(), 0)
	} else {
		if len(sortSpec) == 0 {
			sortSpec = repository.DefaultSort()
		}
		if limit == 0 {
			limit = h.maxLimit
		}
		entries, err = h.deps.ListScores(r.Context(), limit, sortSpec)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *ScoresHandler) handleDeleteOne(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.deps.DeleteScores(r.Context(), []string{id}); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScoresHandler) handleBatchDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if _, err := h.deps.DeleteScores(r.Context(), req.IDs); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScoresHandler) decodeScoreRequest(w http.ResponseWriter, r *http.Request) (scoreRequest, bool) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return scoreRequest{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return scoreRequest{}, false
	}
	return req, true
}

// parseSortSpec parses repeated sort=field,direction query parameters.
// createdAt is accepted as an alias for created_at; direction defaults
// to ascending.
func parseSortSpec(raw []string) ([]repository.SortKey, error) {
	spec := make([]repository.SortKey, 0, len(raw))
	for _, item := range raw {
		parts := strings.Split(item, ",")

		var field repository.Field
		switch parts[0] {
		case "points":
			field = repository.FieldPoints
		case "created_at", "createdAt":
			field = repository.FieldCreatedAt
		default:
			return nil, repository.ErrInvalidSortField
		}

		direction := repository.Asc
		if len(parts) > 1 {
			switch parts[1] {
			case "asc":
			case "desc":
				direction = repository.Desc
			default:
				return nil, repository.ErrInvalidSortField
			}
		}

		spec = append(spec, repository.SortKey{Field: field, Direction: direction})
	}
	return spec, nil
}
