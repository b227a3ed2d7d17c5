// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/acumen-hq/acumen/internal/domain/gating"
)

// AccessDependencies defines the interface for gating decisions.
type AccessDependencies interface {
	Evaluate(ctx context.Context, userID, capabilityID string) (gating.AccessDecision, error)
	EvaluateAll(ctx context.Context, userID string) []gating.AccessDecision
}

// AccessHandler handles capability access requests.
type AccessHandler struct {
	deps AccessDependencies
}

// NewAccessHandler creates a new access handler.
func NewAccessHandler(deps AccessDependencies) *AccessHandler {
	return &AccessHandler{deps: deps}
}

type accessResponse struct {
	UserID    string                  `json:"user_id"`
	Decisions []gating.AccessDecision `json:"decisions"`
}

// HandleGetAccess handles GET /v1/access/{user_id} and
// GET /v1/access/{user_id}/{capability_id} requests.
func (h *AccessHandler) HandleGetAccess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/v1/access/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	parts := strings.Split(path, "/")
	switch len(parts) {
	case 1:
		decisions := h.deps.EvaluateAll(r.Context(), parts[0])
		writeJSON(w, http.StatusOK, accessResponse{UserID: parts[0], Decisions: decisions})
	case 2:
		if parts[0] == "" || parts[1] == "" {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		decision, err := h.deps.Evaluate(r.Context(), parts[0], parts[1])
		if err != nil {
			if errors.Is(err, gating.ErrUnknownCapability) {
				writeError(w, http.StatusNotFound, "not_found", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		writeJSON(w, http.StatusOK, decision)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
	}
}
