// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/acumen-hq/acumen/internal/domain/profile"
)

// ProfileDependencies defines the interface for profile reads.
type ProfileDependencies interface {
	Profile(ctx context.Context, userID string) profile.BehaviorProfile
}

// ProfileHandler handles behavioral profile requests.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

type profileResponse struct {
	UserID  string                  `json:"user_id"`
	Profile profile.BehaviorProfile `json:"profile"`
}

// HandleGetProfile handles GET /v1/profile/{user_id} requests. A user with
// no recorded telemetry gets the empty profile, never a 404.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := pathParam(r, "/v1/profile/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	p := h.deps.Profile(r.Context(), userID)
	writeJSON(w, http.StatusOK, profileResponse{UserID: userID, Profile: p})
}
