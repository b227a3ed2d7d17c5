// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/acumen-hq/acumen/internal/domain/assess"
)

// SkillsDependencies defines the interface for assessment reads.
type SkillsDependencies interface {
	Progress(ctx context.Context, userID string) assess.Progress
}

// SkillsHandler handles skill assessment requests.
type SkillsHandler struct {
	deps SkillsDependencies
}

// NewSkillsHandler creates a new skills handler.
func NewSkillsHandler(deps SkillsDependencies) *SkillsHandler {
	return &SkillsHandler{deps: deps}
}

type skillsResponse struct {
	UserID string             `json:"user_id"`
	Scores assess.SkillScores `json:"scores"`
	Level  string             `json:"level"`

	// Velocity fields are present once two assessment runs span a
	// positive interval.
	Velocity        *assess.Velocity `json:"velocity,omitempty"`
	DaysToNextLevel *int             `json:"days_to_next_level,omitempty"`
}

// HandleGetSkills handles GET /v1/skills/{user_id} requests. Every call
// runs a fresh assessment over the current profile.
func (h *SkillsHandler) HandleGetSkills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := pathParam(r, "/v1/skills/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	prog := h.deps.Progress(r.Context(), userID)
	resp := skillsResponse{
		UserID: userID,
		Scores: prog.Scores,
		Level:  prog.Level.String(),
	}
	if prog.HasVelocity {
		v := prog.Velocity
		resp.Velocity = &v
	}
	if prog.HasPrediction {
		d := prog.DaysToNextLevel
		resp.DaysToNextLevel = &d
	}
	writeJSON(w, http.StatusOK, resp)
}
