// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/acumen-hq/acumen/internal/domain/assess"
	"github.com/acumen-hq/acumen/internal/domain/event"
	"github.com/acumen-hq/acumen/internal/domain/gating"
	"github.com/acumen-hq/acumen/internal/domain/profile"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the engine behind it.
type Dependencies interface {
	// Record captures one telemetry event. Fire-and-forget.
	Record(ctx context.Context, r event.Record)

	// Profile recomputes the behavioral profile from stored history.
	Profile(ctx context.Context, userID string) profile.BehaviorProfile

	// Progress runs an assessment and derives velocity and level ETA.
	Progress(ctx context.Context, userID string) assess.Progress

	// Evaluate decides access to one capability.
	Evaluate(ctx context.Context, userID, capabilityID string) (gating.AccessDecision, error)

	// EvaluateAll decides access to every declared capability.
	EvaluateAll(ctx context.Context, userID string) []gating.AccessDecision

	// Collect ingests a delivered telemetry batch on the collector side.
	Collect(ctx context.Context, batch []event.Record) (accepted, duplicates int)

	// SetOnline signals a connectivity transition to the sync queue.
	SetOnline(online bool)
}

// Server wires HTTP routes for the engine API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	eventsHandler  *EventsHandler
	collectHandler *CollectHandler
	profileHandler *ProfileHandler
	skillsHandler  *SkillsHandler
	accessHandler  *AccessHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		eventsHandler:  NewEventsHandler(deps),
		collectHandler: NewCollectHandler(deps),
		profileHandler: NewProfileHandler(deps),
		skillsHandler:  NewSkillsHandler(deps),
		accessHandler:  NewAccessHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/v1/collect", MetricsMiddleware(s.collectHandler.HandlePostBatch, "collect"))
	mux.HandleFunc("/v1/connectivity", MetricsMiddleware(s.eventsHandler.HandleConnectivity, "connectivity"))
	mux.HandleFunc("/v1/profile/", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profile"))
	mux.HandleFunc("/v1/skills/", MetricsMiddleware(s.skillsHandler.HandleGetSkills, "skills"))
	mux.HandleFunc("/v1/access/", MetricsMiddleware(s.accessHandler.HandleGetAccess, "access"))
}

// eventRequest mirrors the OpenAPI schema for POST /v1/events.
type eventRequest struct {
	EventID      string            `json:"event_id,omitempty"`
	UserID       string            `json:"user_id"`
	Bucket       string            `json:"bucket"`
	Component    string            `json:"component,omitempty"`
	TS           string            `json:"ts"`
	DurationMS   int64             `json:"duration_ms,omitempty"`
	Section      string            `json:"section,omitempty"`
	ActionType   string            `json:"action_type,omitempty"`
	ExportFormat string            `json:"export_format,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(e.Bucket) == "":
		return errors.New("missing bucket")
	case strings.TrimSpace(e.TS) == "":
		return errors.New("missing ts")
	}
	if _, err := time.Parse(time.RFC3339, e.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	return nil
}

// toRecord converts a validated request into a domain record, assigning
// an event id when the client did not send one.
func (e eventRequest) toRecord() event.Record {
	ts, _ := time.Parse(time.RFC3339, e.TS)
	id := e.EventID
	if id == "" {
		id = event.NewID()
	}
	return event.Record{
		ID:             id,
		UserID:         e.UserID,
		Bucket:         event.Bucket(e.Bucket),
		Component:      e.Component,
		Timestamp:      ts,
		DurationMillis: e.DurationMS,
		Section:        e.Section,
		ActionType:     e.ActionType,
		ExportFormat:   e.ExportFormat,
		Metadata:       e.Metadata,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate,omitempty"`
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

// pathParam extracts the single path segment after prefix, rejecting
// empty or nested paths.
func pathParam(r *http.Request, prefix string) (string, bool) {
	p := strings.TrimPrefix(r.URL.Path, prefix)
	if p == "" || strings.Contains(p, "/") {
		return "", false
	}
	return p, true
}
