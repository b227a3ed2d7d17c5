// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/acumen-hq/acumen/internal/domain/event"
)

// EventDependencies defines the interface for event capture.
type EventDependencies interface {
	Record(ctx context.Context, r event.Record)
	SetOnline(online bool)
}

// EventsHandler handles telemetry capture requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandlePostEvent handles POST /v1/events requests. Capture never blocks
// on sync delivery; a well-formed event is acknowledged as soon as it is
// handed to the engine.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	rec := req.toRecord()
	h.deps.Record(r.Context(), rec)
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

// connectivityRequest mirrors the OpenAPI schema for POST /v1/connectivity.
type connectivityRequest struct {
	Online bool `json:"online"`
}

// HandleConnectivity handles POST /v1/connectivity requests, letting the
// host UI report network transitions to the sync queue.
func (h *EventsHandler) HandleConnectivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req connectivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	h.deps.SetOnline(req.Online)
	writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}
