// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/acumen-hq/acumen/internal/domain/event"
)

const maxBatchEvents = 1000

// CollectDependencies defines the interface for collector-side ingestion.
type CollectDependencies interface {
	Collect(ctx context.Context, batch []event.Record) (accepted, duplicates int)
}

// CollectHandler handles delivered telemetry batches.
type CollectHandler struct {
	deps CollectDependencies
}

// NewCollectHandler creates a new collect handler.
func NewCollectHandler(deps CollectDependencies) *CollectHandler {
	return &CollectHandler{deps: deps}
}

// batchRequest mirrors the wire format the sync queue sends.
type batchRequest struct {
	Events []event.Record `json:"events"`
}

type batchResponse struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
}

// HandlePostBatch handles POST /v1/collect requests. Ingestion is
// idempotent per event id, so a client retrying a half-delivered batch
// gets the remainder accepted and the rest counted as duplicates.
func (h *CollectHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if len(req.Events) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrEmptyBatch)
		return
	}
	if len(req.Events) > maxBatchEvents {
		writeError(w, http.StatusRequestEntityTooLarge, "batch_too_large", ErrBatchTooLarge)
		return
	}

	accepted, duplicates := h.deps.Collect(r.Context(), req.Events)
	writeJSON(w, http.StatusOK, batchResponse{Accepted: accepted, Duplicates: duplicates})
}
