// Package store defines the device-local durable telemetry store.
//
// The store owns the only persisted state in the engine: per-user event
// buckets, the tool sequence, and the assessment history. Telemetry is
// best-effort, not transactional; callers absorb and log store faults
// rather than propagating them.
package store

import (
	"context"
	"time"

	"github.com/acumen-hq/acumen/internal/domain/assess"
	"github.com/acumen-hq/acumen/internal/domain/event"
)

// DefaultRetention is how long raw events are kept before pruning.
const DefaultRetention = 30 * 24 * time.Hour

// Store provides durable read/write access to per-user telemetry.
type Store interface {
	// RecordEvent appends a record to its user bucket. Re-recording an
	// already-stored event id is a no-op. The write is durable before
	// the next History call in the same process.
	RecordEvent(ctx context.Context, r event.Record) error

	// AppendTool appends a tool-sequence entry for the user.
	AppendTool(ctx context.Context, userID, tool string, ts time.Time) error

	// LastTool returns the most recent tool-sequence entry for the user.
	// ok is false when the user has no tool history.
	LastTool(ctx context.Context, userID string) (string, bool, error)

	// History returns the full raw slice for a user, in insertion order
	// per bucket. Unknown users get empty containers, never an error.
	History(ctx context.Context, userID string) (event.History, error)

	// SaveAssessment appends one assessment run to the user's history.
	SaveAssessment(ctx context.Context, userID string, s assess.SkillScores) error

	// RecentAssessments returns up to limit assessments, newest first.
	RecentAssessments(ctx context.Context, userID string, limit int) ([]assess.SkillScores, error)

	// Prune deletes events and tool entries older than the cutoff and
	// returns how many rows were removed.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)

	Close() error
}
