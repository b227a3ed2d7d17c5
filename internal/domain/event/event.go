// Package event defines the typed telemetry records captured by the engine.
//
// The engine records five kinds of occurrences, one per bucket. Each kind
// has a constructor that fills in exactly the fields its bucket carries;
// handlers and stores treat Record as immutable once built.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Bucket identifies which per-user bucket a record belongs to.
type Bucket string

// Buckets a record can be filed under.
const (
	BucketInteraction Bucket = "interaction"
	BucketAction      Bucket = "action"
	BucketExport      Bucket = "export"
	BucketSession     Bucket = "session"
	BucketVisit       Bucket = "visit"
)

// Record is one raw telemetry occurrence. Immutable once recorded; eligible
// for pruning after the retention window.
type Record struct {
	ID             string            `json:"event_id"`
	UserID         string            `json:"user_id"`
	Bucket         Bucket            `json:"bucket"`
	Component      string            `json:"component"`
	Timestamp      time.Time         `json:"ts"`
	DurationMillis int64             `json:"duration_ms,omitempty"`
	Section        string            `json:"section,omitempty"`
	ActionType     string            `json:"action_type,omitempty"`
	ExportFormat   string            `json:"export_format,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// ToolSequenceEntry marks an active-tool change for a user. Entries are
// append-only and kept in insertion order.
type ToolSequenceEntry struct {
	Tool      string    `json:"tool"`
	Timestamp time.Time `json:"ts"`
}

// History is the full raw slice of one user's telemetry. Containers are
// always non-nil; a user with no data gets empty slices.
type History struct {
	Interactions []Record
	Actions      []Record
	Exports      []Record
	Sessions     []Record
	Visits       []Record
	Tools        []ToolSequenceEntry
}

// EmptyHistory returns a well-formed History with no records.
func EmptyHistory() History {
	return History{
		Interactions: []Record{},
		Actions:      []Record{},
		Exports:      []Record{},
		Sessions:     []Record{},
		Visits:       []Record{},
		Tools:        []ToolSequenceEntry{},
	}
}

// Append files a record into its bucket and returns the updated history.
func (h History) Append(r Record) History {
	switch r.Bucket {
	case BucketInteraction:
		h.Interactions = append(h.Interactions, r)
	case BucketAction:
		h.Actions = append(h.Actions, r)
	case BucketExport:
		h.Exports = append(h.Exports, r)
	case BucketSession:
		h.Sessions = append(h.Sessions, r)
	case BucketVisit:
		h.Visits = append(h.Visits, r)
	}
	return h
}

// NewID mints a fresh event identifier.
func NewID() string {
	return uuid.NewString()
}

// NewInteraction builds a time-on-task record for a component section.
func NewInteraction(userID, component, section string, duration time.Duration, ts time.Time) Record {
	return Record{
		ID:             uuid.NewString(),
		UserID:         userID,
		Bucket:         BucketInteraction,
		Component:      component,
		Section:        section,
		DurationMillis: duration.Milliseconds(),
		Timestamp:      ts,
	}
}

// NewAction builds a discrete user action record (click, save, apply).
func NewAction(userID, component, actionType string, ts time.Time) Record {
	return Record{
		ID:         uuid.NewString(),
		UserID:     userID,
		Bucket:     BucketAction,
		Component:  component,
		ActionType: actionType,
		Timestamp:  ts,
	}
}

// NewExport builds an export record for a generated artifact.
func NewExport(userID, component, format string, ts time.Time) Record {
	return Record{
		ID:           uuid.NewString(),
		UserID:       userID,
		Bucket:       BucketExport,
		Component:    component,
		ExportFormat: format,
		Timestamp:    ts,
	}
}

// NewSession builds a session record with its total duration.
func NewSession(userID string, duration time.Duration, ts time.Time) Record {
	return Record{
		ID:             uuid.NewString(),
		UserID:         userID,
		Bucket:         BucketSession,
		Component:      "session",
		DurationMillis: duration.Milliseconds(),
		Timestamp:      ts,
	}
}

// NewVisit builds a page/component visit record.
func NewVisit(userID, component string, ts time.Time) Record {
	return Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Bucket:    BucketVisit,
		Component: component,
		Timestamp: ts,
	}
}

// Validate reports whether the record is well-formed enough to store.
// Malformed records are dropped at the recording boundary so they never
// corrupt aggregate counters.
func (r Record) Validate() error {
	switch {
	case r.UserID == "":
		return ErrMissingUser
	case r.Component == "":
		return ErrMissingComponent
	case r.Timestamp.IsZero():
		return ErrZeroTimestamp
	}
	switch r.Bucket {
	case BucketInteraction, BucketAction, BucketExport, BucketSession, BucketVisit:
		return nil
	default:
		return ErrUnknownBucket
	}
}
