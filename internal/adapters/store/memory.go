package store

import (
	"context"
	"sync"
	"time"

	"github.com/acumen-hq/acumen/internal/domain/assess"
	"github.com/acumen-hq/acumen/internal/domain/event"
)

// MemoryStore implements Store in process memory. It is the degrade
// target when the SQLite file cannot be opened, and the fixture store in
// tests. Durability is lost but the engine keeps working.
type MemoryStore struct {
	mu          sync.RWMutex
	histories   map[string]event.History
	assessments map[string][]assess.SkillScores
	seen        map[string]struct{}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		histories:   make(map[string]event.History),
		assessments: make(map[string][]assess.SkillScores),
		seen:        make(map[string]struct{}),
	}
}

func (m *MemoryStore) historyLocked(userID string) event.History {
	h, ok := m.histories[userID]
	if !ok {
		h = event.EmptyHistory()
	}
	return h
}

// RecordEvent appends one record; duplicate event ids are ignored.
func (m *MemoryStore) RecordEvent(_ context.Context, r event.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.seen[r.ID]; dup {
		return nil
	}
	m.seen[r.ID] = struct{}{}
	m.histories[r.UserID] = m.historyLocked(r.UserID).Append(r)
	return nil
}

// AppendTool appends a tool-sequence entry.
func (m *MemoryStore) AppendTool(_ context.Context, userID, tool string, ts time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.historyLocked(userID)
	h.Tools = append(h.Tools, event.ToolSequenceEntry{Tool: tool, Timestamp: ts})
	m.histories[userID] = h
	return nil
}

// LastTool returns the most recent tool entry for the user.
func (m *MemoryStore) LastTool(_ context.Context, userID string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h := m.historyLocked(userID)
	if len(h.Tools) == 0 {
		return "", false, nil
	}
	return h.Tools[len(h.Tools)-1].Tool, true, nil
}

// History returns a copy of the user's raw slices.
func (m *MemoryStore) History(_ context.Context, userID string) (event.History, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h := m.historyLocked(userID)
	out := event.History{
		Interactions: append([]event.Record{}, h.Interactions...),
		Actions:      append([]event.Record{}, h.Actions...),
		Exports:      append([]event.Record{}, h.Exports...),
		Sessions:     append([]event.Record{}, h.Sessions...),
		Visits:       append([]event.Record{}, h.Visits...),
		Tools:        append([]event.ToolSequenceEntry{}, h.Tools...),
	}
	return out, nil
}

// SaveAssessment appends one assessment run.
func (m *MemoryStore) SaveAssessment(_ context.Context, userID string, a assess.SkillScores) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessments[userID] = append(m.assessments[userID], a)
	return nil
}

// RecentAssessments returns up to limit assessments, newest first.
func (m *MemoryStore) RecentAssessments(_ context.Context, userID string, limit int) ([]assess.SkillScores, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.assessments[userID]
	out := []assess.SkillScores{}
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

// Prune drops events and tool entries older than the cutoff.
func (m *MemoryStore) Prune(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	keep := func(rs []event.Record) []event.Record {
		out := rs[:0]
		for _, r := range rs {
			if r.Timestamp.Before(olderThan) {
				removed++
				continue
			}
			out = append(out, r)
		}
		return out
	}

	for userID, h := range m.histories {
		h.Interactions = keep(h.Interactions)
		h.Actions = keep(h.Actions)
		h.Exports = keep(h.Exports)
		h.Sessions = keep(h.Sessions)
		h.Visits = keep(h.Visits)

		tools := h.Tools[:0]
		for _, t := range h.Tools {
			if t.Timestamp.Before(olderThan) {
				removed++
				continue
			}
			tools = append(tools, t)
		}
		h.Tools = tools
		m.histories[userID] = h
	}
	return removed, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }
