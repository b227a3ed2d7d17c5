package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/acumen-hq/acumen/internal/domain/assess"
	"github.com/acumen-hq/acumen/internal/domain/event"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a single SQLite file, one per
// installation.
type SQLiteStore struct {
	db        *sql.DB
	namespace string
}

// NewSQLiteStore opens (or creates) the DB file and ensures the schema.
// Callers that cannot open the store should degrade to NewMemoryStore
// rather than failing the host process.
func NewSQLiteStore(ctx context.Context, dbPath string, opts ...Option) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create db dir: %w", ErrOpen, err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	s := &SQLiteStore{db: db, namespace: defaultNamespace}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return s, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS events (
  event_id      TEXT PRIMARY KEY,
  namespace     TEXT NOT NULL,
  user_id       TEXT NOT NULL,
  bucket        TEXT NOT NULL,
  component     TEXT NOT NULL,
  ts            INTEGER NOT NULL,
  duration_ms   INTEGER NOT NULL DEFAULT 0,
  section       TEXT NOT NULL DEFAULT '',
  action_type   TEXT NOT NULL DEFAULT '',
  export_format TEXT NOT NULL DEFAULT '',
  metadata      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_events_user ON events(namespace, user_id, bucket, ts);

CREATE TABLE IF NOT EXISTS tool_sequence (
  seq       INTEGER PRIMARY KEY AUTOINCREMENT,
  namespace TEXT NOT NULL,
  user_id   TEXT NOT NULL,
  tool      TEXT NOT NULL,
  ts        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tools_user ON tool_sequence(namespace, user_id, seq);

CREATE TABLE IF NOT EXISTS assessments (
  id                  INTEGER PRIMARY KEY AUTOINCREMENT,
  namespace           TEXT NOT NULL,
  user_id             TEXT NOT NULL,
  customer_analysis   INTEGER NOT NULL,
  value_communication INTEGER NOT NULL,
  executive_readiness INTEGER NOT NULL,
  overall             INTEGER NOT NULL,
  taken_at            INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessments_user ON assessments(namespace, user_id, taken_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// RecordEvent appends one record. Duplicate event ids are ignored so the
// write path stays idempotent under caller retries.
func (s *SQLiteStore) RecordEvent(ctx context.Context, r event.Record) error {
	const stmt = `
INSERT OR IGNORE INTO events
  (event_id, namespace, user_id, bucket, component, ts, duration_ms, section, action_type, export_format, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	meta := ""
	if len(r.Metadata) > 0 {
		b, err := json.Marshal(r.Metadata)
		if err == nil {
			meta = string(b)
		}
	}
	_, err := s.db.ExecContext(ctx, stmt,
		r.ID,
		s.namespace,
		r.UserID,
		string(r.Bucket),
		r.Component,
		r.Timestamp.UnixMilli(),
		r.DurationMillis,
		r.Section,
		r.ActionType,
		r.ExportFormat,
		meta,
	)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// AppendTool appends a tool-sequence entry.
func (s *SQLiteStore) AppendTool(ctx context.Context, userID, tool string, ts time.Time) error {
	const stmt = `INSERT INTO tool_sequence (namespace, user_id, tool, ts) VALUES (?, ?, ?, ?);`
	if _, err := s.db.ExecContext(ctx, stmt, s.namespace, userID, tool, ts.UnixMilli()); err != nil {
		return fmt.Errorf("append tool: %w", err)
	}
	return nil
}

// LastTool returns the most recent tool for the user.
func (s *SQLiteStore) LastTool(ctx context.Context, userID string) (string, bool, error) {
	const query = `SELECT tool FROM tool_sequence WHERE namespace = ? AND user_id = ? ORDER BY seq DESC LIMIT 1;`
	var tool string
	err := s.db.QueryRowContext(ctx, query, s.namespace, userID).Scan(&tool)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("last tool: %w", err)
	}
	return tool, true, nil
}

// History returns the full raw slice for a user in insertion order.
func (s *SQLiteStore) History(ctx context.Context, userID string) (event.History, error) {
	h := event.EmptyHistory()

	const eventsQuery = `
SELECT event_id, bucket, component, ts, duration_ms, section, action_type, export_format, metadata
FROM events WHERE namespace = ? AND user_id = ? ORDER BY rowid ASC;
`
	rows, err := s.db.QueryContext(ctx, eventsQuery, s.namespace, userID)
	if err != nil {
		return h, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r      event.Record
			bucket string
			tsMs   int64
			meta   string
		)
		if err := rows.Scan(&r.ID, &bucket, &r.Component, &tsMs, &r.DurationMillis,
			&r.Section, &r.ActionType, &r.ExportFormat, &meta); err != nil {
			return h, fmt.Errorf("scan event: %w", err)
		}
		r.UserID = userID
		r.Bucket = event.Bucket(bucket)
		r.Timestamp = time.UnixMilli(tsMs).UTC()
		if meta != "" {
			// Unreadable metadata degrades to none; the rubrics never
			// read it, so losing it is harmless.
			_ = json.Unmarshal([]byte(meta), &r.Metadata)
		}
		h = h.Append(r)
	}
	if err := rows.Err(); err != nil {
		return h, fmt.Errorf("iterate events: %w", err)
	}

	const toolsQuery = `SELECT tool, ts FROM tool_sequence WHERE namespace = ? AND user_id = ? ORDER BY seq ASC;`
	toolRows, err := s.db.QueryContext(ctx, toolsQuery, s.namespace, userID)
	if err != nil {
		return h, fmt.Errorf("query tools: %w", err)
	}
	defer toolRows.Close()

	for toolRows.Next() {
		var (
			tool string
			tsMs int64
		)
		if err := toolRows.Scan(&tool, &tsMs); err != nil {
			return h, fmt.Errorf("scan tool: %w", err)
		}
		h.Tools = append(h.Tools, event.ToolSequenceEntry{Tool: tool, Timestamp: time.UnixMilli(tsMs).UTC()})
	}
	if err := toolRows.Err(); err != nil {
		return h, fmt.Errorf("iterate tools: %w", err)
	}
	return h, nil
}

// SaveAssessment appends one assessment run.
func (s *SQLiteStore) SaveAssessment(ctx context.Context, userID string, a assess.SkillScores) error {
	const stmt = `
INSERT INTO assessments (namespace, user_id, customer_analysis, value_communication, executive_readiness, overall, taken_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	_, err := s.db.ExecContext(ctx, stmt, s.namespace, userID,
		a.CustomerAnalysis, a.ValueCommunication, a.ExecutiveReadiness, a.Overall, a.TakenAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	return nil
}

// RecentAssessments returns up to limit assessments, newest first.
func (s *SQLiteStore) RecentAssessments(ctx context.Context, userID string, limit int) ([]assess.SkillScores, error) {
	const query = `
SELECT customer_analysis, value_communication, executive_readiness, overall, taken_at
FROM assessments WHERE namespace = ? AND user_id = ? ORDER BY id DESC LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, s.namespace, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	out := []assess.SkillScores{}
	for rows.Next() {
		var (
			a    assess.SkillScores
			tsMs int64
		)
		if err := rows.Scan(&a.CustomerAnalysis, &a.ValueCommunication, &a.ExecutiveReadiness, &a.Overall, &tsMs); err != nil {
			return out, fmt.Errorf("scan assessment: %w", err)
		}
		a.TakenAt = time.UnixMilli(tsMs).UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("iterate assessments: %w", err)
	}
	return out, nil
}

// Prune removes events and tool entries older than the cutoff.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	cutoff := olderThan.UnixMilli()

	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE namespace = ? AND ts < ?;`, s.namespace, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	removed, _ := res.RowsAffected()

	res, err = s.db.ExecContext(ctx, `DELETE FROM tool_sequence WHERE namespace = ? AND ts < ?;`, s.namespace, cutoff)
	if err != nil {
		return removed, fmt.Errorf("prune tools: %w", err)
	}
	toolRemoved, _ := res.RowsAffected()
	return removed + toolRemoved, nil
}

// Close releases the underlying DB handle.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
