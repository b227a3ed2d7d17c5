// Package app provides the engine service wiring telemetry capture,
// profile assembly, skill assessment and capability gating behind one
// explicit context object. The service is constructed once per process
// and passed by reference to everything that needs it. There are no
// module-level singletons, so tests can run it against fake stores,
// transports and clocks.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/acumen-hq/acumen/internal/adapters/store"
	"github.com/acumen-hq/acumen/internal/adapters/syncq"
	"github.com/acumen-hq/acumen/internal/domain/assess"
	"github.com/acumen-hq/acumen/internal/domain/dedupe"
	"github.com/acumen-hq/acumen/internal/domain/event"
	"github.com/acumen-hq/acumen/internal/domain/gating"
	"github.com/acumen-hq/acumen/internal/domain/profile"
	"github.com/acumen-hq/acumen/pkg/logger"
	"github.com/acumen-hq/acumen/pkg/metrics"
)

const (
	defaultPruneInterval = 6 * time.Hour
	velocityWindow       = 2 // assessments needed for a velocity
)

// Service implements the engine operations behind the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   store.Store
	queue   *syncq.Queue
	deduper dedupe.Deduper

	// Configuration
	capabilities []gating.Capability
	capsByID     map[string]gating.Capability
	retention    time.Duration
	dedupeSize   int
	clock        func() time.Time

	// Per-user active tool, seeded lazily from the store.
	toolMu   sync.Mutex
	lastTool map[string]string

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the durable telemetry store.
func WithStore(s store.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.store = s
		}
	}
}

// WithQueue sets the sync queue.
func WithQueue(q *syncq.Queue) Option {
	return func(svc *Service) {
		if q != nil {
			svc.queue = q
		}
	}
}

// WithCapabilities sets the gated capability catalog.
func WithCapabilities(caps []gating.Capability) Option {
	return func(svc *Service) {
		svc.capabilities = caps
	}
}

// WithRetention bounds how long raw events are kept.
func WithRetention(d time.Duration) Option {
	return func(svc *Service) {
		if d > 0 {
			svc.retention = d
		}
	}
}

// WithDedupeSize sets the size of the collector's seen-id cache.
func WithDedupeSize(size int) Option {
	return func(svc *Service) {
		if size > 0 {
			svc.dedupeSize = size
		}
	}
}

// WithClock injects the assessment clock.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) {
		if now != nil {
			svc.clock = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		retention:  store.DefaultRetention,
		dedupeSize: 50_000,
		clock:      time.Now,
		lastTool:   make(map[string]string),
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.capsByID = make(map[string]gating.Capability, len(s.capabilities))
	for _, c := range s.capabilities {
		s.capsByID[c.ID] = c
	}
	return s
}

// log resolves the service logger lazily so construction stays safe in
// tests that never initialize the global logger.
func (s *Service) log() logger.Logger {
	if s.logger == nil {
		s.logger = logger.Get().Named("engine")
	}
	return s.logger
}

// Start launches the queue flush loop and the retention pruner.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.queue != nil {
		go s.queue.Run(ctx)
	}
	go s.pruneLoop(ctx)

	s.started = true
	s.log().Info(ctx, "engine started",
		logger.Int("capabilities", len(s.capabilities)),
		logger.Int("retentionDays", int(s.retention.Hours()/24)),
	)
	return nil
}

// Stop shuts the service down. Un-flushed telemetry stays in the durable
// store until a later successful flush.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.queue != nil {
		s.queue.Stop()
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	if err := s.store.Close(); err != nil {
		s.log().Warn(context.Background(), "store close failed", logger.Error(err))
	}
	s.started = false
	s.log().Info(context.Background(), "engine stopped")
}

func (s *Service) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(defaultPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			cutoff := s.clock().Add(-s.retention)
			removed, err := s.store.Prune(ctx, cutoff)
			if err != nil {
				metrics.RecordStoreError("prune")
				s.log().Warn(ctx, "retention prune failed", logger.Error(err))
				continue
			}
			if removed > 0 {
				s.log().Info(ctx, "pruned expired telemetry", logger.Int64("removed", removed))
			}
		}
	}
}

// Record captures one telemetry event: durable store first, then the
// sync queue. Fire-and-forget: malformed events are dropped at this
// boundary and store faults are absorbed, because losing telemetry is
// acceptable and crashing the host UI is not.
func (s *Service) Record(ctx context.Context, r event.Record) {
	if err := r.Validate(); err != nil {
		metrics.RecordEventDropped()
		s.log().Debug(ctx, "dropped malformed event",
			logger.String("bucket", string(r.Bucket)),
			logger.Error(err),
		)
		return
	}

	if err := s.store.RecordEvent(ctx, r); err != nil {
		metrics.RecordStoreError("record_event")
		metrics.RecordErrorByComponent("store", "write")
		s.log().Warn(ctx, "event not persisted", logger.String("eventID", r.ID), logger.Error(err))
	} else {
		metrics.RecordEventRecorded()
	}

	if s.queue != nil {
		s.queue.Enqueue(ctx, r)
	}

	// Visits to a tool drive the tool-sequence used for integration
	// detection.
	if r.Bucket == event.BucketVisit && profile.IsTool(r.Component) {
		s.TrackTool(ctx, r.UserID, r.Component, r.Timestamp)
	}
}

// TrackTool appends a tool-sequence entry when the user's active tool
// changes. Repeated calls with the same tool are no-ops.
func (s *Service) TrackTool(ctx context.Context, userID, tool string, ts time.Time) {
	if userID == "" || tool == "" {
		return
	}

	s.toolMu.Lock()
	last, cached := s.lastTool[userID]
	s.toolMu.Unlock()

	if !cached {
		stored, ok, err := s.store.LastTool(ctx, userID)
		if err != nil {
			metrics.RecordStoreError("last_tool")
			s.log().Warn(ctx, "tool lookup failed", logger.Error(err))
		} else if ok {
			last = stored
		}
	}
	if last == tool {
		return
	}

	if err := s.store.AppendTool(ctx, userID, tool, ts); err != nil {
		metrics.RecordStoreError("append_tool")
		s.log().Warn(ctx, "tool change not persisted", logger.Error(err))
		return
	}
	s.toolMu.Lock()
	s.lastTool[userID] = tool
	s.toolMu.Unlock()
}

// Profile recomputes the user's behavioral profile from the full local
// event history. An unreadable history degrades to the empty profile.
func (s *Service) Profile(ctx context.Context, userID string) profile.BehaviorProfile {
	h, err := s.store.History(ctx, userID)
	if err != nil {
		metrics.RecordStoreError("history")
		metrics.RecordErrorByComponent("store", "read")
		s.log().Warn(ctx, "history read failed; using partial data",
			logger.String("userID", userID),
			logger.Error(err),
		)
	}
	return profile.Assemble(h)
}

// Assess scores the user's current profile and appends the run to the
// assessment history.
func (s *Service) Assess(ctx context.Context, userID string) assess.SkillScores {
	scores := assess.Assess(s.Profile(ctx, userID), s.clock())
	metrics.RecordAssessment()

	if err := s.store.SaveAssessment(ctx, userID, scores); err != nil {
		metrics.RecordStoreError("save_assessment")
		s.log().Warn(ctx, "assessment not persisted", logger.String("userID", userID), logger.Error(err))
	}
	return scores
}

// Progress runs a fresh assessment and derives progress velocity against
// the most recent prior run.
func (s *Service) Progress(ctx context.Context, userID string) assess.Progress {
	cur := s.Assess(ctx, userID)
	p := assess.Progress{Scores: cur, Level: cur.Level()}

	recent, err := s.store.RecentAssessments(ctx, userID, velocityWindow)
	if err != nil {
		metrics.RecordStoreError("recent_assessments")
		s.log().Warn(ctx, "assessment history read failed", logger.Error(err))
		return p
	}
	// recent[0] is the run just saved; recent[1] is the prior one.
	if len(recent) < velocityWindow {
		return p
	}
	v, ok := assess.ComputeVelocity(recent[1], cur)
	if !ok {
		return p
	}
	p.Velocity = v
	p.HasVelocity = true
	if days, ok := assess.DaysToNextLevel(cur, v); ok {
		p.DaysToNextLevel = days
		p.HasPrediction = true
	}
	return p
}

// Evaluate decides access to one capability against a fresh assessment.
// A decision is always produced for known capabilities; the only failure
// is an unknown capability id.
func (s *Service) Evaluate(ctx context.Context, userID, capabilityID string) (gating.AccessDecision, error) {
	c, ok := s.capsByID[capabilityID]
	if !ok {
		return gating.AccessDecision{}, gating.ErrUnknownCapability
	}
	decision := gating.Evaluate(c, s.Assess(ctx, userID))
	metrics.RecordGatingDecision(string(c.Strategy), decision.Granted)
	return decision, nil
}

// EvaluateAll decides access to every declared capability using a single
// assessment run.
func (s *Service) EvaluateAll(ctx context.Context, userID string) []gating.AccessDecision {
	scores := s.Assess(ctx, userID)
	out := make([]gating.AccessDecision, 0, len(s.capabilities))
	for _, c := range s.capabilities {
		decision := gating.Evaluate(c, scores)
		metrics.RecordGatingDecision(string(c.Strategy), decision.Granted)
		out = append(out, decision)
	}
	return out
}

// Capabilities returns the declared capability catalog.
func (s *Service) Capabilities() []gating.Capability {
	return s.capabilities
}

// SetOnline forwards a connectivity transition to the sync queue.
func (s *Service) SetOnline(online bool) {
	if s.queue != nil {
		s.queue.SetOnline(online)
	}
}

// Collect ingests one delivered batch on the collector side, deduping
// per event id so redelivered batches are acknowledged without double
// counting. Accepted events land in the store as the weak cross-device
// replica.
func (s *Service) Collect(ctx context.Context, batch []event.Record) (accepted, duplicates int) {
	for _, r := range batch {
		if err := r.Validate(); err != nil {
			metrics.RecordEventDropped()
			continue
		}
		if s.deduper.SeenAndRecord(ctx, r.ID) {
			duplicates++
			metrics.RecordEventDuplicate()
			continue
		}
		if err := s.store.RecordEvent(ctx, r); err != nil {
			metrics.RecordStoreError("collect")
			s.deduper.Unrecord(ctx, r.ID)
			s.log().Warn(ctx, "collected event not persisted", logger.String("eventID", r.ID), logger.Error(err))
			continue
		}
		accepted++
		metrics.RecordEventCollected()
	}
	return accepted, duplicates
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"capabilities":  len(s.capabilities),
		"retentionDays": int(s.retention.Hours() / 24),
		"dedupeSize":    s.deduper.Size(),
	}
	if s.queue != nil {
		stats["queueLength"] = s.queue.Len()
		stats["queueState"] = s.queue.State().String()
		stats["queueRetries"] = s.queue.Retries()
		stats["online"] = s.queue.Online()
	}
	return stats
}
