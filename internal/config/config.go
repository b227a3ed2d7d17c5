// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/acumen-hq/acumen/internal/domain/gating"
	"github.com/acumen-hq/acumen/internal/domain/types"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBPath locates the durable telemetry store (SQLite file).
	DBPath string `koanf:"db_path"`

	// RetentionDays bounds how long raw events are kept before pruning.
	RetentionDays int `koanf:"retention_days"`

	// CollectorURL is where the sync queue posts event batches.
	CollectorURL string `koanf:"collector_url"`

	// SyncBatchSize triggers a flush when this many events are queued.
	SyncBatchSize int `koanf:"sync_batch_size"`

	// SyncFlushIntervalMS triggers a flush this long after the first
	// un-flushed event.
	SyncFlushIntervalMS int `koanf:"sync_flush_interval_ms"`

	// DedupeSize bounds the collector's seen-event-id cache.
	DedupeSize int `koanf:"dedupe_size"`

	// CapabilitiesFile optionally points at a YAML capability catalog;
	// when empty the built-in catalog applies.
	CapabilitiesFile string `koanf:"capabilities_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DBPath:              "acumen.db",
		RetentionDays:       30,
		CollectorURL:        "http://localhost:9080/v1/collect",
		SyncBatchSize:       10,
		SyncFlushIntervalMS: 30_000,
		DedupeSize:          50_000,
	}
}

// DefaultCapabilities is the built-in capability catalog, used when no
// capabilities file is configured. The product layer normally ships its
// own.
func DefaultCapabilities() []gating.Capability {
	return []gating.Capability{
		{
			ID:       "roi_sensitivity",
			Name:     "ROI sensitivity analysis",
			Strategy: gating.StrategyStrict,
			Requirements: []gating.Requirement{
				{ID: "vc_developing", Skill: types.DomainValueCommunication, MinLevel: "developing", MinScore: 40, Weight: 1.0, Critical: true},
			},
		},
		{
			ID:       "template_arsenal",
			Name:     "Advanced template arsenal",
			Strategy: gating.StrategyProgressive,
			Requirements: []gating.Requirement{
				{ID: "overall_developing", Skill: types.DomainOverall, MinLevel: "developing", MinScore: 40, Weight: 1.0, Critical: true},
				{ID: "ca_score", Skill: types.DomainCustomerAnalysis, MinLevel: "developing", MinScore: 50, Weight: 0.6, Critical: false},
				{ID: "vc_score", Skill: types.DomainValueCommunication, MinLevel: "developing", MinScore: 50, Weight: 0.6, Critical: false},
			},
		},
		{
			ID:       "exec_dashboard",
			Name:     "Executive dashboard",
			Strategy: gating.StrategyAdaptive,
			Requirements: []gating.Requirement{
				{ID: "er_proficient", Skill: types.DomainExecutiveReadiness, MinLevel: "proficient", MinScore: 70, Weight: 0.5, Critical: false},
				{ID: "vc_proficient", Skill: types.DomainValueCommunication, MinLevel: "proficient", MinScore: 70, Weight: 0.3, Critical: false},
				{ID: "overall_developing", Skill: types.DomainOverall, MinLevel: "developing", MinScore: 55, Weight: 0.2, Critical: false},
			},
		},
		{
			ID:       "peer_benchmarks",
			Name:     "Peer benchmark sharing",
			Strategy: gating.StrategyCollaborative,
			Requirements: []gating.Requirement{
				{ID: "ca_base", Skill: types.DomainCustomerAnalysis, MinLevel: "developing", MinScore: 40, Weight: 0.4, Critical: false},
				{ID: "vc_base", Skill: types.DomainValueCommunication, MinLevel: "developing", MinScore: 40, Weight: 0.4, Critical: false},
				{ID: "er_base", Skill: types.DomainExecutiveReadiness, MinLevel: "foundation", MinScore: 25, Weight: 0.2, Critical: false},
			},
		},
	}
}
