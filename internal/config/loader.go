package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/acumen-hq/acumen/internal/domain/assess"
	"github.com/acumen-hq/acumen/internal/domain/gating"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ACUMEN_CONFIG is set
//  3. env (prefix ACUMEN_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ACUMEN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ACUMEN_ADDR, ACUMEN_DB_PATH, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("ACUMEN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "acumen_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.RetentionDays <= 0:
		return nil, fmt.Errorf("%w: retention_days must be positive", ErrInvalidConfig)
	case cfg.SyncBatchSize <= 0:
		return nil, fmt.Errorf("%w: sync_batch_size must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}

// LoadCapabilities reads a YAML capability catalog:
//
//	capabilities:
//	  - id: exec_dashboard
//	    strategy: adaptive
//	    requirements:
//	      - id: er_proficient
//	        skill: executive_readiness
//	        min_level: proficient
//	        min_score: 70
//	        weight: 0.5
//
// Declarations are validated here, at configuration time; the gating
// engine itself treats them as well-formed input.
func LoadCapabilities(_ context.Context, path string) ([]gating.Capability, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	var out struct {
		Capabilities []gating.Capability `koanf:"capabilities"`
	}
	if err := k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := ValidateCapabilities(out.Capabilities); err != nil {
		return nil, err
	}
	return out.Capabilities, nil
}

// ValidateCapabilities checks a capability catalog for configuration
// faults the gating engine does not guard against.
func ValidateCapabilities(caps []gating.Capability) error {
	seen := map[string]struct{}{}
	for _, c := range caps {
		if c.ID == "" {
			return fmt.Errorf("%w: capability with empty id", ErrInvalidCapability)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate capability id %q", ErrInvalidCapability, c.ID)
		}
		seen[c.ID] = struct{}{}

		for _, r := range c.Requirements {
			if !r.Skill.Valid() {
				return fmt.Errorf("%w: capability %q: unknown skill %q", ErrInvalidCapability, c.ID, r.Skill)
			}
			if _, err := assess.ParseLevel(r.MinLevel); err != nil {
				return fmt.Errorf("%w: capability %q: %w", ErrInvalidCapability, c.ID, err)
			}
			if r.MinScore < 0 || r.MinScore > 100 {
				return fmt.Errorf("%w: capability %q: min_score %d out of range", ErrInvalidCapability, c.ID, r.MinScore)
			}
			if r.Weight < 0 || r.Weight > 1 {
				return fmt.Errorf("%w: capability %q: weight %v out of range", ErrInvalidCapability, c.ID, r.Weight)
			}
		}
	}
	return nil
}
