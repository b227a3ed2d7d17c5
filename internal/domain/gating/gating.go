// Package gating decides whether a gated capability should be exposed to a
// user, given the user's current skill scores and the capability's declared
// requirements. Evaluation is a total function: it never fails at runtime,
// and a decision is always returned.
package gating

import (
	"github.com/acumen-hq/acumen/internal/domain/assess"
	"github.com/acumen-hq/acumen/internal/domain/types"
)

// Requirement is one (domain, minimum level, minimum score, weight,
// criticality) gate on a capability. Declared by the product configuration
// layer and consumed read-only here.
type Requirement struct {
	ID       string       `json:"id" koanf:"id"`
	Skill    types.Domain `json:"skill" koanf:"skill"`
	MinLevel string       `json:"min_level" koanf:"min_level"`
	MinScore int          `json:"min_score" koanf:"min_score"`
	Weight   float64      `json:"weight" koanf:"weight"`
	Critical bool         `json:"critical" koanf:"critical"`
}

// Capability is a product feature subject to gating.
type Capability struct {
	ID           string        `json:"id" koanf:"id"`
	Name         string        `json:"name" koanf:"name"`
	Description  string        `json:"description,omitempty" koanf:"description"`
	Requirements []Requirement `json:"requirements" koanf:"requirements"`
	Strategy     Strategy      `json:"strategy" koanf:"strategy"`
}

// AccessDecision is the outcome of one evaluation. Never persisted;
// recomputed on every check so it always reflects the latest scores.
type AccessDecision struct {
	CapabilityID string        `json:"capability_id"`
	Granted      bool          `json:"granted"`
	Unmet        []Requirement `json:"unmet_requirements"`
}

// Meets reports whether the user's scores satisfy one requirement: the
// targeted domain's level rank must reach MinLevel AND its numeric score
// must reach MinScore. Level and score are independent gates, not
// redundant ones.
func Meets(req Requirement, scores assess.SkillScores) bool {
	domainScore := scores.Domain(req.Skill)
	minLevel, err := assess.ParseLevel(req.MinLevel)
	if err != nil {
		// Configuration fault: treat an unparsable level as the lowest
		// rung so the score gate still applies.
		minLevel = assess.LevelFoundation
	}
	if assess.LevelForScore(domainScore) < minLevel {
		return false
	}
	return domainScore >= req.MinScore
}

// Evaluate runs the capability's strategy against the user's scores. The
// unmet list is populated regardless of the strategy outcome so callers
// can always explain "why not yet".
func Evaluate(c Capability, scores assess.SkillScores) AccessDecision {
	met := make([]bool, len(c.Requirements))
	unmet := make([]Requirement, 0)
	for i, req := range c.Requirements {
		met[i] = Meets(req, scores)
		if !met[i] {
			unmet = append(unmet, req)
		}
	}

	return AccessDecision{
		CapabilityID: c.ID,
		Granted:      c.Strategy.granted(c.Requirements, met),
		Unmet:        unmet,
	}
}
