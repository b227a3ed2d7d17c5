// Package assess maps behavioral profiles to skill scores and competency
// levels via deterministic weighted rubrics.
package assess

import (
	"math"
	"time"

	"github.com/acumen-hq/acumen/internal/domain/profile"
	"github.com/acumen-hq/acumen/internal/domain/types"
)

// SkillScores is one assessment run: a 0-100 score per domain plus the
// rounded mean. Instances are kept historically so velocity can be
// computed between two runs for the same user.
type SkillScores struct {
	CustomerAnalysis   int       `json:"customer_analysis"`
	ValueCommunication int       `json:"value_communication"`
	ExecutiveReadiness int       `json:"executive_readiness"`
	Overall            int       `json:"overall"`
	TakenAt            time.Time `json:"taken_at"`
}

// Domain returns the score for a scored domain, or the overall score for
// the aggregate pseudo-domain.
func (s SkillScores) Domain(d types.Domain) int {
	switch d {
	case types.DomainCustomerAnalysis:
		return s.CustomerAnalysis
	case types.DomainValueCommunication:
		return s.ValueCommunication
	case types.DomainExecutiveReadiness:
		return s.ExecutiveReadiness
	default:
		return s.Overall
	}
}

// Level derives the competency level from the overall score.
func (s SkillScores) Level() Level {
	return LevelForScore(s.Overall)
}

// Assess scores a behavioral profile. It never fails: zero-valued profile
// fields simply fail their threshold tests, so an incomplete behavior log
// degrades to a lower score rather than an error. The caller supplies now
// so assessment stays deterministic under test.
func Assess(p profile.BehaviorProfile, now time.Time) SkillScores {
	ca := customerAnalysisRubric.Score(p.CustomerAnalysis)
	vc := valueCommunicationRubric.Score(p.ValueCommunication)
	er := executiveReadinessRubric.Score(p.ExecutiveReadiness)

	mean := float64(ca+vc+er) / 3.0
	return SkillScores{
		CustomerAnalysis:   ca,
		ValueCommunication: vc,
		ExecutiveReadiness: er,
		Overall:            int(math.Round(mean)),
		TakenAt:            now,
	}
}
