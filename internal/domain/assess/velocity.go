package assess

import "math"

const hoursPerDay = 24

// Velocity is the rate of score change in points per day, per domain and
// overall, computed between two assessments of the same user.
type Velocity struct {
	CustomerAnalysis   float64 `json:"customer_analysis"`
	ValueCommunication float64 `json:"value_communication"`
	ExecutiveReadiness float64 `json:"executive_readiness"`
	Overall            float64 `json:"overall"`
}

// ComputeVelocity derives the per-day score deltas between prev and cur.
// ok is false when the assessments do not span a positive interval, in
// which case no velocity is defined.
func ComputeVelocity(prev, cur SkillScores) (Velocity, bool) {
	days := cur.TakenAt.Sub(prev.TakenAt).Hours() / hoursPerDay
	if days <= 0 {
		return Velocity{}, false
	}
	return Velocity{
		CustomerAnalysis:   float64(cur.CustomerAnalysis-prev.CustomerAnalysis) / days,
		ValueCommunication: float64(cur.ValueCommunication-prev.ValueCommunication) / days,
		ExecutiveReadiness: float64(cur.ExecutiveReadiness-prev.ExecutiveReadiness) / days,
		Overall:            float64(cur.Overall-prev.Overall) / days,
	}, true
}

// Progress bundles an assessment run with the velocity and level ETA
// derived from the previous run. HasVelocity is false on a user's first
// assessment; HasPrediction is false whenever no finite ETA exists.
type Progress struct {
	Scores          SkillScores
	Level           Level
	Velocity        Velocity
	HasVelocity     bool
	DaysToNextLevel int
	HasPrediction   bool
}

// DaysToNextLevel estimates when the user reaches the next competency rung.
// ok is false when overall velocity is non-positive or the user already
// sits at the top rung. A defined estimate is never less than one day.
func DaysToNextLevel(cur SkillScores, v Velocity) (int, bool) {
	if v.Overall <= 0 {
		return 0, false
	}
	next, ok := NextThreshold(cur.Overall)
	if !ok {
		return 0, false
	}
	days := int(math.Ceil(float64(next-cur.Overall) / v.Overall))
	if days < 1 {
		days = 1
	}
	return days, true
}
