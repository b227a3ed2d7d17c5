package gating

// Strategy is the algorithm that combines individual requirement checks
// into one grant/deny decision.
type Strategy string

// Supported gating strategies. An unknown strategy falls back to strict.
const (
	StrategyStrict        Strategy = "strict"
	StrategyProgressive   Strategy = "progressive"
	StrategyAdaptive      Strategy = "adaptive"
	StrategyCollaborative Strategy = "collaborative"
	StrategyTimeBased     Strategy = "time_based"
)

// Empirically chosen gate ratios. Kept as named constants; no further
// rationale is documented upstream.
const (
	// ProgressiveNonCriticalRatio is the share of non-critical
	// requirements that must pass once every critical one does.
	ProgressiveNonCriticalRatio = 0.70

	// AdaptiveWeightRatio is the minimum met-to-total weight share.
	AdaptiveWeightRatio = 0.75

	// CollaborativeMetRatio is the minimum met-to-total count share.
	CollaborativeMetRatio = 0.60
)

// granted applies the strategy to the requirement list; met is aligned by
// index with all. Zero requirements, or an all-zero weight sum, grant
// vacuously rather than dividing by zero.
func (s Strategy) granted(all []Requirement, met []bool) bool {
	if len(all) == 0 {
		return true
	}

	switch s {
	case StrategyProgressive:
		return progressiveGranted(all, met)
	case StrategyAdaptive:
		return adaptiveGranted(all, met)
	case StrategyCollaborative:
		return float64(countMet(met))/float64(len(all)) >= CollaborativeMetRatio
	case StrategyStrict, StrategyTimeBased:
		// time_based shares strict semantics here; time-decay of the
		// thresholds themselves is a configuration-layer concern.
		return countMet(met) == len(all)
	default:
		return countMet(met) == len(all)
	}
}

func countMet(met []bool) int {
	n := 0
	for _, ok := range met {
		if ok {
			n++
		}
	}
	return n
}

func progressiveGranted(all []Requirement, met []bool) bool {
	var nonCritical, nonCriticalMet int
	for i, r := range all {
		if r.Critical {
			if !met[i] {
				return false
			}
			continue
		}
		nonCritical++
		if met[i] {
			nonCriticalMet++
		}
	}
	if nonCritical == 0 {
		return true
	}
	return float64(nonCriticalMet)/float64(nonCritical) >= ProgressiveNonCriticalRatio
}

func adaptiveGranted(all []Requirement, met []bool) bool {
	var total, metWeight float64
	for i, r := range all {
		total += r.Weight
		if met[i] {
			metWeight += r.Weight
		}
	}
	if total == 0 {
		return true
	}
	return metWeight/total >= AdaptiveWeightRatio
}
