package assess

import (
	"fmt"
	"strings"
)

// Level is the discrete competency rung derived from the overall score.
// It is a function of the score alone, never of time, so it can decrease
// if behavior regresses.
type Level int

// Competency ladder, lowest rung first.
const (
	LevelFoundation Level = iota
	LevelDeveloping
	LevelProficient
	LevelAdvanced
)

// Ascending score boundaries: scores below a boundary fall in the level
// beneath it. Every integer in [0,100] maps to exactly one level.
const (
	developingThreshold = 40
	proficientThreshold = 70
	advancedThreshold   = 85
)

func (l Level) String() string {
	switch l {
	case LevelFoundation:
		return "foundation"
	case LevelDeveloping:
		return "developing"
	case LevelProficient:
		return "proficient"
	case LevelAdvanced:
		return "advanced"
	default:
		return "unknown"
	}
}

// ParseLevel converts a configuration string into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "foundation":
		return LevelFoundation, nil
	case "developing":
		return LevelDeveloping, nil
	case "proficient":
		return LevelProficient, nil
	case "advanced":
		return LevelAdvanced, nil
	default:
		return LevelFoundation, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// LevelForScore maps a 0-100 score to its competency level. Out-of-range
// inputs are clamped so the lookup stays total.
func LevelForScore(score int) Level {
	switch {
	case score < developingThreshold:
		return LevelFoundation
	case score < proficientThreshold:
		return LevelDeveloping
	case score < advancedThreshold:
		return LevelProficient
	default:
		return LevelAdvanced
	}
}

// NextThreshold returns the overall score needed to reach the level above
// the one score currently sits in. ok is false at the top rung.
func NextThreshold(score int) (int, bool) {
	switch LevelForScore(score) {
	case LevelFoundation:
		return developingThreshold, true
	case LevelDeveloping:
		return proficientThreshold, true
	case LevelProficient:
		return advancedThreshold, true
	default:
		return 0, false
	}
}
