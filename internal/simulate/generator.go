package simulate

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/acumen-hq/acumen/internal/domain/event"
	"github.com/acumen-hq/acumen/internal/domain/profile"
)

const (
	percentMax       = 100
	minutesBetween   = 10 // gap between consecutive tool visits in a chain
	hoursPerDay      = 24
	workdayStartHour = 9
)

// randomInt returns a uniform int in [0, n) using crypto/rand.
func randomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// chance rolls a percentage.
func chance(percent int) bool {
	return randomInt(percentMax) < percent
}

var exportFormats = []string{"pdf", "pptx", "xlsx"}

// generateJourney produces the full event history one user would emit
// over the configured number of days, ending at now.
func generateJourney(userID string, arch Archetype, days int, now time.Time) []event.Record {
	var out []event.Record

	for day := days; day >= 1; day-- {
		if !chance(arch.ActiveDayChance) {
			continue
		}
		// Sessions start mid-morning on the simulated day.
		at := now.Add(-time.Duration(day) * hoursPerDay * time.Hour)
		at = time.Date(at.Year(), at.Month(), at.Day(), workdayStartHour, randomInt(50), 0, 0, time.UTC)

		sessionStart := at
		lastTool := ""

		for _, tool := range arch.ToolRotation {
			if !arch.ChainTools && !chance(60) {
				continue
			}
			out = append(out, event.NewVisit(userID, tool, at))
			lastTool = tool

			for _, section := range arch.Sections {
				dwell := arch.DwellMinMinutes + randomInt(arch.DwellMaxMinutes-arch.DwellMinMinutes+1)
				out = append(out, event.NewInteraction(userID, tool, section,
					time.Duration(dwell)*time.Minute, at))
				at = at.Add(time.Duration(dwell) * time.Minute)
			}
			for i := 0; i < arch.ActionsPerVisit; i++ {
				out = append(out, event.NewAction(userID, tool, "edit", at))
				at = at.Add(time.Duration(1+randomInt(2)) * time.Minute)
			}
			at = at.Add(time.Duration(minutesBetween) * time.Minute)
		}

		if lastTool != "" && chance(arch.ExportChance) {
			format := exportFormats[randomInt(len(exportFormats))]
			out = append(out, event.NewExport(userID, lastTool, format, at))
			at = at.Add(time.Minute)
		}

		sessionLen := at.Sub(sessionStart)
		if min := time.Duration(arch.SessionMinutes) * time.Minute; sessionLen < min {
			sessionLen = min
		}
		out = append(out, event.NewSession(userID, sessionLen, at))
	}
	return out
}

// newUserID mints a readable simulated user id.
func newUserID(arch Archetype) string {
	return "sim-" + arch.Name + "-" + uuid.NewString()[:8]
}

// guard against archetypes referencing unknown tools
func init() {
	for _, a := range []Archetype{Novice, Practitioner, Power} {
		for _, t := range a.ToolRotation {
			if !profile.IsTool(t) {
				panic("simulate: archetype " + a.Name + " references unknown tool " + t)
			}
		}
	}
}
