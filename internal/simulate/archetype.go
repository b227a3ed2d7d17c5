package simulate

import "github.com/acumen-hq/acumen/internal/domain/profile"

// Archetype parameterizes one usage pattern. The generator turns an
// archetype into a day-by-day event journey.
type Archetype struct {
	Name string

	// Tools visited on an active day, in order. Power users walk the
	// integration chains; novices poke at one or two tools.
	ToolRotation []string

	// Sections reviewed per tool visit.
	Sections []string

	// Dwell time per interaction, in minutes.
	DwellMinMinutes int
	DwellMaxMinutes int

	// ActionsPerVisit is how many edit actions follow a visit.
	ActionsPerVisit int

	// ExportChance is the per-day probability of exporting from the last
	// visited tool, in percent.
	ExportChance int

	// ChainTools, when true, visits the rotation back to back within the
	// hour so tool integration and strategic exports register.
	ChainTools bool

	// SessionMinutes is the nominal session length per active day.
	SessionMinutes int

	// ActiveDayChance is the per-day probability of any activity, in
	// percent.
	ActiveDayChance int
}

// The three built-in archetypes.
var (
	Novice = Archetype{
		Name:            "novice",
		ToolRotation:    []string{profile.ToolPersonaLab, profile.ToolSegmentExplorer},
		Sections:        []string{"personas"},
		DwellMinMinutes: 1,
		DwellMaxMinutes: 2,
		ActionsPerVisit: 1,
		ExportChance:    5,
		ChainTools:      false,
		SessionMinutes:  10,
		ActiveDayChance: 40,
	}

	Practitioner = Archetype{
		Name: "practitioner",
		ToolRotation: []string{
			profile.ToolPersonaLab,
			profile.ToolROICalculator,
			profile.ToolBusinessCase,
		},
		Sections:        []string{"personas", "pain_points", "assumptions"},
		DwellMinMinutes: 3,
		DwellMaxMinutes: 6,
		ActionsPerVisit: 4,
		ExportChance:    40,
		ChainTools:      false,
		SessionMinutes:  35,
		ActiveDayChance: 70,
	}

	Power = Archetype{
		Name: "power",
		ToolRotation: []string{
			profile.ToolPersonaLab,
			profile.ToolSegmentExplorer,
			profile.ToolROICalculator,
			profile.ToolBusinessCase,
			profile.ToolExecBrief,
			profile.ToolObjectionCoach,
		},
		Sections:        []string{"personas", "pain_points", "assumptions", "objections"},
		DwellMinMinutes: 4,
		DwellMaxMinutes: 9,
		ActionsPerVisit: 8,
		ExportChance:    90,
		ChainTools:      true,
		SessionMinutes:  70,
		ActiveDayChance: 95,
	}
)

// archetypeByName resolves a named archetype; mixed cycles through all
// three.
func archetypeByName(name string, index int) (Archetype, bool) {
	switch name {
	case "novice":
		return Novice, true
	case "practitioner":
		return Practitioner, true
	case "power":
		return Power, true
	case "mixed":
		all := []Archetype{Novice, Practitioner, Power}
		return all[index%len(all)], true
	default:
		return Archetype{}, false
	}
}
