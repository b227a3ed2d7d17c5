// Package profile reduces a user's raw telemetry history into a structured
// behavioral profile. Assembly is a pure function: no I/O, no clock reads,
// and the same history always yields the same profile.
package profile

import (
	"time"

	"github.com/acumen-hq/acumen/internal/domain/types"
)

// Product tool identifiers as they appear in the tool sequence.
const (
	ToolPersonaLab      = "persona_lab"
	ToolSegmentExplorer = "segment_explorer"
	ToolROICalculator   = "roi_calculator"
	ToolBusinessCase    = "business_case"
	ToolExecBrief       = "exec_brief"
	ToolObjectionCoach  = "objection_coach"
)

// componentDomains maps a UI component to the skill domain its telemetry
// counts toward. Components not listed here contribute only to the overall
// metrics, never to a domain sub-profile.
var componentDomains = map[string]types.Domain{
	ToolPersonaLab:      types.DomainCustomerAnalysis,
	ToolSegmentExplorer: types.DomainCustomerAnalysis,
	ToolROICalculator:   types.DomainValueCommunication,
	ToolBusinessCase:    types.DomainValueCommunication,
	ToolExecBrief:       types.DomainExecutiveReadiness,
	ToolObjectionCoach:  types.DomainExecutiveReadiness,
}

// IsTool reports whether a component name is one of the six tools that
// participate in tool-sequence tracking.
func IsTool(component string) bool {
	_, ok := componentDomains[component]
	return ok
}

// integrationPairs lists, per domain, the cross-tool adjacency that counts
// as a deliberate workflow (first tool used within the adjacency window
// before the second).
var integrationPairs = map[types.Domain][2]string{
	types.DomainCustomerAnalysis:   {ToolPersonaLab, ToolROICalculator},
	types.DomainValueCommunication: {ToolROICalculator, ToolBusinessCase},
	types.DomainExecutiveReadiness: {ToolBusinessCase, ToolExecBrief},
}

// DomainProfile is the reduced behavioral summary for one skill domain.
// Every numeric field is a cumulative counter over the history, so a
// growing event log never decreases any of them.
type DomainProfile struct {
	ReviewTimeMillis  int64            `json:"review_time_ms"`
	SectionTimeMillis map[string]int64 `json:"section_time_ms,omitempty"`
	ActionCount       int              `json:"action_count"`
	ExportCount       int              `json:"export_count"`
	Exported          bool             `json:"exported"`
	ToolIntegration   bool             `json:"tool_integration"`
	StrategicExport   bool             `json:"strategic_export"`
}

// SectionTime returns accumulated interaction time for a named section.
func (d DomainProfile) SectionTime(name string) int64 {
	return d.SectionTimeMillis[name]
}

// OverallMetrics summarizes activity that is not domain specific.
type OverallMetrics struct {
	SessionCount         int       `json:"session_count"`
	ExportCount          int       `json:"export_count"`
	AverageSessionMillis float64   `json:"avg_session_ms"`
	LastActivity         time.Time `json:"last_activity"`
}

// BehaviorProfile holds the three domain sub-profiles plus overall metrics.
type BehaviorProfile struct {
	CustomerAnalysis   DomainProfile  `json:"customer_analysis"`
	ValueCommunication DomainProfile  `json:"value_communication"`
	ExecutiveReadiness DomainProfile  `json:"executive_readiness"`
	Overall            OverallMetrics `json:"overall"`
}

// Domain returns the sub-profile for a scored domain. Unknown domains get
// an empty sub-profile rather than a failure.
func (p BehaviorProfile) Domain(d types.Domain) DomainProfile {
	switch d {
	case types.DomainCustomerAnalysis:
		return p.CustomerAnalysis
	case types.DomainValueCommunication:
		return p.ValueCommunication
	case types.DomainExecutiveReadiness:
		return p.ExecutiveReadiness
	default:
		return emptyDomainProfile()
	}
}

func emptyDomainProfile() DomainProfile {
	return DomainProfile{SectionTimeMillis: map[string]int64{}}
}

// Empty returns a well-defined profile with every numeric field zero and
// every boolean false, so downstream scoring never needs nil checks.
func Empty() BehaviorProfile {
	return BehaviorProfile{
		CustomerAnalysis:   emptyDomainProfile(),
		ValueCommunication: emptyDomainProfile(),
		ExecutiveReadiness: emptyDomainProfile(),
	}
}
