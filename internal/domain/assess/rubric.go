package assess

import (
	"github.com/acumen-hq/acumen/internal/domain/profile"
)

// Review-time thresholds, in milliseconds of accumulated interaction time.
const (
	threeMinutes = 3 * 60 * 1000
	fourMinutes  = 4 * 60 * 1000
	twoMinutes   = 2 * 60 * 1000
	ninetySecs   = 90 * 1000
	oneMinute    = 60 * 1000
)

// Rule is one independent threshold test against a domain sub-profile.
// Rules never interact or multiply; each contributes its points when its
// test passes, which keeps every score explainable rule by rule.
type Rule struct {
	Name   string
	Group  string
	Points int
	Met    func(profile.DomainProfile) bool
}

// Rubric groups a domain's rules. Point totals per rubric sum to exactly
// 100 so a profile satisfying every rule scores 100.
type Rubric []Rule

// Score sums the points of all met rules, clamped to [0,100].
func (r Rubric) Score(dp profile.DomainProfile) int {
	total := 0
	for _, rule := range r {
		if rule.Met(dp) {
			total += rule.Points
		}
	}
	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return total
}

// customerAnalysisRubric: research depth 50, follow-through 30, advanced
// workflow 20.
var customerAnalysisRubric = Rubric{
	{Name: "sustained_review", Group: "research_depth", Points: 20,
		Met: func(dp profile.DomainProfile) bool { return dp.ReviewTimeMillis > threeMinutes }},
	{Name: "persona_study", Group: "research_depth", Points: 15,
		Met: func(dp profile.DomainProfile) bool { return dp.SectionTime("personas") > twoMinutes }},
	{Name: "pain_point_study", Group: "research_depth", Points: 15,
		Met: func(dp profile.DomainProfile) bool { return dp.SectionTime("pain_points") > ninetySecs }},
	{Name: "analysis_exported", Group: "follow_through", Points: 20,
		Met: func(dp profile.DomainProfile) bool { return dp.Exported }},
	{Name: "active_engagement", Group: "follow_through", Points: 10,
		Met: func(dp profile.DomainProfile) bool { return dp.ActionCount >= 5 }},
	{Name: "tool_integration", Group: "advanced_workflow", Points: 10,
		Met: func(dp profile.DomainProfile) bool { return dp.ToolIntegration }},
	{Name: "strategic_export", Group: "advanced_workflow", Points: 10,
		Met: func(dp profile.DomainProfile) bool { return dp.StrategicExport }},
}

// valueCommunicationRubric: quantification depth 40, follow-through 35,
// advanced workflow 25.
var valueCommunicationRubric = Rubric{
	{Name: "sustained_review", Group: "quantification_depth", Points: 20,
		Met: func(dp profile.DomainProfile) bool { return dp.ReviewTimeMillis > fourMinutes }},
	{Name: "assumption_tuning", Group: "quantification_depth", Points: 10,
		Met: func(dp profile.DomainProfile) bool { return dp.SectionTime("assumptions") > twoMinutes }},
	{Name: "iterative_modeling", Group: "quantification_depth", Points: 10,
		Met: func(dp profile.DomainProfile) bool { return dp.ActionCount >= 8 }},
	{Name: "case_exported", Group: "follow_through", Points: 25,
		Met: func(dp profile.DomainProfile) bool { return dp.Exported }},
	{Name: "repeat_exports", Group: "follow_through", Points: 10,
		Met: func(dp profile.DomainProfile) bool { return dp.ExportCount >= 2 }},
	{Name: "tool_integration", Group: "advanced_workflow", Points: 15,
		Met: func(dp profile.DomainProfile) bool { return dp.ToolIntegration }},
	{Name: "strategic_export", Group: "advanced_workflow", Points: 10,
		Met: func(dp profile.DomainProfile) bool { return dp.StrategicExport }},
}

// executiveReadinessRubric: narrative depth 40, delivery 35, advanced
// workflow 25.
var executiveReadinessRubric = Rubric{
	{Name: "sustained_review", Group: "narrative_depth", Points: 20,
		Met: func(dp profile.DomainProfile) bool { return dp.ReviewTimeMillis > threeMinutes }},
	{Name: "objection_prep", Group: "narrative_depth", Points: 20,
		Met: func(dp profile.DomainProfile) bool { return dp.SectionTime("objections") > oneMinute }},
	{Name: "brief_exported", Group: "delivery", Points: 20,
		Met: func(dp profile.DomainProfile) bool { return dp.Exported }},
	{Name: "brief_refinement", Group: "delivery", Points: 15,
		Met: func(dp profile.DomainProfile) bool { return dp.ActionCount >= 3 }},
	{Name: "strategic_export", Group: "advanced_workflow", Points: 15,
		Met: func(dp profile.DomainProfile) bool { return dp.StrategicExport }},
	{Name: "tool_integration", Group: "advanced_workflow", Points: 10,
		Met: func(dp profile.DomainProfile) bool { return dp.ToolIntegration }},
}
