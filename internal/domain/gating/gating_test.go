package gating_test

import (
	"testing"

	"github.com/acumen-hq/acumen/internal/domain/assess"
	"github.com/acumen-hq/acumen/internal/domain/gating"
	"github.com/acumen-hq/acumen/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func req(id string, skill types.Domain, minLevel string, minScore int, weight float64, critical bool) gating.Requirement {
	return gating.Requirement{
		ID:       id,
		Skill:    skill,
		MinLevel: minLevel,
		MinScore: minScore,
		Weight:   weight,
		Critical: critical,
	}
}

func TestMeets(t *testing.T) {
	scores := assess.SkillScores{
		CustomerAnalysis:   75,
		ValueCommunication: 45,
		ExecutiveReadiness: 20,
		Overall:            47,
	}

	Convey("Given a requirement with level and score gates", t, func() {
		Convey("Then both gates must pass", func() {
			So(gating.Meets(req("r", types.DomainCustomerAnalysis, "proficient", 70, 1, false), scores), ShouldBeTrue)
			So(gating.Meets(req("r", types.DomainCustomerAnalysis, "proficient", 80, 1, false), scores), ShouldBeFalse)
			So(gating.Meets(req("r", types.DomainCustomerAnalysis, "advanced", 70, 1, false), scores), ShouldBeFalse)
		})

		Convey("Then the overall pseudo-domain is scored from the mean", func() {
			So(gating.Meets(req("r", types.DomainOverall, "developing", 40, 1, false), scores), ShouldBeTrue)
			So(gating.Meets(req("r", types.DomainOverall, "proficient", 0, 1, false), scores), ShouldBeFalse)
		})

		Convey("Then an unparsable level falls back to foundation and the score gate still applies", func() {
			So(gating.Meets(req("r", types.DomainExecutiveReadiness, "grandmaster", 10, 1, false), scores), ShouldBeTrue)
			So(gating.Meets(req("r", types.DomainExecutiveReadiness, "grandmaster", 30, 1, false), scores), ShouldBeFalse)
		})
	})
}

func TestEvaluateStrategies(t *testing.T) {
	// One critical requirement met, one of three non-criticals met.
	scores := assess.SkillScores{
		CustomerAnalysis:   80,
		ValueCommunication: 30,
		ExecutiveReadiness: 10,
		Overall:            40,
	}

	reqs := []gating.Requirement{
		req("crit", types.DomainCustomerAnalysis, "proficient", 70, 0.4, true),   // met
		req("nc1", types.DomainValueCommunication, "foundation", 20, 0.3, false), // met
		req("nc2", types.DomainValueCommunication, "developing", 40, 0.2, false), // unmet
		req("nc3", types.DomainExecutiveReadiness, "developing", 40, 0.1, false), // unmet
	}

	Convey("Given a capability with one critical and three non-critical requirements", t, func() {
		Convey("When the strategy is strict", func() {
			c := gating.Capability{ID: "c", Requirements: reqs, Strategy: gating.StrategyStrict}
			d := gating.Evaluate(c, scores)

			Convey("Then any unmet requirement denies", func() {
				So(d.Granted, ShouldBeFalse)
				So(d.Unmet, ShouldHaveLength, 2)
			})
		})

		Convey("When the strategy is progressive", func() {
			c := gating.Capability{ID: "c", Requirements: reqs, Strategy: gating.StrategyProgressive}
			d := gating.Evaluate(c, scores)

			Convey("Then one of three non-criticals is below the ratio and denies", func() {
				So(d.Granted, ShouldBeFalse)
			})
		})

		Convey("When the strategy is adaptive", func() {
			c := gating.Capability{ID: "c", Requirements: reqs, Strategy: gating.StrategyAdaptive}
			d := gating.Evaluate(c, scores)

			Convey("Then 0.7 of 1.0 total weight is below the 0.75 gate and denies", func() {
				So(d.Granted, ShouldBeFalse)
			})
		})

		Convey("When the strategy is collaborative", func() {
			c := gating.Capability{ID: "c", Requirements: reqs, Strategy: gating.StrategyCollaborative}
			d := gating.Evaluate(c, scores)

			Convey("Then 2 of 4 met is below the 0.6 gate and denies", func() {
				So(d.Granted, ShouldBeFalse)
			})
		})
	})

	Convey("Given an unmet critical requirement under progressive gating", t, func() {
		low := assess.SkillScores{CustomerAnalysis: 10}
		c := gating.Capability{
			ID: "c",
			Requirements: []gating.Requirement{
				req("crit", types.DomainCustomerAnalysis, "proficient", 70, 1, true),
			},
			Strategy: gating.StrategyProgressive,
		}

		Convey("Then access is denied regardless of the non-critical ratio", func() {
			So(gating.Evaluate(c, low).Granted, ShouldBeFalse)
		})
	})

	Convey("Given all criticals met and enough non-criticals under progressive gating", t, func() {
		c := gating.Capability{
			ID: "c",
			Requirements: []gating.Requirement{
				req("crit", types.DomainCustomerAnalysis, "proficient", 70, 1, true), // met
				req("nc1", types.DomainValueCommunication, "foundation", 20, 1, false), // met
				req("nc2", types.DomainValueCommunication, "foundation", 25, 1, false), // met
				req("nc3", types.DomainExecutiveReadiness, "developing", 40, 1, false), // unmet
			},
			Strategy: gating.StrategyProgressive,
		}

		Convey("Then 2 of 3 non-criticals misses the 0.7 gate", func() {
			So(gating.Evaluate(c, scores).Granted, ShouldBeFalse)
		})

		Convey("And 3 of 4 non-criticals passes it", func() {
			c.Requirements = append(c.Requirements,
				req("nc4", types.DomainValueCommunication, "foundation", 0, 1, false)) // met
			So(gating.Evaluate(c, scores).Granted, ShouldBeTrue)
		})
	})

	Convey("Given exactly the collaborative boundary", t, func() {
		c := gating.Capability{
			ID: "c",
			Requirements: []gating.Requirement{
				req("r1", types.DomainCustomerAnalysis, "foundation", 0, 1, false),    // met
				req("r2", types.DomainCustomerAnalysis, "foundation", 0, 1, false),    // met
				req("r3", types.DomainCustomerAnalysis, "foundation", 0, 1, false),    // met
				req("r4", types.DomainExecutiveReadiness, "advanced", 90, 1, false),   // unmet
				req("r5", types.DomainExecutiveReadiness, "advanced", 90, 1, false),   // unmet
			},
			Strategy: gating.StrategyCollaborative,
		}

		Convey("Then 3 of 5 met grants at exactly the 0.6 ratio", func() {
			So(gating.Evaluate(c, scores).Granted, ShouldBeTrue)
		})
	})

	Convey("Given an unknown strategy", t, func() {
		c := gating.Capability{
			ID: "c",
			Requirements: []gating.Requirement{
				req("r1", types.DomainCustomerAnalysis, "foundation", 0, 1, false), // met
				req("r2", types.DomainExecutiveReadiness, "advanced", 90, 1, false), // unmet
			},
			Strategy: gating.Strategy("experimental"),
		}

		Convey("Then it degrades to strict semantics", func() {
			So(gating.Evaluate(c, scores).Granted, ShouldBeFalse)
		})
	})
}

func TestEvaluateEdgeCases(t *testing.T) {
	var zero assess.SkillScores

	Convey("Given a capability with no requirements", t, func() {
		for _, s := range []gating.Strategy{
			gating.StrategyStrict,
			gating.StrategyProgressive,
			gating.StrategyAdaptive,
			gating.StrategyCollaborative,
			gating.StrategyTimeBased,
		} {
			c := gating.Capability{ID: "open", Strategy: s}
			d := gating.Evaluate(c, zero)

			Convey("Then strategy "+string(s)+" grants vacuously", func() {
				So(d.Granted, ShouldBeTrue)
				So(d.Unmet, ShouldBeEmpty)
			})
		}
	})

	Convey("Given adaptive gating with all-zero weights", t, func() {
		c := gating.Capability{
			ID: "c",
			Requirements: []gating.Requirement{
				req("r1", types.DomainCustomerAnalysis, "advanced", 90, 0, false),
			},
			Strategy: gating.StrategyAdaptive,
		}

		Convey("Then the decision grants instead of dividing by zero", func() {
			So(gating.Evaluate(c, zero).Granted, ShouldBeTrue)
		})
	})

	Convey("Given a brand-new user against a strict capability", t, func() {
		c := gating.Capability{
			ID: "c",
			Requirements: []gating.Requirement{
				req("r1", types.DomainCustomerAnalysis, "developing", 40, 1, false),
				req("r2", types.DomainValueCommunication, "developing", 40, 1, false),
			},
			Strategy: gating.StrategyStrict,
		}
		d := gating.Evaluate(c, zero)

		Convey("Then the denial lists every unmet requirement", func() {
			So(d.Granted, ShouldBeFalse)
			So(d.Unmet, ShouldHaveLength, 2)
		})
	})
}
