package assess_test

import (
	"testing"
	"time"

	"github.com/acumen-hq/acumen/internal/domain/assess"
	. "github.com/smartystreets/goconvey/convey"
)

func TestComputeVelocity(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given two assessments four days apart", t, func() {
		prev := assess.SkillScores{CustomerAnalysis: 20, ValueCommunication: 10, ExecutiveReadiness: 0, Overall: 10, TakenAt: base}
		cur := assess.SkillScores{CustomerAnalysis: 40, ValueCommunication: 30, ExecutiveReadiness: 8, Overall: 26, TakenAt: base.AddDate(0, 0, 4)}

		v, ok := assess.ComputeVelocity(prev, cur)

		Convey("Then velocity is the per-day delta", func() {
			So(ok, ShouldBeTrue)
			So(v.CustomerAnalysis, ShouldEqual, 5.0)
			So(v.ValueCommunication, ShouldEqual, 5.0)
			So(v.ExecutiveReadiness, ShouldEqual, 2.0)
			So(v.Overall, ShouldEqual, 4.0)
		})
	})

	Convey("Given regressing scores", t, func() {
		prev := assess.SkillScores{Overall: 50, TakenAt: base}
		cur := assess.SkillScores{Overall: 40, TakenAt: base.AddDate(0, 0, 2)}

		v, ok := assess.ComputeVelocity(prev, cur)

		Convey("Then velocity is negative rather than clamped", func() {
			So(ok, ShouldBeTrue)
			So(v.Overall, ShouldEqual, -5.0)
		})
	})

	Convey("Given two assessments at the same instant", t, func() {
		prev := assess.SkillScores{Overall: 10, TakenAt: base}
		cur := assess.SkillScores{Overall: 20, TakenAt: base}

		_, ok := assess.ComputeVelocity(prev, cur)

		Convey("Then no velocity is defined", func() {
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given assessments out of order", t, func() {
		prev := assess.SkillScores{Overall: 10, TakenAt: base.AddDate(0, 0, 1)}
		cur := assess.SkillScores{Overall: 20, TakenAt: base}

		_, ok := assess.ComputeVelocity(prev, cur)

		Convey("Then no velocity is defined", func() {
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDaysToNextLevel(t *testing.T) {
	Convey("Given positive velocity below the top rung", t, func() {
		cur := assess.SkillScores{Overall: 30}
		days, ok := assess.DaysToNextLevel(cur, assess.Velocity{Overall: 5})

		Convey("Then the estimate is the rounded-up days to the next threshold", func() {
			So(ok, ShouldBeTrue)
			So(days, ShouldEqual, 2) // (40-30)/5
		})
	})

	Convey("Given a tiny remaining gap", t, func() {
		cur := assess.SkillScores{Overall: 39}
		days, ok := assess.DaysToNextLevel(cur, assess.Velocity{Overall: 50})

		Convey("Then the estimate never drops below one day", func() {
			So(ok, ShouldBeTrue)
			So(days, ShouldEqual, 1)
		})
	})

	Convey("Given zero or negative velocity", t, func() {
		cur := assess.SkillScores{Overall: 30}

		Convey("Then no prediction is made", func() {
			_, ok := assess.DaysToNextLevel(cur, assess.Velocity{Overall: 0})
			So(ok, ShouldBeFalse)

			_, ok = assess.DaysToNextLevel(cur, assess.Velocity{Overall: -3})
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a user already at the top rung", t, func() {
		cur := assess.SkillScores{Overall: 90}

		Convey("Then no prediction is made", func() {
			_, ok := assess.DaysToNextLevel(cur, assess.Velocity{Overall: 5})
			So(ok, ShouldBeFalse)
		})
	})
}
