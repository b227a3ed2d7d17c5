package event_test

import (
	"testing"
	"time"

	"github.com/acumen-hq/acumen/internal/domain/event"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValidate(t *testing.T) {
	ts := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	Convey("Given constructor-built records", t, func() {
		records := []event.Record{
			event.NewInteraction("u1", "persona_lab", "personas", time.Minute, ts),
			event.NewAction("u1", "roi_calculator", "edit", ts),
			event.NewExport("u1", "exec_brief", "pdf", ts),
			event.NewSession("u1", 10*time.Minute, ts),
			event.NewVisit("u1", "business_case", ts),
		}

		Convey("Then every record validates and carries a fresh id", func() {
			seen := map[string]bool{}
			for _, r := range records {
				So(r.Validate(), ShouldBeNil)
				So(r.ID, ShouldNotBeEmpty)
				So(seen[r.ID], ShouldBeFalse)
				seen[r.ID] = true
			}
		})
	})

	Convey("Given malformed records", t, func() {
		Convey("Then a missing user is rejected", func() {
			r := event.NewVisit("", "persona_lab", ts)
			So(r.Validate(), ShouldEqual, event.ErrMissingUser)
		})

		Convey("Then a missing component is rejected", func() {
			r := event.NewVisit("u1", "", ts)
			So(r.Validate(), ShouldEqual, event.ErrMissingComponent)
		})

		Convey("Then a zero timestamp is rejected", func() {
			r := event.NewVisit("u1", "persona_lab", time.Time{})
			So(r.Validate(), ShouldEqual, event.ErrZeroTimestamp)
		})

		Convey("Then an unknown bucket is rejected", func() {
			r := event.Record{ID: "x", UserID: "u1", Component: "persona_lab", Bucket: "telemetry", Timestamp: ts}
			So(r.Validate(), ShouldEqual, event.ErrUnknownBucket)
		})
	})
}

func TestHistoryAppend(t *testing.T) {
	ts := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	Convey("Given an empty history", t, func() {
		h := event.EmptyHistory()

		Convey("Then all containers start non-nil and empty", func() {
			So(h.Interactions, ShouldBeEmpty)
			So(h.Actions, ShouldBeEmpty)
			So(h.Exports, ShouldBeEmpty)
			So(h.Sessions, ShouldBeEmpty)
			So(h.Visits, ShouldBeEmpty)
			So(h.Tools, ShouldBeEmpty)
		})

		Convey("When appending records", func() {
			h = h.Append(event.NewInteraction("u1", "persona_lab", "personas", time.Minute, ts))
			h = h.Append(event.NewExport("u1", "exec_brief", "pdf", ts))
			h = h.Append(event.NewExport("u1", "exec_brief", "pptx", ts.Add(time.Minute)))

			Convey("Then each record lands in its bucket in order", func() {
				So(h.Interactions, ShouldHaveLength, 1)
				So(h.Exports, ShouldHaveLength, 2)
				So(h.Exports[0].ExportFormat, ShouldEqual, "pdf")
				So(h.Exports[1].ExportFormat, ShouldEqual, "pptx")
			})
		})
	})
}
