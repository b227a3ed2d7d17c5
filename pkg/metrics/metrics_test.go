package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording capture metrics", func() {
			Convey("Then it should record recorded and dropped events", func() {
				So(func() {
					RecordEventRecorded()
					RecordEventRecorded()
					RecordEventDropped()
					RecordStoreError("record_event")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording sync metrics", func() {
			Convey("Then it should track queue state and flush outcomes", func() {
				So(func() {
					UpdateSyncQueueSize(5)
					UpdateSyncOnline(true)
					UpdateSyncOnline(false)
					RecordFlushSuccess(10)
					RecordFlushFailure()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording collector metrics", func() {
			Convey("Then it should count accepted and duplicate events", func() {
				So(func() {
					RecordEventCollected()
					RecordEventDuplicate()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording assessment and gating metrics", func() {
			Convey("Then it should count runs and decisions", func() {
				So(func() {
					RecordAssessment()
					RecordGatingDecision("strict", true)
					RecordGatingDecision("adaptive", false)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record requests, durations and errors", func() {
				So(func() {
					RecordHTTPRequest("events", "POST", "202")
					RecordHTTPRequestDuration("events", "POST", "202", 1.5)
					RecordErrorByComponent("http", "client_error")
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should exist and be gatherable", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeNil)
			})
		})
	})
}
