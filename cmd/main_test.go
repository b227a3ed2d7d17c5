package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/acumen-hq/acumen/internal/adapters/http/api"
	"github.com/acumen-hq/acumen/internal/adapters/http/swagger"
	"github.com/acumen-hq/acumen/internal/adapters/store"
	"github.com/acumen-hq/acumen/internal/adapters/syncq"
	app "github.com/acumen-hq/acumen/internal/app"
	"github.com/acumen-hq/acumen/internal/config"
	"github.com/acumen-hq/acumen/internal/domain/event"
	"github.com/acumen-hq/acumen/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// noopTransport keeps wiring tests independent of a running collector.
type noopTransport struct{}

func (noopTransport) Send(_ context.Context, _ []event.Record) error { return nil }

func newWiredService(cfg *config.Config) *app.Service {
	queue := syncq.New(noopTransport{},
		syncq.WithBatchSize(cfg.SyncBatchSize),
		syncq.WithFlushInterval(time.Duration(cfg.SyncFlushIntervalMS)*time.Millisecond),
	)
	return app.New(
		app.WithStore(store.NewMemoryStore()),
		app.WithQueue(queue),
		app.WithCapabilities(config.DefaultCapabilities()),
		app.WithRetention(time.Duration(cfg.RetentionDays)*hoursPerDay*time.Hour),
		app.WithDedupeSize(cfg.DedupeSize),
	)
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("ACUMEN_ADDR", ":9099")
			_ = os.Setenv("ACUMEN_SYNC_BATCH_SIZE", "25")
			_ = os.Setenv("ACUMEN_RETENTION_DAYS", "7")
			defer func() {
				_ = os.Unsetenv("ACUMEN_ADDR")
				_ = os.Unsetenv("ACUMEN_SYNC_BATCH_SIZE")
				_ = os.Unsetenv("ACUMEN_RETENTION_DAYS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9099")
				convey.So(cfg.SyncBatchSize, convey.ShouldEqual, 25)
				convey.So(cfg.RetentionDays, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with the main wiring", func() {
				svc := newWiredService(config.New())
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, svc)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		convey.Convey("When wiring every component the way main does", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg, convey.ShouldNotBeNil)

			svc := newWiredService(cfg)
			convey.So(svc, convey.ShouldNotBeNil)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			mux := http.NewServeMux()
			swagger.Register(ctx, mux)
			api.NewServer(svc, svc).Register(ctx, mux)

			convey.Convey("Then the health endpoint answers", func() {
				rr := httptest.NewRecorder()
				mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
				convey.So(rr.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("And the stats endpoint answers", func() {
				rr := httptest.NewRecorder()
				mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/stats", nil))
				convey.So(rr.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("And the API docs are served", func() {
				rr := httptest.NewRecorder()
				mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api-docs", nil))
				convey.So(rr.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When retention is configured negative", func() {
			_ = os.Setenv("ACUMEN_RETENTION_DAYS", "-1")
			defer func() { _ = os.Unsetenv("ACUMEN_RETENTION_DAYS") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the capabilities file does not exist", func() {
			_, err := config.LoadCapabilities(context.Background(), "/nonexistent/caps.yaml")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When service options carry zero values", func() {
			convey.Convey("Then service creation still succeeds on defaults", func() {
				svc := app.New(app.WithDedupeSize(0), app.WithRetention(0))
				convey.So(svc, convey.ShouldNotBeNil)
				convey.So(svc.GetStats(), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationResourceCleanup(t *testing.T) {
	convey.Convey("Given main application resource cleanup", t, func() {
		convey.Convey("When running start and stop cycles", func() {
			convey.Convey("Then each cycle leaves a usable service behind", func() {
				for i := 0; i < 3; i++ {
					svc := newWiredService(config.New())
					ctx, cancel := context.WithCancel(context.Background())
					convey.So(svc.Start(ctx), convey.ShouldBeNil)
					svc.Stop()
					cancel()

					stats := svc.GetStats()
					convey.So(stats, convey.ShouldNotBeNil)
					convey.So(stats["started"], convey.ShouldBeFalse)
				}
			})
		})
	})
}
