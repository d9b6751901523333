package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then collectors should be registered under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.racesCreated.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "carrera_race_created_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("sim"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names should use the custom namespace and subsystem", func() {
				manager.racesDeleted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_sim_deleted_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})
		})

		Convey("When passing empty option values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "carrera")
				So(manager.subsystem, ShouldEqual, "race")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording race lifecycle events", func() {
			created := testutil.ToFloat64(globalManager.racesCreated)
			advanced := testutil.ToFloat64(globalManager.racesAdvanced)
			completed := testutil.ToFloat64(globalManager.racesCompleted)
			deleted := testutil.ToFloat64(globalManager.racesDeleted)

			RecordRaceCreated()
			RecordRaceAdvanced()
			RecordRaceAdvanced()
			RecordRaceCompleted()
			RecordRaceDeleted()

			Convey("Then the counters should move accordingly", func() {
				So(testutil.ToFloat64(globalManager.racesCreated), ShouldEqual, created+1)
				So(testutil.ToFloat64(globalManager.racesAdvanced), ShouldEqual, advanced+2)
				So(testutil.ToFloat64(globalManager.racesCompleted), ShouldEqual, completed+1)
				So(testutil.ToFloat64(globalManager.racesDeleted), ShouldEqual, deleted+1)
			})
		})

		Convey("When updating stored races", func() {
			UpdateStoredRaces(7, 3)

			Convey("Then both gauges should be set", func() {
				So(testutil.ToFloat64(globalManager.totalRaces), ShouldEqual, 7.0)
				So(testutil.ToFloat64(globalManager.finishedRaces), ShouldEqual, 3.0)
			})
		})

		Convey("When recording store metrics", func() {
			before := testutil.ToFloat64(globalManager.storeFaults.WithLabelValues("rename"))

			So(func() {
				RecordStoreLoadLatency(0.4)
				RecordStoreSaveLatency(1.2)
			}, ShouldNotPanic)
			RecordStoreFault("rename")

			Convey("Then the fault counter should be labelled by op", func() {
				So(testutil.ToFloat64(globalManager.storeFaults.WithLabelValues("rename")), ShouldEqual, before+1)
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("races", "POST", "201")
				RecordHTTPRequestDuration("races", "POST", "201", 3.0)
				RecordErrorByType("not_found", "medium")
				RecordErrorByEndpoint("race", "PUT", "not_found")
				RecordErrorLatency("http", "not_found", 1.5)
			}, ShouldNotPanic)

			Convey("Then the request counter should be exposed by the registry", func() {
				count, err := testutil.GatherAndCount(GetRegistry(), "carrera_race_http_requests_total")
				So(err, ShouldBeNil)
				So(count, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When recording system metrics", func() {
			UpdateSystemMemoryUsage(1024 * 1024 * 100)
			UpdateSystemGoroutineCount(42)
			RecordSystemGCPauseTime(1.0)

			Convey("Then the gauges should hold the latest values", func() {
				So(testutil.ToFloat64(globalManager.systemMemoryUsage), ShouldEqual, float64(1024*1024*100))
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldEqual, 42.0)
			})
		})

		Convey("When collecting the exposition text", func() {
			UpdateStoredRaces(2, 1)
			err := testutil.GatherAndCompare(GetRegistry(), strings.NewReader(`
# HELP carrera_race_stored Number of races in the persisted collection
# TYPE carrera_race_stored gauge
carrera_race_stored 2
`), "carrera_race_stored")

			Convey("Then it should match the expected text", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}
