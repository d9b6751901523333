package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	repository "github.com/okian/carrera/internal/adapters/repository"
	service "github.com/okian/carrera/internal/app"
	"github.com/okian/carrera/internal/domain/model"
	"github.com/okian/carrera/internal/domain/simulation"
	"github.com/okian/carrera/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fixedSpeeds struct {
	speeds []int
	next   int
}

func (f *fixedSpeeds) IntN(int) int {
	s := f.speeds[f.next%len(f.speeds)]
	f.next++
	return s - 1
}

// faultyStore fails every call with the configured error.
type faultyStore struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *faultyStore) Load(context.Context) (model.Collection, error) {
	if f.loadErr != nil {
		return model.Collection{}, f.loadErr
	}
	return model.Collection{Races: []model.Race{}}, nil
}

func (f *faultyStore) Save(context.Context, model.Collection) error {
	f.saves++
	return f.saveErr
}

func newEngine(speeds ...int) *simulation.Engine {
	return simulation.NewEngine(
		simulation.WithSpeedSource(&fixedSpeeds{speeds: speeds}),
		simulation.WithClock(clockwork.NewFakeClockAt(time.UnixMilli(1_000))),
	)
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		path := filepath.Join(t.TempDir(), "bdd.json")
		svc := service.New(service.WithDataFile(path), service.WithMaxSpeed(5))

		Convey("When calling operations before Start", func() {
			_, err := svc.ListRaces(context.Background())

			Convey("Then they should report the service is not started", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())
			defer svc.Stop()

			Convey("Then the document should be initialised and stats reported", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["races"], ShouldEqual, 0)
				So(stats["dataFile"], ShouldEqual, path)
				So(stats["maxSpeed"], ShouldEqual, 5)
			})

			Convey("And starting twice should be a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})

			Convey("And speeds should respect the configured maximum", func() {
				race, err := svc.CreateRace(context.Background(), 50, 10)
				So(err, ShouldBeNil)
				for _, r := range race.Runners {
					So(r.Speed, ShouldBeBetweenOrEqual, 1, 5)
				}
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a store that cannot be read", t, func() {
		svc := service.New(service.WithStore(&faultyStore{loadErr: repository.ErrStoreFault}))

		Convey("Then Start should fail with the store fault", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, repository.ErrStoreFault), ShouldBeTrue)
		})
	})
}

func TestService_Races(t *testing.T) {
	Convey("Given a started service with stubbed speeds 20, 20, 5", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "bdd.json")
		store := repository.NewFileStore(path)
		svc := service.New(service.WithStore(store), service.WithEngine(newEngine(20, 20, 5)))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When creating a race", func() {
			race, err := svc.CreateRace(ctx, 3, 50)
			So(err, ShouldBeNil)

			Convey("Then it should be persisted", func() {
				c, loadErr := store.Load(ctx)
				So(loadErr, ShouldBeNil)
				So(c.Races, ShouldHaveLength, 1)
				So(c.Races[0], ShouldResemble, race)
				So(race.ID, ShouldEqual, int64(1_000))
			})

			Convey("And advancing it three times should fix the podium", func() {
				_, res1, err1 := svc.AdvanceRace(ctx, race.ID)
				_, res2, err2 := svc.AdvanceRace(ctx, race.ID)
				got, res3, err3 := svc.AdvanceRace(ctx, race.ID)

				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(err3, ShouldBeNil)
				So(res1.Status, ShouldEqual, simulation.StatusInProgress)
				So(res2.Runners[2], ShouldResemble, model.RunnerProgress{Runner: "Corredor 3", Position: "10 km"})
				So(res3.Status, ShouldEqual, simulation.StatusCompleted)
				So(got.Ranking, ShouldResemble, []model.Placement{
					{Place: "Primero", Runner: 1},
					{Place: "Segundo", Runner: 2},
				})

				Convey("And the stored race should match the returned one", func() {
					stored, _, getErr := svc.GetRace(ctx, race.ID)
					So(getErr, ShouldBeNil)
					So(stored, ShouldResemble, got)
					So(svc.GetStats()["completedRaces"], ShouldEqual, 1)
				})

				Convey("And a fourth advance keeps the podium", func() {
					again, res4, err4 := svc.AdvanceRace(ctx, race.ID)
					So(err4, ShouldBeNil)
					So(again.Ranking, ShouldResemble, got.Ranking)
					So(again.Runners[0].Position, ShouldEqual, 80)
					So(res4.Status, ShouldEqual, simulation.StatusCompleted)
				})
			})

			Convey("And GetRace should not move the runners", func() {
				got, res, getErr := svc.GetRace(ctx, race.ID)
				So(getErr, ShouldBeNil)
				So(got.Runners[0].Position, ShouldEqual, 0)
				So(res.Status, ShouldEqual, simulation.StatusInProgress)
			})
		})

		Convey("When creating a race with invalid input", func() {
			_, errCount := svc.CreateRace(ctx, 0, 50)
			_, errDist := svc.CreateRace(ctx, 3, 0)

			Convey("Then it should fail and persist nothing", func() {
				So(errors.Is(errCount, simulation.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(errDist, simulation.ErrInvalidInput), ShouldBeTrue)
				races, err := svc.ListRaces(ctx)
				So(err, ShouldBeNil)
				So(races, ShouldBeEmpty)
			})
		})

		Convey("When operating on an unknown race", func() {
			_, _, advErr := svc.AdvanceRace(ctx, 404)
			_, _, getErr := svc.GetRace(ctx, 404)
			delErr := svc.DeleteRace(ctx, 404)

			Convey("Then every operation should report not found", func() {
				So(errors.Is(advErr, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(getErr, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(delErr, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When deleting one race out of three", func() {
			a, _ := svc.CreateRace(ctx, 1, 10)
			b, _ := svc.CreateRace(ctx, 2, 10)
			c, _ := svc.CreateRace(ctx, 3, 10)
			_, _, _ = svc.AdvanceRace(ctx, c.ID)
			before, _ := svc.ListRaces(ctx)

			err := svc.DeleteRace(ctx, b.ID)

			Convey("Then exactly that race should be removed", func() {
				So(err, ShouldBeNil)
				races, listErr := svc.ListRaces(ctx)
				So(listErr, ShouldBeNil)
				So(races, ShouldResemble, []model.Race{before[0], before[2]})
				So(races[0].ID, ShouldEqual, a.ID)
			})

			Convey("And deleting it again should report not found", func() {
				So(errors.Is(svc.DeleteRace(ctx, b.ID), repository.ErrNotFound), ShouldBeTrue)
				races, _ := svc.ListRaces(ctx)
				So(races, ShouldHaveLength, 2)
			})
		})

		Convey("When advancing the same race concurrently", func() {
			race, err := svc.CreateRace(ctx, 3, 1_000_000)
			So(err, ShouldBeNil)

			const calls = 25
			var wg sync.WaitGroup
			for i := 0; i < calls; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _, _ = svc.AdvanceRace(ctx, race.ID)
				}()
			}
			wg.Wait()

			Convey("Then no advance should be lost", func() {
				got, _, getErr := svc.GetRace(ctx, race.ID)
				So(getErr, ShouldBeNil)
				So(got.Runners[0].Position, ShouldEqual, 20*calls)
				So(got.Runners[2].Position, ShouldEqual, 5*calls)
			})
		})
	})

	Convey("Given a started service whose store cannot save", t, func() {
		ctx := context.Background()
		store := &faultyStore{saveErr: repository.ErrStoreFault}
		svc := service.New(service.WithStore(store), service.WithEngine(newEngine(3)))
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When creating a race", func() {
			_, err := svc.CreateRace(ctx, 2, 10)

			Convey("Then the fault should surface unchanged and not be retried", func() {
				So(errors.Is(err, repository.ErrStoreFault), ShouldBeTrue)
				So(store.saves, ShouldEqual, 1)
			})
		})
	})
}
