package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/carrera/internal/adapters/repository"
	"github.com/okian/carrera/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleRace(id int64) model.Race {
	return model.Race{
		ID:          id,
		RunnerCount: 2,
		Distance:    42.5,
		Runners: []model.Runner{
			{ID: 1, Speed: 7, Position: 14},
			{ID: 2, Speed: 3, Position: 6},
		},
		Ranking: []model.Placement{},
	}
}

func TestFileStore(t *testing.T) {
	Convey("Given a file store in an empty directory", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "data", "bdd.json")
		store := repository.NewFileStore(path)

		Convey("When loading for the first time", func() {
			c, err := store.Load(ctx)

			Convey("Then it should return an empty collection and create the document", func() {
				So(err, ShouldBeNil)
				So(c.Races, ShouldNotBeNil)
				So(c.Races, ShouldBeEmpty)

				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				var doc map[string]any
				So(json.Unmarshal(data, &doc), ShouldBeNil)
				So(doc, ShouldContainKey, "carreras")
				So(doc["carreras"], ShouldBeEmpty)
			})
		})

		Convey("When saving a collection and loading it back", func() {
			in := model.Collection{Races: []model.Race{sampleRace(1), sampleRace(2)}}
			in.Races[1].Ranking = []model.Placement{{Place: "Primero", Runner: 1}}
			So(store.Save(ctx, in), ShouldBeNil)

			out, err := store.Load(ctx)

			Convey("Then the races should round trip in order", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, in)
			})

			Convey("And the document should use the persisted field names", func() {
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"numero_de_corredores": 2`)
				So(string(data), ShouldContainSubstring, `"distancia_recorrida": 42.5`)
				So(string(data), ShouldContainSubstring, `"velocidad": 7`)
				So(string(data), ShouldContainSubstring, `"posiciones": []`)
			})

			Convey("And no temporary files should be left behind", func() {
				entries, readErr := os.ReadDir(filepath.Dir(path))
				So(readErr, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})
		})

		Convey("When saving a nil race list", func() {
			So(store.Save(ctx, model.Collection{}), ShouldBeNil)
			out, err := store.Load(ctx)

			Convey("Then it should load as an empty list", func() {
				So(err, ShouldBeNil)
				So(out.Races, ShouldNotBeNil)
				So(out.Races, ShouldBeEmpty)
			})
		})

		Convey("When the document is corrupt", func() {
			So(os.MkdirAll(filepath.Dir(path), 0o750), ShouldBeNil)
			So(os.WriteFile(path, []byte("{not json"), 0o600), ShouldBeNil)

			_, err := store.Load(ctx)

			Convey("Then it should surface a store fault", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, repository.ErrStoreFault), ShouldBeTrue)
			})
		})
	})

	Convey("Given a file store whose path is a directory", t, func() {
		ctx := context.Background()
		store := repository.NewFileStore(t.TempDir())

		Convey("When loading", func() {
			_, err := store.Load(ctx)

			Convey("Then it should surface a store fault", func() {
				So(errors.Is(err, repository.ErrStoreFault), ShouldBeTrue)
			})
		})
	})

	Convey("Given a file store with compact output", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "compact.json")
		store := repository.NewFileStore(path, repository.WithIndent(""), repository.WithFileMode(0o644))

		Convey("When saving", func() {
			So(store.Save(ctx, model.Collection{Races: []model.Race{sampleRace(9)}}), ShouldBeNil)

			Convey("Then the document should be written without indentation", func() {
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldStartWith, `{"carreras":[{"id":9,`)
				So(store.Path(), ShouldEqual, path)
			})
		})
	})
}
