// Package simulation creates races and advances them one time unit at a time.
package simulation

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/okian/carrera/internal/domain/model"
)

// Default simulation constants.
const (
	DefaultMaxSpeed = 20
	podiumSize      = 3
)

// Status labels of the results view.
const (
	StatusCompleted  = "Carrera completada"
	StatusInProgress = "Carrera en progreso"
)

// placeLabels names podium slots in rank order.
var placeLabels = [podiumSize]string{"Primero", "Segundo", "Tercero"}

// SpeedSource yields uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type SpeedSource interface {
	IntN(n int) int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSpeedSource sets the random source used to draw runner speeds.
func WithSpeedSource(src SpeedSource) Option {
	return func(e *Engine) {
		if src != nil {
			e.speeds = src
		}
	}
}

// WithClock sets the clock used to stamp race identities.
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithMaxSpeed sets the inclusive upper bound of runner speeds.
func WithMaxSpeed(maxSpeed int) Option {
	return func(e *Engine) {
		if maxSpeed > 0 {
			e.maxSpeed = maxSpeed
		}
	}
}

// Engine holds the injectable randomness and clock for race creation.
// Advance and Results are pure functions of the race.
type Engine struct {
	speeds   SpeedSource
	clock    clockwork.Clock
	maxSpeed int

	mu     sync.Mutex
	lastID int64
}

// NewEngine creates an engine with a real clock and a randomly seeded source.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		speeds:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // simulation, not security
		clock:    clockwork.NewRealClock(),
		maxSpeed: DefaultMaxSpeed,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Create builds a new race with runnerCount runners at the start line.
// It does not persist anything.
func (e *Engine) Create(runnerCount int, distance float64) (*model.Race, error) {
	if runnerCount <= 0 {
		return nil, fmt.Errorf("%w: numero_de_corredores must be positive, got %d", ErrInvalidInput, runnerCount)
	}
	if distance <= 0 {
		return nil, fmt.Errorf("%w: distancia_recorrida must be positive, got %v", ErrInvalidInput, distance)
	}

	runners := make([]model.Runner, runnerCount)
	for i := range runners {
		runners[i] = model.Runner{
			ID:    i + 1,
			Speed: e.speeds.IntN(e.maxSpeed) + 1,
		}
	}

	return &model.Race{
		ID:          e.nextID(),
		RunnerCount: runnerCount,
		Distance:    distance,
		Runners:     runners,
		Ranking:     []model.Placement{},
	}, nil
}

// nextID returns the current Unix millisecond, bumped past the previous id
// when two races are created within the same millisecond.
func (e *Engine) nextID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.clock.Now().UnixMilli()
	if id <= e.lastID {
		id = e.lastID + 1
	}
	e.lastID = id
	return id
}

// Advance moves every runner forward by its speed and fixes the podium the
// first time any runner reaches the distance. An existing podium is never
// recomputed, although positions keep growing.
func Advance(race *model.Race) *model.Race {
	for i := range race.Runners {
		race.Runners[i].Position += race.Runners[i].Speed
	}

	if len(race.Ranking) > 0 {
		return race
	}

	finishers := make([]model.Runner, 0, len(race.Runners))
	for _, r := range race.Runners {
		if float64(r.Position) >= race.Distance {
			finishers = append(finishers, r)
		}
	}
	if len(finishers) == 0 {
		return race
	}

	sort.SliceStable(finishers, func(i, j int) bool {
		return finishers[i].Position > finishers[j].Position
	})
	if len(finishers) > podiumSize {
		finishers = finishers[:podiumSize]
	}

	race.Ranking = make([]model.Placement, len(finishers))
	for i, r := range finishers {
		race.Ranking[i] = model.Placement{Place: placeLabels[i], Runner: r.ID}
	}
	return race
}

// Completed reports whether the podium has been fixed.
func Completed(race *model.Race) bool {
	return len(race.Ranking) > 0
}

// Results derives the client view of a race.
func Results(race *model.Race) model.Results {
	if Completed(race) {
		winners := make([]model.WinnerView, len(race.Ranking))
		for i, p := range race.Ranking {
			winners[i] = model.WinnerView{Place: p.Place, Runner: runnerLabel(p.Runner)}
		}
		return model.Results{Status: StatusCompleted, Winners: winners}
	}

	progress := make([]model.RunnerProgress, len(race.Runners))
	for i, r := range race.Runners {
		progress[i] = model.RunnerProgress{
			Runner:   runnerLabel(r.ID),
			Position: fmt.Sprintf("%d km", r.Position),
		}
	}
	return model.Results{Status: StatusInProgress, Runners: progress}
}

func runnerLabel(id int) string {
	return fmt.Sprintf("Corredor %d", id)
}
