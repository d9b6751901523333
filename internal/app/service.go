// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	repository "github.com/okian/carrera/internal/adapters/repository"
	"github.com/okian/carrera/internal/domain/model"
	"github.com/okian/carrera/internal/domain/simulation"
	"github.com/okian/carrera/pkg/logger"
	"github.com/okian/carrera/pkg/metrics"
)

// Default service configuration.
const (
	defaultDataFile = "bdd.json"
)

// Service runs every race operation as one load-mutate-save cycle over the
// whole collection. A single mutex serialises those cycles.
type Service struct {
	mu sync.Mutex

	// Core components
	store  repository.Store
	engine *simulation.Engine

	// Configuration
	dataFile string
	maxSpeed int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects the race store. Without it Start opens a FileStore at the data file.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEngine injects the simulation engine.
func WithEngine(engine *simulation.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithDataFile sets the path of the persisted document.
func WithDataFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataFile = path
		}
	}
}

// WithMaxSpeed sets the upper bound of random runner speeds for the default engine.
func WithMaxSpeed(maxSpeed int) Option {
	return func(s *Service) {
		if maxSpeed > 0 {
			s.maxSpeed = maxSpeed
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataFile: defaultDataFile,
		maxSpeed: simulation.DefaultMaxSpeed,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds missing components and makes sure the persisted document exists.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewFileStore(s.dataFile)
	}
	if s.engine == nil {
		s.engine = simulation.NewEngine(simulation.WithMaxSpeed(s.maxSpeed))
	}

	c, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("initialise race store: %w", err)
	}
	updateGauges(c)

	s.started = true
	s.logger.Info(ctx, "race service started",
		logger.String("dataFile", s.dataFile),
		logger.Int("races", len(c.Races)),
		logger.Int("maxSpeed", s.maxSpeed),
	)
	return nil
}

// Stop marks the service as stopped. The store holds no open resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "race service stopped")
}

// CreateRace builds a race with random speeds and appends it to the collection.
// Invalid input is rejected before the store is touched.
func (s *Service) CreateRace(ctx context.Context, runnerCount int, distance float64) (model.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Race{}, ErrNotStarted
	}

	race, err := s.engine.Create(runnerCount, distance)
	if err != nil {
		return model.Race{}, err
	}

	c, err := s.store.Load(ctx)
	if err != nil {
		return model.Race{}, err
	}
	c.Races = append(c.Races, *race)
	if err := s.store.Save(ctx, c); err != nil {
		return model.Race{}, err
	}

	metrics.RecordRaceCreated()
	updateGauges(c)
	s.logger.Info(ctx, "race created",
		logger.Int64("raceID", race.ID),
		logger.Int("runners", race.RunnerCount),
		logger.Float64("distance", race.Distance),
	)
	return *race, nil
}

// AdvanceRace moves every runner of race id forward one time unit and
// returns the updated race with its results view.
func (s *Service) AdvanceRace(ctx context.Context, id int64) (model.Race, model.Results, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Race{}, model.Results{}, ErrNotStarted
	}

	c, err := s.store.Load(ctx)
	if err != nil {
		return model.Race{}, model.Results{}, err
	}
	idx := c.IndexOf(id)
	if idx < 0 {
		return model.Race{}, model.Results{}, fmt.Errorf("%w: %d", repository.ErrNotFound, id)
	}

	race := &c.Races[idx]
	wasCompleted := simulation.Completed(race)
	simulation.Advance(race)

	if err := s.store.Save(ctx, c); err != nil {
		return model.Race{}, model.Results{}, err
	}

	metrics.RecordRaceAdvanced()
	if !wasCompleted && simulation.Completed(race) {
		metrics.RecordRaceCompleted()
		s.logger.Info(ctx, "race completed",
			logger.Int64("raceID", race.ID),
			logger.Any("ranking", race.Ranking),
		)
	}
	updateGauges(c)
	s.logger.Debug(ctx, "race advanced", logger.Int64("raceID", race.ID))

	return *race, simulation.Results(race), nil
}

// GetRace returns race id and its results view without advancing it.
func (s *Service) GetRace(ctx context.Context, id int64) (model.Race, model.Results, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Race{}, model.Results{}, ErrNotStarted
	}

	c, err := s.store.Load(ctx)
	if err != nil {
		return model.Race{}, model.Results{}, err
	}
	idx := c.IndexOf(id)
	if idx < 0 {
		return model.Race{}, model.Results{}, fmt.Errorf("%w: %d", repository.ErrNotFound, id)
	}
	race := c.Races[idx]
	return race, simulation.Results(&race), nil
}

// ListRaces returns every race as stored.
func (s *Service) ListRaces(ctx context.Context) ([]model.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, ErrNotStarted
	}

	c, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return c.Races, nil
}

// DeleteRace removes race id from the collection. Unknown ids leave the
// document untouched.
func (s *Service) DeleteRace(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}

	c, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	idx := c.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", repository.ErrNotFound, id)
	}

	remaining := make([]model.Race, 0, len(c.Races)-1)
	remaining = append(remaining, c.Races[:idx]...)
	remaining = append(remaining, c.Races[idx+1:]...)
	c.Races = remaining

	if err := s.store.Save(ctx, c); err != nil {
		return err
	}

	metrics.RecordRaceDeleted()
	updateGauges(c)
	s.logger.Info(ctx, "race deleted", logger.Int64("raceID", id))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"started":  s.started,
		"dataFile": s.dataFile,
		"maxSpeed": s.maxSpeed,
	}

	if !s.started {
		return stats
	}

	c, err := s.store.Load(context.Background())
	if err != nil {
		stats["error"] = err.Error()
		return stats
	}
	total, completed := updateGauges(c)
	stats["races"] = total
	stats["completedRaces"] = completed
	return stats
}

func updateGauges(c model.Collection) (total, completed int) {
	for i := range c.Races {
		if simulation.Completed(&c.Races[i]) {
			completed++
		}
	}
	total = len(c.Races)
	metrics.UpdateStoredRaces(total, completed)
	return total, completed
}
