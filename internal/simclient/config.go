package simclient

import (
	"fmt"
	"io"
	"time"

	"github.com/okian/carrera/internal/domain/model"
)

// Config holds configuration for a simulated race run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Runners  int           // Number of runners in the race
	Distance float64       // Distance the runners must cover
	MaxTicks int           // Advances to attempt before giving up
	Timeout  time.Duration // HTTP request timeout
	Cleanup  bool          // Delete the race once finished
	Out      io.Writer     // Destination for the tick-by-tick report
}

// Validate rejects configurations that cannot produce a race.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: url must not be empty", ErrInvalidConfig)
	case c.Runners < 1:
		return fmt.Errorf("%w: runners must be at least 1, got %d", ErrInvalidConfig, c.Runners)
	case c.Distance <= 0:
		return fmt.Errorf("%w: distance must be positive, got %g", ErrInvalidConfig, c.Distance)
	case c.MaxTicks < 1:
		return fmt.Errorf("%w: max-ticks must be at least 1, got %d", ErrInvalidConfig, c.MaxTicks)
	}
	return nil
}

// Stats holds the outcome of a run.
type Stats struct {
	RaceID    int64
	Ticks     int
	Completed bool
	Podium    []model.WinnerView
	Deleted   bool
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
