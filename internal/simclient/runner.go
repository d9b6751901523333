package simclient

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/carrera/internal/domain/model"
	"github.com/okian/carrera/pkg/logger"
)

const completedStatus = "Carrera completada"

// Run creates a race, advances it one tick at a time until the podium is
// fixed or MaxTicks is reached, and prints every runner's position per tick.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	out := config.Out
	if out == nil {
		out = io.Discard
	}

	stats := &Stats{StartTime: time.Now()}
	client := NewClient(config.BaseURL, config.Timeout)

	logger.Get().Info(ctx, "starting race simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("runners", config.Runners),
		logger.Float64("distance", config.Distance),
		logger.Int("maxTicks", config.MaxTicks))

	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	race, err := client.Create(ctx, config.Runners, config.Distance)
	if err != nil {
		return nil, fmt.Errorf("race creation failed: %w", err)
	}
	stats.RaceID = race.ID
	fmt.Fprintf(out, "Carrera %d: %d corredores, distancia %g\n", race.ID, race.RunnerCount, race.Distance)
	for _, r := range race.Runners {
		fmt.Fprintf(out, "  Corredor %d: velocidad %d\n", r.ID, r.Speed)
	}

	var results model.Results
	for stats.Ticks < config.MaxTicks {
		race, results, err = client.Advance(ctx, race.ID)
		if err != nil {
			return stats, fmt.Errorf("advance %d failed: %w", stats.Ticks+1, err)
		}
		stats.Ticks++
		printTick(out, stats.Ticks, race)

		if results.Status == completedStatus {
			stats.Completed = true
			stats.Podium = results.Winners
			break
		}
	}

	if stats.Completed {
		printPodium(out, stats.Podium)
	}

	if config.Cleanup {
		if err := client.Delete(ctx, race.ID); err != nil {
			logger.Get().Warn(ctx, "failed to delete race", logger.Int64("race_id", race.ID), logger.Error(err))
		} else {
			stats.Deleted = true
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info(ctx, "race simulation finished",
		logger.Int64("race_id", stats.RaceID),
		logger.Int("ticks", stats.Ticks),
		logger.Any("completed", stats.Completed),
		logger.String("duration", stats.Duration.String()))

	if !stats.Completed {
		return stats, fmt.Errorf("%w: %d ticks", ErrNotCompleted, stats.Ticks)
	}
	return stats, nil
}

// printTick writes one line per tick with every runner's position.
func printTick(w io.Writer, tick int, race model.Race) {
	parts := make([]string, 0, len(race.Runners))
	for _, r := range race.Runners {
		parts = append(parts, fmt.Sprintf("Corredor %d=%d", r.ID, r.Position))
	}
	fmt.Fprintf(w, "Tick %d: %s\n", tick, strings.Join(parts, ", "))
}

func printPodium(w io.Writer, podium []model.WinnerView) {
	fmt.Fprintln(w, "🏁 "+completedStatus)
	for _, p := range podium {
		fmt.Fprintf(w, "  %s: %s\n", p.Place, p.Runner)
	}
}
