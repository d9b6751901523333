package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/okian/carrera/internal/simclient"
	"github.com/okian/carrera/pkg/logger"
)

// Default configuration constants.
const (
	defaultRunners  = 5
	defaultDistance = 100
	defaultMaxTicks = 1000
	defaultTimeout  = 10 * time.Second
	defaultRunLimit = 5 * time.Minute
	defaultURL      = "http://localhost:3000"
)

// envURL overrides the default -url, from the environment or a .env file.
const envURL = "CARRERA_SIM_URL"

func main() {
	envErr := godotenv.Load()
	url := defaultURL
	if v := os.Getenv(envURL); v != "" {
		url = v
	}

	var (
		baseURL  = flag.String("url", url, "Base URL of the service")
		runners  = flag.Int("runners", defaultRunners, "Number of runners")
		distance = flag.Float64("distance", defaultDistance, "Distance to cover")
		maxTicks = flag.Int("max-ticks", defaultMaxTicks, "Advances to attempt before giving up")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		cleanup  = flag.Bool("cleanup", false, "Delete the race once finished")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simclient.ShowHelp(os.Stdout)
		return
	}

	if err := logger.InitWithWriter(os.Stderr); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Get().Warn(context.Background(), "failed to read .env file", logger.Error(envErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunLimit)
	defer cancel()

	config := &simclient.Config{
		BaseURL:  *baseURL,
		Runners:  *runners,
		Distance: *distance,
		MaxTicks: *maxTicks,
		Timeout:  *timeout,
		Cleanup:  *cleanup,
		Out:      os.Stdout,
	}

	if _, err := simclient.Run(ctx, config); err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		os.Exit(1)
	}
}
