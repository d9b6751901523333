package simclient

import "io"

// ShowHelp prints usage information for the race-sim tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Carrera Race Simulator
======================

Creates a race on a running carrera service and advances it one tick at a
time, printing every runner's position until the podium is decided.

Usage:
  go run ./cmd/race-sim [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000",
        or CARRERA_SIM_URL from the environment or .env)
  -runners int
        Number of runners (default 5)
  -distance float
        Distance to cover (default 100)
  -max-ticks int
        Advances to attempt before giving up (default 1000)
  -timeout duration
        HTTP request timeout (default 10s)
  -cleanup
        Delete the race once finished
  -help
        Show this help message

Examples:
  # Five runners over 100 km
  go run ./cmd/race-sim

  # A longer race against another instance, removed afterwards
  go run ./cmd/race-sim -url http://localhost:8080 -runners 8 -distance 500 -cleanup
`)
}
