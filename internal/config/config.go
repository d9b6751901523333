// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and CARRERA_ env vars.
// - External errors are wrapped with this package's sentinel errors.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`
	// DataFile is the path of the JSON document holding every race.
	DataFile string `koanf:"data_file"`
	// MaxSpeed is the inclusive upper bound of random runner speeds.
	MaxSpeed int `koanf:"max_speed"`
	// CORSAllowedOrigins lists origins accepted by the CORS wrapper.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":3000",
		DataFile:           "bdd.json",
		MaxSpeed:           20,
		CORSAllowedOrigins: []string{"*"},
	}
}
