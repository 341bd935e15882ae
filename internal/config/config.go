// Package config loads the process configuration from the environment,
// optionally seeded from a .env file. The resulting struct is immutable
// for the process lifetime and passed into each component explicitly.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every knob the fetcher consumes.
type Config struct {
	// APIURL is the endpoint prefix the normalized identifier is
	// appended to. Required; startup aborts without it.
	APIURL string `envconfig:"API_URL" required:"true"`

	// MarginOfError is added to the derived inter-request interval, in
	// seconds, to stay clear of the contracted limit.
	MarginOfError float64 `envconfig:"MARGIN_OF_ERROR" default:"0"`

	// LimitPerMinute is the contracted number of requests per minute.
	LimitPerMinute float64 `envconfig:"LIMIT_PER_MINUTE" default:"3"`

	// InputFile contains one raw identifier per line.
	InputFile string `envconfig:"INPUT_FILE" default:"./input.txt"`

	// OutputFolder is the cache root for downloaded artifacts.
	OutputFolder string `envconfig:"OUTPUT_FOLDER" default:"./downloads/"`

	// MaximumAge is the artifact age in days beyond which a refetch
	// happens. An artifact exactly this old is still fresh.
	MaximumAge int64 `envconfig:"MAXIMUM_AGE" default:"30"`

	// RequestTimeout bounds each request attempt.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	// Workers is the number of concurrent fetch workers; 1 keeps the
	// sequential reference behavior.
	Workers int `envconfig:"WORKERS" default:"1"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogPretty enables human-readable console output instead of JSON.
	LogPretty bool `envconfig:"LOG_PRETTY" default:"false"`

	// MetricsAddr serves prometheus metrics when non-empty, e.g. ":2112".
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`
}

// Load reads the configuration from a .env file (if present) and the
// environment, then validates it.
func Load() (Config, error) {
	// Missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("load configuration: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API_URL is required")
	}
	if c.LimitPerMinute <= 0 {
		return fmt.Errorf("LIMIT_PER_MINUTE must be positive (got %v)", c.LimitPerMinute)
	}
	if c.MarginOfError < 0 {
		return fmt.Errorf("MARGIN_OF_ERROR must not be negative (got %v)", c.MarginOfError)
	}
	if c.MaximumAge < 0 {
		return fmt.Errorf("MAXIMUM_AGE must not be negative (got %d)", c.MaximumAge)
	}
	return nil
}

// Interval derives the minimum spacing between request starts from the
// per-minute limit plus the margin of error. Computed once at startup.
func (c Config) Interval() time.Duration {
	seconds := 60.0/c.LimitPerMinute + c.MarginOfError
	return time.Duration(seconds * float64(time.Second))
}
