package kon

import (
	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// appConfig holds the configuration for an App instance.
// Configuration can be set via environment variables with the specified defaults.
type appConfig struct {
	// Namespace identifies this app instance in logs and metrics.
	Namespace string `env:"KON_NAMESPACE" envDefault:"kon"`

	// Number of distinct tag names the world accepts.
	TagCapacity int `env:"KON_TAG_CAPACITY" envDefault:"256"`

	// Minimum log level (zerolog level string, e.g. "debug", "info").
	LogLevel string `env:"KON_LOG_LEVEL" envDefault:"info"`

	// Use the human-readable console log writer instead of JSON.
	LogPretty bool `env:"KON_LOG_PRETTY" envDefault:"false"`

	// Address of the statsd agent. Metrics are disabled when empty.
	StatsdAddress string `env:"KON_STATSD_ADDRESS"`

	// Target frame steps per second for Run. Values <= 0 fall back to 60.
	StepRate float64 `env:"KON_STEP_RATE" envDefault:"60"`
}

// loadAppConfig loads the app configuration from environment variables.
func loadAppConfig() (appConfig, error) {
	cfg := appConfig{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse app config")
	}

	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate config")
	}

	return cfg, nil
}

// validate performs validation on the loaded configuration.
func (cfg *appConfig) validate() error {
	if cfg.Namespace == "" {
		return eris.New("namespace cannot be empty")
	}
	if cfg.TagCapacity <= 0 {
		return eris.New("tag capacity must be positive")
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return eris.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	if cfg.StepRate < 0 {
		return eris.New("step rate cannot be negative")
	}

	return nil
}
