package kon

import (
	"time"

	"github.com/rs/zerolog"
)

// Option represents an option that can be used to augment how the App will be run.
// Options override values loaded from the environment.
type Option func(*App)

// WithNamespace sets the app's namespace. The namespace is attached to log
// context and statsd tags.
func WithNamespace(namespace string) Option {
	return func(a *App) {
		a.cfg.Namespace = namespace
	}
}

// WithTagCapacity fixes the number of distinct tag names the world accepts.
func WithTagCapacity(capacity int) Option {
	return func(a *App) {
		a.cfg.TagCapacity = capacity
	}
}

// WithLogger replaces the configured logger entirely.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *App) {
		a.log = logger
		a.customLogger = true
	}
}

// WithPrettyLog switches to the human-readable console log writer.
func WithPrettyLog() Option {
	return func(a *App) {
		a.cfg.LogPretty = true
	}
}

// WithStatsdAddress enables metrics emission to a statsd agent.
func WithStatsdAddress(address string) Option {
	return func(a *App) {
		a.cfg.StatsdAddress = address
	}
}

// WithStepRate sets the target frame steps per second for Run. Values <= 0
// fall back to the default of 60.
func WithStepRate(rate float64) Option {
	return func(a *App) {
		a.cfg.StepRate = rate
	}
}

// WithStepChannel sets the channel that decides when Run executes a step.
// Tests can pass in a channel they control for fine-grained control over when
// steps are executed.
func WithStepChannel(ch <-chan time.Time) Option {
	return func(a *App) {
		a.stepChannel = ch
	}
}

// WithStepDoneChannel sets a channel that is notified each time a step
// completes. The completed frame number is pushed to the channel. Useful in
// tests when assertions need to be performed at the end of a step.
func WithStepDoneChannel(ch chan<- uint64) Option {
	return func(a *App) {
		a.stepDoneChannel = ch
	}
}
