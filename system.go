package kon

import (
	"reflect"
	"runtime"
	"strings"
)

// System is a function that contains game logic. Systems run sequentially in
// registration order within their hook.
type System func(ctx *Context) error

// SystemHook defines when a system should be executed in the step cycle.
type SystemHook uint8

const (
	// PreUpdate runs before the main update.
	PreUpdate SystemHook = 0
	// Update runs during the main update phase.
	Update SystemHook = 1
	// PostUpdate runs after the main update.
	PostUpdate SystemHook = 2
	// Init runs once before the first step.
	Init SystemHook = 3
)

// String returns the stage name used in logs and metrics.
func (h SystemHook) String() string {
	switch h {
	case PreUpdate:
		return "pre_update"
	case Update:
		return "update"
	case PostUpdate:
		return "post_update"
	case Init:
		return "init"
	}
	return "unknown"
}

// systemConfig holds all configurable options for system registration.
type systemConfig struct {
	name string
	hook SystemHook
}

// newSystemConfig creates a new system config with default values.
func newSystemConfig() systemConfig {
	return systemConfig{hook: Update}
}

// SystemOption is a function that configures a system at registration.
type SystemOption func(*systemConfig)

// WithHook returns an option to set the system hook.
func WithHook(hook SystemHook) SystemOption {
	return func(cfg *systemConfig) { cfg.hook = hook }
}

// WithSystemName overrides the name derived from the system function.
func WithSystemName(name string) SystemOption {
	return func(cfg *systemConfig) { cfg.name = name }
}

// registeredSystem pairs a system function with its registration record.
type registeredSystem struct {
	name string
	fn   System
}

// systemName derives a readable name from a system function.
func systemName(fn System) string {
	full := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	if idx := strings.LastIndex(full, "."); idx >= 0 {
		full = full[idx+1:]
	}
	return strings.TrimSuffix(full, "-fm")
}
