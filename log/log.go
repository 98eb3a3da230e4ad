// Package log provides structured logging helpers for world and system
// state, built on zerolog.
package log

import (
	"sort"

	"github.com/rs/zerolog"
)

// Loggable is the view of a world that the logging helpers work from.
type Loggable interface {
	RegisteredComponents() []string
	RegisteredTags() []string
	RegisteredSystems() []string
}

func loadNamesToEvent(zeroLoggerEvent *zerolog.Event, key string, names []string) *zerolog.Event {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	zeroLoggerEvent.Int("total_"+key, len(sorted))
	arrayLogger := zerolog.Arr()
	for _, name := range sorted {
		arrayLogger = arrayLogger.Str(name)
	}
	return zeroLoggerEvent.Array(key, arrayLogger)
}

// Components logs the names of all registered component types.
func Components(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	loadNamesToEvent(logger.WithLevel(level), "components", target.RegisteredComponents()).Send()
}

// Systems logs the names of all registered systems.
func Systems(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	loadNamesToEvent(logger.WithLevel(level), "systems", target.RegisteredSystems()).Send()
}

// Entity logs one entity with its tags and component names.
func Entity(logger *zerolog.Logger, level zerolog.Level, entity string, tags, components []string) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent.Str("entity", entity)
	zeroLoggerEvent = loadNamesToEvent(zeroLoggerEvent, "tags", tags)
	loadNamesToEvent(zeroLoggerEvent, "components", components).Send()
}

// World logs everything about the world: components, tags, and systems.
func World(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent = loadNamesToEvent(zeroLoggerEvent, "components", target.RegisteredComponents())
	zeroLoggerEvent = loadNamesToEvent(zeroLoggerEvent, "tags", target.RegisteredTags())
	loadNamesToEvent(zeroLoggerEvent, "systems", target.RegisteredSystems()).Send()
}

// CreateSystemLogger creates a sub logger with the entry {"system": systemName}.
func CreateSystemLogger(logger *zerolog.Logger, systemName string) *zerolog.Logger {
	newLogger := logger.With().Str("system", systemName).Logger()
	return &newLogger
}

// CreateTraceLogger creates a trace logger. Using a single id you can use this logger to follow and log a data path.
func CreateTraceLogger(logger *zerolog.Logger, traceID string) *zerolog.Logger {
	newLogger := logger.With().Str("trace_id", traceID).Logger()
	return &newLogger
}
