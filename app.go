// Package kon is a small 2D game engine core. It couples an ECS world with a
// sequential system scheduler, an input state layer, and a fixed-rate run
// loop. The ecs package can also be used on its own.
package kon

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/cey0225/kon/ecs"
	"github.com/cey0225/kon/input"
	"github.com/cey0225/kon/log"
	"github.com/cey0225/kon/statsd"
)

// Plugin installs a bundle of systems and resources into an app.
type Plugin interface {
	Build(app *App) error
}

// Context is the per-step view handed to systems.
type Context struct {
	app   *App
	log   *zerolog.Logger
	dt    float64
	frame uint64
}

// World returns the ECS world.
func (c *Context) World() *ecs.World {
	return c.app.world
}

// Input returns the input state for the current frame.
func (c *Context) Input() *input.State {
	return c.app.input
}

// Logger returns a logger scoped to the running system.
func (c *Context) Logger() *zerolog.Logger {
	return c.log
}

// DT returns the seconds simulated by this step.
func (c *Context) DT() float64 {
	return c.dt
}

// Frame returns the number of completed steps before this one.
func (c *Context) Frame() uint64 {
	return c.frame
}

// App owns a world and drives registered systems through the step cycle.
type App struct {
	cfg          appConfig
	log          zerolog.Logger
	customLogger bool

	world *ecs.World
	input *input.State

	initDone    bool
	initSystems []registeredSystem
	scheduler   [3][]registeredSystem // PreUpdate, Update, PostUpdate

	stepChannel     <-chan time.Time
	stepDoneChannel chan<- uint64
	frame           uint64
}

// NewApp creates an app. Configuration is loaded from the environment first;
// options override it.
func NewApp(opts ...Option) (*App, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}

	app := &App{cfg: cfg}
	for _, opt := range opts {
		opt(app)
	}
	if err := app.cfg.validate(); err != nil {
		return nil, err
	}

	if !app.customLogger {
		level, err := zerolog.ParseLevel(app.cfg.LogLevel)
		if err != nil {
			return nil, eris.Wrap(err, "invalid log level")
		}
		var writer zerolog.Logger
		if app.cfg.LogPretty {
			writer = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		} else {
			writer = zerolog.New(os.Stderr)
		}
		app.log = writer.Level(level).With().Timestamp().Logger()
	}

	app.world = ecs.NewWorld(
		ecs.WithTagCapacity(app.cfg.TagCapacity),
		ecs.WithNamespace(app.cfg.Namespace),
		ecs.WithLogger(app.log),
	)
	app.input = input.NewState()

	if app.cfg.StatsdAddress != "" {
		if err := statsd.Init(app.cfg.StatsdAddress, []string{"namespace:" + app.cfg.Namespace}); err != nil {
			return nil, eris.Wrap(err, "failed to init statsd client")
		}
	}

	return app, nil
}

// World returns the ECS world.
func (a *App) World() *ecs.World {
	return a.world
}

// Input returns the input state layer.
func (a *App) Input() *input.State {
	return a.input
}

// Logger returns the app's logger.
func (a *App) Logger() *zerolog.Logger {
	return &a.log
}

// RegisterSystem adds a system to the step cycle. Systems default to the
// Update hook and run in registration order within their hook.
func (a *App) RegisterSystem(fn System, opts ...SystemOption) {
	cfg := newSystemConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = systemName(fn)
	}

	sys := registeredSystem{name: cfg.name, fn: fn}
	if cfg.hook == Init {
		a.initSystems = append(a.initSystems, sys)
	} else {
		a.scheduler[cfg.hook] = append(a.scheduler[cfg.hook], sys)
	}
	a.log.Debug().Str("system", cfg.name).Stringer("hook", cfg.hook).Msg("registered system")
}

// Use installs a plugin.
func (a *App) Use(p Plugin) error {
	if err := p.Build(a); err != nil {
		return eris.Wrap(err, "failed to build plugin")
	}
	return nil
}

// Step runs one frame: init systems on the first call, then the PreUpdate,
// Update, and PostUpdate hooks in order. A system error aborts the step and
// is returned. After a successful step the input layer rolls over to the
// next frame.
func (a *App) Step(dt float64) error {
	if !a.initDone {
		for _, sys := range a.initSystems {
			if err := a.runSystem(sys, Init, dt); err != nil {
				return err
			}
		}
		a.initDone = true
		log.World(&a.log, a, zerolog.InfoLevel)
	}

	for hook := PreUpdate; hook <= PostUpdate; hook++ {
		start := time.Now()
		for _, sys := range a.scheduler[hook] {
			if err := a.runSystem(sys, hook, dt); err != nil {
				return err
			}
		}
		statsd.EmitStepStat(start, hook.String())
	}

	a.input.NextFrame()
	a.frame++
	statsd.EmitEntityCount(a.world.EntityCount())
	if a.stepDoneChannel != nil {
		a.stepDoneChannel <- a.frame
	}
	return nil
}

// runSystem executes one system with a scoped logger.
func (a *App) runSystem(sys registeredSystem, hook SystemHook, dt float64) error {
	ctx := &Context{
		app:   a,
		log:   log.CreateSystemLogger(&a.log, sys.name),
		dt:    dt,
		frame: a.frame,
	}
	if err := sys.fn(ctx); err != nil {
		return eris.Wrapf(err, "%s system %s failed", hook, sys.name)
	}
	return nil
}

// Run steps the app until ctx is cancelled or a system fails. Steps are paced
// by the step channel if one was provided, otherwise by a ticker at the
// configured step rate.
func (a *App) Run(ctx context.Context) error {
	steps := a.stepChannel
	if steps == nil {
		rate := a.cfg.StepRate
		if rate <= 0 {
			rate = 60
		}
		ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
		defer ticker.Stop()
		steps = ticker.C
	}

	a.log.Info().Float64("step_rate", a.cfg.StepRate).Msg("starting run loop")
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			a.log.Info().Uint64("frames", a.frame).Msg("run loop stopped")
			return ctx.Err()
		case now := <-steps:
			dt := now.Sub(last).Seconds()
			last = now
			if err := a.Step(dt); err != nil {
				return err
			}
		}
	}
}

// RegisteredComponents implements log.Loggable.
func (a *App) RegisteredComponents() []string {
	return a.world.ComponentNames()
}

// RegisteredTags implements log.Loggable.
func (a *App) RegisteredTags() []string {
	return a.world.RegisteredTags()
}

// RegisteredSystems implements log.Loggable.
func (a *App) RegisteredSystems() []string {
	var names []string
	for _, sys := range a.initSystems {
		names = append(names, sys.name)
	}
	for hook := PreUpdate; hook <= PostUpdate; hook++ {
		for _, sys := range a.scheduler[hook] {
			names = append(names, sys.name)
		}
	}
	return names
}
