package buildship

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bft-labs/buildship/internal/adapters/fs"
	"github.com/bft-labs/buildship/internal/adapters/shell"
	"github.com/bft-labs/buildship/internal/app"
	"github.com/bft-labs/buildship/internal/domain"
	"github.com/bft-labs/buildship/internal/ports"
	"github.com/bft-labs/buildship/internal/registry"
)

// killGrace is how long Stop keeps waiting after the drain timeout for
// killed builds to exit.
const killGrace = 5 * time.Second

// Buildship watches project trees and rebuilds and publishes them on change.
// Use New() to create an instance, then Start() to begin watching.
type Buildship struct {
	config     Config
	opts       options
	lifecycle  *app.Lifecycle
	dispatcher *app.Dispatcher
	registry   *registry.Registry
	logger     ports.Logger

	mu     sync.RWMutex
	cancel context.CancelFunc
	runErr error
}

// New creates a new Buildship instance with the given configuration.
// The instance is created in StateStopped; call Start() to begin watching.
// Returns an error matching ErrInvalidConfig if configuration is invalid.
func New(cfg Config, opts ...Option) (*Buildship, error) {
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	reg := registry.New()
	for _, p := range cfg.Projects {
		err := reg.RegisterProject(domain.Project{
			WatchRoot:           strings.TrimSpace(p.WatchRoot),
			ArtifactDestination: strings.TrimSpace(p.ArtifactDestination),
			Command:             p.Command,
			ArtifactDir:         p.ArtifactDir,
			SkipPublish:         cfg.SkipPublish || p.SkipPublish,
		})
		if err != nil {
			return nil, err
		}
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}
	lifecycle := app.NewLifecycle(logger, emitter)

	filter := domain.NewFileFilter(cfg.Patterns...)

	runner := o.runner
	if runner == nil {
		runner = shell.NewRunner(shell.Config{
			Command:   cfg.Command,
			Shell:     cfg.Shell,
			ShellArgs: []string{"-c"},
			Timeout:   cfg.BuildTimeout,
		}, logger)
	}

	publisher := o.publisher
	if publisher == nil {
		publisher = fs.NewPublisher(cfg.ArtifactDir, logger)
	}

	source := o.source
	if source == nil {
		sourceCfg := fs.SourceConfig{
			Filter:       filter,
			Debounce:     cfg.Debounce,
			PollInterval: cfg.PollInterval,
			IgnoreDirs:   cfg.IgnoreDirs,
		}
		if cfg.Poll {
			source = fs.NewPollSource(sourceCfg, logger)
		} else {
			source = fs.NewNotifySource(sourceCfg, logger)
		}
	}

	reporter := app.Reporters{app.NewLogReporter(logger), emitter}

	dispatcher := app.NewDispatcher(
		app.DispatcherConfig{
			Filter:       filter,
			DrainTimeout: cfg.ShutdownTimeout,
		},
		reg, source, runner, publisher, reporter, logger, emitter,
	)

	return &Buildship{
		config:     cfg,
		opts:       o,
		lifecycle:  lifecycle,
		dispatcher: dispatcher,
		registry:   reg,
		logger:     logger,
	}, nil
}

// Start begins watching in the background.
// Returns immediately after starting the dispatch goroutine.
// Returns an error if already running.
// The provided context is used for the lifetime of the watch.
func (b *Buildship) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}

	if err := b.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.runErr = nil
	b.lifecycle.SetCancel(cancel)

	b.lifecycle.Go(func() {
		if err := b.lifecycle.TransitionTo(app.StateRunning, "dispatcher starting"); err != nil {
			b.logger.Error("failed to transition to running", ports.Err(err))
			return
		}

		err := b.dispatcher.Run(runCtx)

		b.mu.Lock()
		b.runErr = err
		b.mu.Unlock()

		switch {
		case err == nil:
			// Change source closed on its own.
			if b.lifecycle.TransitionTo(app.StateStopping, "change source closed") == nil {
				_ = b.lifecycle.TransitionTo(app.StateStopped, "change source closed")
			}
		case errors.Is(err, context.Canceled):
		default:
			b.logger.Error("dispatcher error", ports.Err(err))
			_ = b.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		}
	})

	return nil
}

// Stop gracefully shuts down the watcher.
// In-flight builds run to completion; pending rebuilds are dropped.
// Waits up to Config.ShutdownTimeout before killing builds.
// Returns nil on graceful shutdown, ErrShutdownTimeout if forced.
func (b *Buildship) Stop() error {
	b.mu.Lock()

	if !b.lifecycle.CanStop() {
		b.mu.Unlock()
		return domain.ErrNotRunning
	}

	if err := b.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		b.mu.Unlock()
		return err
	}

	if b.cancel != nil {
		b.cancel()
	}

	b.mu.Unlock()

	err := b.lifecycle.WaitWithTimeout(b.config.ShutdownTimeout + killGrace)
	if err == nil {
		b.mu.RLock()
		if errors.Is(b.runErr, domain.ErrShutdownTimeout) {
			err = b.runErr
		}
		b.mu.RUnlock()
	}

	if err != nil {
		_ = b.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = b.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}

	return err
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (b *Buildship) Status() State {
	return convertState(b.lifecycle.State())
}

// ProjectStatus returns the pipeline status of the project registered under
// watchRoot. Unknown roots report StatusIdle.
func (b *Buildship) ProjectStatus(watchRoot string) ProjectStatus {
	return b.dispatcher.Status(watchRoot)
}

// Projects returns the registered projects ordered by watch root.
func (b *Buildship) Projects() []Project {
	return b.registry.Projects()
}

// Trigger dispatches a change to path as if the change source had reported it.
// Returns ErrNotRunning unless the instance is running.
func (b *Buildship) Trigger(path string) error {
	if b.lifecycle.State() != app.StateRunning {
		return fmt.Errorf("trigger %s: %w", path, domain.ErrNotRunning)
	}
	b.dispatcher.Dispatch(domain.ChangeEvent{Path: path, Time: time.Now()})
	return nil
}
