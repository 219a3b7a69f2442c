package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/buildship/internal/domain"
	"github.com/bft-labs/buildship/internal/ports"
)

// DispatcherConfig contains configuration for the dispatch loop.
type DispatcherConfig struct {
	// Filter selects which changed files trigger a build.
	Filter domain.FileFilter

	// DrainTimeout bounds how long Run waits for in-flight builds once its
	// context ends. After it expires the builds are killed.
	DrainTimeout time.Duration
}

// StatusEmitter is called when a project's status changes.
type StatusEmitter interface {
	OnProjectStatus(project domain.Project, previous, current domain.ProjectStatus)
}

// slot is the per-project dispatch state. running is the ownership flag for
// the worker goroutine; status is for observers only.
type slot struct {
	project domain.Project
	status  domain.ProjectStatus
	running bool
	pending *domain.ChangeEvent
}

type statusChange struct {
	project  domain.Project
	previous domain.ProjectStatus
	current  domain.ProjectStatus
}

// Dispatcher turns change events into build and publish runs.
// At most one build per project is in flight; events arriving meanwhile
// collapse into a single pending rebuild.
type Dispatcher struct {
	config    DispatcherConfig
	resolver  ports.ProjectResolver
	source    ports.ChangeSource
	runner    ports.BuildRunner
	publisher ports.ArtifactPublisher
	reporter  ports.Reporter
	logger    ports.Logger
	emitter   StatusEmitter

	mu       sync.Mutex
	slots    map[string]*slot
	draining bool
	workCtx  context.Context
	inflight sync.WaitGroup
}

// NewDispatcher creates a dispatcher with the given dependencies.
func NewDispatcher(
	config DispatcherConfig,
	resolver ports.ProjectResolver,
	source ports.ChangeSource,
	runner ports.BuildRunner,
	publisher ports.ArtifactPublisher,
	reporter ports.Reporter,
	logger ports.Logger,
	emitter StatusEmitter,
) *Dispatcher {
	if config.DrainTimeout <= 0 {
		config.DrainTimeout = ShutdownTimeout
	}
	return &Dispatcher{
		config:    config,
		resolver:  resolver,
		source:    source,
		runner:    runner,
		publisher: publisher,
		reporter:  reporter,
		logger:    logger,
		emitter:   emitter,
		slots:     make(map[string]*slot),
		workCtx:   context.Background(),
	}
}

// Run watches every registered root and dispatches events until ctx is
// canceled or the change source closes. In-flight builds are allowed to
// finish, up to DrainTimeout; pending rebuilds are dropped.
func (d *Dispatcher) Run(ctx context.Context) error {
	roots := d.resolver.AllWatchRoots()

	// Builds outlive ctx so that shutdown can drain them.
	workCtx, cancelWork := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWork()

	d.mu.Lock()
	d.workCtx = workCtx
	d.draining = false
	d.mu.Unlock()

	events, err := d.source.Watch(ctx, roots)
	if err != nil {
		return err
	}

	d.logger.Info("watching for changes",
		ports.Strings("roots", roots),
		ports.Strings("patterns", d.config.Filter.Patterns),
	)

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		case ev, ok := <-events:
			if !ok {
				break loop
			}
			d.Dispatch(ev)
		}
	}

	if err := d.drain(cancelWork); err != nil {
		return err
	}
	return runErr
}

// drain stops new work and waits for in-flight builds.
func (d *Dispatcher) drain(cancelWork context.CancelFunc) error {
	d.mu.Lock()
	d.draining = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	timer := time.NewTimer(d.config.DrainTimeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		d.logger.Warn("in-flight builds did not finish, killing them",
			ports.Duration("timeout", d.config.DrainTimeout),
		)
		cancelWork()
		<-done
		return domain.ErrShutdownTimeout
	}
}

// Dispatch routes a single change event. Reports for unmatched or ambiguous
// paths are delivered synchronously; builds run on their own goroutine.
func (d *Dispatcher) Dispatch(ev domain.ChangeEvent) {
	if !d.config.Filter.Match(ev.Path) {
		return
	}

	project, err := d.resolver.Resolve(ev.Path)
	if err != nil {
		kind := domain.ReportUnmatched
		if errors.Is(err, domain.ErrAmbiguousConfig) {
			kind = domain.ReportAmbiguous
		}
		d.reporter.Report(domain.Report{
			Kind:  kind,
			Path:  ev.Path,
			Roots: d.resolver.AllWatchRoots(),
			Err:   err,
		})
		return
	}

	d.mu.Lock()
	if d.draining {
		d.mu.Unlock()
		d.logger.Warn("shutting down, change not built",
			ports.String("project", project.WatchRoot),
			ports.String("path", ev.Path),
		)
		return
	}

	s := d.slotFor(project)
	if s.running {
		if s.pending != nil {
			d.logger.Debug("coalescing change into pending rebuild",
				ports.String("project", project.WatchRoot),
				ports.String("path", ev.Path),
				ports.String("replaces", s.pending.Path),
			)
		}
		pending := ev
		s.pending = &pending
		d.mu.Unlock()
		return
	}

	s.running = true
	change := d.setStatus(s, domain.StatusBuilding)
	ctx := d.workCtx
	d.inflight.Add(1)
	d.mu.Unlock()

	d.emit(change)
	go d.work(ctx, s, ev)
}

// slotFor returns the slot for project, creating it if needed. Callers hold d.mu.
func (d *Dispatcher) slotFor(project domain.Project) *slot {
	s, ok := d.slots[project.WatchRoot]
	if !ok {
		s = &slot{project: project, status: domain.StatusIdle}
		d.slots[project.WatchRoot] = s
	}
	return s
}

// work owns the slot until no pending rebuild remains.
func (d *Dispatcher) work(ctx context.Context, s *slot, ev domain.ChangeEvent) {
	defer d.inflight.Done()

	for {
		d.process(ctx, s, ev)

		d.mu.Lock()
		if s.pending != nil && !d.draining {
			ev = *s.pending
			s.pending = nil
			change := d.setStatus(s, domain.StatusBuilding)
			d.mu.Unlock()
			d.emit(change)
			continue
		}
		if s.pending != nil {
			d.logger.Warn("shutting down, pending rebuild dropped",
				ports.String("project", s.project.WatchRoot),
				ports.String("path", s.pending.Path),
			)
			s.pending = nil
		}
		s.running = false
		change := d.setStatus(s, domain.StatusIdle)
		d.mu.Unlock()
		d.emit(change)
		return
	}
}

// process runs one build and, on success, one publish, then reports.
// Projects that skip publishing go straight from Building back to Idle.
func (d *Dispatcher) process(ctx context.Context, s *slot, ev domain.ChangeEvent) {
	project := s.project

	d.logger.Debug("building",
		ports.String("project", project.WatchRoot),
		ports.String("trigger", ev.Path),
	)

	result := d.runner.Run(ctx, project, ev.Path)
	if !result.Success {
		d.transition(s, domain.StatusFailed)
		err := result.Err
		if err == nil {
			err = domain.ErrBuildFailure
		}
		d.reporter.Report(domain.Report{
			Kind:    domain.ReportBuildFailure,
			Path:    ev.Path,
			Project: project,
			Build:   result,
			Err:     err,
		})
		return
	}

	if project.SkipPublish {
		d.reporter.Report(domain.Report{
			Kind:    domain.ReportSuccess,
			Path:    ev.Path,
			Project: project,
			Build:   result,
			Publish: domain.PublishOutcome{Success: true, Skipped: true},
		})
		return
	}

	d.transition(s, domain.StatusPublishing)
	outcome := d.publisher.Publish(ctx, project)
	if !outcome.Success {
		err := outcome.Err
		if err == nil {
			err = domain.ErrPublish
		}
		d.reporter.Report(domain.Report{
			Kind:    domain.ReportPublishError,
			Path:    ev.Path,
			Project: project,
			Build:   result,
			Publish: outcome,
			Err:     err,
		})
		return
	}

	d.reporter.Report(domain.Report{
		Kind:    domain.ReportSuccess,
		Path:    ev.Path,
		Project: project,
		Build:   result,
		Publish: outcome,
	})
}

func (d *Dispatcher) transition(s *slot, status domain.ProjectStatus) {
	d.mu.Lock()
	change := d.setStatus(s, status)
	d.mu.Unlock()
	d.emit(change)
}

// setStatus records a status change. Callers hold d.mu and pass the result
// to emit after unlocking.
func (d *Dispatcher) setStatus(s *slot, status domain.ProjectStatus) *statusChange {
	if s.status == status {
		return nil
	}
	change := &statusChange{project: s.project, previous: s.status, current: status}
	s.status = status
	return change
}

func (d *Dispatcher) emit(change *statusChange) {
	if change == nil || d.emitter == nil {
		return
	}
	d.emitter.OnProjectStatus(change.project, change.previous, change.current)
}

// Status returns the current status of the project registered under watchRoot.
// Projects that have never been built are Idle.
func (d *Dispatcher) Status(watchRoot string) domain.ProjectStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.slots[watchRoot]; ok {
		return s.status
	}
	return domain.StatusIdle
}
