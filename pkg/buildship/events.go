package buildship

import (
	"github.com/bft-labs/buildship/internal/app"
	"github.com/bft-labs/buildship/internal/domain"
)

// State represents the lifecycle state of a Buildship instance.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// Domain types shared with embedders.
type (
	Project        = domain.Project
	ProjectStatus  = domain.ProjectStatus
	Report         = domain.Report
	ReportKind     = domain.ReportKind
	BuildResult    = domain.BuildResult
	PublishOutcome = domain.PublishOutcome
	ChangeEvent    = domain.ChangeEvent
)

const (
	StatusIdle       = domain.StatusIdle
	StatusBuilding   = domain.StatusBuilding
	StatusPublishing = domain.StatusPublishing
	StatusFailed     = domain.StatusFailed
)

const (
	ReportSuccess      = domain.ReportSuccess
	ReportBuildFailure = domain.ReportBuildFailure
	ReportPublishError = domain.ReportPublishError
	ReportUnmatched    = domain.ReportUnmatched
	ReportAmbiguous    = domain.ReportAmbiguous
)

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// ProjectStatusEvent describes a project moving through the build pipeline.
type ProjectStatusEvent struct {
	Project  Project
	Previous ProjectStatus
	Current  ProjectStatus
}

// EventHandler receives notifications about buildship operations.
// Methods are called synchronously from build goroutines, possibly
// concurrently for distinct projects, and should return quickly.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnProjectStatus(event ProjectStatusEvent)

	// OnReport is called exactly once per qualifying change event.
	OnReport(report Report)
}

// BaseEventHandler provides no-op implementations of every EventHandler
// method. Embed it to implement only the methods you need.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent)     {}
func (BaseEventHandler) OnProjectStatus(ProjectStatusEvent) {}
func (BaseEventHandler) OnReport(Report)                    {}

// Message renders the human-readable status line for a report.
func Message(r Report) string {
	return app.Message(r)
}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnProjectStatus(project domain.Project, previous, current domain.ProjectStatus) {
	if e.handler == nil {
		return
	}
	e.handler.OnProjectStatus(ProjectStatusEvent{
		Project:  project,
		Previous: previous,
		Current:  current,
	})
}

func (e *eventEmitterWrapper) Report(r domain.Report) {
	if e.handler == nil {
		return
	}
	e.handler.OnReport(r)
}

func convertState(s app.State) State {
	switch s {
	case app.StateStopped:
		return StateStopped
	case app.StateStarting:
		return StateStarting
	case app.StateRunning:
		return StateRunning
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}
