package buildship

import (
	"github.com/bft-labs/buildship/internal/ports"
	"github.com/bft-labs/buildship/pkg/log"
)

// Logger is the interface for structured logging.
type Logger = log.Logger

// LogField represents a structured log field.
type LogField = log.Field

// Replaceable pipeline stages.
type (
	// BuildRunner runs a project's build command.
	BuildRunner = ports.BuildRunner

	// ArtifactPublisher copies a project's artifacts to its destination.
	ArtifactPublisher = ports.ArtifactPublisher

	// ChangeSource emits change events for files under the watch roots.
	ChangeSource = ports.ChangeSource
)

// Option configures optional behavior of Buildship.
type Option func(*options)

// options holds the optional configuration for a Buildship instance.
type options struct {
	logger       Logger
	eventHandler EventHandler
	runner       BuildRunner
	publisher    ArtifactPublisher
	source       ChangeSource
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler sets a handler for buildship events.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithBuildRunner replaces the shell build runner.
func WithBuildRunner(runner BuildRunner) Option {
	return func(o *options) {
		o.runner = runner
	}
}

// WithPublisher replaces the directory-copy artifact publisher.
func WithPublisher(publisher ArtifactPublisher) Option {
	return func(o *options) {
		o.publisher = publisher
	}
}

// WithChangeSource replaces the filesystem change source.
// Config.Poll is ignored when a source is provided.
func WithChangeSource(source ChangeSource) Option {
	return func(o *options) {
		o.source = source
	}
}
