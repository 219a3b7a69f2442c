package domain

import "time"

// BuildResult is the outcome of running a project's build command.
type BuildResult struct {
	Project  Project
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string

	// Err is nil on success. It wraps ErrBuildFailure or ErrLaunchFailure.
	Err error

	Duration time.Duration
}

// PublishOutcome is the outcome of copying a project's artifacts.
type PublishOutcome struct {
	Success bool

	// Files is the number of files copied.
	Files int

	// Skipped is set when the project does not publish artifacts.
	Skipped bool

	// Err is nil on success. It wraps ErrPublish.
	Err error
}
