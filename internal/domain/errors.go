package domain

import "errors"

// Domain errors represent error conditions in the buildship domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("buildship: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("buildship: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("buildship: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	// It is fatal: nothing is watched until the configuration is fixed.
	ErrInvalidConfig = errors.New("buildship: invalid configuration")

	// ErrAmbiguousConfig is returned when a changed path is claimed by two
	// distinct registered roots of equal specificity.
	ErrAmbiguousConfig = errors.New("buildship: ambiguous project configuration")

	// ErrUnmatched is returned when a changed path is under no registered root.
	ErrUnmatched = errors.New("buildship: path not under any watch root")

	// ErrBuildFailure is returned when the build command exits non-zero.
	ErrBuildFailure = errors.New("buildship: build failed")

	// ErrLaunchFailure is returned when the build command could not be started.
	// Errors wrapping it also match ErrBuildFailure.
	ErrLaunchFailure = &launchError{}

	// ErrPublish is returned when build artifacts could not be copied.
	ErrPublish = errors.New("buildship: publish failed")
)

type launchError struct{}

func (*launchError) Error() string { return "buildship: build command could not be started" }

// Is lets a launch failure satisfy errors.Is(err, ErrBuildFailure).
func (*launchError) Is(target error) bool { return target == ErrBuildFailure }
