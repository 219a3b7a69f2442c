package buildship

import "github.com/bft-labs/buildship/internal/domain"

// Sentinel errors, checked with errors.Is.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrAmbiguousConfig = domain.ErrAmbiguousConfig
	ErrUnmatched       = domain.ErrUnmatched
	ErrBuildFailure    = domain.ErrBuildFailure
	ErrLaunchFailure   = domain.ErrLaunchFailure
	ErrPublish         = domain.ErrPublish
)
