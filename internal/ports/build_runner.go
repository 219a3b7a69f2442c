package ports

import (
	"context"

	"github.com/bft-labs/buildship/internal/domain"
)

// BuildRunner runs a project's external build command.
type BuildRunner interface {
	// Run blocks until the build exits. trigger is the changed file that
	// caused the build. Failures are reported in the result, never panicked.
	Run(ctx context.Context, project domain.Project, trigger string) domain.BuildResult
}
