package ports

import (
	"context"

	"github.com/bft-labs/buildship/internal/domain"
)

// ArtifactPublisher copies a project's build output to its artifact destination.
type ArtifactPublisher interface {
	Publish(ctx context.Context, project domain.Project) domain.PublishOutcome
}
