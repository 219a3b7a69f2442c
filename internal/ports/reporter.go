package ports

import "github.com/bft-labs/buildship/internal/domain"

// Reporter receives exactly one report per qualifying change event.
// Implementations must be safe for concurrent use; reports for distinct
// projects arrive from different goroutines.
type Reporter interface {
	Report(r domain.Report)
}
