package domain

// ReportKind classifies the terminal outcome of a change event.
type ReportKind int

const (
	ReportSuccess ReportKind = iota
	ReportBuildFailure
	ReportPublishError
	ReportUnmatched
	ReportAmbiguous
)

// String returns a human-readable representation of the kind.
func (k ReportKind) String() string {
	switch k {
	case ReportSuccess:
		return "success"
	case ReportBuildFailure:
		return "build-failure"
	case ReportPublishError:
		return "publish-error"
	case ReportUnmatched:
		return "unmatched"
	case ReportAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// Report is the single operator-visible outcome of one qualifying change event.
type Report struct {
	Kind ReportKind

	// Path is the changed file that triggered the work.
	Path string

	// Project is set when the path resolved to a project.
	Project Project

	// Roots lists the registered watch roots (set for unmatched paths).
	Roots []string

	Build   BuildResult
	Publish PublishOutcome

	// Err is nil only for ReportSuccess.
	Err error
}
