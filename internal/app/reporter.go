package app

import (
	"fmt"
	"strings"

	"github.com/bft-labs/buildship/internal/domain"
	"github.com/bft-labs/buildship/internal/ports"
)

// LogReporter writes one human-readable line per report to a logger.
// Build output is attached as fields on failures only.
type LogReporter struct {
	logger ports.Logger
}

// NewLogReporter creates a reporter that logs to logger.
func NewLogReporter(logger ports.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Report logs r.
func (l *LogReporter) Report(r domain.Report) {
	switch r.Kind {
	case domain.ReportSuccess:
		if r.Publish.Skipped {
			l.logger.Info(Message(r),
				ports.String("project", r.Project.WatchRoot),
				ports.Duration("build_time", r.Build.Duration),
			)
			return
		}
		l.logger.Info(Message(r),
			ports.String("project", r.Project.WatchRoot),
			ports.String("dest", r.Project.ArtifactDestination),
			ports.Int("files", r.Publish.Files),
			ports.Duration("build_time", r.Build.Duration),
		)
	case domain.ReportBuildFailure:
		l.logger.Error(Message(r),
			ports.String("project", r.Project.WatchRoot),
			ports.Int("exit_code", r.Build.ExitCode),
			ports.String("stdout", strings.TrimRight(r.Build.Stdout, "\n")),
			ports.String("stderr", strings.TrimRight(r.Build.Stderr, "\n")),
			ports.Err(r.Err),
		)
	case domain.ReportPublishError:
		l.logger.Error(Message(r),
			ports.String("project", r.Project.WatchRoot),
			ports.String("dest", r.Project.ArtifactDestination),
			ports.Err(r.Err),
		)
	case domain.ReportUnmatched, domain.ReportAmbiguous:
		l.logger.Warn(Message(r),
			ports.Strings("roots", r.Roots),
			ports.Err(r.Err),
		)
	default:
		l.logger.Warn(Message(r), ports.Err(r.Err))
	}
}

// Message renders the status line for r.
func Message(r domain.Report) string {
	switch r.Kind {
	case domain.ReportSuccess:
		if r.Publish.Skipped {
			return fmt.Sprintf("Compiled '%s'", r.Path)
		}
		return fmt.Sprintf("Ran build for '%s'", r.Path)
	case domain.ReportBuildFailure:
		return fmt.Sprintf("Build failed for '%s'", r.Path)
	case domain.ReportPublishError:
		return fmt.Sprintf("Build for '%s' succeeded, but publishing artifacts failed", r.Path)
	case domain.ReportUnmatched:
		return fmt.Sprintf("File '%s' changed, but was not found in any project directories", r.Path)
	case domain.ReportAmbiguous:
		return fmt.Sprintf("File '%s' changed, but matches more than one project directory", r.Path)
	default:
		return fmt.Sprintf("Unknown outcome for '%s'", r.Path)
	}
}

// Reporters fans a report out to every reporter in order.
type Reporters []ports.Reporter

// Report delivers r to each non-nil reporter.
func (rs Reporters) Report(r domain.Report) {
	for _, rep := range rs {
		if rep != nil {
			rep.Report(r)
		}
	}
}

// ReporterFunc adapts a function to ports.Reporter.
type ReporterFunc func(domain.Report)

// Report calls f(r).
func (f ReporterFunc) Report(r domain.Report) {
	f(r)
}
