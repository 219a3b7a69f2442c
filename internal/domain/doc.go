// Package domain contains the core domain entities and value objects for buildship.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (processes, file system, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [Project]: A watch root and the destination its artifacts are copied to
//   - [ChangeEvent]: A single modified file reported by a change source
//   - [BuildResult]: Outcome of running a project's build command
//   - [PublishOutcome]: Outcome of copying a project's artifacts
//   - [Report]: The single operator-visible outcome of one change event
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
