// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [ChangeSource]: Produces change events for files under watch roots
//   - [ProjectResolver]: Maps a changed path to the project that owns it
//   - [BuildRunner]: Runs a project's external build command
//   - [ArtifactPublisher]: Copies a project's build artifacts to its destination
//   - [Reporter]: Receives the single outcome report of each change event
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (os/exec, file system, fsnotify, zerolog).
package ports
