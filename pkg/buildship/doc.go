// Package buildship provides an embeddable watch-build-publish loop.
//
// Buildship watches one or more project source trees. When a matching source
// file changes it works out which project owns the file, runs that project's
// build command in the project root, and on success copies the project's
// artifact directory to a configured destination. It can be used as a
// standalone CLI application or embedded as a library in other Go programs.
//
// # Basic Usage
//
//	cfg := buildship.Config{
//	    Projects: []buildship.ProjectConfig{
//	        {WatchRoot: "/src/engine", ArtifactDestination: "/srv/engine"},
//	    },
//	}
//
//	b, err := buildship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := b.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown signal ...
//
//	if err := b.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// # Configuration
//
// A [Config] needs at least one project with absolute WatchRoot and
// ArtifactDestination paths. Every other field has a default set by
// [Config.SetDefaults]: builds run "make" through /bin/sh, "*.cpp" files
// trigger them, and the "bin" directory under the watch root is published.
//
// The build command may contain {file} and {root} placeholders, replaced by
// the shell-quoted changed path and watch root. This allows per-file
// compilers:
//
//	cfg.Command = "mvc -B /builtins {file}"
//
// # Resolution
//
// A changed file belongs to the project with the longest watch root that
// contains it, compared by whole path segments. Two registered roots that
// are the same directory after cleaning make any file under them ambiguous;
// such changes are reported with [ErrAmbiguousConfig] and never built.
//
// # Coalescing
//
// A project never builds twice at once. Changes arriving while a project is
// building collapse into a single rebuild that starts when the current one
// finishes and names the most recent file.
//
// # Event Handling
//
// Implement [EventHandler] and pass it via [WithEventHandler] to receive
// lifecycle transitions, per-project status changes, and one [Report] per
// qualifying change. Embed [BaseEventHandler] to implement only some methods.
//
// # Lifecycle States
//
// An instance is in one of five states: [StateStopped], [StateStarting],
// [StateRunning], [StateStopping], or [StateCrashed]. Use [Buildship.Status]
// to query it.
package buildship
