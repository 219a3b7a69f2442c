// Package log provides a logging abstraction for buildship components.
//
// This package defines a Logger interface that can be implemented by
// any logging library. A zerolog implementation and a no-op logger are
// provided.
//
// # Usage
//
// Use the console adapter the CLI uses:
//
//	logger, err := log.NewConsoleAdapter(os.Stderr, "info")
//
// Or wrap an existing zerolog.Logger:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Or use the no-op logger for testing:
//
//	logger := log.NewNoopLogger()
package log
