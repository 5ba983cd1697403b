// Package logging provides a minimal logging interface and adapters for agentcrew.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that crews, agents and tools use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - Console for colored, human-readable run transcripts
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", os.Stderr)
//	c := crew.New(func(o *crew.Options) {
//		o.Logger = logger
//		o.Console = logging.NewConsole(os.Stdout)
//	})
package logging
