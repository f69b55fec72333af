// Package logging provides concrete implementations of the taxlien.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: progress to stdout, verbose diagnostics and errors to stderr
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
